package google

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifierRejectsMalformedToken(t *testing.T) {
	payload, err := NewVerifier().Verify(context.Background(), "not.a.token", "client-id")
	assert.Error(t, err)
	assert.Nil(t, payload)
}
