package services

import (
	"context"
	"sync"
	"time"

	"github.com/vncsmyrnk/election/internal/core/domain"
)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock() *fixedClock {
	return &fixedClock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingObserver struct {
	mu         sync.Mutex
	operations []string
	failures   int
}

func (o *recordingObserver) ObserveOperation(operation string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.operations = append(o.operations, operation)
	if err != nil {
		o.failures++
	}
}

func (o *recordingObserver) count(operation string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, op := range o.operations {
		if op == operation {
			n++
		}
	}
	return n
}

type stubAuthenticator struct {
	username string
	password string
	err      error
}

func (a *stubAuthenticator) Verify(_ context.Context, creds domain.Credentials) (bool, error) {
	if a.err != nil {
		return false, a.err
	}
	return creds.Username == a.username && creds.Password == a.password, nil
}
