package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/election/internal/adapters/auth"
	"github.com/vncsmyrnk/election/internal/adapters/metrics"
	"github.com/vncsmyrnk/election/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/election/internal/core/analysis"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/services"
)

const (
	testUsername = "admin"
	testPassword = "password123"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	log := zerolog.Nop()
	clock := services.SystemClock{}
	observer := metrics.NewPipelineMetrics()

	authenticator, err := auth.NewStaticAuthenticator(testUsername, testPassword)
	require.NoError(t, err)

	datasets := services.NewDatasetService(analysis.NewSynthesizer(analysis.DefaultSynthesisParams(), nil), observer, clock, log)
	authSvc := services.NewAuthService(authenticator, memory.NewSessionStore(), datasets, clock, services.AuthConfig{
		JWTSecret:   "router-test-secret-0123456789",
		DefaultSeed: 42,
	}, log)
	dashboardSvc := services.NewDashboardService(observer, clock)

	return NewHandler(
		NewAuthHandler(authSvc, clock, "", http.SameSiteLaxMode),
		NewUserHandler(clock),
		NewDashboardHandler(dashboardSvc),
		NewAnalysisHandler(dashboardSvc),
		RouterOptions{AllowedOrigins: []string{"*"}, Metrics: observer.Handler(), Logger: log},
	)
}

func doRequest(t *testing.T, h http.Handler, method, target string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func login(t *testing.T, h http.Handler, body map[string]any) loginResponse {
	t.Helper()
	rec := doRequest(t, h, http.MethodPost, "/auth/login", body, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[loginResponse](t, rec)
}

func adminLogin(t *testing.T, h http.Handler) string {
	t.Helper()
	return login(t, h, map[string]any{"username": testUsername, "password": testPassword}).AccessToken
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLogin(t *testing.T) {
	h := newTestRouter(t)

	t.Run("sets cookie and returns session", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/auth/login", map[string]any{
			"username": testUsername, "password": testPassword, "seed": 7,
		}, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		resp := decode[loginResponse](t, rec)
		require.NotNil(t, resp.Session)
		assert.Equal(t, int64(7), resp.Session.Seed)
		assert.Equal(t, testUsername, resp.Session.Username)
		assert.NotEmpty(t, resp.AccessToken)

		var cookie *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == accessTokenCookie {
				cookie = c
			}
		}
		require.NotNil(t, cookie, "access_token cookie should be set")
		assert.Equal(t, resp.AccessToken, cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Greater(t, cookie.MaxAge, 0)
	})

	t.Run("default seed", func(t *testing.T) {
		resp := login(t, h, map[string]any{"username": testUsername, "password": testPassword})
		assert.Equal(t, int64(42), resp.Session.Seed)
	})

	testCases := []struct {
		name string
		body any
		code int
	}{
		{"wrong password", map[string]any{"username": testUsername, "password": "wrong"}, http.StatusUnauthorized},
		{"unknown user", map[string]any{"username": "root", "password": testPassword}, http.StatusUnauthorized},
		{"missing username", map[string]any{"password": testPassword}, http.StatusBadRequest},
		{"missing password", map[string]any{"username": testUsername}, http.StatusBadRequest},
		{"negative seed", map[string]any{"username": testUsername, "password": testPassword, "seed": -1}, http.StatusBadRequest},
		{"malformed body", "not-an-object", http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/auth/login", tc.body, "")
			assert.Equal(t, tc.code, rec.Code, rec.Body.String())
		})
	}
}

func TestAPIRequiresSession(t *testing.T) {
	h := newTestRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/api/overview", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/overview", nil, "forged.token.value")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCookieAuthentication(t *testing.T) {
	h := newTestRouter(t)
	token := adminLogin(t, h)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	me := decode[map[string]any](t, rec)
	assert.Equal(t, testUsername, me["username"])
	assert.EqualValues(t, 500, me["records"])
	assert.Greater(t, me["expires_in_seconds"], 0.0)
}

func TestLogoutDestroysSession(t *testing.T) {
	h := newTestRouter(t)
	token := adminLogin(t, h)

	rec := doRequest(t, h, http.MethodPost, "/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == accessTokenCookie {
			assert.Less(t, c.MaxAge, 0)
		}
	}

	rec = doRequest(t, h, http.MethodGet, "/api/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// logging out twice is harmless
	rec = doRequest(t, h, http.MethodPost, "/auth/logout", nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSameSeedSameRecords(t *testing.T) {
	h := newTestRouter(t)
	body := map[string]any{"username": testUsername, "password": testPassword, "seed": 11}
	first := login(t, h, body).AccessToken
	second := login(t, h, body).AccessToken

	a := doRequest(t, h, http.MethodGet, "/api/records", nil, first)
	b := doRequest(t, h, http.MethodGet, "/api/records", nil, second)

	require.Equal(t, http.StatusOK, a.Code)
	assert.Equal(t, a.Body.String(), b.Body.String())
}

func TestDashboardViews(t *testing.T) {
	h := newTestRouter(t)
	token := adminLogin(t, h)

	t.Run("overview", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/overview", nil, token)
		require.Equal(t, http.StatusOK, rec.Code)

		view := decode[domain.Overview](t, rec)
		assert.Equal(t, 100, view.Constituencies)
		assert.Len(t, view.VotesByParty, 5)
		assert.Len(t, view.VotesByRegion, 5)
		assert.Positive(t, view.TotalVotes)
		assert.NotEmpty(t, view.LeadingParty)
	})

	t.Run("votes filtered", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/votes?region=North&party=Party+A", nil, token)
		require.Equal(t, http.StatusOK, rec.Code)

		view := decode[domain.VotingView](t, rec)
		require.Len(t, view.Records, 20)
		for _, r := range view.Records {
			assert.Equal(t, "North", r.Region)
			assert.Equal(t, "Party A", r.Party)
		}
	})

	t.Run("counting", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/counting", nil, token)
		require.Equal(t, http.StatusOK, rec.Code)

		view := decode[domain.CountingView](t, rec)
		assert.Equal(t, int64(500), view.Complete+view.InProgress+view.Pending)
	})

	t.Run("prediction", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/prediction", nil, token)
		require.Equal(t, http.StatusOK, rec.Code)

		prediction := decode[domain.Prediction](t, rec)
		require.Len(t, prediction.Parties, 5)
		var total float64
		for _, p := range prediction.Parties {
			total += p.WinProbability
		}
		assert.InDelta(t, 100, total, 0.025+1e-9)
		assert.Equal(t, prediction.Parties[0].Party, prediction.Winner.Party)
	})

	t.Run("unsupported model", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/prediction?model=linear", nil, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("vote share", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/vote-share", nil, token)
		require.Equal(t, http.StatusOK, rec.Code)

		view := decode[domain.VoteShareView](t, rec)
		var total float64
		for _, p := range view.Parties {
			total += p.SharePct
		}
		assert.InDelta(t, 100, total, 0.025+1e-9)
	})

	t.Run("regions", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/regions?region=North,South", nil, token)
		require.Equal(t, http.StatusOK, rec.Code)

		view := decode[domain.RegionalView](t, rec)
		assert.Equal(t, []string{"North", "South"}, view.Regions)
		assert.Len(t, view.RegionTotals, 2)
		assert.Len(t, view.Comparison.Rows, 2)
	})

	t.Run("unknown region", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/regions?region=Atlantis", nil, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAggregateEndpoint(t *testing.T) {
	h := newTestRouter(t)
	token := adminLogin(t, h)

	rec := doRequest(t, h, http.MethodGet, "/api/aggregate?group=party&column=votes&reduce=sum,mean", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rows := decode[[]domain.AggregateRow](t, rec)
	require.Len(t, rows, 5)
	for _, row := range rows {
		assert.Contains(t, row.Values, "votes_sum")
		assert.Contains(t, row.Values, "votes_mean")
	}

	repeated := doRequest(t, h, http.MethodGet, "/api/aggregate?group=party&column=votes&column=votes&reduce=sum,count", nil, token)
	require.Equal(t, http.StatusOK, repeated.Code, repeated.Body.String())
	repeatedRows := decode[[]domain.AggregateRow](t, repeated)
	require.Len(t, repeatedRows, 5)
	for i, row := range repeatedRows {
		assert.Equal(t, rows[i].Values["votes_sum"], row.Values["votes_sum"])
		assert.Equal(t, 100.0, row.Values["votes_count"])
	}

	testCases := []struct {
		name   string
		target string
	}{
		{"missing group", "/api/aggregate?column=votes&reduce=sum"},
		{"missing reduce", "/api/aggregate?group=party&column=votes"},
		{"unknown group", "/api/aggregate?group=colour&column=votes&reduce=sum"},
		{"unknown column", "/api/aggregate?group=party&column=turnout&reduce=sum"},
		{"unknown reduction", "/api/aggregate?group=party&column=votes&reduce=mode"},
		{"empty filter", "/api/aggregate?group=party&column=votes&reduce=sum&region=Atlantis"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodGet, tc.target, nil, token)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestPivotEndpoint(t *testing.T) {
	h := newTestRouter(t)
	token := adminLogin(t, h)

	rec := doRequest(t, h, http.MethodGet, "/api/pivot?index=region&columns=party&value=votes", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	table := decode[domain.PivotTable](t, rec)
	assert.Len(t, table.ColumnKeys, 5)
	require.Len(t, table.Rows, 5)
	for _, row := range table.Rows {
		assert.Len(t, row.Cells, 5)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/pivot?index=region&columns=party", nil, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/pivot?index=region&columns=party&value=votes&region=North&party=Party+B", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	filtered := decode[domain.PivotTable](t, rec)
	require.Len(t, filtered.Rows, 1)
	assert.Equal(t, "North", filtered.Rows[0].Key)
	assert.Equal(t, []string{"Party B"}, filtered.ColumnKeys)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t)
	token := adminLogin(t, h)
	doRequest(t, h, http.MethodGet, "/api/prediction", nil, token)

	rec := doRequest(t, h, http.MethodGet, "/metrics", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `operation="synthesize"`)
	assert.Contains(t, rec.Body.String(), `operation="score"`)
}
