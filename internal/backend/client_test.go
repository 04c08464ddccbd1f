package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vijay-prabhu/gcgcards/internal/filter"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeBackend serves body for every request and records the last query
func fakeBackend(t *testing.T, status int, body string) (*httptest.Server, *url.Values) {
	t.Helper()
	var last url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = r.URL.Query()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func TestClient_NotConfigured(t *testing.T) {
	c := New("   ")
	assert.False(t, c.Configured())

	_, err := c.QueryURL(filter.Criteria{}, true)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = c.Query(context.Background(), filter.Criteria{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = c.SetWeightedAdjustment(context.Background(), "GD01-001", "1")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClient_QueryURL(t *testing.T) {
	c := New("https://script.example.com/macros/s/abc/exec")

	t.Run("default limit and action", func(t *testing.T) {
		raw, err := c.QueryURL(filter.Criteria{Cost: "3"}, false)
		require.NoError(t, err)

		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "/macros/s/abc/exec", u.Path)
		assert.Equal(t, url.Values{"action": {"query"}, "limit": {"1000"}}, u.Query())
	})

	t.Run("criteria added verbatim", func(t *testing.T) {
		raw, err := c.QueryURL(filter.Criteria{SetCode: " GD01", Color: "藍", MinScore: "x", Limit: "50"}, true)
		require.NoError(t, err)

		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, url.Values{
			"action":   {"query"},
			"limit":    {"50"},
			"setCode":  {" GD01"},
			"color":    {"藍"},
			"minScore": {"x"},
		}, u.Query())
	})

	t.Run("existing query string kept", func(t *testing.T) {
		raw, err := New("https://example.com/exec?key=1").QueryURL(filter.Criteria{}, true)
		require.NoError(t, err)

		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "1", u.Query().Get("key"))
		assert.Equal(t, "query", u.Query().Get("action"))
	})
}

func TestClient_Query(t *testing.T) {
	srv, last := fakeBackend(t, http.StatusOK,
		`{"status":"ok","data":[{"CardNo":"GD01-001","Cost":3,"AP":5,"HP":"4","Name":"Gundam"}]}`)

	c := New(srv.URL)
	r, err := c.Query(context.Background(), filter.Criteria{CardType: "UNIT"})
	require.NoError(t, err)

	s, ok := r.(Success)
	require.True(t, ok, "expected Success, got %T", r)
	require.Len(t, s.Cards, 1)
	assert.Equal(t, "GD01-001", s.Cards[0].CardNo.String())
	assert.Equal(t, "3", s.Cards[0].Cost.String())
	assert.Equal(t, "UNIT", last.Get("cardType"))
	assert.Equal(t, "query", last.Get("action"))
	assert.NoError(t, Err(ActionQuery, r))
}

func TestClient_QueryFailures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		message   string
		malformed bool
	}{
		{"backend error", http.StatusOK, `{"status":"error","message":"找不到工作表"}`, "找不到工作表", false},
		{"missing message", http.StatusOK, `{"status":"error"}`, "", false},
		{"missing status", http.StatusOK, `{"data":[]}`, "", false},
		{"html error page", http.StatusOK, `<html>quota exceeded</html>`, MsgUnparseable, true},
		{"server error with json", http.StatusInternalServerError, `{"status":"error","message":"boom"}`, "boom", false},
		{"empty body", http.StatusBadGateway, ``, MsgUnparseable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := fakeBackend(t, tt.status, tt.body)

			r, err := New(srv.URL).Query(context.Background(), filter.Criteria{})
			require.NoError(t, err)

			f, ok := r.(Failure)
			require.True(t, ok, "expected Failure, got %T", r)
			assert.Equal(t, tt.message, f.Message)
			assert.Equal(t, tt.malformed, f.Malformed)

			err = Err(ActionQuery, r)
			if tt.malformed {
				var pe *ProtocolError
				assert.ErrorAs(t, err, &pe)
			} else {
				var be *BackendError
				require.ErrorAs(t, err, &be)
				assert.Equal(t, tt.message, be.Message)
			}
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := New(addr).Query(context.Background(), filter.Criteria{})
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, ActionQuery, te.Action)
	assert.NotEmpty(t, te.Cause())
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, WithTimeout(20*time.Millisecond)).Query(context.Background(), filter.Criteria{})
	var te *TransportError
	assert.ErrorAs(t, err, &te)
}

func TestClient_SetWeightedAdjustment(t *testing.T) {
	srv, last := fakeBackend(t, http.StatusOK, `{"status":"ok"}`)

	r, err := New(srv.URL).SetWeightedAdjustment(context.Background(), "GD01-001", " 1.5abc")
	require.NoError(t, err)
	s, ok := r.(Success)
	require.True(t, ok, "expected Success, got %T", r)
	assert.Empty(t, s.Cards)

	assert.Equal(t, "setWeightedAdjustment", last.Get("action"))
	assert.Equal(t, "GD01-001", last.Get("cardNo"))
	assert.Equal(t, " 1.5abc", last.Get("adjustment"), "adjustment is sent unvalidated")
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	srv, _ := fakeBackend(t, http.StatusOK, `{"status":"ok","data":[]}`)
	c := New(srv.URL, WithRateLimit(0.001))

	_, err := c.Query(context.Background(), filter.Criteria{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = c.Query(ctx, filter.Criteria{})
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.False(t, errors.Is(err, ErrNotConfigured))
}
