package ledger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/petrijr/caseflow/internal/accounts"
	"github.com/petrijr/caseflow/pkg/api"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", srv.Client())
}

func TestClient_Balance(t *testing.T) {
	t.Parallel()

	static := NewStatic(accounts.Balance{AccountID: "a1", Amount: 1250, Currency: "EUR"})
	c := newTestServer(t, Handler(static))

	b, err := c.Balance(context.Background(), "a1")
	require.NoError(t, err)
	require.Equal(t, accounts.Balance{AccountID: "a1", Amount: 1250, Currency: "EUR"}, b)
}

func TestClient_NotFound(t *testing.T) {
	t.Parallel()

	c := newTestServer(t, Handler(NewStatic()))

	_, err := c.Balance(context.Background(), "nobody")
	require.Error(t, err)

	var re *RequestError
	require.ErrorAs(t, err, &re)
	req := re.Request()
	require.Equal(t, http.StatusNotFound, req.StatusCode)
	require.Equal(t, http.MethodGet, req.Method)
	require.Contains(t, req.URL, "/balances/nobody")
	require.Contains(t, string(req.Body), "unknown account")
	require.Equal(t, api.KindDataSource, re.Kind())
}

func TestClient_ServerError(t *testing.T) {
	t.Parallel()

	c := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "ledger maintenance", http.StatusServiceUnavailable)
	}))

	_, err := c.Balance(context.Background(), "a1")
	var ds api.DataSourceException
	require.ErrorAs(t, err, &ds)
	require.Equal(t, http.StatusServiceUnavailable, ds.Request().StatusCode)
	require.Equal(t, "unexpected status 503", ds.Message())
	require.Nil(t, ds.Cause())
}

func TestClient_DecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"account_id":`, "decode balance"},
		{"wrong account", `{"account_id":"other","amount":1,"currency":"EUR"}`, `response is for account "other"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))

			_, err := c.Balance(context.Background(), "a1")
			var re *RequestError
			require.ErrorAs(t, err, &re)
			require.Equal(t, http.StatusOK, re.Request().StatusCode)
			require.NotNil(t, re.Cause())
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewClient(srv.URL, &http.Client{Timeout: time.Second})
	_, err := c.Balance(context.Background(), "a1")

	var re *RequestError
	require.ErrorAs(t, err, &re)
	require.Equal(t, "transport", re.Message())
	require.Zero(t, re.Request().StatusCode)
}

func TestStatic(t *testing.T) {
	t.Parallel()

	s := NewStatic()
	_, err := s.Balance(context.Background(), "a1")
	require.ErrorIs(t, err, ErrUnknownAccount)

	s.Set(accounts.Balance{AccountID: "a1", Amount: 5, Currency: "USD"})
	b, err := s.Balance(context.Background(), "a1")
	require.NoError(t, err)
	require.EqualValues(t, 5, b.Amount)
}
