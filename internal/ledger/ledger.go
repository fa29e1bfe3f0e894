// Package ledger serves and reads account balances over HTTP.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/petrijr/caseflow/internal/accounts"
	"github.com/petrijr/caseflow/pkg/api"
)

// maxBody bounds the response body kept for decoding and error reports.
const maxBody = 64 << 10

// RequestError is the DataSourceException reported for every failed
// ledger call.
type RequestError struct {
	api.DataSourceErrorBase
}

var _ api.DataSourceException = (*RequestError)(nil)

func requestError(msg string, req api.RequestInfo, err error) *RequestError {
	return &RequestError{DataSourceErrorBase: api.DataSourceErrorBase{Msg: msg, Req: req, Err: err}}
}

// Client reads balances from a ledger server.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ accounts.Ledger = (*Client)(nil)

// NewClient creates a client for the ledger at baseURL. A nil httpClient
// uses a client with a 5 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Balance fetches the balance of accountID.
func (c *Client) Balance(ctx context.Context, accountID string) (accounts.Balance, error) {
	info := api.RequestInfo{
		Method:  http.MethodGet,
		URL:     c.baseURL + "/balances/" + url.PathEscape(accountID),
		Headers: http.Header{"Accept": []string{"application/json"}},
	}

	req, err := http.NewRequestWithContext(ctx, info.Method, info.URL, nil)
	if err != nil {
		return accounts.Balance{}, requestError("build request", info, err)
	}
	req.Header = info.Headers.Clone()

	resp, err := c.http.Do(req)
	if err != nil {
		return accounts.Balance{}, requestError("transport", info, err)
	}
	defer resp.Body.Close()

	info.StatusCode = resp.StatusCode
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return accounts.Balance{}, requestError("read body", info, err)
	}
	info.Body = body

	if resp.StatusCode != http.StatusOK {
		return accounts.Balance{}, requestError(fmt.Sprintf("unexpected status %d", resp.StatusCode), info, nil)
	}

	var bal accounts.Balance
	if err := json.Unmarshal(body, &bal); err != nil {
		return accounts.Balance{}, requestError("decode balance", info, err)
	}
	if bal.AccountID != accountID {
		return accounts.Balance{}, requestError("decode balance", info,
			fmt.Errorf("response is for account %q", bal.AccountID))
	}
	return bal, nil
}

// ErrUnknownAccount is returned by Static for accounts it has no balance for.
var ErrUnknownAccount = errors.New("unknown account")

// Static is an in-process ledger holding fixed balances.
type Static struct {
	mu       sync.RWMutex
	balances map[string]accounts.Balance
}

var _ accounts.Ledger = (*Static)(nil)

// NewStatic creates a ledger holding the given balances.
func NewStatic(balances ...accounts.Balance) *Static {
	s := &Static{balances: make(map[string]accounts.Balance, len(balances))}
	for _, b := range balances {
		s.balances[b.AccountID] = b
	}
	return s
}

// Set stores or replaces a balance.
func (s *Static) Set(b accounts.Balance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[b.AccountID] = b
}

// Balance returns the stored balance. Unknown accounts are reported as a
// RequestError with status 404, like the HTTP client would.
func (s *Static) Balance(ctx context.Context, accountID string) (accounts.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.balances[accountID]
	if !ok {
		info := api.RequestInfo{Method: http.MethodGet, URL: "static:" + accountID, StatusCode: http.StatusNotFound}
		return accounts.Balance{}, requestError("no balance", info, ErrUnknownAccount)
	}
	return b, nil
}

// Handler serves GET /balances/{id} from a ledger.
func Handler(l accounts.Ledger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /balances/{id}", func(w http.ResponseWriter, r *http.Request) {
		b, err := l.Balance(r.Context(), r.PathValue("id"))
		if err != nil {
			status := http.StatusBadGateway
			var ds api.DataSourceException
			if errors.As(err, &ds) && ds.Request().StatusCode == http.StatusNotFound {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(b)
	})
	return mux
}
