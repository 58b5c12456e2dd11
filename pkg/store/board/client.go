package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/de-tools/finance-atlas/pkg/models/store"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const (
	MaxPageSize   = 500
	DefaultAPIURL = "https://api.monday.com/v2"

	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 16 << 20
)

// itemsPageQuery binds board id, page size and cursor as GraphQL variables.
const itemsPageQuery = `query GetBoardItems($boardIds: [ID!], $limit: Int!, $cursor: String) {
  boards(ids: $boardIds) {
    items_page(limit: $limit, cursor: $cursor) {
      cursor
      items {
        id
        name
        column_values {
          column {
            title
          }
          text
        }
      }
    }
  }
}`

// Transport fetches a single page of board items.
type Transport interface {
	ItemsPage(ctx context.Context, req store.ItemsPageRequest) (*store.ItemsPage, error)
}

type Settings struct {
	APIURL string
	APIKey string
	// MinInterval spaces consecutive requests; zero disables throttling.
	MinInterval time.Duration
	Timeout     time.Duration
}

type client struct {
	settings Settings
	http     *http.Client
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker
}

func NewClient(settings Settings, httpClient *http.Client) (Transport, error) {
	if settings.APIURL == "" {
		return nil, fmt.Errorf("board api url is required")
	}
	if settings.Timeout == 0 {
		settings.Timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: settings.Timeout}
	}

	limit := rate.Inf
	if settings.MinInterval > 0 {
		limit = rate.Every(settings.MinInterval)
	}

	return &client{
		settings: settings,
		http:     httpClient,
		limiter:  rate.NewLimiter(limit, 1),
		breaker:  newBreaker("board-api"),
	}, nil
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	st := gobreaker.Settings{Name: name}
	st.Interval = 60 * time.Second
	st.Timeout = 30 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= 3
	}
	return gobreaker.NewCircuitBreaker(st)
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data *struct {
		Boards []struct {
			ItemsPage *struct {
				Cursor *string           `json:"cursor"`
				Items  []store.BoardItem `json:"items"`
			} `json:"items_page"`
		} `json:"boards"`
	} `json:"data"`
	Errors       json.RawMessage `json:"errors"`
	ErrorMessage string          `json:"error_message"`
}

func (c *client) ItemsPage(ctx context.Context, req store.ItemsPageRequest) (*store.ItemsPage, error) {
	logger := zerolog.Ctx(ctx)

	if req.Limit < 1 || req.Limit > MaxPageSize {
		return nil, fmt.Errorf("page limit %d out of range 1..%d", req.Limit, MaxPageSize)
	}

	body, err := json.Marshal(graphQLRequest{
		Query:     itemsPageQuery,
		Variables: pageVariables(req),
	})
	if err != nil {
		return nil, fmt.Errorf("encode board query: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &domain.FetchError{BoardID: req.BoardID, Err: err}
	}

	raw, err := c.breaker.Execute(func() (interface{}, error) {
		return c.post(ctx, body)
	})
	if err != nil {
		return nil, &domain.FetchError{BoardID: req.BoardID, Err: err}
	}
	payload := raw.([]byte)

	var resp graphQLResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &domain.FetchError{BoardID: req.BoardID, Payload: string(payload), Err: fmt.Errorf("malformed response: %w", err)}
	}
	if hasErrors(resp) || resp.Data == nil || len(resp.Data.Boards) == 0 || resp.Data.Boards[0].ItemsPage == nil {
		return nil, &domain.FetchError{BoardID: req.BoardID, Payload: string(payload)}
	}

	itemsPage := resp.Data.Boards[0].ItemsPage
	page := &store.ItemsPage{Items: itemsPage.Items}
	if itemsPage.Cursor != nil {
		page.Cursor = *itemsPage.Cursor
	}

	logger.Debug().
		Str("board", req.BoardID).
		Int("items", len(page.Items)).
		Bool("has_more", page.Cursor != "").
		Msg("fetched board page")

	return page, nil
}

// post returns the response body of a 2xx reply. Non-2xx replies are errors for the breaker.
func (c *client) post(ctx context.Context, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.settings.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.settings.APIKey != "" {
		httpReq.Header.Set("Authorization", c.settings.APIKey)
	}

	res, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read board response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("board api returned %s: %s", res.Status, strings.TrimSpace(string(payload)))
	}
	return payload, nil
}

func pageVariables(req store.ItemsPageRequest) map[string]any {
	vars := map[string]any{
		"boardIds": []string{req.BoardID},
		"limit":    req.Limit,
		"cursor":   nil,
	}
	if req.Cursor != "" {
		vars["cursor"] = req.Cursor
	}
	return vars
}

func hasErrors(resp graphQLResponse) bool {
	if resp.ErrorMessage != "" {
		return true
	}
	errs := bytes.TrimSpace(resp.Errors)
	return len(errs) > 0 && !bytes.Equal(errs, []byte("null")) && !bytes.Equal(errs, []byte("[]"))
}
