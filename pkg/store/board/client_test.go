package board

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/de-tools/finance-atlas/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Transport {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Settings{APIURL: srv.URL, APIKey: "secret"}, srv.Client())
	require.NoError(t, err)
	return c
}

func TestClient_ItemsPage(t *testing.T) {
	var captured graphQLRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))

		_, _ = io.WriteString(w, `{"data":{"boards":[{"items_page":{"cursor":"next","items":[
			{"id":"1","name":"Acme","column_values":[
				{"column":{"title":"Total Amount"},"text":"100"},
				{"column":{"title":"Notes"},"text":null}
			]}
		]}}]}}`)
	})

	page, err := c.ItemsPage(context.Background(), store.ItemsPageRequest{BoardID: "42", Limit: 10, Cursor: "abc"})
	require.NoError(t, err)

	assert.Equal(t, "next", page.Cursor)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Acme", page.Items[0].Name)
	require.Len(t, page.Items[0].ColumnValues, 2)
	require.NotNil(t, page.Items[0].ColumnValues[0].Text)
	assert.Equal(t, "100", *page.Items[0].ColumnValues[0].Text)
	assert.Nil(t, page.Items[0].ColumnValues[1].Text)

	assert.Equal(t, []any{"42"}, captured.Variables["boardIds"])
	assert.Equal(t, float64(10), captured.Variables["limit"])
	assert.Equal(t, "abc", captured.Variables["cursor"])
}

func TestClient_ItemsPageFirstPageSendsNullCursor(t *testing.T) {
	var captured graphQLRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		_, _ = io.WriteString(w, `{"data":{"boards":[{"items_page":{"cursor":null,"items":[]}}]}}`)
	})

	page, err := c.ItemsPage(context.Background(), store.ItemsPageRequest{BoardID: "42", Limit: 1})
	require.NoError(t, err)
	assert.Empty(t, page.Cursor)
	assert.Empty(t, page.Items)

	v, ok := captured.Variables["cursor"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestClient_ItemsPageErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantPayload bool
	}{
		{name: "graphql errors", status: http.StatusOK, body: `{"errors":[{"message":"bad"}]}`, wantPayload: true},
		{name: "error message", status: http.StatusOK, body: `{"error_message":"not authenticated"}`, wantPayload: true},
		{name: "no data", status: http.StatusOK, body: `{}`, wantPayload: true},
		{name: "no boards", status: http.StatusOK, body: `{"data":{"boards":[]}}`, wantPayload: true},
		{name: "malformed", status: http.StatusOK, body: `not json`, wantPayload: true},
		{name: "server error", status: http.StatusInternalServerError, body: `boom`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.ItemsPage(context.Background(), store.ItemsPageRequest{BoardID: "7", Limit: 5})
			require.Error(t, err)

			var fetchErr *domain.FetchError
			require.True(t, errors.As(err, &fetchErr))
			assert.Equal(t, "7", fetchErr.BoardID)
			if tt.wantPayload {
				assert.Equal(t, tt.body, fetchErr.Payload)
			} else {
				assert.Contains(t, err.Error(), "boom")
			}
		})
	}
}

func TestClient_ItemsPageRejectsBadLimit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := c.ItemsPage(context.Background(), store.ItemsPageRequest{BoardID: "1", Limit: MaxPageSize + 1})
	assert.Error(t, err)
	_, err = c.ItemsPage(context.Background(), store.ItemsPageRequest{BoardID: "1", Limit: 0})
	assert.Error(t, err)
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := NewClient(Settings{}, nil)
	assert.Error(t, err)
}
