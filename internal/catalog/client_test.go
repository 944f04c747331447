package catalog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func newTestClient(t *testing.T, handler http.HandlerFunc, apiKey string) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(Config{
		BaseURL:           server.URL,
		APIKey:            apiKey,
		MaxResults:        10,
		RequestsPerSecond: 100,
		Burst:             100,
	}, slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
	t.Cleanup(client.Close)

	return client
}

func TestClient_Search(t *testing.T) {
	fixture := loadFixture(t, "volumes_response.json")

	tests := []struct {
		name       string
		response   []byte
		statusCode int
		wantCount  int
		wantErr    error
		wantStatus int
	}{
		{
			name:       "successful search",
			response:   fixture,
			statusCode: http.StatusOK,
			wantCount:  2,
		},
		{
			name:       "zero results",
			response:   []byte(`{"kind": "books#volumes", "totalItems": 0}`),
			statusCode: http.StatusOK,
			wantCount:  0,
		},
		{
			name:       "rate limited",
			statusCode: http.StatusTooManyRequests,
			wantErr:    ErrRateLimited,
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "server error",
			statusCode: http.StatusServiceUnavailable,
			wantErr:    ErrServer,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "forbidden",
			response:   []byte(`{"error": {"message": "API key not valid"}}`),
			statusCode: http.StatusForbidden,
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
				if tt.response != nil {
					_, _ = w.Write(tt.response)
				}
			}, "")

			books, err := client.Search(context.Background(), "le guin")

			if tt.wantStatus != 0 {
				require.Error(t, err)
				var upstream *UpstreamError
				require.ErrorAs(t, err, &upstream)
				assert.Equal(t, tt.wantStatus, upstream.Status)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				return
			}

			require.NoError(t, err)
			assert.NotNil(t, books)
			assert.Len(t, books, tt.wantCount)
		})
	}
}

func TestClient_SearchNormalizes(t *testing.T) {
	fixture := loadFixture(t, "volumes_response.json")
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(fixture)
	}, "")

	books, err := client.Search(context.Background(), "le guin")
	require.NoError(t, err)
	require.Len(t, books, 2)

	first := books[0]
	assert.Equal(t, "zyTCAlFPjgYC", first.ID)
	assert.Equal(t, "The Left Hand of Darkness", first.Title)
	assert.Equal(t, []string{"Ursula K. Le Guin"}, first.Authors)
	assert.Equal(t, 304, first.PageCount)
	assert.Equal(t, "1969", first.PublishedDate)
	assert.InDelta(t, 4.5, first.AverageRating, 0.001)
	assert.Contains(t, first.Description, "**Winter**")
	assert.NotContains(t, first.Description, "<p>")
	assert.Equal(t, "https://books.google.com/books/content?id=zyTCAlFPjgYC&printsec=frontcover&img=1&zoom=1", first.CoverImage)

	second := books[1]
	assert.Equal(t, "Untitled", second.Title)
	assert.Equal(t, []string{"Anonymous"}, second.Authors)
	assert.Zero(t, second.PageCount)
	assert.Empty(t, second.CoverImage)
}

func TestClient_SearchRequest(t *testing.T) {
	var gotPath, gotQuery, gotKey, gotMax, gotReqID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("key")
		gotMax = r.URL.Query().Get("maxResults")
		gotReqID = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte(`{"totalItems": 0}`))
	}, "secret")

	ctx := WithRequestID(context.Background(), "req-1")
	_, err := client.Search(ctx, "  dune  ")
	require.NoError(t, err)

	assert.Equal(t, "/volumes", gotPath)
	assert.Equal(t, "dune", gotQuery)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "10", gotMax)
	assert.Equal(t, "req-1", gotReqID)
}

func TestClient_EmptyQueryMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}, "")

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := client.Search(context.Background(), q)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	}
	assert.Zero(t, calls.Load())
}

func TestClient_MalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items": [`))
	}, "")

	_, err := client.Search(context.Background(), "dune")
	require.Error(t, err)

	var catalogErr *Error
	require.True(t, errors.As(err, &catalogErr))
	assert.Equal(t, "search", catalogErr.Op)
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := New(Config{BaseURL: url}, nil)
	defer client.Close()

	_, err := client.Search(context.Background(), "dune")
	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	c := New(Config{MaxResults: 100}, nil)
	defer c.Close()

	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, 40, c.maxResults)
}
