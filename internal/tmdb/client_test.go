package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestNewClientRequiresToken(t *testing.T) {
	_, err := NewClient("", "", nil, testLogger())
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestFetchPopularMoviesConcatenatesPages(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		page := r.URL.Query().Get("page")
		switch page {
		case "1":
			json.NewEncoder(w).Encode(popularPage{Page: 1, Results: []Movie{
				{ID: 1, Title: "First"}, {ID: 2, Title: "Second"},
			}})
		case "2":
			json.NewEncoder(w).Encode(popularPage{Page: 2, Results: []Movie{
				{ID: 3, Title: "Third"},
			}})
		default:
			t.Errorf("unexpected page %q", page)
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-token", nil, testLogger())
	require.NoError(t, err)
	defer client.Close()

	movies, err := client.FetchPopularMovies(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	require.Len(t, movies, 3)
	assert.Equal(t, int64(1), movies[0].ID)
	assert.Equal(t, int64(2), movies[1].ID)
	assert.Equal(t, int64(3), movies[2].ID)
}

func TestFetchPopularMoviesAbortsOnPageFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(popularPage{Page: 1, Results: []Movie{{ID: 1}}})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-token", nil, testLogger())
	require.NoError(t, err)
	defer client.Close()

	movies, err := client.FetchPopularMovies(context.Background(), 3)
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
	assert.Nil(t, movies, "a paging gap must not return a partial list")
}

func TestFetchPopularMoviesNotFoundIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-token", nil, testLogger())
	require.NoError(t, err)
	defer client.Close()

	movies, err := client.FetchPopularMovies(context.Background(), 1)
	var ue *UnavailableError
	require.ErrorAs(t, err, &ue, "a 404 on the listing is a provider failure, not absence")
	assert.Equal(t, http.StatusNotFound, ue.StatusCode)
	assert.Nil(t, movies)
}

func TestFetchMovieDetailsNotFoundIsAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-token", nil, testLogger())
	require.NoError(t, err)
	defer client.Close()

	detail, err := client.FetchMovieDetails(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, detail)
}

func TestFetchMovieDetailsServerErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-token", nil, testLogger())
	require.NoError(t, err)
	defer client.Close()

	_, err = client.FetchMovieDetails(context.Background(), 42)
	var ue *UnavailableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusServiceUnavailable, ue.StatusCode)
	assert.Equal(t, "/movie/42", ue.Endpoint)
}

func TestFetchMovieDetailsParsesCompanies(t *testing.T) {
	runtime := 148
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(MovieDetail{
			ID:      27205,
			Title:   "Inception",
			Runtime: &runtime,
			ProductionCompanies: []Company{
				{ID: 923, Name: "Legendary Pictures"},
			},
		})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-token", nil, testLogger())
	require.NoError(t, err)
	defer client.Close()

	detail, err := client.FetchMovieDetails(context.Background(), 27205)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "Inception", detail.Title)
	require.Len(t, detail.ProductionCompanies, 1)
	assert.Equal(t, int64(923), detail.ProductionCompanies[0].ID)
	assert.Equal(t, "Legendary Pictures", detail.ProductionCompanies[0].Name)
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func TestFetchMovieDetailsReadsThroughCache(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"id": 27205, "title": "Inception"}`)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-token", newMemoryCache(), testLogger())
	require.NoError(t, err)
	defer client.Close()

	for i := 0; i < 3; i++ {
		detail, err := client.FetchMovieDetails(context.Background(), 27205)
		require.NoError(t, err)
		require.NotNil(t, detail)
		assert.Equal(t, "Inception", detail.Title)
	}
	assert.Equal(t, 1, hits, "second and third fetch should come from cache")
}
