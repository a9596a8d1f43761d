package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org/3"

	requestTimeout = 10 * time.Second
	detailCacheTTL = 24 * time.Hour

	// TMDB allows ~50 req/s; stay well under it.
	requestsPerSecond = 20
)

// Movie is one summary record from the popular-movies listing.
type Movie struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	ReleaseDate   string  `json:"release_date"`
	Popularity    float64 `json:"popularity"`
}

// Company is one production company entry inside a movie detail payload.
type Company struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	LogoPath      string `json:"logo_path"`
	OriginCountry string `json:"origin_country"`
}

// MovieDetail is the full detail payload for one movie.
type MovieDetail struct {
	ID                  int64     `json:"id"`
	Title               string    `json:"title"`
	OriginalTitle       string    `json:"original_title"`
	Overview            string    `json:"overview"`
	ReleaseDate         string    `json:"release_date"`
	Runtime             *int      `json:"runtime"`
	PosterPath          string    `json:"poster_path"`
	BackdropPath        string    `json:"backdrop_path"`
	VoteAverage         *float64  `json:"vote_average"`
	VoteCount           *int      `json:"vote_count"`
	Popularity          *float64  `json:"popularity"`
	OriginalLanguage    string    `json:"original_language"`
	Adult               bool      `json:"adult"`
	Status              string    `json:"status"`
	ProductionCompanies []Company `json:"production_companies"`
}

// Cache is an optional read-through byte cache for detail payloads.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// Client talks to the TMDB v3 API. One client is owned by one import run;
// callers must Close it when the run ends.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      Cache
	log        *logrus.Logger
}

// NewClient builds a client or fails with ErrMissingToken when no credential
// is configured.
func NewClient(baseURL, token string, cache Cache, log *logrus.Logger) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		cache:      cache,
		log:        log,
	}, nil
}

// Close releases the underlying HTTP connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

type popularPage struct {
	Page       int     `json:"page"`
	Results    []Movie `json:"results"`
	TotalPages int     `json:"total_pages"`
}

// FetchPopularMovies requests pages 1..pageCount of the popular listing and
// concatenates the results, page and within-page order preserved. Any page
// failure aborts the whole call: a gap in paging is unsafe to silently skip.
func (c *Client) FetchPopularMovies(ctx context.Context, pageCount int) ([]Movie, error) {
	var all []Movie
	for page := 1; page <= pageCount; page++ {
		c.log.WithField("page", page).Info("tmdb: fetching popular movies page")

		var data popularPage
		params := url.Values{"page": {fmt.Sprintf("%d", page)}}
		if err := c.getJSON(ctx, "/movie/popular", params, &data); err != nil {
			return nil, err
		}
		all = append(all, data.Results...)
	}
	return all, nil
}

// FetchMovieDetails requests the full detail record for one movie. A provider
// 404 is an absent result, not an error: it returns (nil, nil).
func (c *Client) FetchMovieDetails(ctx context.Context, tmdbID int64) (*MovieDetail, error) {
	endpoint := fmt.Sprintf("/movie/%d", tmdbID)
	cacheKey := fmt.Sprintf("tmdb:movie:%d", tmdbID)

	if c.cache != nil {
		if raw, ok := c.cache.Get(ctx, cacheKey); ok {
			detail := &MovieDetail{}
			if err := json.Unmarshal(raw, detail); err == nil {
				return detail, nil
			}
			c.log.WithField("key", cacheKey).Warn("tmdb: discarding unreadable cache entry")
		}
	}

	raw, err := c.get(ctx, endpoint, nil)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	detail := &MovieDetail{}
	if err := json.Unmarshal(raw, detail); err != nil {
		return nil, &UnavailableError{Endpoint: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}

	if c.cache != nil {
		c.cache.Set(ctx, cacheKey, raw, detailCacheTTL)
	}
	return detail, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, dst interface{}) error {
	raw, err := c.get(ctx, endpoint, params)
	// Only the detail endpoint treats a 404 as absence; everywhere else it is
	// a provider failure like any other non-2xx.
	if err == errNotFound {
		return &UnavailableError{Endpoint: endpoint, StatusCode: http.StatusNotFound}
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &UnavailableError{Endpoint: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &UnavailableError{Endpoint: endpoint, Err: err}
	}

	if params == nil {
		params = url.Values{}
	}
	if params.Get("language") == "" {
		params.Set("language", "en-US")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &UnavailableError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("endpoint", endpoint).Error("tmdb: request failed")
		return nil, &UnavailableError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.log.WithFields(logrus.Fields{
			"endpoint": endpoint,
			"status":   resp.StatusCode,
		}).Error("tmdb: unexpected status")
		return nil, &UnavailableError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UnavailableError{Endpoint: endpoint, Err: err}
	}
	return body, nil
}
