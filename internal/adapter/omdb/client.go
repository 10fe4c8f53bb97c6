package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"moviequiz/internal/config"
	"moviequiz/internal/domain"
	"moviequiz/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Client implements domain.MetadataProvider against the OMDb HTTP API.
// Concurrent lookups for the same title are collapsed into one request.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	group      singleflight.Group
}

// NewClient creates an OMDb metadata provider.
func NewClient(cfg config.OMDBConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OMDb API key cannot be empty")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// omdbResponse is the fixed OMDb wire schema. Response is the string "False"
// for unknown titles, with the reason in Error.
type omdbResponse struct {
	Title    string `json:"Title"`
	Year     string `json:"Year"`
	Genre    string `json:"Genre"`
	Director string `json:"Director"`
	Actors   string `json:"Actors"`
	Plot     string `json:"Plot"`
	Poster   string `json:"Poster"`
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// Lookup implements domain.MetadataProvider. An unknown title returns
// domain.ErrMovieNotFound, which is a normal outcome, not a failure.
func (c *Client) Lookup(ctx context.Context, title string) (*domain.MetadataRecord, error) {
	key := strings.ToLower(strings.TrimSpace(title))
	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		return c.fetch(ctx, title)
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.MetadataRecord), nil
}

func (c *Client) fetch(ctx context.Context, title string) (*domain.MetadataRecord, error) {
	l := logger.Get()

	query := url.Values{}
	query.Set("t", title)
	query.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, domain.NewInternalError("Failed to build OMDb request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.Error("OMDb request failed", zap.Error(err), zap.String("title", title))
		return nil, domain.NewUpstreamUnavailableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.Error("OMDb returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.String("title", title))
		return nil, domain.NewUpstreamUnavailableError(fmt.Errorf("omdb status %d", resp.StatusCode))
	}

	var body omdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, domain.NewUpstreamMalformedError("OMDb response is not valid JSON")
	}

	if body.Response == "False" {
		l.Info("Movie not found in OMDb",
			zap.String("title", title),
			zap.String("reason", body.Error))
		return nil, domain.ErrMovieNotFound
	}

	poster := body.Poster
	if poster == "N/A" {
		poster = ""
	}

	return &domain.MetadataRecord{
		Title:     body.Title,
		Year:      body.Year,
		Genre:     body.Genre,
		Director:  body.Director,
		Actors:    body.Actors,
		Plot:      body.Plot,
		PosterURL: poster,
	}, nil
}

var _ domain.MetadataProvider = (*Client)(nil)
