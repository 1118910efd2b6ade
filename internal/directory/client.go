package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dukerupert/userbook/internal/model"
)

const (
	// PageSize is the number of records requested per page.
	PageSize = 20

	DefaultEndpoint = "https://randomuser.me/api/"
	defaultTimeout  = 10 * time.Second
)

// Fetcher retrieves one page of directory entries. Page numbers start at 1.
type Fetcher interface {
	FetchPage(ctx context.Context, page, size int) ([]model.DirectoryEntry, error)
}

// ClientConfig configures the HTTP page fetcher.
type ClientConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// Client fetches directory pages from a randomuser.me compatible endpoint.
type Client struct {
	http     *resty.Client
	endpoint string
}

// NewClient creates a page fetcher for the given configuration.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	c := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "userbook")
	return &Client{http: c, endpoint: cfg.Endpoint}
}

type apiUser struct {
	Name struct {
		First string `json:"first"`
		Last  string `json:"last"`
	} `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Medium string `json:"medium"`
	} `json:"picture"`
}

type apiResponse struct {
	Results []apiUser `json:"results"`
	Error   string    `json:"error"`
}

var errMissingResults = errors.New("response has no results field")

// FetchPage requests one page. A non-200 status, an error body or a body
// without a results array are all reported as errors.
func (c *Client) FetchPage(ctx context.Context, page, size int) ([]model.DirectoryEntry, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"page":    strconv.Itoa(page),
			"results": strconv.Itoa(size),
		}).
		Get(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("directory request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("directory returned status %d", resp.StatusCode())
	}

	return decodePage(resp.Body())
}

func decodePage(body []byte) ([]model.DirectoryEntry, error) {
	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("decode directory response: %w", err)
	}
	if apiResp.Error != "" {
		return nil, fmt.Errorf("directory error: %s", apiResp.Error)
	}
	if apiResp.Results == nil {
		return nil, errMissingResults
	}

	entries := make([]model.DirectoryEntry, 0, len(apiResp.Results))
	for _, u := range apiResp.Results {
		entries = append(entries, model.DirectoryEntry{
			FirstName: u.Name.First,
			LastName:  u.Name.Last,
			Email:     u.Email,
			AvatarURL: u.Picture.Medium,
		})
	}
	return entries, nil
}
