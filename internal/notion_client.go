package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultAPIURL        = "https://api.notion.com/v1"
	DefaultNotionVersion = "2022-06-28"

	queryPageSize = 100

	// same as the official SDKs
	defaultRequestTimeout = 60 * time.Second
)

// APIError is a non-2xx response from the Notion API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("notion api: %d %s: %s", e.Status, e.Code, e.Message)
}

// QueryResponse is one page of database query results.
type QueryResponse struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

type queryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size"`
}

type NotionClient struct {
	BaseURL string
	Token   string
	Version string
	HTTP    *http.Client

	log zerolog.Logger
}

func NewNotionClient(cfg *Config, log zerolog.Logger) (*NotionClient, error) {
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}

	baseURL := cfg.APIURL
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	version := cfg.NotionVersion
	if version == "" {
		version = DefaultNotionVersion
	}

	log.Info().Msg("Notion client initialized successfully")

	return &NotionClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Token:   cfg.Token,
		Version: version,
		HTTP:    &http.Client{Timeout: defaultRequestTimeout},
		log:     log,
	}, nil
}

// QueryDatabase requests a single page of results, starting at cursor when
// it is not empty.
func (c *NotionClient) QueryDatabase(ctx context.Context, databaseID string, cursor string) (*QueryResponse, error) {
	body, err := json.Marshal(queryRequest{StartCursor: cursor, PageSize: queryPageSize})
	if err != nil {
		return nil, err
	}

	endpoint := c.BaseURL + "/databases/" + url.PathEscape(databaseID) + "/query"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Notion-Version", c.Version)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Status == 0 {
			apiErr = &APIError{Status: res.StatusCode}
		}
		return nil, apiErr
	}

	var page QueryResponse
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("error parsing the response body: %w", err)
	}
	return &page, nil
}

// FetchPages follows the cursor chain until the service reports no more
// pages. Any failed request fails the whole fetch.
func (c *NotionClient) FetchPages(ctx context.Context, databaseID string) ([]Page, error) {
	c.log.Info().Msgf("Fetching pages from database: %s", databaseID)

	pages := []Page{}
	cursor := ""
	for {
		res, err := c.QueryDatabase(ctx, databaseID, cursor)
		if err != nil {
			c.log.Error().Msgf("Error fetching database pages: %v", err)
			return nil, err
		}
		pages = append(pages, res.Results...)

		if !res.HasMore {
			break
		}
		if res.NextCursor == "" {
			err := errors.New("error fetching database pages: has_more without next_cursor")
			c.log.Error().Msg(err.Error())
			return nil, err
		}
		cursor = res.NextCursor
	}

	c.log.Info().Msgf("Retrieved %s", pluralize(len(pages), "page"))
	return pages, nil
}
