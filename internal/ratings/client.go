// Package ratings fetches aggregate book ratings from an external
// review-counts API. The service is treated as unreliable: every failure
// mode surfaces as an error and callers degrade to rendering without
// rating data.
package ratings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// BookRatings is the aggregate rating data for one ISBN.
type BookRatings struct {
	Count   int     `json:"ratings_count"`
	Average float64 `json:"average_rating"`
}

// Client queries the review-counts endpoint of the ratings service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a ratings client with a bounded request timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// ByISBN looks up the aggregate rating count and average for an ISBN.
func (c *Client) ByISBN(ctx context.Context, isbn string) (*BookRatings, error) {
	isbn = normalizeISBN(isbn)
	if isbn == "" {
		return nil, fmt.Errorf("invalid ISBN")
	}

	reqURL := fmt.Sprintf("%s/review_counts.json?key=%s&isbns=%s",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(isbn))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Shelfmark/1.0 (https://github.com/shelfmark/shelfmark)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch review counts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var payload reviewCountsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(payload.Books) == 0 {
		return nil, fmt.Errorf("no rating data for ISBN %s", isbn)
	}

	book := payload.Books[0]
	// The service reports the average as a decimal string
	average, err := strconv.ParseFloat(strings.TrimSpace(book.AverageRating), 64)
	if err != nil {
		return nil, fmt.Errorf("parse average rating %q: %w", book.AverageRating, err)
	}

	return &BookRatings{
		Count:   book.RatingsCount,
		Average: average,
	}, nil
}

// normalizeISBN removes hyphens and spaces from an ISBN.
func normalizeISBN(isbn string) string {
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")
	isbn = strings.TrimSpace(isbn)

	// ISBN-10 or ISBN-13
	if len(isbn) != 10 && len(isbn) != 13 {
		return ""
	}

	return isbn
}

// Ratings service response types (internal)

type reviewCountsResponse struct {
	Books []reviewCountsBook `json:"books"`
}

type reviewCountsBook struct {
	ISBN          string `json:"isbn"`
	RatingsCount  int    `json:"ratings_count"`
	AverageRating string `json:"average_rating"`
}
