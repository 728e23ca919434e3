// Package fetcher retrieves pages from the reading platform as parsed
// goquery documents.
package fetcher

import (
	"context"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"
)

type Fetcher struct {
	client *http.Client
}

func New() *Fetcher {
	return &Fetcher{
		client: &http.Client{},
	}
}

// Result carries a fetched document plus the response metadata the caller
// needs for history updates.
type Result struct {
	Doc        *goquery.Document
	StatusCode int
	// FinalURL is the URL after redirects.
	FinalURL string
}

// GetDocument fetches url and parses the response body.
func (f *Fetcher) GetDocument(ctx context.Context, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch HTML, status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return &Result{Doc: doc, StatusCode: resp.StatusCode, FinalURL: resp.Request.URL.String()}, nil
}
