// Package extractor pulls the pieces the navigator splices between pages:
// the main content region of a full document and the book cards of a grid
// fragment.
package extractor

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/fyangcodes/webnovel-reader/models"
)

// DefaultCardSelector matches the grid's book-card elements.
const DefaultCardSelector = ".book-card, [data-book-card]"

// MainRegion returns the markup of the document's main content area. It tries
// a <main> element, then the #main-content container, then falls back to
// readability extraction over the whole document.
func MainRegion(doc *goquery.Document, pageURL string) (string, error) {
	if sel := doc.Find("main").First(); sel.Length() > 0 {
		html, err := goquery.OuterHtml(sel)
		if err != nil {
			return "", fmt.Errorf("failed to render main element: %w", err)
		}
		return html, nil
	}

	if sel := doc.Find("#main-content").First(); sel.Length() > 0 {
		html, err := goquery.OuterHtml(sel)
		if err != nil {
			return "", fmt.Errorf("failed to render main container: %w", err)
		}
		return html, nil
	}

	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid page URL: %w", err)
	}

	html, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("failed to render document: %w", err)
	}

	readabilityParser := readability.NewParser()
	article, err := readabilityParser.Parse(strings.NewReader(html), parsedURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract main content: %w", err)
	}
	if strings.TrimSpace(article.Content) == "" {
		return "", fmt.Errorf("no main content region in %s", pageURL)
	}

	return article.Content, nil
}

// BookCards extracts all card elements matching selector, in document order.
// Positions are 1-based within the grid.
func BookCards(doc *goquery.Document, selector string) []models.BookCard {
	if selector == "" {
		selector = DefaultCardSelector
	}

	var cards []models.BookCard
	doc.Find(selector).Each(func(i int, s *goquery.Selection) {
		card := models.BookCard{Position: i + 1}

		if title, ok := s.Attr("data-title"); ok {
			card.Title = strings.TrimSpace(title)
		} else if t := s.Find(".book-title, h3, h2").First(); t.Length() > 0 {
			card.Title = normalizeText(t.Text())
		} else {
			card.Title = normalizeText(s.Text())
		}

		if href, ok := s.Find("a").First().Attr("href"); ok {
			card.Href = href
		} else if href, ok := s.Attr("href"); ok {
			card.Href = href
		}

		cards = append(cards, card)
	})

	return cards
}

// normalizeText collapses runs of whitespace into single spaces.
func normalizeText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
