// Package detector resolves the current section slug and language code. Pages
// declare both through meta tags; when those are missing the URL path pattern
// /{2-letter language}/{section-slug}/... is consulted, and language detection
// over the page text is the last resort.
package detector

import (
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/pemistahl/lingua-go"
)

const (
	sectionMetaName  = "reader:section"
	languageMetaName = "reader:lang"

	// minLanguageConfidence gates the content-based fallback; below it the
	// caller keeps its configured default.
	minLanguageConfidence = 0.6
)

var pathPattern = regexp.MustCompile(`^/([a-z]{2})/([a-z0-9][a-z0-9-]*)(?:/|$)`)

// SectionFromDoc reads the section slug from the page's meta tags.
func SectionFromDoc(doc *goquery.Document) string {
	return metaContent(doc, sectionMetaName)
}

// LanguageFromDoc reads the language code from the page's meta tags.
func LanguageFromDoc(doc *goquery.Document) string {
	return metaContent(doc, languageMetaName)
}

func metaContent(doc *goquery.Document, name string) string {
	var content string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if n, _ := s.Attr("name"); n == name {
			content, _ = s.Attr("content")
			return false
		}
		return true
	})
	return strings.TrimSpace(content)
}

// FromURLPath extracts the language code and section slug from a URL path of
// the form /{2-letter language}/{section-slug}/...
func FromURLPath(path string) (lang, slug string, ok bool) {
	m := pathPattern.FindStringSubmatch(path)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

var (
	linguaOnce     sync.Once
	linguaDetector lingua.LanguageDetector
)

// Languages the platform publishes in. Kept small so detector construction
// stays cheap.
var supportedLanguages = []lingua.Language{
	lingua.English,
	lingua.Spanish,
	lingua.French,
	lingua.German,
	lingua.Portuguese,
	lingua.Japanese,
	lingua.Korean,
	lingua.Chinese,
}

func languageDetector() lingua.LanguageDetector {
	linguaOnce.Do(func() {
		linguaDetector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(supportedLanguages...).
			Build()
	})
	return linguaDetector
}

// LanguageFromContent guesses the language of the given text. It returns the
// lowercase ISO 639-1 code and true only when the guess is confident enough
// to act on.
func LanguageFromContent(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	det := languageDetector()
	language, exists := det.DetectLanguageOf(text)
	if !exists {
		return "", false
	}

	confidence := det.ComputeLanguageConfidence(text, language)
	if confidence < minLanguageConfidence {
		return "", false
	}

	return strings.ToLower(language.IsoCode639_1().String()), true
}
