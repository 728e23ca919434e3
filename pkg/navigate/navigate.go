// Package navigate drives in-page section switching and infinite scroll for
// the book grid. The rendering target stays behind the ContentHost interface;
// the navigator owns the section/pagination state and the analytics emission
// around it.
package navigate

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/fyangcodes/webnovel-reader/models"
	"github.com/fyangcodes/webnovel-reader/pkg/analytics"
	"github.com/fyangcodes/webnovel-reader/pkg/detector"
	"github.com/fyangcodes/webnovel-reader/pkg/extractor"
	"github.com/fyangcodes/webnovel-reader/pkg/fetcher"
	"github.com/fyangcodes/webnovel-reader/pkg/schedule"
)

const (
	// ScrollThreshold is how close, in pixels, the viewport bottom must be to
	// the document bottom before the next page loads.
	ScrollThreshold = 800

	// ScrollDebounce spaces out scroll-driven load checks.
	ScrollDebounce = 200 * time.Millisecond

	// minDwellReport matches the reading tracker's bounce suppression.
	minDwellReport = 3 * time.Second
)

// ContentHost is the rendering target. The navigator never touches markup
// directly; it hands the host regions to splice and cards to append.
type ContentHost interface {
	// ReplaceMain swaps the current main-content region's markup.
	ReplaceMain(html string)

	// AppendCards adds freshly loaded cards to the existing grid.
	AppendCards(cards []models.BookCard)

	// ShowEndMarker renders the end-of-list marker once pagination is done.
	ShowEndMarker()

	// SetButtons restyles the section-selector buttons.
	SetButtons(buttons []models.ButtonState)

	// Navigate performs a full page navigation; the fallback when an in-page
	// swap fails.
	Navigate(url string)
}

// Config wires a Navigator.
type Config struct {
	Fetcher *fetcher.Fetcher
	Host    ContentHost
	Sink    analytics.Sink
	Clock   schedule.Clock

	// CurrentURL is the page the navigator starts on.
	CurrentURL string

	// Section and Language seed the state when the page supplies them; empty
	// values are derived from CurrentURL's path.
	Section  string
	Language string

	// CardSelector overrides extractor.DefaultCardSelector.
	CardSelector string

	// Buttons is the initial section-selector button set.
	Buttons []models.ButtonState

	ScrollDebounce time.Duration
}

// Navigator is the per-page navigation state machine. Its methods are meant
// to be called from a single event goroutine; the loading flag is an advisory
// guard, not a lock, mirroring the page's event-loop model.
type Navigator struct {
	fetcher      *fetcher.Fetcher
	host         ContentHost
	sink         analytics.Sink
	clock        schedule.Clock
	cardSelector string

	section    string
	language   string
	currentURL string
	loading    bool
	hasMore    bool
	page       int
	generation int
	history    []string
	buttons    []models.ButtonState

	sectionStart time.Time

	scrollCall func()
	scrollStop func()
	lastScroll scrollMetrics
}

type scrollMetrics struct {
	scrollTop, viewport, docHeight int
}

func New(cfg Config) *Navigator {
	n := &Navigator{
		fetcher:      cfg.Fetcher,
		host:         cfg.Host,
		sink:         cfg.Sink,
		clock:        cfg.Clock,
		cardSelector: cfg.CardSelector,
		section:      cfg.Section,
		language:     cfg.Language,
		currentURL:   cfg.CurrentURL,
		hasMore:      true,
		page:         1,
		buttons:      cfg.Buttons,
	}
	if n.fetcher == nil {
		n.fetcher = fetcher.New()
	}
	if n.clock == nil {
		n.clock = schedule.SystemClock{}
	}
	if n.cardSelector == "" {
		n.cardSelector = extractor.DefaultCardSelector
	}

	if n.section == "" || n.language == "" {
		if u, err := url.Parse(cfg.CurrentURL); err == nil {
			if lang, slug, ok := detector.FromURLPath(u.Path); ok {
				if n.language == "" {
					n.language = lang
				}
				if n.section == "" {
					n.section = slug
				}
			}
		}
	}

	n.sectionStart = n.clock.Now()

	debounce := cfg.ScrollDebounce
	if debounce <= 0 {
		debounce = ScrollDebounce
	}
	n.scrollCall, n.scrollStop = schedule.Debounce(debounce, func() {
		m := n.lastScroll
		if NearBottom(m.scrollTop, m.viewport, m.docHeight) {
			n.LoadNextPage(context.Background())
		}
	})

	n.emit("page_view", map[string]any{"section": n.section, "language": n.language})
	return n
}

// Section returns the current section slug.
func (n *Navigator) Section() string { return n.section }

// Language returns the current language code.
func (n *Navigator) Language() string { return n.language }

// Page returns the current page number.
func (n *Navigator) Page() int { return n.page }

// HasMore reports whether further grid pages are believed to exist.
func (n *Navigator) HasMore() bool { return n.hasMore }

// History returns the visited section slugs, oldest first.
func (n *Navigator) History() []string { return n.history }

// Buttons returns the current section-selector button states.
func (n *Navigator) Buttons() []models.ButtonState { return n.buttons }

// NearBottom reports whether the viewport bottom is within ScrollThreshold of
// the document bottom.
func NearBottom(scrollTop, viewport, docHeight int) bool {
	return docHeight-(scrollTop+viewport) <= ScrollThreshold
}

// OnScroll records the latest scroll metrics and schedules a debounced
// load check.
func (n *Navigator) OnScroll(scrollTop, viewport, docHeight int) {
	n.lastScroll = scrollMetrics{scrollTop, viewport, docHeight}
	n.scrollCall()
}

// LoadNextPage fetches the next grid page and appends its cards. A response
// with zero cards ends pagination for the session; a fetch failure rolls the
// page counter back and also ends pagination. Reentrant calls while a load is
// in flight are dropped by the advisory loading flag.
func (n *Navigator) LoadNextPage(ctx context.Context) {
	if n.loading || !n.hasMore {
		return
	}
	n.loading = true
	gen := n.generation

	n.page++
	nextURL, err := withPageParam(n.currentURL, n.page)
	if err != nil {
		n.page--
		n.loading = false
		log.Printf("navigate: bad page URL: %s", err)
		return
	}

	res, err := n.fetcher.GetDocument(ctx, nextURL)
	n.loading = false

	if gen != n.generation {
		// The section changed while this page was in flight; both its cards
		// and its failure belong to the old grid.
		return
	}

	if err != nil {
		// No retry: a failed page load ends pagination for this session.
		n.page--
		n.hasMore = false
		log.Printf("navigate: page load failed: %s", err)
		return
	}

	cards := extractor.BookCards(res.Doc, n.cardSelector)

	if len(cards) == 0 {
		n.hasMore = false
		n.host.ShowEndMarker()
		return
	}

	n.host.AppendCards(cards)
	n.emit("grid_page_loaded", map[string]any{
		"section": n.section,
		"page":    n.page,
		"cards":   len(cards),
	})
}

// SwitchSection fetches targetURL, splices its main region in place, and
// resets pagination for the new section. fromHistory suppresses the history
// push when the switch was itself triggered by back-navigation. On any fetch
// or extraction failure the host performs a full navigation instead and the
// navigator's state is left untouched.
func (n *Navigator) SwitchSection(ctx context.Context, targetURL string, fromHistory bool) {
	res, err := n.fetcher.GetDocument(ctx, targetURL)
	if err != nil {
		log.Printf("navigate: section fetch failed, falling back to full navigation: %s", err)
		n.host.Navigate(targetURL)
		return
	}

	main, err := extractor.MainRegion(res.Doc, targetURL)
	if err != nil {
		log.Printf("navigate: no main region, falling back to full navigation: %s", err)
		n.host.Navigate(targetURL)
		return
	}

	n.emitDwell()

	slug := detector.SectionFromDoc(res.Doc)
	lang := detector.LanguageFromDoc(res.Doc)
	if slug == "" || lang == "" {
		if u, err := url.Parse(targetURL); err == nil {
			if pathLang, pathSlug, ok := detector.FromURLPath(u.Path); ok {
				if slug == "" {
					slug = pathSlug
				}
				if lang == "" {
					lang = pathLang
				}
			}
		}
	}
	if lang == "" {
		// Neither the meta tags nor the URL path carry a language code; let
		// the content itself decide before keeping the old one.
		if detected, ok := detector.LanguageFromContent(regionText(main)); ok {
			lang = detected
		}
	}
	if slug == "" {
		slug = n.section
	}
	if lang == "" {
		lang = n.language
	}

	n.host.ReplaceMain(main)

	if !fromHistory {
		n.history = append(n.history, n.section)
	}

	n.section = slug
	n.language = lang
	n.currentURL = targetURL
	if res.FinalURL != "" {
		n.currentURL = res.FinalURL
	}
	n.page = 1
	n.hasMore = true
	n.generation++
	n.sectionStart = n.clock.Now()

	n.restyleButtons(slug)

	n.emit("section_switched", map[string]any{"section": slug, "language": lang})
}

// PopHistory returns to the most recently visited section, the popstate
// analog. It reports false when there is nothing to go back to.
func (n *Navigator) PopHistory(ctx context.Context) bool {
	if len(n.history) == 0 {
		return false
	}
	slug := n.history[len(n.history)-1]
	n.history = n.history[:len(n.history)-1]

	target := n.sectionURL(slug)
	n.SwitchSection(ctx, target, true)
	return true
}

// ClickCard reports a book-card click with its title and 1-based grid
// position.
func (n *Navigator) ClickCard(card models.BookCard) {
	n.emit("book_card_click", map[string]any{
		"title":    card.Title,
		"position": card.Position,
	})
}

// Stop cancels the pending scroll check and reports the final section dwell,
// suppressed for dwells under the same threshold the reading tracker uses.
func (n *Navigator) Stop() {
	n.scrollStop()
	n.emitDwell()
}

func (n *Navigator) emitDwell() {
	dwell := n.clock.Now().Sub(n.sectionStart)
	if dwell < minDwellReport {
		return
	}
	n.emit("section_dwell", map[string]any{
		"section": n.section,
		"seconds": int(dwell / time.Second),
	})
}

// restyleButtons marks exactly one button active. The active button's
// background takes on its border color; every other background is cleared.
func (n *Navigator) restyleButtons(slug string) {
	for i := range n.buttons {
		if n.buttons[i].Slug == slug {
			n.buttons[i].Active = true
			n.buttons[i].Background = n.buttons[i].BorderColor
		} else {
			n.buttons[i].Active = false
			n.buttons[i].Background = ""
		}
	}
	n.host.SetButtons(n.buttons)
}

func (n *Navigator) sectionURL(slug string) string {
	u, err := url.Parse(n.currentURL)
	if err != nil {
		return fmt.Sprintf("/%s/%s/", n.language, slug)
	}
	u.Path = fmt.Sprintf("/%s/%s/", n.language, slug)
	u.RawQuery = ""
	return u.String()
}

func (n *Navigator) emit(name string, props map[string]any) {
	if n.sink == nil {
		return
	}
	analytics.Fire(context.Background(), n.sink, models.NewEvent(name, n.currentURL, n.clock.Now(), props))
}

// regionText flattens a markup region to the plain text language detection
// needs.
func regionText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Text())
}

// withPageParam returns rawURL with its page query parameter set to page.
func withPageParam(rawURL string, page int) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse current URL: %w", err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
