// Package browse implements the browse command: walk the site's sections the
// way the in-page navigation would, paginating each grid and emitting
// analytics along the way.
package browse

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/fyangcodes/webnovel-reader/models"
	"github.com/fyangcodes/webnovel-reader/pkg/analytics"
	"github.com/fyangcodes/webnovel-reader/pkg/db"
	"github.com/fyangcodes/webnovel-reader/pkg/fetcher"
	"github.com/fyangcodes/webnovel-reader/pkg/navigate"
)

// consoleHost is the ContentHost for a terminal session: swaps and appends
// are logged and tallied instead of rendered.
type consoleHost struct {
	logger *slog.Logger

	cardsBySection map[string][]models.BookCard
	section        string
	endMarkers     int
	fullNavs       []string
}

func newConsoleHost(logger *slog.Logger) *consoleHost {
	return &consoleHost{
		logger:         logger,
		cardsBySection: make(map[string][]models.BookCard),
	}
}

func (h *consoleHost) ReplaceMain(html string) {
	h.logger.Info("main region replaced", "bytes", len(html))
}

func (h *consoleHost) AppendCards(cards []models.BookCard) {
	h.cardsBySection[h.section] = append(h.cardsBySection[h.section], cards...)
	h.logger.Info("cards appended", "section", h.section, "count", len(cards))
}

func (h *consoleHost) ShowEndMarker() {
	h.endMarkers++
	h.logger.Info("end of list", "section", h.section)
}

func (h *consoleHost) SetButtons(buttons []models.ButtonState) {
	for _, b := range buttons {
		if b.Active {
			h.logger.Info("active section button", "slug", b.Slug)
		}
	}
}

func (h *consoleHost) Navigate(url string) {
	h.fullNavs = append(h.fullNavs, url)
	h.logger.Warn("fell back to full navigation", "url", url)
}

// sectionSummary is one section's row in the session summary file.
type sectionSummary struct {
	models.Section `yaml:",inline"`
	Pages          int               `yaml:"pages"`
	Cards          []models.BookCard `yaml:"cards"`
}

type sessionSummary struct {
	BaseURL   string           `yaml:"base_url"`
	StartedAt time.Time        `yaml:"started_at"`
	Sections  []sectionSummary `yaml:"sections"`
	FullNavs  []string         `yaml:"full_navigations,omitempty"`
	Sink      string           `yaml:"sink"`
}

func BrowseAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	slugs := splitSlugs(c.String("sections"))
	if len(slugs) == 0 {
		return fmt.Errorf("no sections given; use --sections slug,slug")
	}

	store, err := db.Open(cfg.EventDBPath)
	if err != nil {
		return fmt.Errorf("failed to open event buffer: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	sink := analytics.SelectSink(ctx,
		analytics.NewBufferSink(store),
		analytics.NewPlausibleSink(cfg.PlausibleEndpoint),
		analytics.NewGtagSink(cfg.GtagEndpoint),
	)
	logger.Info("analytics sink selected", "sink", sink.Name())

	lang := cfg.DefaultLanguage
	sections := make([]models.Section, len(slugs))
	for i, slug := range slugs {
		sections[i] = models.Section{
			Slug:     slug,
			Language: lang,
			URL:      sectionURL(cfg.BaseURL, lang, slug),
		}
	}

	host := newConsoleHost(logger)
	host.section = sections[0].Slug

	buttons := make([]models.ButtonState, len(sections))
	for i, sec := range sections {
		buttons[i] = models.ButtonState{Slug: sec.Slug, BorderColor: "#888"}
	}

	nav := navigate.New(navigate.Config{
		Fetcher:      fetcher.New(),
		Host:         host,
		Sink:         sink,
		CurrentURL:   sections[0].URL,
		Section:      sections[0].Slug,
		Language:     lang,
		CardSelector: cfg.CardSelector,
		Buttons:      buttons,
	})
	defer nav.Stop()

	maxPages := c.Int("max-pages")
	summary := sessionSummary{
		BaseURL:   cfg.BaseURL,
		StartedAt: time.Now(),
		Sink:      sink.Name(),
	}

	for i, sec := range sections {
		host.section = sec.Slug
		if i > 0 {
			nav.SwitchSection(ctx, sec.URL, false)
		}

		pages := 0
		for nav.HasMore() && pages < maxPages {
			nav.LoadNextPage(ctx)
			pages++
		}

		cards := host.cardsBySection[sec.Slug]
		logger.Info("section browsed", "section", sec.Slug, "pages", pages, "cards", len(cards))
		summary.Sections = append(summary.Sections, sectionSummary{
			Section: sec,
			Pages:   pages,
			Cards:   cards,
		})
	}

	summary.FullNavs = host.fullNavs

	if dir := c.String("output-dir"); dir != "" {
		if err := writeSummary(dir, summary); err != nil {
			return err
		}
	}

	return nil
}

func loadConfig(c *cli.Context) (*models.Config, error) {
	var cfg *models.Config
	if path := c.String("config"); path != "" {
		loaded, err := models.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = &models.Config{DefaultLanguage: "en"}
	}

	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("no base URL configured; use --base-url or a config file")
	}
	if c.IsSet("lang") {
		cfg.DefaultLanguage = c.String("lang")
	}

	return cfg, nil
}

func splitSlugs(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func sectionURL(base, lang, slug string) string {
	return fmt.Sprintf("%s/%s/%s/", strings.TrimRight(base, "/"), lang, slug)
}

func writeSummary(dir string, summary sessionSummary) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := yaml.Marshal(&summary)
	if err != nil {
		return fmt.Errorf("failed to marshal session summary: %w", err)
	}

	name := fmt.Sprintf("browse-%s.yaml", summary.StartedAt.Format("2006-01-02T15-04-05"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session summary: %w", err)
	}

	fmt.Printf("Session summary saved to: %s\n", path)
	return nil
}
