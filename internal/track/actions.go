// Package track implements the track command: run a reading session against
// the progress endpoint, with periodic flushes and a final beacon on stop.
package track

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/fyangcodes/webnovel-reader/pkg/tracker"
)

func TrackAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	endpoint := c.String("endpoint")
	if endpoint == "" {
		return fmt.Errorf("no progress endpoint given; use --endpoint")
	}

	duration := c.Duration("duration")
	if duration <= 0 {
		return fmt.Errorf("invalid --duration %s", duration)
	}

	tr := tracker.New(tracker.Config{
		ViewEventID: c.Int64("view-event-id"),
		Endpoint:    endpoint,
		FlushPeriod: c.Duration("flush-period"),
	})
	tr.Start()

	logger.Info("reading session started",
		"view_event_id", c.Int64("view-event-id"),
		"duration", duration.String())

	time.Sleep(duration)

	if c.Bool("read-to-end") {
		tr.MarkEndReached()
		logger.Info("end of content reached")
	}

	tr.Stop(context.Background())
	logger.Info("reading session reported",
		"elapsed_seconds", int(tr.Elapsed()/time.Second),
		"completed", tr.ReachedEnd())

	return nil
}
