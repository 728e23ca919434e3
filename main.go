package main

import (
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/fyangcodes/webnovel-reader/internal/browse"
	"github.com/fyangcodes/webnovel-reader/internal/events"
	"github.com/fyangcodes/webnovel-reader/internal/track"
)

func main() {
	app := &cli.App{
		Name:  "webnovel-reader",
		Usage: "headless client for the webnovel reading platform",
		Commands: []*cli.Command{
			{
				Name:   "browse",
				Usage:  "walk sections of the site, paginating each book grid",
				Action: browse.BrowseAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Usage: "path to a YAML config file",
					},
					&cli.StringFlag{
						Name:  "base-url",
						Usage: "site root, e.g. https://reader.example.com",
					},
					&cli.StringFlag{
						Name:  "sections",
						Usage: "comma-separated section slugs to visit",
					},
					&cli.StringFlag{
						Name:  "lang",
						Usage: "2-letter language code",
					},
					&cli.IntFlag{
						Name:  "max-pages",
						Value: 5,
						Usage: "maximum grid pages to load per section",
					},
					&cli.StringFlag{
						Name:  "output-dir",
						Usage: "directory for the session summary YAML",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "only log errors",
					},
				},
			},
			{
				Name:   "track",
				Usage:  "run a reading session against the progress endpoint",
				Action: track.TrackAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "endpoint",
						Usage: "reading-progress endpoint URL",
					},
					&cli.Int64Flag{
						Name:  "view-event-id",
						Usage: "view event identifier for this session",
					},
					&cli.DurationFlag{
						Name:  "duration",
						Value: 10 * time.Second,
						Usage: "how long to read before stopping",
					},
					&cli.DurationFlag{
						Name:  "flush-period",
						Usage: "override the periodic save interval",
					},
					&cli.BoolFlag{
						Name:  "read-to-end",
						Usage: "mark the content as read to the end",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "only log errors",
					},
				},
			},
			{
				Name:   "events",
				Usage:  "list buffered analytics events",
				Action: events.EventsAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "db",
						Usage: "path to the event buffer database",
					},
					&cli.IntFlag{
						Name:  "limit",
						Value: 50,
						Usage: "maximum events to list",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
