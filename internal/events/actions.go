// Package events implements the events command: inspect the local analytics
// buffer.
package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/fyangcodes/webnovel-reader/pkg/db"
)

func EventsAction(c *cli.Context) error {
	store, err := db.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open event buffer: %w", err)
	}
	defer store.Close()

	events, err := store.RecentEvents(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}

	if len(events) == 0 {
		fmt.Println("No buffered events")
		return nil
	}

	fmt.Printf("%-20s %-22s %-40s %s\n", "Time", "Event", "URL", "Props")
	fmt.Println(strings.Repeat("-", 110))

	for _, e := range events {
		props := ""
		if e.Props != nil {
			data, err := json.Marshal(e.Props)
			if err == nil {
				props = string(data)
			}
		}
		fmt.Printf("%-20s %-22s %-40s %s\n",
			time.Unix(e.TSUTC, 0).UTC().Format("2006-01-02 15:04:05"),
			e.Name,
			e.URL,
			props,
		)
	}

	count, err := store.CountEvents()
	if err != nil {
		return fmt.Errorf("failed to count events: %w", err)
	}
	fmt.Printf("\nTotal: %d buffered events (cap %d)\n", count, db.MaxBufferedEvents)

	return nil
}
