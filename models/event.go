package models

import "time"

// Event is a single analytics event. The shape mirrors what the external
// collectors accept: a name, the page URL it happened on, and free-form props.
type Event struct {
	Name  string         `json:"name"`
	TSUTC int64          `json:"ts_utc"`
	URL   string         `json:"url,omitempty"`
	Props map[string]any `json:"props,omitempty"`
}

// NewEvent builds an event stamped with the given time.
func NewEvent(name, url string, at time.Time, props map[string]any) Event {
	return Event{
		Name:  name,
		TSUTC: at.UTC().Unix(),
		URL:   url,
		Props: props,
	}
}
