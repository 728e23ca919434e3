package models

// Section is a named category of books, reflected in the URL path and in the
// section-selector buttons.
type Section struct {
	Slug     string `yaml:"slug"`
	Language string `yaml:"language"`
	Title    string `yaml:"title,omitempty"`
	URL      string `yaml:"url"`
}

// BookCard is one entry in a section's book grid.
type BookCard struct {
	Title string `yaml:"title" json:"title"`
	Href  string `yaml:"href" json:"href"`
	// Position is 1-based within the containing grid.
	Position int `yaml:"position" json:"position"`
}

// ButtonState describes one section-selector button. Exactly one button is
// active at a time; the active button's background takes on its border color.
type ButtonState struct {
	Slug        string
	BorderColor string
	Background  string
	Active      bool
}
