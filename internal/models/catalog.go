package models

type Category struct {
	ID   string `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Genre struct {
	ID   string `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Title struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Genres      []Genre  `json:"genre"`

	// Mean of review scores, recomputed on every read. Nil when the title
	// has no reviews.
	Rating *float64 `json:"rating"`
}
