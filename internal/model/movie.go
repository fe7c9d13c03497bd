package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

type Movie struct {
	ID          ID       `json:"id"`
	Title       string   `json:"title"`
	Poster      string   `json:"poster"`
	Year        int      `json:"year"`
	Runtime     int      `json:"runtime"`
	Genres      []string `json:"genres"`
	Description string   `json:"description"`
	Rating      float64  `json:"rating"`
}

// movieWire accepts the field names used by the recommendation endpoint
// next to the canonical ones.
type movieWire struct {
	ID          ID              `json:"id"`
	Title       string          `json:"title"`
	Poster      string          `json:"poster"`
	PosterPath  string          `json:"poster_path"`
	Year        int             `json:"year"`
	Runtime     json.RawMessage `json:"runtime"`
	Genres      []string        `json:"genres"`
	Description string          `json:"description"`
	Overview    string          `json:"overview"`
	Rating      float64         `json:"rating"`
}

func (m *Movie) UnmarshalJSON(data []byte) error {
	var w movieWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*m = Movie{
		ID:          w.ID,
		Title:       w.Title,
		Poster:      w.Poster,
		Year:        w.Year,
		Runtime:     parseRuntime(w.Runtime),
		Genres:      w.Genres,
		Description: w.Description,
		Rating:      w.Rating,
	}
	if m.Poster == "" {
		m.Poster = w.PosterPath
	}
	if m.Description == "" {
		m.Description = w.Overview
	}
	return nil
}

// Runtime is sometimes sent as "169" instead of 169.
func parseRuntime(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(str))
	if err != nil {
		return 0
	}
	return n
}
