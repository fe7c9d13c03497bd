package model

import "fmt"

type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionLeft, DirectionRight:
		return Direction(s), nil
	}
	return "", fmt.Errorf("unknown swipe direction %q", s)
}

// Liked maps a swipe to its vote value: right is a like.
func (d Direction) Liked() bool {
	return d == DirectionRight
}

// Votes maps movie id to liked/disliked.
type Votes map[ID]bool

func (v Votes) Clone() Votes {
	out := make(Votes, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// CoversAll reports whether there is a vote for every movie and nothing else.
func (v Votes) CoversAll(movies []Movie) bool {
	if len(v) != len(movies) {
		return false
	}
	for _, m := range movies {
		if _, ok := v[m.ID]; !ok {
			return false
		}
	}
	return true
}
