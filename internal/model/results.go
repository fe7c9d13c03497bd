package model

import (
	"bytes"
	"encoding/json"
)

// Results is the matching outcome exactly as the backend sent it.
type Results json.RawMessage

func (r Results) IsEmpty() bool {
	trimmed := bytes.TrimSpace(r)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func (r Results) MarshalJSON() ([]byte, error) {
	if r.IsEmpty() {
		return []byte("null"), nil
	}
	return r, nil
}

func (r *Results) UnmarshalJSON(data []byte) error {
	*r = append((*r)[0:0], data...)
	return nil
}

type MatchResults struct {
	WinningMovie      *Movie     `json:"winning_movie"`
	Score             int        `json:"score"`
	TotalParticipants int        `json:"total_participants"`
	AllScores         map[ID]int `json:"all_scores"`
}

func (r Results) Decode() (MatchResults, error) {
	var mr MatchResults
	if r.IsEmpty() {
		return mr, nil
	}
	err := json.Unmarshal(r, &mr)
	return mr, err
}
