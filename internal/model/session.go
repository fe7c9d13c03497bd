package model

import (
	"encoding/json"
	"strings"
)

type SessionStatus string

const (
	StatusWaitingForParticipants SessionStatus = "waiting_for_participants"
	StatusVoting                 SessionStatus = "voting"
	StatusCompleted              SessionStatus = "completed"
	StatusEnded                  SessionStatus = "ended"
)

// ParseSessionStatus normalises the wire value. The backend reports an
// in-progress vote as "matching".
func ParseSessionStatus(s string) SessionStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "matching", string(StatusVoting):
		return StatusVoting
	case string(StatusCompleted):
		return StatusCompleted
	case string(StatusEnded):
		return StatusEnded
	default:
		return StatusWaitingForParticipants
	}
}

func (s SessionStatus) PastVoting() bool {
	return s == StatusCompleted || s == StatusEnded
}

type Participant struct {
	Email          string   `json:"email"`
	Username       string   `json:"username"`
	Genres         []string `json:"genres"`
	Status         string   `json:"status"`
	VotesCompleted int      `json:"votes_completed"`
	TotalMovies    int      `json:"total_movies"`
	VotingComplete bool     `json:"voting_complete"`
}

type Session struct {
	ID           ID            `json:"session_id"`
	GroupID      *int          `json:"group_id"`
	CreatorEmail string        `json:"creator_email"`
	Status       SessionStatus `json:"status"`
	Movies       []Movie       `json:"movies"`
	Participants []Participant `json:"participants"`
	CanStart     bool          `json:"can_start"`
	Results      Results       `json:"results,omitempty"`
}

func (s *Session) UnmarshalJSON(data []byte) error {
	type plain Session
	var w struct {
		plain
		Status string `json:"status"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Session(w.plain)
	s.Status = ParseSessionStatus(w.Status)
	return nil
}

func (s Session) IsSolo() bool {
	return s.GroupID == nil
}

// Participant looks up a participant by email.
func (s Session) Participant(email string) (Participant, bool) {
	for _, p := range s.Participants {
		if strings.EqualFold(p.Email, email) {
			return p, true
		}
	}
	return Participant{}, false
}

// Progress reports how many participants have finished voting.
func (s Session) Progress() (voted int, total int) {
	for _, p := range s.Participants {
		if p.VotingComplete {
			voted++
		}
	}
	return voted, len(s.Participants)
}

func (s Session) MovieIDs() []ID {
	ids := make([]ID, 0, len(s.Movies))
	for _, m := range s.Movies {
		ids = append(ids, m.ID)
	}
	return ids
}
