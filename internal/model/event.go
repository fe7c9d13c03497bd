package model

import "encoding/json"

type EventName string

const (
	EventParticipantJoined EventName = "participant-joined"
	EventParticipantReady  EventName = "participant-ready"
	EventMatchingStarted   EventName = "matching-started"
	EventVotesSubmitted    EventName = "votes-submitted"
	EventMatchingComplete  EventName = "matching-complete"
	EventSessionEnded      EventName = "session-ended"
	EventSessionCleanup    EventName = "session-cleanup"
)

var SessionEvents = []EventName{
	EventParticipantJoined,
	EventParticipantReady,
	EventMatchingStarted,
	EventVotesSubmitted,
	EventMatchingComplete,
	EventSessionEnded,
	EventSessionCleanup,
}

func (e EventName) IsKnown() bool {
	for _, known := range SessionEvents {
		if e == known {
			return true
		}
	}
	return false
}

// Terminates reports whether the event closes the session topic.
func (e EventName) Terminates() bool {
	return e == EventSessionEnded || e == EventSessionCleanup
}

const channelPrefix = "matching-session-"

func ChannelName(sessionID ID) string {
	return channelPrefix + string(sessionID)
}

type Event struct {
	Name    EventName       `json:"event"`
	Channel string          `json:"channel"`
	Payload json.RawMessage `json:"payload"`
}

type MatchingCompletePayload struct {
	Results Results `json:"results"`
}

type VotesSubmittedPayload struct {
	Email           string `json:"email"`
	CompletedVoters int    `json:"completed_voters"`
	TotalReady      int    `json:"total_ready"`
}

type SessionEndedPayload struct {
	EndedBy string `json:"ended_by"`
	Reason  string `json:"reason"`
}
