package usecase_swipe

import (
	"encoding/json"

	"github.com/humanbelnik/kinoswap/matchclient/internal/model"
)

type State string

const (
	StateLoading           State = "loading"
	StateVoting            State = "voting"
	StateAutoSubmitting    State = "auto_submitting"
	StateWaitingForResults State = "waiting_for_results"
	StateComplete          State = "complete"
	StateEmpty             State = "empty"
	StateAborted           State = "aborted"
	StateError             State = "error"
)

// Terminal states release the realtime subscription. Error is not terminal:
// a failed submission can be retried.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateEmpty || s == StateAborted
}

type Snapshot struct {
	SessionID    model.ID      `json:"session_id"`
	State        State         `json:"state"`
	Index        int           `json:"index"`
	Total        int           `json:"total"`
	Current      *model.Movie  `json:"current,omitempty"`
	Votes        model.Votes   `json:"votes"`
	Session      model.Session `json:"session"`
	Results      model.Results `json:"results,omitempty"`
	Voted        int           `json:"voted"`
	Participants int           `json:"participants"`
	Err          error         `json:"-"`
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	type plain Snapshot
	w := struct {
		plain
		Error string `json:"error,omitempty"`
	}{plain: plain(s)}
	if s.Err != nil {
		w.Error = s.Err.Error()
	}
	return json.Marshal(w)
}

// Listener callbacks run on the goroutine that caused the change, one
// notification at a time. They must not call back into the Coordinator.
type Listener struct {
	OnStateChange  func(Snapshot)
	OnProgress     func(Snapshot)
	OnComplete     func(model.Results)
	OnSessionEnded func(model.SessionEndedPayload)
	OnError        func(error)
}

type Recorder interface {
	VoteCast(direction model.Direction)
	SubmitFinished(err error)
	SessionFinished(state State)
}

type nopRecorder struct{}

func (nopRecorder) VoteCast(model.Direction) {}
func (nopRecorder) SubmitFinished(error)     {}
func (nopRecorder) SessionFinished(State)    {}
