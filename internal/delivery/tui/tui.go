// Package tui drives a swipe session from a line-oriented terminal.
package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/humanbelnik/kinoswap/matchclient/internal/model"
	usecase_swipe "github.com/humanbelnik/kinoswap/matchclient/internal/usecase/swipe"
)

const (
	arrowRight = "\x1b[C"
	arrowLeft  = "\x1b[D"
)

type Session interface {
	AddListener(l usecase_swipe.Listener) func()
	Vote(ctx context.Context, direction model.Direction) error
	RetrySubmit(ctx context.Context) error
	Refresh(ctx context.Context) error
	Snapshot() usecase_swipe.Snapshot
}

type Terminal struct {
	in  io.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

// Run renders every state change of s and turns input lines into votes
// until the session reaches a terminal state, the input ends or q is typed.
func (t *Terminal) Run(ctx context.Context, s Session) (usecase_swipe.Snapshot, error) {
	updates := make(chan usecase_swipe.Snapshot, 1)
	push := func(snap usecase_swipe.Snapshot) {
		for {
			select {
			case updates <- snap:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	}
	remove := s.AddListener(usecase_swipe.Listener{
		OnStateChange: push,
		OnProgress:    push,
	})
	defer remove()

	inputChan := make(chan string)
	go func() {
		defer close(inputChan)
		scanner := bufio.NewScanner(t.in)
		for scanner.Scan() {
			select {
			case inputChan <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	last := s.Snapshot()
	t.render(last)
	if last.State.Terminal() {
		return last, nil
	}

	for {
		select {
		case <-ctx.Done():
			return last, ctx.Err()

		case snap := <-updates:
			last = snap
			t.render(snap)
			if snap.State.Terminal() {
				return snap, nil
			}

		case line, ok := <-inputChan:
			if !ok {
				select {
				case snap := <-updates:
					last = snap
					t.render(snap)
				default:
				}
				return last, nil
			}
			if quit := t.handle(ctx, s, line); quit {
				return s.Snapshot(), nil
			}
		}
	}
}

func (t *Terminal) handle(ctx context.Context, s Session, line string) bool {
	var err error
	key := strings.TrimSpace(line)
	if !strings.HasPrefix(key, "\x1b") {
		key = strings.ToLower(key)
	}
	switch key {
	case "y", "right", "→", arrowRight:
		err = s.Vote(ctx, model.DirectionRight)
	case "n", "left", "←", arrowLeft:
		err = s.Vote(ctx, model.DirectionLeft)
	case "s":
		t.synopsis(s.Snapshot().Current)
	case "r":
		err = s.RetrySubmit(ctx)
	case "f":
		err = s.Refresh(ctx)
	case "q":
		return true
	case "":
	default:
		fmt.Fprintln(t.out, "Keys: y/→ like, n/← skip, s synopsis, r retry, f refresh, q quit")
	}
	if err != nil {
		fmt.Fprintf(t.out, "Error: %v\n", err)
	}
	return false
}

func (t *Terminal) render(snap usecase_swipe.Snapshot) {
	switch snap.State {
	case usecase_swipe.StateLoading:
		fmt.Fprintln(t.out, "Loading session... (f to refresh)")
	case usecase_swipe.StateVoting:
		if snap.Current == nil {
			return
		}
		m := snap.Current
		fmt.Fprintf(t.out, "[%d/%d] %s (%d) - Rating: %.1f\n", snap.Index+1, snap.Total, m.Title, m.Year, m.Rating)
		if len(m.Genres) > 0 {
			fmt.Fprintf(t.out, "   Genres: %s\n", strings.Join(m.Genres, ", "))
		}
		fmt.Fprint(t.out, "Like it? (y/n, s for synopsis): ")
	case usecase_swipe.StateAutoSubmitting:
		fmt.Fprintln(t.out, "Submitting your votes...")
	case usecase_swipe.StateWaitingForResults:
		if snap.Participants > 0 {
			fmt.Fprintf(t.out, "Votes sent. Waiting for others (%d/%d done)\n", snap.Voted, snap.Participants)
		} else {
			fmt.Fprintln(t.out, "Votes sent. Waiting for others...")
		}
	case usecase_swipe.StateComplete:
		t.results(snap.Results)
	case usecase_swipe.StateEmpty:
		fmt.Fprintln(t.out, "No movies to vote on in this session.")
	case usecase_swipe.StateAborted:
		fmt.Fprintln(t.out, "The session was ended by its owner.")
	case usecase_swipe.StateError:
		fmt.Fprintf(t.out, "Error: %v (r to retry, f to refresh, q to quit)\n", snap.Err)
	}
}

func (t *Terminal) synopsis(m *model.Movie) {
	if m == nil {
		return
	}
	if m.Description == "" {
		fmt.Fprintln(t.out, "No synopsis available.")
		return
	}
	fmt.Fprintf(t.out, "\n%s\n\n", m.Description)
}

func (t *Terminal) results(r model.Results) {
	mr, err := r.Decode()
	if err != nil || mr.WinningMovie == nil {
		fmt.Fprintf(t.out, "Matching complete: %s\n", string(r))
		return
	}
	fmt.Fprintf(t.out, "It's a match! %s", mr.WinningMovie.Title)
	if mr.WinningMovie.Year > 0 {
		fmt.Fprintf(t.out, " (%d)", mr.WinningMovie.Year)
	}
	fmt.Fprintf(t.out, " with %d of %d votes\n", mr.Score, mr.TotalParticipants)
}
