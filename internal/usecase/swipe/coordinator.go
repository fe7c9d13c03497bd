package usecase_swipe

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/humanbelnik/kinoswap/matchclient/internal/infra/matchapi"
	"github.com/humanbelnik/kinoswap/matchclient/internal/liveness"
	"github.com/humanbelnik/kinoswap/matchclient/internal/model"
	"github.com/humanbelnik/kinoswap/matchclient/internal/realtime"
)

//go:generate mockery --name=SessionRepository --output=./mocks/repository --filename=repository.go
type SessionRepository interface {
	GetSessionStatus(ctx context.Context, sessionID model.ID, token string) (model.Session, error)
	SubmitAllVotes(ctx context.Context, sessionID model.ID, votes model.Votes, token string) error
}

//go:generate mockery --name=CredentialProvider --output=./mocks/credentials --filename=credentials.go
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

type EventChannel interface {
	Subscribe(event model.EventName, h realtime.Handler) realtime.SubscriptionID
	Open(ctx context.Context, sessionID model.ID) error
	IsConnected() bool
	Close() error
}

type Options struct {
	SessionID model.ID
	// ParticipantEmail identifies the local user in the status payload. A
	// participant that already finished voting resumes in WaitingForResults.
	ParticipantEmail string
	Logger           *slog.Logger
	Recorder         Recorder
	// PollInterval re-reads the status while the realtime channel is down
	// and the coordinator waits on the server. Zero disables polling.
	PollInterval time.Duration
}

// Coordinator drives one participant through a matching session: it deals
// the deck, collects one vote per movie, submits the votes exactly once and
// waits for the results pushed on the session topic.
type Coordinator struct {
	sessionID   model.ID
	email       string
	repo        SessionRepository
	channel     EventChannel
	credentials CredentialProvider
	logger      *slog.Logger
	recorder    Recorder
	alive       *liveness.Token
	poll        time.Duration

	mu             sync.Mutex
	state          State
	session        model.Session
	movies         []model.Movie
	index          int
	votes          model.Votes
	results        model.Results
	pendingResults model.Results
	err            error
	started        bool
	closed         bool
	fetching       bool
	refetch        bool

	notifyMu     sync.Mutex
	listenersMu  sync.Mutex
	listeners    map[int]Listener
	nextListener int

	endedOnce    sync.Once
	teardownOnce sync.Once
}

func New(
	repo SessionRepository,
	channel EventChannel,
	credentials CredentialProvider,
	opts Options,
) *Coordinator {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}

	return &Coordinator{
		sessionID:   opts.SessionID,
		email:       opts.ParticipantEmail,
		repo:        repo,
		channel:     channel,
		credentials: credentials,
		logger:      opts.Logger.With("session_id", opts.SessionID),
		recorder:    opts.Recorder,
		alive:       liveness.New(),
		poll:        opts.PollInterval,
		state:       StateLoading,
		votes:       make(model.Votes),
		listeners:   make(map[int]Listener),
	}
}

func (c *Coordinator) SessionID() model.ID {
	return c.sessionID
}

// AddListener registers l and returns a function that removes it.
func (c *Coordinator) AddListener(l Listener) func() {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()

	id := c.nextListener
	c.nextListener++
	c.listeners[id] = l

	return func() {
		c.listenersMu.Lock()
		defer c.listenersMu.Unlock()
		delete(c.listeners, id)
	}
}

// Start subscribes to the session topic and loads the deck. Without a
// bearer token it fails with an auth error before any request is made.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.started = true
	c.fetching = true
	c.mu.Unlock()

	if c.sessionID.IsEmpty() {
		return c.failLoad(matchapi.ErrNoSessionID)
	}

	token, err := c.bearer(ctx)
	if err != nil {
		return c.failLoad(err)
	}

	c.subscribe()
	if err := c.channel.Open(ctx, c.sessionID); err != nil {
		c.logger.Warn("realtime unavailable, status refresh only", "error", err)
	}
	if c.poll > 0 {
		go c.pollLoop()
	}

	ctx, cancel := c.bind(ctx)
	defer cancel()

	session, err := c.repo.GetSessionStatus(ctx, c.sessionID, token)
	if err != nil {
		return c.failLoad(err)
	}

	c.mu.Lock()
	if !c.alive.Alive() {
		c.mu.Unlock()
		return ErrClosed
	}
	u := c.applyLocked(session)
	again := c.finishFetchLocked()
	c.commitLocked(u)

	if again {
		_ = c.refresh(ctx)
	}
	return nil
}

// Vote records the verdict on the current movie and advances the deck by
// one. The vote on the last movie submits the whole set.
func (c *Coordinator) Vote(ctx context.Context, direction model.Direction) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	switch c.state {
	case StateVoting:
	case StateAutoSubmitting:
		c.mu.Unlock()
		return ErrSubmissionInFlight
	default:
		c.mu.Unlock()
		return ErrNotVoting
	}

	movie := c.movies[c.index]
	c.votes[movie.ID] = direction.Liked()
	c.index++

	u := update{progress: true}
	last := c.index >= len(c.movies)
	if last {
		u.changed = c.setStateLocked(StateAutoSubmitting)
	}
	votes := c.votes.Clone()
	c.commitLocked(u)

	c.recorder.VoteCast(direction)
	c.logger.Debug("vote recorded", "movie_id", movie.ID, "liked", direction.Liked())

	if !last {
		return nil
	}
	return c.submit(ctx, votes)
}

// RetrySubmit resends the same votes after a failed submission.
func (c *Coordinator) RetrySubmit(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state == StateAutoSubmitting {
		c.mu.Unlock()
		return ErrSubmissionInFlight
	}
	if c.state != StateError || len(c.movies) == 0 || !c.votes.CoversAll(c.movies) {
		c.mu.Unlock()
		return ErrNothingToRetry
	}

	c.err = nil
	u := update{changed: c.setStateLocked(StateAutoSubmitting)}
	votes := c.votes.Clone()
	c.commitLocked(u)

	return c.submit(ctx, votes)
}

func (c *Coordinator) submit(ctx context.Context, votes model.Votes) error {
	token, err := c.bearer(ctx)
	if err == nil {
		ctx, cancel := c.bind(ctx)
		err = c.repo.SubmitAllVotes(ctx, c.sessionID, votes, token)
		cancel()
	}
	c.recorder.SubmitFinished(err)

	c.mu.Lock()
	if !c.alive.Alive() || c.state != StateAutoSubmitting {
		c.mu.Unlock()
		return err
	}

	if err != nil {
		c.logger.Error("submit votes failed", "error", err)
		c.err = err
		c.commitLocked(update{changed: c.setStateLocked(StateError), err: err})
		return err
	}

	c.logger.Info("votes submitted", "count", len(votes))
	if !c.pendingResults.IsEmpty() {
		c.commitLocked(c.completeLocked(c.pendingResults))
		return nil
	}
	c.commitLocked(update{changed: c.setStateLocked(StateWaitingForResults)})
	return nil
}

func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close stops listening for events and ignores every response that arrives
// afterwards. It is idempotent.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.teardown()
	return nil
}

func (c *Coordinator) subscribe() {
	refresh := func(json.RawMessage) { c.onRefreshEvent() }

	c.channel.Subscribe(model.EventParticipantJoined, refresh)
	c.channel.Subscribe(model.EventParticipantReady, refresh)
	c.channel.Subscribe(model.EventMatchingStarted, refresh)
	c.channel.Subscribe(model.EventVotesSubmitted, refresh)
	c.channel.Subscribe(model.EventMatchingComplete, c.onMatchingComplete)
	c.channel.Subscribe(model.EventSessionEnded, c.onSessionEnded)
	c.channel.Subscribe(model.EventSessionCleanup, c.onSessionEnded)
}

// Refresh re-reads the session status on demand, e.g. when realtime events
// are not arriving. A call that overlaps a read in flight only schedules one
// more read and returns nil. Refreshing a finished session is a no-op.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return ErrClosed
	case !c.started:
		c.mu.Unlock()
		return ErrNotStarted
	case c.state.Terminal():
		c.mu.Unlock()
		return nil
	case c.fetching:
		c.refetch = true
		c.mu.Unlock()
		return nil
	}
	c.fetching = true
	c.mu.Unlock()

	return c.refresh(ctx)
}

func (c *Coordinator) onRefreshEvent() {
	_ = c.Refresh(c.alive.Context())
}

// pollLoop refreshes while the channel is down and the next state change
// can only come from the server.
func (c *Coordinator) pollLoop() {
	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()

	for {
		select {
		case <-c.alive.Done():
			return
		case <-ticker.C:
		}
		if c.channel.IsConnected() {
			continue
		}

		c.mu.Lock()
		waiting := c.state == StateLoading || c.state == StateWaitingForResults
		c.mu.Unlock()
		if waiting {
			_ = c.Refresh(c.alive.Context())
		}
	}
}

// refresh re-reads the session status until no caller asked for another
// read while one was in flight. Failures are logged and returned.
func (c *Coordinator) refresh(ctx context.Context) error {
	for {
		session, err := c.fetch(ctx)

		c.mu.Lock()
		if !c.alive.Alive() {
			c.mu.Unlock()
			return ErrClosed
		}
		if err != nil {
			c.logger.Warn("status refresh failed", "error", err)
			c.fetching = false
			c.refetch = false
			c.mu.Unlock()
			return err
		}

		u := c.applyLocked(session)
		again := c.finishFetchLocked()
		c.commitLocked(u)
		if !again {
			return nil
		}
	}
}

func (c *Coordinator) fetch(ctx context.Context) (model.Session, error) {
	token, err := c.bearer(ctx)
	if err != nil {
		return model.Session{}, err
	}
	ctx, cancel := c.bind(ctx)
	defer cancel()
	return c.repo.GetSessionStatus(ctx, c.sessionID, token)
}

// finishFetchLocked reports whether another status read is owed.
func (c *Coordinator) finishFetchLocked() bool {
	again := c.refetch && !c.state.Terminal()
	c.refetch = false
	if !again {
		c.fetching = false
	}
	return again
}

func (c *Coordinator) onMatchingComplete(raw json.RawMessage) {
	var payload model.MatchingCompletePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.logger.Warn("malformed matching-complete payload", "error", err)
	}
	results := payload.Results
	if results.IsEmpty() {
		results = model.Results(raw)
	}

	c.mu.Lock()
	if c.closed || c.state.Terminal() {
		c.mu.Unlock()
		return
	}
	if c.state == StateLoading || c.state == StateAutoSubmitting {
		c.pendingResults = results
		c.mu.Unlock()
		return
	}
	c.commitLocked(c.completeLocked(results))
}

func (c *Coordinator) onSessionEnded(raw json.RawMessage) {
	var payload model.SessionEndedPayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			c.logger.Warn("malformed session-ended payload", "error", err)
		}
	}

	c.mu.Lock()
	if c.closed || c.state.Terminal() {
		c.mu.Unlock()
		return
	}
	c.logger.Info("session ended", "ended_by", payload.EndedBy, "reason", payload.Reason)
	c.commitLocked(update{
		changed:  c.setStateLocked(StateAborted),
		ended:    &payload,
		terminal: true,
	})
}

// applyLocked folds a status payload into the coordinator state.
func (c *Coordinator) applyLocked(s model.Session) update {
	c.session = s
	u := update{progress: true}

	if c.state == StateError && len(c.movies) == 0 {
		// The initial load failed; a successful read resumes loading.
		c.err = nil
		u.changed = c.setStateLocked(StateLoading)
	}

	switch c.state {
	case StateLoading:
		switch {
		case s.Status == model.StatusCompleted:
			results := s.Results
			if results.IsEmpty() {
				results = c.pendingResults
			}
			return c.completeLocked(results)
		case s.Status == model.StatusEnded:
			return c.abortLocked()
		case s.Status == model.StatusWaitingForParticipants && len(s.Movies) == 0:
			// Group session not started yet; matching-started or a
			// Refresh triggers the next read.
			return u
		case len(s.Movies) == 0:
			u.changed = c.setStateLocked(StateEmpty)
			u.terminal = true
			return u
		}

		c.movies = s.Movies
		c.index = 0
		next := StateVoting
		if p, ok := s.Participant(c.email); c.email != "" && ok && p.VotingComplete {
			c.index = len(c.movies)
			next = StateWaitingForResults
		}
		if next == StateWaitingForResults && !c.pendingResults.IsEmpty() {
			return c.completeLocked(c.pendingResults)
		}
		u.changed = c.setStateLocked(next)
		return u

	case StateVoting, StateWaitingForResults, StateError:
		switch {
		case s.Status == model.StatusCompleted && !s.Results.IsEmpty():
			return c.completeLocked(s.Results)
		case s.Status == model.StatusEnded:
			return c.abortLocked()
		}
		return u

	case StateAutoSubmitting:
		if s.Status == model.StatusCompleted && !s.Results.IsEmpty() {
			c.pendingResults = s.Results
		}
		return u
	}
	return update{}
}

func (c *Coordinator) completeLocked(results model.Results) update {
	c.results = results
	c.pendingResults = nil
	c.logger.Info("matching complete")
	return update{
		changed:  c.setStateLocked(StateComplete),
		complete: true,
		terminal: true,
	}
}

func (c *Coordinator) abortLocked() update {
	return update{
		changed:  c.setStateLocked(StateAborted),
		ended:    &model.SessionEndedPayload{},
		terminal: true,
	}
}

func (c *Coordinator) failLoad(err error) error {
	c.mu.Lock()
	c.fetching = false
	c.refetch = false
	if !c.alive.Alive() {
		c.mu.Unlock()
		return err
	}
	c.err = err
	c.logger.Error("load session failed", "error", err)
	c.commitLocked(update{changed: c.setStateLocked(StateError), err: err})
	return err
}

func (c *Coordinator) setStateLocked(s State) bool {
	if c.state == s {
		return false
	}
	c.logger.Debug("state change", "from", c.state, "to", s)
	c.state = s
	return true
}

func (c *Coordinator) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID: c.sessionID,
		State:     c.state,
		Index:     c.index,
		Total:     len(c.movies),
		Votes:     c.votes.Clone(),
		Session:   c.session,
		Results:   c.results,
		Err:       c.err,
	}
	if c.state == StateVoting && c.index < len(c.movies) {
		m := c.movies[c.index]
		snap.Current = &m
	}
	snap.Voted, snap.Participants = c.session.Progress()
	return snap
}

type update struct {
	changed  bool
	progress bool
	complete bool
	terminal bool
	ended    *model.SessionEndedPayload
	err      error
}

// commitLocked releases c.mu and delivers u to the listeners. Notifications
// are serialised, so listeners observe changes in commit order.
func (c *Coordinator) commitLocked(u update) {
	snap := c.snapshotLocked()
	c.notifyMu.Lock()
	c.mu.Unlock()

	for _, l := range c.currentListeners() {
		if u.changed && l.OnStateChange != nil {
			l.OnStateChange(snap)
		}
		if u.progress && l.OnProgress != nil {
			l.OnProgress(snap)
		}
		if u.err != nil && l.OnError != nil {
			l.OnError(u.err)
		}
		if u.complete && l.OnComplete != nil {
			l.OnComplete(snap.Results)
		}
	}
	if u.ended != nil {
		c.endedOnce.Do(func() {
			for _, l := range c.currentListeners() {
				if l.OnSessionEnded != nil {
					l.OnSessionEnded(*u.ended)
				}
			}
		})
	}
	c.notifyMu.Unlock()

	if u.terminal {
		c.recorder.SessionFinished(snap.State)
		c.teardown()
	}
}

func (c *Coordinator) currentListeners() []Listener {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()

	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]Listener, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.listeners[id])
	}
	return out
}

func (c *Coordinator) teardown() {
	c.teardownOnce.Do(func() {
		c.alive.Kill()
		if err := c.channel.Close(); err != nil {
			c.logger.Warn("close realtime channel", "error", err)
		}
	})
}

func (c *Coordinator) bearer(ctx context.Context) (string, error) {
	token, err := c.credentials.Token(ctx)
	if err != nil {
		return "", errors.Join(matchapi.ErrMissingToken, err)
	}
	if token == "" {
		return "", matchapi.ErrMissingToken
	}
	return token, nil
}

// bind ties ctx to the coordinator lifetime.
func (c *Coordinator) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.alive.Context(), cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
