package usecase_swipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/humanbelnik/kinoswap/matchclient/internal/infra/matchapi"
	"github.com/humanbelnik/kinoswap/matchclient/internal/model"
	"github.com/humanbelnik/kinoswap/matchclient/internal/realtime"
	credentials_mocks "github.com/humanbelnik/kinoswap/matchclient/internal/usecase/swipe/mocks/credentials"
	repo_mocks "github.com/humanbelnik/kinoswap/matchclient/internal/usecase/swipe/mocks/repository"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	mu       sync.Mutex
	handlers  map[model.EventName][]realtime.Handler
	opened    []model.ID
	closes    int
	openErr   error
	connected bool
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{handlers: make(map[model.EventName][]realtime.Handler)}
}

func (f *fakeChannel) Subscribe(event model.EventName, h realtime.Handler) realtime.SubscriptionID {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[event] = append(f.handlers[event], h)
	return realtime.SubscriptionID(fmt.Sprintf("%s-%d", event, len(f.handlers[event])))
}

func (f *fakeChannel) Open(_ context.Context, sessionID model.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, sessionID)
	f.connected = f.openErr == nil
	return f.openErr
}

func (f *fakeChannel) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	f.connected = false
	f.handlers = make(map[model.EventName][]realtime.Handler)
	return nil
}

func (f *fakeChannel) emit(event model.EventName, payload string) {
	f.mu.Lock()
	hs := append([]realtime.Handler(nil), f.handlers[event]...)
	f.mu.Unlock()
	for _, h := range hs {
		h(json.RawMessage(payload))
	}
}

func (f *fakeChannel) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

type events struct {
	mu       sync.Mutex
	states   []State
	complete []model.Results
	ended    int
	errs     []error
}

func (e *events) listener() Listener {
	return Listener{
		OnStateChange: func(s Snapshot) {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.states = append(e.states, s.State)
		},
		OnComplete: func(r model.Results) {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.complete = append(e.complete, r)
		},
		OnSessionEnded: func(model.SessionEndedPayload) {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.ended++
		},
		OnError: func(err error) {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.errs = append(e.errs, err)
		},
	}
}

func (e *events) seen() []State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]State(nil), e.states...)
}

type resources struct {
	coordinator *Coordinator
	repo        *repo_mocks.SessionRepository
	credentials *credentials_mocks.CredentialProvider
	channel     *fakeChannel
	events      *events
	ctx         context.Context
}

func initResources(t provider.T, email string) *resources {
	return initResourcesWith(t, Options{
		SessionID:        validSessionID(),
		ParticipantEmail: email,
	})
}

func initResourcesWith(t provider.T, opts Options) *resources {
	repo := repo_mocks.NewSessionRepository(t)
	creds := credentials_mocks.NewCredentialProvider(t)
	channel := newFakeChannel()

	c := New(repo, channel, creds, opts)
	ev := &events{}
	c.AddListener(ev.listener())

	return &resources{
		coordinator: c,
		repo:        repo,
		credentials: creds,
		channel:     channel,
		events:      ev,
		ctx:         context.Background(),
	}
}

func (r *resources) withToken() {
	r.credentials.On("Token", mock.Anything).Return(validToken(), nil).Maybe()
}

func validSessionID() model.ID {
	return "42"
}

func validToken() string {
	return "bearer-token"
}

func deck(n int) []model.Movie {
	movies := make([]model.Movie, 0, n)
	for i := 1; i <= n; i++ {
		movies = append(movies, model.Movie{ID: model.ID(fmt.Sprintf("m%d", i)), Title: fmt.Sprintf("Movie %d", i)})
	}
	return movies
}

func votingSession(n int) model.Session {
	return model.Session{
		ID:     validSessionID(),
		Status: model.StatusVoting,
		Movies: deck(n),
		Participants: []model.Participant{
			{Email: "me@example.com"},
			{Email: "friend@example.com"},
		},
	}
}

type CoordinatorSuite struct {
	suite.Suite
}

func (s *CoordinatorSuite) TestStart(t provider.T) {
	t.Parallel()

	t.Run("Should fail with an auth error and send nothing without a token", func(t provider.T) {
		r := initResources(t, "")
		r.credentials.On("Token", mock.Anything).Return("", nil).Once()

		err := r.coordinator.Start(r.ctx)

		assert.ErrorIs(t, err, matchapi.ErrAuth)
		assert.Equal(t, StateError, r.coordinator.Snapshot().State)
		assert.Empty(t, r.channel.opened)
		r.repo.AssertNotCalled(t, "GetSessionStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	testCases := []struct {
		name          string
		email         string
		session       model.Session
		expectedState State
		expectClosed  bool
	}{
		{
			name:          "Should deal the deck when voting",
			session:       votingSession(3),
			expectedState: StateVoting,
		},
		{
			name: "Should report an empty deck apart from errors",
			session: model.Session{
				ID:     validSessionID(),
				Status: model.StatusVoting,
			},
			expectedState: StateEmpty,
			expectClosed:  true,
		},
		{
			name: "Should complete at once when the session already has results",
			session: model.Session{
				ID:      validSessionID(),
				Status:  model.StatusCompleted,
				Movies:  deck(2),
				Results: model.Results(`{"score":2}`),
			},
			expectedState: StateComplete,
			expectClosed:  true,
		},
		{
			name: "Should abort when the session already ended",
			session: model.Session{
				ID:     validSessionID(),
				Status: model.StatusEnded,
			},
			expectedState: StateAborted,
			expectClosed:  true,
		},
		{
			name:  "Should resume waiting when the participant already voted",
			email: "me@example.com",
			session: model.Session{
				ID:     validSessionID(),
				Status: model.StatusVoting,
				Movies: deck(2),
				Participants: []model.Participant{
					{Email: "me@example.com", VotingComplete: true},
				},
			},
			expectedState: StateWaitingForResults,
		},
		{
			name: "Should keep loading until a group session starts",
			session: model.Session{
				ID:     validSessionID(),
				Status: model.StatusWaitingForParticipants,
			},
			expectedState: StateLoading,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			r := initResources(t, tc.email)
			r.withToken()
			r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
				Return(tc.session, nil).Once()

			err := r.coordinator.Start(r.ctx)

			require.NoError(t, err)
			snap := r.coordinator.Snapshot()
			assert.Equal(t, tc.expectedState, snap.State)
			assert.Equal(t, []model.ID{validSessionID()}, r.channel.opened)
			if tc.expectClosed {
				assert.Equal(t, 1, r.channel.closeCount())
			} else {
				assert.Zero(t, r.channel.closeCount())
			}
		})
	}

	t.Run("Should surface a load failure", func(t provider.T) {
		r := initResources(t, "")
		r.withToken()
		loadErr := &matchapi.Error{Kind: matchapi.KindServer, Status: 500, Message: "boom"}
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(model.Session{}, loadErr).Once()

		err := r.coordinator.Start(r.ctx)

		assert.ErrorIs(t, err, matchapi.ErrServer)
		snap := r.coordinator.Snapshot()
		assert.Equal(t, StateError, snap.State)
		assert.Equal(t, "boom", snap.Err.Error())
	})

	t.Run("Should keep going when realtime is unavailable", func(t provider.T) {
		r := initResources(t, "")
		r.withToken()
		r.channel.openErr = errors.New("dial failed")
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(votingSession(2), nil).Once()

		require.NoError(t, r.coordinator.Start(r.ctx))
		assert.Equal(t, StateVoting, r.coordinator.Snapshot().State)
	})

	t.Run("Should refuse a second start", func(t provider.T) {
		r := initResources(t, "")
		r.withToken()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(votingSession(2), nil).Once()

		require.NoError(t, r.coordinator.Start(r.ctx))
		assert.ErrorIs(t, r.coordinator.Start(r.ctx), ErrAlreadyStarted)
	})
}

func (s *CoordinatorSuite) TestVote(t provider.T) {
	t.Parallel()

	t.Run("Should record one vote per movie and submit them once", func(t provider.T) {
		r := initResources(t, "")
		r.withToken()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(votingSession(3), nil).Once()
		expected := model.Votes{"m1": true, "m2": false, "m3": true}
		r.repo.On("SubmitAllVotes", mock.Anything, validSessionID(), expected, validToken()).
			Return(nil).Once()
		require.NoError(t, r.coordinator.Start(r.ctx))

		for i, dir := range []model.Direction{model.DirectionRight, model.DirectionLeft, model.DirectionRight} {
			snap := r.coordinator.Snapshot()
			assert.Equal(t, i, snap.Index)
			require.NotNil(t, snap.Current)
			assert.Equal(t, model.ID(fmt.Sprintf("m%d", i+1)), snap.Current.ID)

			require.NoError(t, r.coordinator.Vote(r.ctx, dir))
		}

		snap := r.coordinator.Snapshot()
		assert.Equal(t, StateWaitingForResults, snap.State)
		assert.Equal(t, expected, snap.Votes)
		assert.Nil(t, snap.Current)
		assert.Equal(t, []State{StateVoting, StateAutoSubmitting, StateWaitingForResults}, r.events.seen())
	})

	t.Run("Should reject votes while the submission is in flight", func(t provider.T) {
		r := initResources(t, "")
		r.withToken()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(votingSession(2), nil).Once()
		release := make(chan struct{})
		r.repo.On("SubmitAllVotes", mock.Anything, validSessionID(), mock.Anything, validToken()).
			Run(func(mock.Arguments) { <-release }).
			Return(nil).Once()
		require.NoError(t, r.coordinator.Start(r.ctx))
		require.NoError(t, r.coordinator.Vote(r.ctx, model.DirectionLeft))

		done := make(chan error, 1)
		go func() { done <- r.coordinator.Vote(r.ctx, model.DirectionRight) }()
		assert.Eventually(t, func() bool {
			return r.coordinator.Snapshot().State == StateAutoSubmitting
		}, time.Second, time.Millisecond)

		assert.ErrorIs(t, r.coordinator.Vote(r.ctx, model.DirectionRight), ErrSubmissionInFlight)
		assert.ErrorIs(t, r.coordinator.RetrySubmit(r.ctx), ErrSubmissionInFlight)
		assert.Equal(t, 2, r.coordinator.Snapshot().Index)

		close(release)
		assert.NoError(t, <-done)
		assert.ErrorIs(t, r.coordinator.Vote(r.ctx, model.DirectionRight), ErrNotVoting)
	})

	t.Run("Should submit at most once under concurrent votes", func(t provider.T) {
		r := initResources(t, "")
		r.withToken()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(votingSession(5), nil).Once()
		r.repo.On("SubmitAllVotes", mock.Anything, validSessionID(), mock.Anything, validToken()).
			Return(nil).Once()
		require.NoError(t, r.coordinator.Start(r.ctx))

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			accepted int
		)
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := r.coordinator.Vote(r.ctx, model.DirectionRight)
				if err == nil {
					mu.Lock()
					accepted++
					mu.Unlock()
					return
				}
				assert.True(t, errors.Is(err, ErrNotVoting) || errors.Is(err, ErrSubmissionInFlight))
			}()
		}
		wg.Wait()

		assert.Equal(t, 5, accepted)
		snap := r.coordinator.Snapshot()
		assert.Len(t, snap.Votes, 5)
		assert.Equal(t, StateWaitingForResults, snap.State)
	})

	t.Run("Should keep votes and retry after a failed submission", func(t provider.T) {
		r := initResources(t, "")
		r.withToken()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(votingSession(2), nil).Once()
		expected := model.Votes{"m1": false, "m2": true}
		submitErr := &matchapi.Error{Kind: matchapi.KindNetwork, Message: "No response from server"}
		r.repo.On("SubmitAllVotes", mock.Anything, validSessionID(), expected, validToken()).
			Return(submitErr).Once()
		r.repo.On("SubmitAllVotes", mock.Anything, validSessionID(), expected, validToken()).
			Return(nil).Once()
		require.NoError(t, r.coordinator.Start(r.ctx))

		require.NoError(t, r.coordinator.Vote(r.ctx, model.DirectionLeft))
		err := r.coordinator.Vote(r.ctx, model.DirectionRight)

		assert.ErrorIs(t, err, matchapi.ErrNetwork)
		snap := r.coordinator.Snapshot()
		assert.Equal(t, StateError, snap.State)
		assert.Equal(t, expected, snap.Votes)
		assert.ErrorIs(t, r.coordinator.Vote(r.ctx, model.DirectionRight), ErrNotVoting)

		require.NoError(t, r.coordinator.RetrySubmit(r.ctx))
		assert.Equal(t, StateWaitingForResults, r.coordinator.Snapshot().State)
		assert.ErrorIs(t, r.coordinator.RetrySubmit(r.ctx), ErrNothingToRetry)
	})

	t.Run("Should refuse votes after close", func(t provider.T) {
		r := initResources(t, "")
		r.withToken()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(votingSession(2), nil).Once()
		require.NoError(t, r.coordinator.Start(r.ctx))

		require.NoError(t, r.coordinator.Close())
		require.NoError(t, r.coordinator.Close())

		assert.ErrorIs(t, r.coordinator.Vote(r.ctx, model.DirectionRight), ErrClosed)
		assert.Equal(t, 1, r.channel.closeCount())
	})
}

func (s *CoordinatorSuite) TestEvents(t provider.T) {
	t.Parallel()

	results := `{"winning_movie":{"id":7,"title":"Heat"},"score":3,"total_participants":2}`

	t.Run("Should forward matching results verbatim", func(t provider.T) {
		r := initResources(t, "")
		r.withToken()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(votingSession(1), nil).Once()
		r.repo.On("SubmitAllVotes", mock.Anything, validSessionID(), mock.Anything, validToken()).
			Return(nil).Once()
		require.NoError(t, r.coordinator.Start(r.ctx))
		require.NoError(t, r.coordinator.Vote(r.ctx, model.DirectionRight))

		r.channel.emit(model.EventMatchingComplete, `{"results":`+results+`}`)

		snap := r.coordinator.Snapshot()
		assert.Equal(t, StateComplete, snap.State)
		require.Len(t, r.events.complete, 1)
		assert.JSONEq(t, results, string(r.events.complete[0]))
		assert.Equal(t, 1, r.channel.closeCount())
	})

	t.Run("Should complete straight after submit when results came first", func(t provider.T) {
		r := initResources(t, "")
		r.withToken()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(votingSession(1), nil).Once()
		r.repo.On("SubmitAllVotes", mock.Anything, validSessionID(), mock.Anything, validToken()).
			Run(func(mock.Arguments) {
				r.channel.emit(model.EventMatchingComplete, `{"results":`+results+`}`)
			}).
			Return(nil).Once()
		require.NoError(t, r.coordinator.Start(r.ctx))

		require.NoError(t, r.coordinator.Vote(r.ctx, model.DirectionRight))

		assert.Equal(t, []State{StateVoting, StateAutoSubmitting, StateComplete}, r.events.seen())
		assert.JSONEq(t, results, string(r.coordinator.Snapshot().Results))
	})

	t.Run("Should tear down once on repeated session end", func(t provider.T) {
		r := initResources(t, "")
		r.withToken()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(votingSession(3), nil).Once()
		require.NoError(t, r.coordinator.Start(r.ctx))

		r.channel.emit(model.EventSessionEnded, `{"ended_by":"owner@example.com"}`)
		r.channel.emit(model.EventSessionEnded, `{}`)
		r.channel.emit(model.EventSessionCleanup, `{}`)

		assert.Equal(t, StateAborted, r.coordinator.Snapshot().State)
		assert.Equal(t, 1, r.events.ended)
		assert.Equal(t, 1, r.channel.closeCount())
		assert.ErrorIs(t, r.coordinator.Vote(r.ctx, model.DirectionLeft), ErrNotVoting)
	})

	t.Run("Should ignore session end after completion", func(t provider.T) {
		r := initResources(t, "")
		r.withToken()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(model.Session{ID: validSessionID(), Status: model.StatusCompleted, Results: model.Results(results)}, nil).Once()
		require.NoError(t, r.coordinator.Start(r.ctx))

		r.channel.emit(model.EventSessionEnded, `{}`)

		assert.Equal(t, StateComplete, r.coordinator.Snapshot().State)
		assert.Zero(t, r.events.ended)
	})

	t.Run("Should refresh progress when someone submits", func(t provider.T) {
		r := initResources(t, "")
		r.withToken()
		first := votingSession(2)
		second := votingSession(2)
		second.Participants[1].VotingComplete = true
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(first, nil).Once()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(second, nil).Once()
		require.NoError(t, r.coordinator.Start(r.ctx))

		r.channel.emit(model.EventVotesSubmitted, `{"email":"friend@example.com"}`)

		snap := r.coordinator.Snapshot()
		assert.Equal(t, StateVoting, snap.State)
		assert.Equal(t, 1, snap.Voted)
		assert.Equal(t, 2, snap.Participants)
	})

	t.Run("Should defer a refresh requested while loading", func(t provider.T) {
		r := initResources(t, "")
		r.withToken()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Run(func(mock.Arguments) {
				r.channel.emit(model.EventVotesSubmitted, `{}`)
			}).
			Return(votingSession(2), nil).Once()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(votingSession(2), nil).Once()

		require.NoError(t, r.coordinator.Start(r.ctx))

		r.repo.AssertNumberOfCalls(t, "GetSessionStatus", 2)
		assert.Equal(t, StateVoting, r.coordinator.Snapshot().State)
	})

	t.Run("Should only log a failed refresh", func(t provider.T) {
		r := initResources(t, "")
		r.withToken()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(votingSession(2), nil).Once()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(model.Session{}, &matchapi.Error{Kind: matchapi.KindTimeout, Message: "Request timeout"}).Once()
		require.NoError(t, r.coordinator.Start(r.ctx))

		r.channel.emit(model.EventParticipantReady, `{}`)

		snap := r.coordinator.Snapshot()
		assert.Equal(t, StateVoting, snap.State)
		assert.NoError(t, snap.Err)
		assert.Empty(t, r.events.errs)
	})

	t.Run("Should start voting once a group session starts", func(t provider.T) {
		r := initResources(t, "")
		r.withToken()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(model.Session{ID: validSessionID(), Status: model.StatusWaitingForParticipants}, nil).Once()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(votingSession(4), nil).Once()
		require.NoError(t, r.coordinator.Start(r.ctx))

		r.channel.emit(model.EventMatchingStarted, `{}`)

		snap := r.coordinator.Snapshot()
		assert.Equal(t, StateVoting, snap.State)
		assert.Equal(t, 4, snap.Total)
	})
}

func (s *CoordinatorSuite) TestRefresh(t provider.T) {
	t.Parallel()

	waiting := model.Session{ID: validSessionID(), Status: model.StatusWaitingForParticipants}

	t.Run("Should start voting on refresh when realtime is down", func(t provider.T) {
		r := initResources(t, "")
		r.withToken()
		r.channel.openErr = errors.New("dial failed")
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(waiting, nil).Once()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(votingSession(3), nil).Once()

		require.NoError(t, r.coordinator.Start(r.ctx))
		require.Equal(t, StateLoading, r.coordinator.Snapshot().State)

		require.NoError(t, r.coordinator.Refresh(r.ctx))

		snap := r.coordinator.Snapshot()
		assert.Equal(t, StateVoting, snap.State)
		assert.Equal(t, 3, snap.Total)
	})

	t.Run("Should poll while realtime is down", func(t provider.T) {
		r := initResourcesWith(t, Options{
			SessionID:    validSessionID(),
			PollInterval: 10 * time.Millisecond,
		})
		r.withToken()
		r.channel.openErr = errors.New("dial failed")
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(waiting, nil).Once()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(votingSession(2), nil).Once()
		defer r.coordinator.Close()

		require.NoError(t, r.coordinator.Start(r.ctx))

		assert.Eventually(t, func() bool {
			return r.coordinator.Snapshot().State == StateVoting
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("Should not poll while connected", func(t provider.T) {
		r := initResourcesWith(t, Options{
			SessionID:    validSessionID(),
			PollInterval: 5 * time.Millisecond,
		})
		r.withToken()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(waiting, nil).Once()
		defer r.coordinator.Close()

		require.NoError(t, r.coordinator.Start(r.ctx))
		time.Sleep(50 * time.Millisecond)

		assert.Equal(t, StateLoading, r.coordinator.Snapshot().State)
	})

	t.Run("Should recover from a failed load", func(t provider.T) {
		r := initResources(t, "")
		r.withToken()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(model.Session{}, &matchapi.Error{Kind: matchapi.KindNetwork, Message: "Network error"}).Once()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(votingSession(2), nil).Once()

		require.Error(t, r.coordinator.Start(r.ctx))
		require.Equal(t, StateError, r.coordinator.Snapshot().State)

		require.NoError(t, r.coordinator.Refresh(r.ctx))

		snap := r.coordinator.Snapshot()
		assert.Equal(t, StateVoting, snap.State)
		assert.NoError(t, snap.Err)
	})

	t.Run("Should return the read error", func(t provider.T) {
		r := initResources(t, "")
		r.withToken()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(waiting, nil).Once()
		r.repo.On("GetSessionStatus", mock.Anything, validSessionID(), validToken()).
			Return(model.Session{}, &matchapi.Error{Kind: matchapi.KindTimeout, Message: "Request timeout"}).Once()
		require.NoError(t, r.coordinator.Start(r.ctx))

		assert.ErrorIs(t, r.coordinator.Refresh(r.ctx), matchapi.ErrTimeout)
		assert.Equal(t, StateLoading, r.coordinator.Snapshot().State)
	})

	t.Run("Should refuse before start and after close", func(t provider.T) {
		r := initResources(t, "")

		assert.ErrorIs(t, r.coordinator.Refresh(r.ctx), ErrNotStarted)

		require.NoError(t, r.coordinator.Close())
		assert.ErrorIs(t, r.coordinator.Refresh(r.ctx), ErrClosed)
	})
}

func TestCoordinatorSuite(t *testing.T) {
	suite.RunSuite(t, new(CoordinatorSuite))
}
