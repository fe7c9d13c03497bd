// Package metrics exposes Prometheus collectors for the matching client.
package metrics

import (
	"github.com/humanbelnik/kinoswap/matchclient/internal/infra/matchapi"
	"github.com/humanbelnik/kinoswap/matchclient/internal/model"
	usecase_swipe "github.com/humanbelnik/kinoswap/matchclient/internal/usecase/swipe"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "matchclient"

type Metrics struct {
	// VotesCast counts swipes by direction.
	VotesCast *prometheus.CounterVec
	// Submissions counts vote submissions by outcome kind.
	Submissions *prometheus.CounterVec
	// RealtimeEvents counts session events received on the topic.
	RealtimeEvents *prometheus.CounterVec
	// SessionsFinished counts sessions by terminal state.
	SessionsFinished *prometheus.CounterVec
	// ActiveSessions tracks coordinators currently held by the registry.
	ActiveSessions prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		VotesCast: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "votes_cast_total",
				Help:      "Total number of swipes recorded",
			},
			[]string{"direction"},
		),
		Submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "vote_submissions_total",
				Help:      "Total number of vote submissions by result",
			},
			[]string{"result"},
		),
		RealtimeEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "realtime_events_total",
				Help:      "Total number of session events received",
			},
			[]string{"event"},
		),
		SessionsFinished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_finished_total",
				Help:      "Total number of sessions that reached a terminal state",
			},
			[]string{"state"},
		),
		ActiveSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_sessions",
				Help:      "Number of sessions currently coordinated",
			},
		),
	}
}

func (m *Metrics) VoteCast(direction model.Direction) {
	m.VotesCast.WithLabelValues(string(direction)).Inc()
}

func (m *Metrics) SubmitFinished(err error) {
	result := "ok"
	if err != nil {
		result = matchapi.KindOf(err).String()
	}
	m.Submissions.WithLabelValues(result).Inc()
}

func (m *Metrics) SessionFinished(state usecase_swipe.State) {
	m.SessionsFinished.WithLabelValues(string(state)).Inc()
}

func (m *Metrics) EventReceived(event model.EventName) {
	m.RealtimeEvents.WithLabelValues(string(event)).Inc()
}

func (m *Metrics) SessionOpened() {
	m.ActiveSessions.Inc()
}

func (m *Metrics) SessionReleased() {
	m.ActiveSessions.Dec()
}
