package app

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/humanbelnik/kinoswap/matchclient/internal/config"
	http_auth "github.com/humanbelnik/kinoswap/matchclient/internal/delivery/http/auth"
	http_history "github.com/humanbelnik/kinoswap/matchclient/internal/delivery/http/history"
	http_init "github.com/humanbelnik/kinoswap/matchclient/internal/delivery/http/init"
	http_joincode "github.com/humanbelnik/kinoswap/matchclient/internal/delivery/http/joincode"
	http_auth_middleware "github.com/humanbelnik/kinoswap/matchclient/internal/delivery/http/middleware/auth"
	http_session "github.com/humanbelnik/kinoswap/matchclient/internal/delivery/http/session"
	http_swagger "github.com/humanbelnik/kinoswap/matchclient/internal/delivery/http/swagger"
	ws_session "github.com/humanbelnik/kinoswap/matchclient/internal/delivery/ws/session"
	"github.com/humanbelnik/kinoswap/matchclient/internal/infra/matchapi"
	"github.com/humanbelnik/kinoswap/matchclient/internal/infra/metrics"
	"github.com/humanbelnik/kinoswap/matchclient/internal/infra/pusher"
	infra_redis_init "github.com/humanbelnik/kinoswap/matchclient/internal/infra/redis/init"
	infra_redis_token "github.com/humanbelnik/kinoswap/matchclient/internal/infra/redis/token"
	infra_sql_history "github.com/humanbelnik/kinoswap/matchclient/internal/infra/sql/history"
	infra_sql_init "github.com/humanbelnik/kinoswap/matchclient/internal/infra/sql/init"
	"github.com/humanbelnik/kinoswap/matchclient/internal/model"
	"github.com/humanbelnik/kinoswap/matchclient/internal/realtime"
	service_auth "github.com/humanbelnik/kinoswap/matchclient/internal/service/auth"
	usecase_match "github.com/humanbelnik/kinoswap/matchclient/internal/usecase/match"
	usecase_swipe "github.com/humanbelnik/kinoswap/matchclient/internal/usecase/swipe"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	tokenStoreRedis = "redis"
	saveTimeout     = 5 * time.Second
)

// App holds the wired components shared by the CLI commands and the bridge.
type App struct {
	cfg *config.Config

	Credentials *service_auth.Provider
	Match       *usecase_match.Usecase
	Registry    *usecase_swipe.Registry
	Hub         *ws_session.Hub
	History     *infra_sql_history.Driver
	Metrics     *metrics.Metrics

	api        *matchapi.Client
	prometheus *prometheus.Registry
	logger     *slog.Logger

	savesMu sync.Mutex
	saves   sync.WaitGroup
	closing bool
}

func New(ctx context.Context, cfg *config.Config) *App {
	SetupLogger(cfg.LogLevel)

	a := &App{
		cfg:        cfg,
		api:        matchapi.New(cfg.MatchAPI.BaseURL, cfg.MatchAPI.Timeout),
		prometheus: prometheus.NewRegistry(),
		Hub:        ws_session.New(nil),
		logger:     slog.Default(),
	}
	a.Metrics = metrics.New(a.prometheus)
	a.Credentials = service_auth.New(a.tokenStore(ctx))
	a.Match = usecase_match.New(a.api, a.Credentials)

	if db := infra_sql_init.MustEstablishConn(cfg.History); db != nil {
		a.History = infra_sql_history.New(db)
		if err := a.History.Migrate(ctx); err != nil {
			a.logger.Error("history migration failed, history disabled", "error", err)
			a.History = nil
		}
	}

	a.Registry = usecase_swipe.NewRegistry(a.newCoordinator)
	a.Registry.OnRelease(func(model.ID) {
		a.Metrics.SessionReleased()
	})

	return a
}

func (a *App) tokenStore(ctx context.Context) service_auth.TokenStore {
	creds := a.cfg.Credentials
	if creds.Store != tokenStoreRedis {
		return service_auth.NewMemory(creds.Token)
	}

	client := infra_redis_init.MustEstablishConn(a.cfg.Redis)
	store := infra_redis_token.New(client, a.cfg.Redis.KeyPrefix, creds.Email, a.cfg.Redis.TokenTTL)
	if creds.Token != "" {
		if err := store.Set(ctx, creds.Token); err != nil {
			a.logger.Error("failed to seed token store", "error", err)
		}
	}
	return store
}

func (a *App) newCoordinator(sessionID model.ID) *usecase_swipe.Coordinator {
	transport := pusher.New(pusher.Config{
		Key:      a.cfg.Pusher.Key,
		Cluster:  a.cfg.Pusher.Cluster,
		Host:     a.cfg.Pusher.Host,
		Insecure: a.cfg.Pusher.Insecure,
	})
	channel := realtime.New(transport, realtime.Options{
		GraceDelay: a.cfg.Realtime.GraceDelay,
		Logger:     a.logger,
		OnEvent:    a.Metrics.EventReceived,
	})

	c := usecase_swipe.New(a.api, channel, a.Credentials, usecase_swipe.Options{
		SessionID:        sessionID,
		ParticipantEmail: a.cfg.Credentials.Email,
		Logger:           a.logger,
		Recorder:         a.Metrics,
		PollInterval:     a.cfg.Realtime.PollInterval,
	})
	c.AddListener(a.Hub.Listener(sessionID))
	if a.History != nil {
		c.AddListener(usecase_swipe.Listener{OnStateChange: a.saveMatch})
	}
	a.Metrics.SessionOpened()

	return c
}

func (a *App) saveMatch(snap usecase_swipe.Snapshot) {
	if snap.State != usecase_swipe.StateComplete {
		return
	}
	record := infra_sql_history.NewRecord(snap.Session, snap.Results, time.Now())

	a.savesMu.Lock()
	defer a.savesMu.Unlock()
	if a.closing {
		a.logger.Warn("match not saved, shutting down", "session_id", snap.SessionID)
		return
	}
	a.saves.Add(1)

	go func() {
		defer a.saves.Done()
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		if _, err := a.History.Save(ctx, record); err != nil {
			a.logger.Error("failed to save match", "session_id", snap.SessionID, "error", err)
		}
	}()
}

// Serve runs the local bridge until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	pool := http_init.NewControllerPool()
	pool.Add(http_auth.New(a.Credentials))
	pool.Add(http_swagger.New(http_init.APIPrefix))
	pool.Add(http_joincode.New())
	pool.Add(http_session.New(a.Match, a.Registry, a.Hub,
		http_session.WithMiddleware(http_auth_middleware.New(a.Credentials).TokenRequired()),
	))
	if a.History != nil {
		pool.Add(http_history.New(a.History))
	}
	pool.Register()
	pool.Mount("/metrics", promhttp.HandlerFor(a.prometheus, promhttp.HandlerOpts{}))

	return pool.RunAll(ctx, a.cfg.HTTP.Host, a.cfg.HTTP.Port)
}

// Close stops every coordinator, waits up to saveTimeout for pending
// history writes and closes the history database.
func (a *App) Close() {
	a.Registry.CloseAll()

	a.savesMu.Lock()
	a.closing = true
	a.savesMu.Unlock()

	done := make(chan struct{})
	go func() {
		a.saves.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(saveTimeout):
		a.logger.Warn("gave up waiting for match history writes")
	}

	if a.History != nil {
		if err := a.History.Close(); err != nil {
			a.logger.Error("failed to close history database", "error", err)
		}
	}
}

func SetupLogger(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
