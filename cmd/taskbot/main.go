package main

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"crowdbot/internal/chat"
	"crowdbot/internal/config"
	"crowdbot/internal/logging"
	"crowdbot/internal/session"
	"crowdbot/internal/store"
	"crowdbot/internal/task"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var st *store.Store
	var audit session.AuditLog
	if cfg.Bot.PostgresDSN != "" {
		st, err = store.New(cfg.Bot.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("store init failed")
		}
		if err := st.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("db ping failed")
		}
		defer st.Close()
		audit = st
		log.Info().Msg("audit store enabled")
	}

	client := chat.NewClient(cfg.Bot.ChatAPIURL, cfg.Bot.BotToken, 5*time.Second)
	if td, err := client.GetTaskForUser(ctx, cfg.Bot.BotUserID); err == nil {
		log.Info().Str("task_id", td.ID).Str("task", td.Name).Int("required_users", td.RequiredUsers).Msg("task descriptor loaded")
	} else {
		log.Warn().Err(err).Str("task_id", cfg.Bot.TaskID).Msg("task descriptor unavailable, using configured defaults")
	}

	strat := task.NewWordGuess(cfg.Bot.TaskWords, cfg.Session.RequiredParticipants)
	engine := session.NewEngine(client, strat, cfg.Session, audit)

	ops := &http.Server{
		Addr:              cfg.Bot.OpsAddr,
		Handler:           newOpsRouter(engine, st),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.Bot.OpsAddr).Msg("ops server listening")
		if err := ops.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("ops server stopped")
		}
	}()

	stream := chat.NewStream(cfg.Bot.ChatWSURL, cfg.Bot.BotToken, engine)
	log.Info().Str("bot", cfg.Bot.BotName).Str("task", strat.Name()).Msg("taskbot starting")
	err = stream.Run(ctx)
	log.Info().Err(err).Msg("event stream stopped, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := engine.Drain(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("drain timed out, some room queues not empty")
	}
	_ = ops.Shutdown(shutdownCtx)
}

func newOpsRouter(engine *session.Dispatcher, st *store.Store) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(opsLogMiddleware())

	r.Get("/healthz", healthHandler(st))
	r.Get("/sessions", sessionsHandler(engine))
	r.Get("/debug/vars", expvar.Handler().ServeHTTP)
	return r
}

func opsLogMiddleware() func(http.Handler) http.Handler {
	return httplog.RequestLogger(
		slog.New(slog.NewJSONHandler(logging.Writer(), &slog.HandlerOptions{})),
		&httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.Schema{ResponseStatus: "status", ResponseDuration: "duration_ms"},
			LogExtraAttrs: func(req *http.Request, _ string, _ int) []slog.Attr {
				return []slog.Attr{
					slog.String("request_id", chimw.GetReqID(req.Context())),
					slog.String("method", req.Method),
					slog.String("path", req.URL.Path),
				}
			},
		},
	)
}

func healthHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st != nil {
			if err := st.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "db": "down"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "db": "up"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func sessionsHandler(engine *session.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"active_sessions": engine.Registry().Len()})
	}
}
