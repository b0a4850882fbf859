package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/school-tournament/handlers"
	"github.com/Dosada05/school-tournament/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Health    *handlers.HealthHandler
	Team      *handlers.TeamHandler
	Match     *handlers.MatchHandler
	Schedule  *handlers.ScheduleHandler
	Bracket   *handlers.BracketHandler
	Export    *handlers.ExportHandler
	WebSocket *handlers.WebSocketHandler
}

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
	Metrics        http.Handler
	Logger         *slog.Logger
}

func SetupRoutes(r chi.Router, h Handlers, opts Options) {
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger(opts.Logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health.Health)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	r.Get("/ws/disciplines/{discipline}", h.WebSocket.ServeWs)

	admin := func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.JWTSecret))
		r.Use(middleware.Authorize(middleware.RoleAdmin))
	}

	r.Route("/disciplines/{discipline}", func(r chi.Router) {
		r.Get("/matches", h.Match.ListMatches)
		r.Get("/teams", h.Team.ListTeams)
	})

	r.Route("/teams", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			admin(r)
			r.Post("/", h.Team.CreateTeam)
			r.Put("/{teamID}/group", h.Team.AssignGroup)
			r.Delete("/{teamID}", h.Team.DeleteTeam)
		})
	})

	r.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", h.Match.GetMatch)

		r.Group(func(r chi.Router) {
			admin(r)
			r.Post("/", h.Match.CreateMatch)
			r.Delete("/{matchID}", h.Match.DeleteMatch)
			r.Put("/{matchID}/slot", h.Match.PlaceMatch)
			r.Delete("/{matchID}/slot", h.Match.UnscheduleMatch)
			r.Post("/{matchID}/start", h.Match.StartMatch)
			r.Post("/{matchID}/finish", h.Match.FinishMatch)
			r.Post("/{matchID}/pause", h.Match.PauseMatch)
			r.Post("/{matchID}/reopen", h.Match.ReopenMatch)
		})
	})

	r.Route("/schedule", func(r chi.Router) {
		r.Get("/config", h.Schedule.GetConfig)
		r.Get("/alternation", h.Schedule.GetAlternation)
		r.Get("/validate", h.Schedule.ValidateSchedule)
		r.Get("/free-slots", h.Schedule.ListFreeSlots)

		r.Group(func(r chi.Router) {
			admin(r)
			r.Post("/auto-assign", h.Schedule.AutoAssign)
		})
	})

	r.Route("/brackets/{discipline}/{gender}/{level}/{category}", func(r chi.Router) {
		r.Get("/standings", h.Bracket.GetStandings)

		r.Group(func(r chi.Router) {
			admin(r)
			r.Post("/group-stage", h.Bracket.GenerateGroupStage)
			r.Post("/advance", h.Bracket.AdvanceBracket)
		})
	})

	r.Get("/export/schedule.xlsx", h.Export.DownloadSchedule)
	r.Group(func(r chi.Router) {
		admin(r)
		r.Post("/export/publish", h.Export.PublishSchedule)
		r.Post("/import/matches", h.Export.ImportMatches)
	})
}

// requestLogger logs one structured line per request.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", chiMiddleware.GetReqID(r.Context())),
			)
		})
	}
}
