package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/dkranz/leadgate/internal/api/handlers"
	"github.com/dkranz/leadgate/internal/api/middleware"
	"github.com/dkranz/leadgate/internal/auth"
	"github.com/dkranz/leadgate/internal/cache"
	"github.com/dkranz/leadgate/internal/config"
	"github.com/dkranz/leadgate/internal/contact"
	"github.com/dkranz/leadgate/internal/enrich"
	"github.com/dkranz/leadgate/internal/queue"
)

type Router struct {
	mux      *chi.Mux
	db       *pgxpool.Pool
	redis    *redis.Client
	cfg      *config.Config
	verifier *auth.Verifier
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	return &Router{
		mux:      chi.NewRouter(),
		db:       db,
		redis:    rdb,
		cfg:      cfg,
		verifier: auth.NewVerifier(cfg.Auth),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Intake pipeline
	var classifier contact.Classifier
	if rt.cfg.Enrich.OpenAIKey != "" {
		classifier = enrich.New(rt.cfg.Enrich.OpenAIKey, rt.cfg.Enrich.Model)
	}

	store := contact.NewStore(rt.db)
	mailer := contact.NewMailer(rt.cfg.Email.ResendAPIKey)
	sinks := []contact.Sink{
		store,
		contact.NewWebhookSink("webhook", rt.cfg.Intake.WebhookURL),
		contact.NewWebhookSink("n8n", rt.cfg.Intake.AutomationURL),
		contact.NewNotificationSink(mailer, rt.cfg.Email.From, rt.cfg.Email.NotificationTo, classifier),
		contact.NewAutoReplySink(mailer, rt.cfg.Email.From),
	}
	pipeline := contact.NewPipeline(rt.cfg.Intake.DispatchTimeout, sinks...)

	var stats *contact.Stats
	if rt.redis != nil {
		stats = contact.NewStats(cache.NewCache(rt.redis))
	}

	sinkNames := make([]string, len(sinks))
	for i, s := range sinks {
		sinkNames[i] = s.Name()
	}

	authMW := auth.NewMiddleware(rt.verifier)

	r.Route("/api", func(r chi.Router) {
		contactH := handlers.NewContactHandler(pipeline, stats, rt.cfg.IsDevelopment())
		r.Post("/contact", contactH.Submit)

		authH := handlers.NewAuthHandler(rt.verifier)
		r.Get("/auth/me", authH.Me)

		var purgeQueue handlers.PurgeEnqueuer
		if rt.redis != nil {
			purgeQueue = queue.NewClient(rt.cfg.Redis)
		}

		adminH := handlers.NewAdminHandler(store, stats, sinkNames, purgeQueue, rt.cfg.Retention.Days)
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMW.Identify)
			r.Use(authMW.RequireAuth(""))
			r.Use(auth.RequirePermission(auth.PermAnalyticsView))

			r.Get("/submissions", adminH.Submissions)
			r.Get("/intake/stats", adminH.IntakeStats)
			r.With(auth.RequirePermission(auth.PermSettingsEdit)).
				Post("/retention/purge", adminH.TriggerRetentionPurge)
		})
	})

	return r
}
