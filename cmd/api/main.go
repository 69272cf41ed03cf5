package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/floripafacil/backend/internal/experiments"
	"github.com/floripafacil/backend/internal/http/handlers"
	authmw "github.com/floripafacil/backend/internal/http/middleware"
	"github.com/floripafacil/backend/internal/platform/mailer"
	"github.com/floripafacil/backend/internal/repo/postgres"
	"github.com/floripafacil/backend/pkg/config"
	"github.com/floripafacil/backend/pkg/database"
	"github.com/floripafacil/backend/pkg/events"
	"github.com/floripafacil/backend/pkg/logger"
	mw "github.com/floripafacil/backend/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	// Repositories
	usersRepo := postgres.NewUsersRepo(pool)
	packagesRepo := postgres.NewPackagesRepo(pool)
	destinationsRepo := postgres.NewDestinationsRepo(pool)
	reservationsRepo := postgres.NewReservationsRepo(pool)
	auditRepo := postgres.NewAuditRepo(pool)
	rateLimitRepo := postgres.NewRateLimitRepo(pool)

	// Experiment tracker: Redis-backed assignments when Redis is reachable,
	// in-memory otherwise. Counters are in-memory either way.
	tracker := experiments.NewTracker(assignmentStore(ctx, cfg))

	mailSvc := buildMailer(cfg)
	startMailConsumer(eventBus, reservationsRepo, mailSvc)

	// Handlers
	authHandler := handlers.NewAuthHandler(usersRepo, auditRepo, cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	packagesHandler := handlers.NewPackagesHandler(packagesRepo, auditRepo)
	destinationsHandler := handlers.NewDestinationsHandler(destinationsRepo, auditRepo)
	reservationsHandler := handlers.NewReservationsHandler(reservationsRepo, packagesRepo, auditRepo, eventBus)
	usersHandler := handlers.NewUsersHandler(usersRepo, auditRepo, eventBus)
	experimentsHandler := handlers.NewExperimentsHandler(tracker, eventBus)
	dashboardHandler := handlers.NewDashboardHandler(reservationsRepo, auditRepo)
	financeHandler := handlers.NewFinanceHandler(reservationsRepo)
	auditHandler := handlers.NewAuditHandler(auditRepo)

	leadLimiter := authmw.NewRateLimiter(rateLimitRepo, authmw.RateLimitConfig{
		Requests: 5,
		Window:   time.Minute,
		KeyFunc:  authmw.ClientIPKeyFunc,
	})

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("api"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Site.PublicOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Visitor-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		// Public site
		r.Mount("/auth", authHandler.Routes())
		r.Mount("/destinations", destinationsHandler.PublicRoutes())
		r.Mount("/packages", packagesHandler.PublicRoutes())
		r.Mount("/reservations", reservationsHandler.PublicRoutes(leadLimiter.Middleware()))
		r.Mount("/experiments", experimentsHandler.PublicRoutes())

		// Staff admin
		r.Route("/admin", func(r chi.Router) {
			r.Use(authmw.RequireAuth(cfg.Auth.JWTSecret))
			r.Mount("/users", usersHandler.Routes())
			r.Mount("/packages", packagesHandler.AdminRoutes())
			r.Mount("/destinations", destinationsHandler.AdminRoutes())
			r.Mount("/reservations", reservationsHandler.AdminRoutes())
			r.Mount("/experiments", experimentsHandler.AdminRoutes())
			r.Mount("/dashboard", dashboardHandler.Routes())
			r.Mount("/finance", financeHandler.Routes())
			r.Mount("/audit", auditHandler.Routes())
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("api listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// assignmentStore connects to Redis for durable variant assignments. An
// unreachable Redis degrades to the in-memory store rather than blocking
// startup; assignments then last for the process lifetime only.
func assignmentStore(ctx context.Context, cfg *config.Config) experiments.AssignmentStore {
	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Warn("invalid REDIS_URL, using in-memory assignment store", "error", err)
		return experiments.NewMemoryAssignmentStore()
	}
	if cfg.Redis.Password != "" {
		opt.Password = cfg.Redis.Password
	}
	opt.DB = cfg.Redis.DB

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, using in-memory assignment store", "error", err)
		return experiments.NewMemoryAssignmentStore()
	}

	logger.Info("using redis assignment store")
	return experiments.NewRedisAssignmentStore(client, cfg.Experiment.AssignmentTTL)
}

func buildMailer(cfg *config.Config) mailer.Service {
	switch {
	case cfg.Email.DevMode:
		logger.Info("mailer in dev mode, emails go to the log")
		return mailer.NewDevMailer()
	case cfg.Email.MailerSendKey != "":
		return mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.SMTPFrom)
	default:
		return mailer.NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPFrom, cfg.Email.SMTPUser, cfg.Email.SMTPPass)
	}
}

// startMailConsumer sends the customer emails off the event bus so a slow
// mail provider never holds up an HTTP response.
func startMailConsumer(bus events.Subscriber, reservations postgres.ReservationsRepo, mailSvc mailer.Service) {
	err := bus.QueueSubscribe(events.ReservationCreated, "mailer", func(msg *events.Message) {
		var ev events.ReservationCreatedEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			logger.Error("bad reservation.created payload", "error", err)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		res, err := reservations.FindByID(ctx, ev.ReservationID)
		if err != nil {
			logger.Error("failed to load reservation for mail", "reservation_id", ev.ReservationID, "error", err)
			return
		}
		if err := mailSvc.SendReservationReceived(res); err != nil {
			logger.Error("failed to send reservation-received mail", "reservation_id", res.ID, "error", err)
		}
	})
	if err != nil {
		logger.Error("failed to subscribe mail consumer", "subject", events.ReservationCreated, "error", err)
	}

	err = bus.QueueSubscribe(events.ReservationStatusChanged, "mailer", func(msg *events.Message) {
		var ev events.ReservationStatusChangedEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			logger.Error("bad reservation.status_changed payload", "error", err)
			return
		}
		if ev.NewStatus != "confirmed" {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		res, err := reservations.FindByID(ctx, ev.ReservationID)
		if err != nil {
			logger.Error("failed to load reservation for mail", "reservation_id", ev.ReservationID, "error", err)
			return
		}
		if err := mailSvc.SendReservationConfirmed(res); err != nil {
			logger.Error("failed to send confirmation mail", "reservation_id", res.ID, "error", err)
		}
	})
	if err != nil {
		logger.Error("failed to subscribe mail consumer", "subject", events.ReservationStatusChanged, "error", err)
	}
}
