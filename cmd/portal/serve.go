package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"neuroportal/internal/audit"
	"neuroportal/internal/auth"
	"neuroportal/internal/catalog"
	catalogfixtures "neuroportal/internal/catalog/fixtures"
	"neuroportal/internal/membership"
	"neuroportal/internal/payment"
	paymentfixtures "neuroportal/internal/payment/fixtures"
	"neuroportal/internal/platform/config"
	"neuroportal/internal/platform/httpserver"
	"neuroportal/internal/platform/logger"
	"neuroportal/internal/platform/middleware"
	"neuroportal/internal/platform/postgres"
	platformredis "neuroportal/internal/platform/redis"
	"neuroportal/internal/specialists"
	specialistfixtures "neuroportal/internal/specialists/fixtures"
	"neuroportal/internal/wizard"
	id "neuroportal/pkg/domain"
	"neuroportal/pkg/platform/httputil"
)

// auditInboxSize bounds how many audit events can sit between the publisher
// and the worker before publishes start dropping.
const auditInboxSize = 1024

// accountBackend is what the composition root needs from the identity
// provider: the wizard-facing account operations plus login verification.
type accountBackend interface {
	membership.AccountProvider
	auth.PasswordChecker
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the portal HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var (
		catalogStore     catalog.Store
		specialistStore  specialists.Store
		applicationStore membership.Store
		paymentStore     payment.Store
		memberDirectory  payment.MemberDirectory
		auditStore       audit.Store
	)
	if cfg.Postgres.DSN != "" {
		db, err := postgres.Open(cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		defer db.Close()

		catalogStore = catalog.NewPostgresStore(db)
		specialistStore = specialists.NewPostgresStore(db)
		applicationStore = membership.NewPostgresStore(db)
		paymentStore = payment.NewPostgresStore(db)
		memberDirectory = payment.NewPostgresDirectory(db)
		auditStore = audit.NewPostgresStore(db)
		log.Info("postgres storage configured")
	} else {
		content, err := catalogfixtures.Load()
		if err != nil {
			return err
		}
		profiles, err := specialistfixtures.Load()
		if err != nil {
			return err
		}
		members, err := paymentfixtures.Load()
		if err != nil {
			return err
		}

		contentStore := catalog.NewInMemoryStore()
		contentStore.Replace(content.Events, content.Webinars, content.Publications, content.Resources, content.Videos)
		profileStore := specialists.NewInMemoryStore()
		profileStore.Replace(profiles)
		directory := payment.NewInMemoryDirectory()
		directory.Replace(members)

		catalogStore = contentStore
		specialistStore = profileStore
		applicationStore = membership.NewInMemoryStore()
		paymentStore = payment.NewInMemoryStore()
		memberDirectory = directory
		auditStore = audit.NewInMemoryStore()
		log.Info("no postgres DSN set, serving fixture content from memory")
	}

	var wizardStore wizard.Store = wizard.NewInMemoryStore(cfg.WizardTTL)
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		wizardStore = wizard.NewRedisStore(redisClient.Client, cfg.WizardTTL)
		log.Info("redis wizard session store configured")
	}

	sinks := []audit.Sink{auditStore}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return err
		}
		defer kafkaSink.Close()
		if err := kafkaSink.EnsureTopic(ctx, 3, 1); err != nil {
			return err
		}
		sinks = append(sinks, kafkaSink)
		log.Info("kafka audit sink configured", "topic", cfg.Kafka.Topic)
	}
	publisher := audit.NewChannelPublisher(auditInboxSize, log)
	worker := audit.NewWorker(publisher.Inbox(), log, sinks...)

	var accounts accountBackend = membership.NewLocalAccounts(log)
	if cfg.Accounts.BaseURL != "" {
		accounts = membership.NewRESTAccounts(cfg.Accounts.BaseURL, cfg.Accounts.APIKey)
		log.Info("hosted account provider configured", "base_url", cfg.Accounts.BaseURL)
	}

	var provider payment.Provider = payment.NewMockProvider()
	if cfg.Payment.BaseURL != "" {
		provider = payment.NewRESTProvider(cfg.Payment.BaseURL, cfg.Payment.APIKey, cfg.Payment.Timeout)
		log.Info("hosted payment provider configured", "base_url", cfg.Payment.BaseURL)
	}

	tokens := auth.NewTokenService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	resolveMember := func(ctx context.Context, email string) (id.MemberID, error) {
		member, err := memberDirectory.FindMember(ctx, email)
		if err != nil {
			return id.MemberID{}, err
		}
		return member.ID, nil
	}

	catalogService := catalog.NewService(catalogStore, log, catalog.NewMetrics(registry))
	specialistService := specialists.NewService(specialistStore, log, specialists.NewMetrics(registry))
	membershipService := membership.NewService(wizardStore, accounts, applicationStore, publisher, log, membership.NewMetrics(registry))
	paymentService := payment.NewService(wizardStore, memberDirectory, provider, paymentStore, publisher, log, payment.NewMetrics(registry))
	authService := auth.NewService(accounts, resolveMember, tokens, publisher, log)

	router := chi.NewRouter()
	router.Use(middleware.RequestID, middleware.ClientMetadata)

	catalog.NewHandler(catalogService, log).Register(router)
	specialists.NewHandler(specialistService, log).Register(router)
	membership.NewHandler(membershipService, accounts, log).Register(router)
	paymentHandler := payment.NewHandler(paymentService, log)
	paymentHandler.Register(router)
	auth.NewHandler(authService, log).Register(router)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens, log))
		paymentHandler.RegisterAuthenticated(r)
		audit.NewHandler(auditStore, log).Register(r)
	})

	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return worker.Run(groupCtx)
	})
	group.Go(func() error {
		log.Info("portal listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("portal stopped")
	return nil
}
