package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vinylmint/vinyld/internal/core/application"
	interfaces "github.com/vinylmint/vinyld/internal/interface"
	"github.com/vinylmint/vinyld/internal/interface/web/handlers"
)

const shutdownTimeout = 5 * time.Second

type Config struct {
	Port uint32
}

func (c Config) address() string {
	return fmt.Sprintf(":%d", c.Port)
}

type service struct {
	config Config
	appSvc application.Service
	server *http.Server
}

func NewService(config Config, appSvc application.Service) (interfaces.Service, error) {
	if config.Port == 0 {
		return nil, fmt.Errorf("missing port")
	}
	if appSvc == nil {
		return nil, fmt.Errorf("missing app service")
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		// nolint:all
		w.Write([]byte("ok"))
	})
	handlers.NewMarketHandler(appSvc).Mount(router)

	return &service{
		config: config,
		appSvc: appSvc,
		server: &http.Server{Addr: config.address(), Handler: router},
	}, nil
}

func (s *service) Start() error {
	if err := s.appSvc.Start(); err != nil {
		return fmt.Errorf("failed to start app service: %w", err)
	}

	// nolint:all
	go s.server.ListenAndServe()
	log.Infof("started listening at %s", s.config.address())
	return nil
}

func (s *service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully shutdown http server")
	}
	s.appSvc.Stop()
	log.Info("shutdown service")
}
