package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type CinematixHttpServer struct {
	router    *Router
	muxRouter *mux.Router
	addr      string
	log       *zap.Logger
}

func NewCinematixHttpServer(router *Router, muxRouter *mux.Router, addr string, log *zap.Logger) *CinematixHttpServer {
	return &CinematixHttpServer{
		router:    router,
		muxRouter: muxRouter,
		addr:      addr,
		log:       log,
	}
}

// Start serves until SIGINT/SIGTERM, then drains in-flight requests.
func (s *CinematixHttpServer) Start() error {
	s.router.RegisterRoutes()

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.muxRouter,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errs := make(chan error, 1)
	go func() {
		s.log.Info("starting server", zap.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	select {
	case err := <-errs:
		return err
	case <-stop:
	}

	s.log.Info("shutting down the server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	s.log.Info("server exiting")
	return nil
}
