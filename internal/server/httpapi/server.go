// Package httpapi exposes the REST surface of the server: authentication,
// user profile and contact management endpoints.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/contactkeeper/contactkeeper/internal/logging"
	"github.com/contactkeeper/contactkeeper/internal/server/config"
	"github.com/contactkeeper/contactkeeper/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	addr     string
	users    *services.UserService
	contacts *services.ContactService
	logger   logging.Logger

	httpServer *http.Server
}

func NewServer(cfg *config.Config, users *services.UserService,
	contacts *services.ContactService, logger logging.Logger) *Server {
	s := &Server{
		addr:     cfg.EndpointAddr,
		users:    users,
		contacts: contacts,
		logger:   logger,
	}
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.routes(),
	}
	return s
}

// Run serves requests until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("http server starting", "addr", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}
