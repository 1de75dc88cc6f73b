package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ServerOptions son los parámetros del listener HTTP
type ServerOptions struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server es el servidor HTTP de la API
type Server struct {
	opts     ServerOptions
	listener net.Listener
	http     *http.Server
	logger   *zap.Logger
	done     chan error
}

// NewServer crea un nuevo servidor
func NewServer(opts ServerOptions, handler http.Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	return &Server{
		opts:   opts,
		logger: logger,
		http: &http.Server{
			Handler:           handler,
			ReadTimeout:       opts.ReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      opts.WriteTimeout,
		},
		done: make(chan error, 1),
	}
}

// Start abre el listener y sirve en background
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.opts.Addr, err)
	}
	s.listener = listener
	s.http.BaseContext = func(net.Listener) context.Context { return ctx }

	s.logger.Info("server listening", zap.String("addr", listener.Addr().String()))

	go func() {
		err := s.http.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.done <- err
	}()

	return nil
}

// Addr devuelve la dirección real (útil con ":0")
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.opts.Addr
	}
	return s.listener.Addr().String()
}

// Done notifica cuando el servidor deja de servir
func (s *Server) Done() <-chan error {
	return s.done
}

// Stop detiene el servidor esperando a las requests en curso
func (s *Server) Stop() error {
	if s.listener == nil {
		return nil
	}
	s.logger.Info("server stopping")

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
