// Package server wires the advisor to chat channels and exposes the HTTP API.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/careerbot/ai/careers"
	"github.com/hrygo/careerbot/ai/metrics"
	"github.com/hrygo/careerbot/ai/observability/logging"
	"github.com/hrygo/careerbot/internal/profile"
	"github.com/hrygo/careerbot/plugin/chat_apps/channels"
)

const shutdownTimeout = 10 * time.Second

// Server runs the dispatcher and the HTTP API side by side.
type Server struct {
	profile    *profile.Profile
	advisor    *careers.Advisor
	channels   *channels.ChannelRouter
	exporter   *metrics.PrometheusExporter
	dispatcher *Dispatcher

	echoServer *echo.Echo
}

// Options carries the optional collaborators of a Server.
type Options struct {
	Channels *channels.ChannelRouter
	Exporter *metrics.PrometheusExporter
	Audit    Auditor
}

// NewServer builds the server. Nothing starts until Run.
func NewServer(p *profile.Profile, advisor *careers.Advisor, opts Options) *Server {
	router := opts.Channels
	if router == nil {
		router = channels.NewChannelRouter()
	}
	var recorder metrics.Recorder = metrics.Noop{}
	if opts.Exporter != nil {
		recorder = opts.Exporter
	}

	s := &Server{
		profile:  p,
		advisor:  advisor,
		channels: router,
		exporter: opts.Exporter,
		dispatcher: NewDispatcher(advisor, router, recorder, opts.Audit, DispatcherConfig{
			MaxConcurrentMessages: p.MaxConcurrentMessages,
			SendRatePerSecond:     p.SendRatePerSecond,
		}),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	s.registerRoutes(e)
	s.echoServer = e
	return s
}

// Dispatcher returns the message dispatcher.
func (s *Server) Dispatcher() *Dispatcher {
	return s.dispatcher
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echoServer
}

// Run serves until ctx is cancelled or a component fails, then shuts the HTTP
// server down and closes the channels.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.profile.ListenAddr())
	if err != nil {
		return err
	}
	s.echoServer.Listener = listener
	logging.Info("http server listening", "addr", listener.Addr().String())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.dispatcher.Run(ctx)
	})
	g.Go(func() error {
		if err := s.echoServer.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return s.Shutdown(context.WithoutCancel(ctx))
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server and closes every channel.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	err := s.echoServer.Shutdown(ctx)
	if cerr := s.channels.Close(); cerr != nil && err == nil {
		err = cerr
	}
	logging.Info("server stopped")
	return err
}

func newRequestID() string {
	return uuid.NewString()
}
