package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/cordialsys/resource-deployer/publish"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	ServerName = "AptosDeployer"
	apiPrefix  = "/api"

	DefaultShutdownTimeout = 5 * time.Second
)

type Options struct {
	WebDir          string
	CorsOrigins     []string
	ShutdownTimeout time.Duration
}

// Server answers publish payload requests over HTTP. It never signs or submits anything.
type Server struct {
	Pipeline *publish.Pipeline
	Options  Options

	router *gin.Engine
}

func New(pipeline *publish.Pipeline, options Options) *Server {
	if options.ShutdownTimeout <= 0 {
		options.ShutdownTimeout = DefaultShutdownTimeout
	}
	RegisterMetrics()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(RequestMetrics())
	r.Use(cors.New(corsConfig(options.CorsOrigins)))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		Pipeline: pipeline,
		Options:  options,
		router:   r,
	}
	s.registerRoutes()
	return s
}

func corsConfig(origins []string) cors.Config {
	config := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	for _, origin := range origins {
		if origin == "*" {
			config.AllowAllOrigins = true
			return config
		}
	}
	if len(origins) == 0 {
		config.AllowAllOrigins = true
		return config
	}
	config.AllowOrigins = origins
	return config
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) registerRoutes() {
	api := s.router.Group(apiPrefix)
	api.GET("/", s.welcome)
	api.POST("/publish", s.publish)
	api.GET("/address", s.address)

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.registerDoc(s.router)
	s.router.NoRoute(serveStatic(s.Options.WebDir))
}

// Serve listens on addr until ctx is cancelled, then drains in-flight requests for up to ShutdownTimeout.
func (s *Server) Serve(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.ServeListener(ctx, listener)
}

func (s *Server) ServeListener(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()
	logrus.WithField("listen", listener.Addr().String()).Info("serving")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logrus.WithField("timeout", s.Options.ShutdownTimeout.String()).Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.Options.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
