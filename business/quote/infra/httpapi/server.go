package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fd1az/bestprice/internal/apperror"
	"github.com/fd1az/bestprice/internal/logger"
)

// NewRouter builds the gin engine serving h.
func NewRouter(h *Handler, log logger.LoggerInterface) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))

	v1 := router.Group("/v1")
	{
		v1.GET("/quotes", h.GetQuotes)
		v1.GET("/exchanges", h.ListExchanges)
	}

	router.NoRoute(func(c *gin.Context) {
		err := apperror.NotFound(apperror.CodeNotFound, c.Request.URL.Path)
		c.JSON(http.StatusNotFound, err.ToResponse())
	})

	return router
}

// requestLogger logs one line per request through the application logger.
func requestLogger(log logger.LoggerInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

// Server runs the API on its own port.
type Server struct {
	port   int
	router *gin.Engine
	logger logger.LoggerInterface
	server *http.Server
}

// NewServer creates a Server for router.
func NewServer(port int, router *gin.Engine, log logger.LoggerInterface) *Server {
	return &Server{
		port:   port,
		router: router,
		logger: log,
	}
}

// Start binds the port and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext(fmt.Sprintf("api port %d", s.port)),
			apperror.WithCause(err))
	}

	s.server = &http.Server{
		Handler:           otelhttp.NewHandler(s.router, "bestprice.api"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(context.Background(), "api server stopped", "error", err)
		}
	}()

	return nil
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
