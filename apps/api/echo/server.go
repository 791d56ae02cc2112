package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/almaconnect/alumnet/core"
	"github.com/almaconnect/alumnet/core/account"
	"github.com/almaconnect/alumnet/core/announce"
	"github.com/almaconnect/alumnet/core/chat"
	"github.com/almaconnect/alumnet/core/job"
	"github.com/almaconnect/alumnet/core/profile"
)

type (
	ServerDeps struct {
		Conf        *core.Config
		Logger      core.Logger
		AccountSvc  *account.Service
		ProfileSvc  *profile.Service
		Resolver    *profile.Resolver
		ChatSvc     *chat.Service
		AnnounceSvc *announce.Service
		JobSvc      *job.Service
		Validate    *validator.Validate
		Translator  ut.Translator
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.Logger())
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	appJWTConfig.SigningKey = []byte(conf.SecretKey)

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerAccountAPI(v1, jwt, s.deps.AccountSvc, s.deps.Validate)
	registerProfileAPI(v1, jwt, s.deps.ProfileSvc, s.deps.Resolver, s.deps.AccountSvc, s.deps.Validate)
	registerChatAPI(v1, jwt, s.deps.ChatSvc, s.deps.ProfileSvc, s.deps.Resolver, s.deps.Logger, s.deps.Validate)
	registerAnnounceAPI(v1, jwt, s.deps.AnnounceSvc, s.deps.Validate)
	registerJobAPI(v1, jwt, s.deps.JobSvc, s.deps.Validate)
}

func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Address()); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// signalShutdown is handed to the error handler so a caught core.shutdown
// error triggers the same graceful stop as SIGTERM.
func (s *Server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to AlumNet API!")
}
