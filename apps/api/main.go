package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/almaconnect/alumnet/apps/api/echo"
	"github.com/almaconnect/alumnet/core"
	"github.com/almaconnect/alumnet/core/account"
	"github.com/almaconnect/alumnet/core/announce"
	"github.com/almaconnect/alumnet/core/chat"
	"github.com/almaconnect/alumnet/core/job"
	"github.com/almaconnect/alumnet/core/profile"
	emailsvc "github.com/almaconnect/alumnet/services/email"
	logsvc "github.com/almaconnect/alumnet/services/logger"
	firestoredb "github.com/almaconnect/alumnet/storage/firestore"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up Firestore
	client, err := firestoredb.Open(context.Background(), conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up firestore: %v", err), err)
	}
	defer func() {
		if err = client.Close(); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	accountRepo := firestoredb.NewAccountRepository(client)
	profileRepo := firestoredb.NewProfileRepository(client)
	chatRepo := firestoredb.NewChatRepository(client, dbLogger)
	announceRepo := firestoredb.NewAnnounceRepository(client)
	jobRepo := firestoredb.NewJobRepository(client)

	accountSvc := account.NewService(accountRepo, logger)
	profileSvc := profile.NewService(profileRepo, logger)
	resolver := profile.NewResolver(accountRepo, profileRepo, logger)
	chatSvc := chat.NewService(chatRepo, resolver, logger)
	announceSvc := announce.NewService(announceRepo, mailSvc, logger)
	jobSvc := job.NewService(jobRepo)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			AccountSvc:  accountSvc,
			ProfileSvc:  profileSvc,
			Resolver:    resolver,
			ChatSvc:     chatSvc,
			AnnounceSvc: announceSvc,
			JobSvc:      jobSvc,
			Validate:    validate,
			Translator:  translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
