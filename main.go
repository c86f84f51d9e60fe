package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ecole-gestion/backend/internal/config"
	v1 "github.com/ecole-gestion/backend/pkg/controllers/v1"
	"github.com/ecole-gestion/backend/pkg/jobs"
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/ecole-gestion/backend/pkg/notify"
	"github.com/ecole-gestion/backend/pkg/router"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	c, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// gin uses debug as the default mode, we use release for
	// security reasons
	gin.SetMode(c.GinMode)

	output := io.Writer(os.Stdout)
	if c.HumanLogs() {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	if c.UsePostgres() {
		err = models.ConnectPostgres(c.PostgresDSN())
	} else {
		// Create data directory
		err = os.MkdirAll(filepath.Dir(c.DBFile), os.ModePerm)
		if err == nil {
			err = models.Connect(c.DBFile)
		}
	}
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	var mailer notify.Mailer = notify.LogMailer{}
	if c.SMTPEnabled() {
		mailer = notify.SMTPMailer{
			Host:     c.SMTPHost,
			Port:     c.SMTPPort,
			User:     c.SMTPUser,
			Password: c.SMTPPassword,
			From:     c.SMTPFrom,
		}
	}

	v1.Notifier = notify.Notifier{Mailer: mailer, School: c.SchoolName, Currency: c.Currency}
	v1.Location = c.Location()

	options := router.Options{
		CORSAllowOrigins: strings.Fields(c.CORSAllowOrigins),
		EnablePprof:      c.EnablePprof,
	}

	r, teardown, err := router.Config(c.URL(), options)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	defer teardown()
	router.AttachRoutes(r.Group("/"), options)

	if c.ReminderEnabled {
		scheduler, err := jobs.ScheduleReminders(models.DB, v1.Notifier, c.ReminderSchedule, c.Location())
		if err != nil {
			log.Fatal().Msg(err.Error())
		}

		// Wait for a running reminder job to finish
		defer func() { <-scheduler.Stop().Done() }()
	}

	srv := &http.Server{
		Addr:              ":" + c.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msg(err.Error())
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}
