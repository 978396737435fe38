package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/evcraddock/showing-hive/internal/activity"
	"github.com/evcraddock/showing-hive/internal/clock"
	"github.com/evcraddock/showing-hive/internal/config"
	"github.com/evcraddock/showing-hive/internal/disclosure"
	"github.com/evcraddock/showing-hive/internal/filestore"
	"github.com/evcraddock/showing-hive/internal/logging"
	"github.com/evcraddock/showing-hive/internal/notify"
	"github.com/evcraddock/showing-hive/internal/property"
	"github.com/evcraddock/showing-hive/internal/schedule"
	"github.com/evcraddock/showing-hive/internal/showing"
	"github.com/evcraddock/showing-hive/internal/tour"
	"github.com/evcraddock/showing-hive/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the HTTP API server.

Settings come from HIVE_* environment variables (see HIVE_PORT, HIVE_DB,
HIVE_FILES_DIR, HIVE_SHOWING_DURATION, HIVE_CODE_VALIDITY, HIVE_REMINDER_SCHEDULE
and the Twilio, SendGrid and SMTP settings). Without notification providers,
messages are written to the log.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on (overrides HIVE_PORT)")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	logging.Setup(cfg.DevMode)

	database, dbPath, err := openDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer closeDB(database)

	filesDir := cfg.FilesDir
	if filesDir == "" {
		filesDir = filepath.Join(filepath.Dir(dbPath), "files")
	}
	files, err := filestore.New(filesDir)
	if err != nil {
		return err
	}

	dispatcher := notify.NewDispatcher(cfg.Senders(),
		notify.WithQueueSize(cfg.NotifyQueue),
		notify.WithTimeout(cfg.NotifyTimeout),
	)
	defer dispatcher.Close()

	clk := clock.NewSystem()
	props := property.NewRepository(database)
	registry := schedule.NewRegistry(schedule.NewSQLiteStore(database))
	events := activity.NewRepository(database)
	recorder := activity.NewLog(events, clk)

	showings := showing.NewManager(props, registry, recorder, dispatcher,
		showing.WithClock(clk),
		showing.WithDuration(cfg.ShowingDuration),
		showing.WithCodeValidity(cfg.CodeValidity),
	)
	disclosures := disclosure.NewManager(props, registry, files, recorder, dispatcher,
		disclosure.WithClock(clk),
	)
	tours := tour.NewService(tour.NewRepository(database), showings, props, clk, cfg.ShowingDuration)

	if cfg.ReminderSchedule != "" {
		c, err := startReminders(ctx, cfg, showings)
		if err != nil {
			return err
		}
		defer func() { <-c.Stop().Done() }()
	}

	api := web.NewServer(web.Deps{
		Properties:  props,
		Showings:    showings,
		Disclosures: disclosures,
		Tours:       tours,
		Activity:    events,
		Files:       files,
	})

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{cfg.BaseURL}
	}
	co := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           co.Handler(logging.RequestLogger(api)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", srv.Addr, "db", dbPath, "files", filesDir, "dev", cfg.DevMode)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// startReminders schedules the showing reminder job.
func startReminders(ctx context.Context, cfg config.Config, showings *showing.Manager) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(time.UTC))
	_, err := c.AddFunc(cfg.ReminderSchedule, func() {
		n, err := showings.SendReminders(ctx, cfg.ReminderLead)
		if err != nil {
			slog.Error("sending showing reminders", "err", err)
			return
		}
		if n > 0 {
			slog.Info("showing reminders queued", "count", n)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("reminder schedule %q: %w", cfg.ReminderSchedule, err)
	}
	c.Start()
	return c, nil
}
