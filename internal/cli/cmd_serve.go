package cli

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/plannersmart/internal/config"
	"github.com/alexanderramin/plannersmart/internal/db"
	"github.com/alexanderramin/plannersmart/internal/llm"
	"github.com/alexanderramin/plannersmart/internal/repository"
	"github.com/alexanderramin/plannersmart/internal/server"
	"github.com/alexanderramin/plannersmart/internal/service"
	"github.com/alexanderramin/plannersmart/internal/taskgen"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var listen, dbPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the planner backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *app.Config
			if listen != "" {
				cfg.Listen = listen
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}
			if err := cfg.RequireServe(); err != nil {
				return err
			}

			logger := app.logger()
			database, err := db.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer database.Close()

			srv := buildServer(&cfg, database, logger, nil)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			logger.Info("server starting", "addr", cfg.Listen, "db", cfg.DBPath, "model", cfg.LLM.Model)
			return srv.Run(ctx, cfg.Listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default from config)")
	return cmd
}

// buildServer wires repositories, services and the task generator onto
// database. A nil client uses the Gemini provider from cfg.
func buildServer(cfg *config.Config, database *sql.DB, logger *slog.Logger, client llm.LLMClient) *server.Server {
	users := repository.NewSQLiteUserRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewSlogUseCaseObserver(logger)

	if client == nil {
		var llmObserver llm.Observer = llm.NoopObserver{}
		if cfg.LLM.LogCalls {
			llmObserver = llm.NewSlogObserver(logger)
		}
		client = llm.NewGeminiClient(cfg.LLM, llmObserver)
	}

	return server.New(server.Deps{
		Auth: service.NewAuthService(users, uow, service.AuthConfig{
			Secret:   []byte(cfg.JWTSecret),
			TokenTTL: cfg.TokenTTL,
		}, observer),
		Events:    service.NewEventService(repository.NewSQLiteEventRepo(database), observer),
		Alarms:    service.NewAlarmService(repository.NewSQLiteAlarmRepo(database), uow),
		Generator: taskgen.NewGenerator(users, client, logger),
		Logger:    logger,
	})
}
