package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/quangngonz/mini-cs50x-answer-api/internal/app"
	"github.com/quangngonz/mini-cs50x-answer-api/internal/config"
	"github.com/quangngonz/mini-cs50x-answer-api/internal/infra/memory"
	pgstore "github.com/quangngonz/mini-cs50x-answer-api/internal/infra/postgres"
	redisinfra "github.com/quangngonz/mini-cs50x-answer-api/internal/infra/redis"
	transport "github.com/quangngonz/mini-cs50x-answer-api/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the scoreboard server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	var db *bun.DB
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		db = bun.NewDB(sqldb, pgdialect.New())
	}

	var loader memory.QuestionLoader = memory.NewStaticQuestionLoader(defaultQuestions())
	if pool != nil {
		loader = pgstore.NewQuestionLoader(pool)
	}

	questionTTL := config.TTLDuration(cfg.Scoreboard.QuestionTTL, 10*time.Minute)
	var questions app.QuestionRepository
	if redisClient != nil {
		questions = redisinfra.NewQuestionRepository(redisClient, loader, questionTTL)
	} else {
		questions = memory.NewQuestionRepository(loader, questionTTL)
	}

	var (
		progress    app.ProgressRepository
		submissions app.SubmissionLog
		hints       app.HintLog
		teams       app.TeamDirectory
	)
	if db != nil {
		progress = pgstore.NewProgressStore(db)
		submissions = pgstore.NewSubmissionLog(db)
		hints = pgstore.NewHintLog(db)
		teams = pgstore.NewTeamDirectory(db)
	} else {
		progress = memory.NewProgressRepository(defaultTeams(len(defaultQuestions()))...)
		submissions = memory.NewSubmissionLog()
		hints = memory.NewHintLog()
		teams = memory.NewTeamDirectory()
	}

	offset := cfg.UTCOffsetHours()
	zone := time.FixedZone(fmt.Sprintf("UTC%+d", offset), offset*60*60)
	service := app.NewScoreboardServiceWithClock(questions, progress, submissions, hints, teams, time.Now, zone)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	transport.NewHandler(service).Register(mux)
	mux.HandleFunc("/ws/ranking", transport.NewWSHandler(service).ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting scoreboard service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
