package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"github.com/quangngonz/mini-cs50x-answer-api/internal/app"
	"github.com/quangngonz/mini-cs50x-answer-api/internal/domain"
	pgstore "github.com/quangngonz/mini-cs50x-answer-api/internal/infra/postgres"
	pgmigrations "github.com/quangngonz/mini-cs50x-answer-api/internal/infra/postgres/migrations"
	infraredis "github.com/quangngonz/mini-cs50x-answer-api/internal/infra/redis"
)

func TestScoreboardEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	db := openBun(pgURL)
	defer db.Close()
	seedScoreboard(t, ctx, db)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	questions := infraredis.NewQuestionRepository(redisClient, pgstore.NewQuestionLoader(pool), 5*time.Minute)
	progress := pgstore.NewProgressStore(db)
	submissions := pgstore.NewSubmissionLog(db)
	hints := pgstore.NewHintLog(db)
	directory := pgstore.NewTeamDirectory(db)
	service := app.NewScoreboardService(questions, progress, submissions, hints, directory)

	// Wrong answer: logged, no progress.
	result, err := service.SubmitAnswer(ctx, "Team 1", 2, "London")
	if err != nil {
		t.Fatalf("submit wrong: %v", err)
	}
	if result.Correct {
		t.Fatalf("expected wrong answer")
	}

	// Correct answer twice: one solve, two log rows.
	for i := 0; i < 2; i++ {
		result, err = service.SubmitAnswer(ctx, "Team 1", 2, " paris ")
		if err != nil {
			t.Fatalf("submit correct: %v", err)
		}
		if !result.Correct {
			t.Fatalf("expected correct answer")
		}
	}

	if _, err := service.AddHint(ctx, "Team 2", 1); err != nil {
		t.Fatalf("add hint: %v", err)
	}

	stored, err := progress.Get(ctx, "Team 1")
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if !stored.Solves[1] || stored.Timestamps[1] == nil {
		t.Fatalf("expected question 2 solved with timestamp, got %+v", stored)
	}

	logged, err := submissions.List(ctx)
	if err != nil {
		t.Fatalf("list submissions: %v", err)
	}
	if len(logged) != 3 {
		t.Fatalf("expected 3 submissions, got %d", len(logged))
	}

	entries, err := service.ComputeRankings(ctx)
	if err != nil {
		t.Fatalf("compute rankings: %v", err)
	}
	if len(entries) != 2 || entries[0].TeamID != "Team 1" {
		t.Fatalf("expected Team 1 leading, got %+v", entries)
	}
	if entries[0].Score != 2 || entries[0].WrongAnswers != 1 {
		t.Fatalf("expected score 2 with 1 wrong answer, got %+v", entries[0])
	}
	if entries[1].HintsGiven != 1 {
		t.Fatalf("expected 1 hint for Team 2, got %+v", entries[1])
	}
}

func openBun(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func seedScoreboard(t *testing.T, ctx context.Context, db *bun.DB) {
	t.Helper()
	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := pgstore.SeedQuestions(ctx, db, []domain.Question{
		{ID: 1, Text: "What is 2 + 2?", Answer: "4", StarRating: 1},
		{ID: 2, Text: "What is the capital of France?", Answer: "Paris", StarRating: 2},
	}); err != nil {
		t.Fatalf("seed questions: %v", err)
	}

	progress := pgstore.NewProgressStore(db)
	for _, teamID := range []string{"Team 1", "Team 2"} {
		err := progress.Put(ctx, domain.TeamProgress{
			TeamID:     teamID,
			Solves:     make([]bool, 2),
			Timestamps: make([]*time.Time, 2),
		})
		if err != nil {
			t.Fatalf("seed team %s: %v", teamID, err)
		}
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "scoreboard", "POSTGRES_PASSWORD": "scorepass", "POSTGRES_DB": "scoreboarddb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://scoreboard:scorepass@%s:%s/scoreboarddb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
