package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/quangngonz/mini-cs50x-answer-api/internal/domain"
	"github.com/quangngonz/mini-cs50x-answer-api/internal/infra/memory"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	loader := &countingLoader{
		QuestionLoader: memory.NewStaticQuestionLoader(sampleQuestions()),
	}
	repo := NewQuestionRepository(client, loader, time.Minute)

	questions, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists(questionsKey) {
		t.Fatalf("expected question hash in redis")
	}

	// Second call should hit the hash, loader not incremented.
	if _, err := repo.List(context.Background()); err != nil {
		t.Fatalf("list 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
}

func TestQuestionRepositoryGetFromHash(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := NewQuestionRepository(client, memory.NewStaticQuestionLoader(sampleQuestions()), time.Minute)

	q, err := repo.Get(context.Background(), 2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if q.Answer != "Paris" {
		t.Fatalf("expected question 2, got %+v", q)
	}

	if _, err := repo.Get(context.Background(), 42); err != domain.ErrQuestionNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

type countingLoader struct {
	memory.QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestions(ctx)
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: 1, Text: "What is 2 + 2?", Answer: "4", StarRating: 1},
		{ID: 2, Text: "What is the capital of France?", Answer: "Paris", StarRating: 2},
	}
}
