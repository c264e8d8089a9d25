package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/quangngonz/mini-cs50x-answer-api/internal/domain"
)

// questionsKey holds the cached question set as a hash:
// HSET scoreboard:questions {id} {question JSON}
const questionsKey = "scoreboard:questions"

// QuestionLoader fetches the question set from a backing store.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// QuestionRepository caches questions in a Redis hash and falls back to a
// loader on cache miss. Concurrent misses collapse into one load.
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) List(ctx context.Context) ([]domain.Question, error) {
	fields, err := r.client.HGetAll(ctx, questionsKey).Result()
	if err == nil && len(fields) > 0 {
		return decodeQuestions(fields)
	}

	result, err, _ := r.sf.Do(questionsKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		fields, err := r.client.HGetAll(ctx, questionsKey).Result()
		if err == nil && len(fields) > 0 {
			cached, err := decodeQuestions(fields)
			if err != nil {
				return nil, err
			}
			return cached, nil
		}

		questions, err := r.loader.LoadQuestions(ctx)
		if err != nil {
			return nil, err
		}

		pipe := r.client.Pipeline()
		for _, q := range questions {
			raw, err := json.Marshal(q)
			if err != nil {
				return nil, err
			}
			pipe.HSet(ctx, questionsKey, strconv.Itoa(q.ID), raw)
		}
		if ttl := r.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, questionsKey, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) Get(ctx context.Context, id int) (domain.Question, error) {
	raw, err := r.client.HGet(ctx, questionsKey, strconv.Itoa(id)).Result()
	if err == nil {
		var question domain.Question
		if err := json.Unmarshal([]byte(raw), &question); err == nil {
			return question, nil
		}
	}

	// Miss or decode failure: go through List to refill the hash.
	questions, err := r.List(ctx)
	if err != nil {
		return domain.Question{}, err
	}
	for _, q := range questions {
		if q.ID == id {
			return q, nil
		}
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

func decodeQuestions(fields map[string]string) ([]domain.Question, error) {
	questions := make([]domain.Question, 0, len(fields))
	for id, raw := range fields {
		var question domain.Question
		if err := json.Unmarshal([]byte(raw), &question); err != nil {
			return nil, fmt.Errorf("decode cached question %s: %w", id, err)
		}
		questions = append(questions, question)
	}
	return questions, nil
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
