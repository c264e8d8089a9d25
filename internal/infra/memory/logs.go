package memory

import (
	"context"
	"sync"

	"github.com/quangngonz/mini-cs50x-answer-api/internal/domain"
)

// SubmissionLog is an in-memory append-only submission trail.
type SubmissionLog struct {
	mu      sync.RWMutex
	records []domain.Submission
}

func NewSubmissionLog() *SubmissionLog {
	return &SubmissionLog{}
}

func (l *SubmissionLog) Append(_ context.Context, submission domain.Submission) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, submission)
	return nil
}

func (l *SubmissionLog) List(_ context.Context) ([]domain.Submission, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.Submission(nil), l.records...), nil
}

// HintLog is an in-memory append-only hint trail.
type HintLog struct {
	mu      sync.RWMutex
	records []domain.Hint
}

func NewHintLog() *HintLog {
	return &HintLog{}
}

func (l *HintLog) Append(_ context.Context, hint domain.Hint) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, hint)
	return nil
}

func (l *HintLog) List(_ context.Context) ([]domain.Hint, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.Hint(nil), l.records...), nil
}
