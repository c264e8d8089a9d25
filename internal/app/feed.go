package app

import (
	"context"
	"log"
	"sync"

	"github.com/quangngonz/mini-cs50x-answer-api/internal/domain"
)

// rankingFeed fans a freshly computed leaderboard out to subscribers.
type rankingFeed struct {
	mu          sync.Mutex
	subscribers map[chan []domain.RankingEntry]struct{}
}

func newRankingFeed() *rankingFeed {
	return &rankingFeed{subscribers: make(map[chan []domain.RankingEntry]struct{})}
}

// SubscribeRankings returns a channel that receives the current board
// immediately and a fresh one after every state-changing operation.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *ScoreboardService) SubscribeRankings(ctx context.Context) (<-chan []domain.RankingEntry, func(), error) {
	initial, err := s.ComputeRankings(ctx)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan []domain.RankingEntry, 8)

	s.feed.mu.Lock()
	s.feed.subscribers[ch] = struct{}{}
	s.feed.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.feed.mu.Lock()
		if _, ok := s.feed.subscribers[ch]; ok {
			delete(s.feed.subscribers, ch)
			close(ch)
		}
		s.feed.mu.Unlock()
	}
	return ch, cancel, nil
}

// publishRankings recomputes and broadcasts the board after a write. It is
// best effort: a failed recompute only loses one feed update, the write
// that triggered it has already succeeded.
func (s *ScoreboardService) publishRankings(ctx context.Context) {
	s.feed.mu.Lock()
	empty := len(s.feed.subscribers) == 0
	s.feed.mu.Unlock()
	if empty {
		return
	}

	entries, err := s.ComputeRankings(ctx)
	if err != nil {
		log.Printf("ranking feed: recompute failed: %v", err)
		return
	}

	s.feed.mu.Lock()
	defer s.feed.mu.Unlock()
	for ch := range s.feed.subscribers {
		select {
		case ch <- entries:
		default:
			// Drop the stale update so a slow client never blocks the rest.
			select {
			case <-ch:
			default:
			}
			ch <- entries
		}
	}
}
