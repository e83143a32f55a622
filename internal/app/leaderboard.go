package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"storefront-quiz-service/internal/domain"
	"storefront-quiz-service/internal/metrics"
)

// LeaderboardSize is the number of results kept.
const LeaderboardSize = 10

// Leaderboard is a client's persisted top results, highest score first.
type Leaderboard struct {
	kv     KeyValueStore
	key    string
	logger *zap.Logger
}

func NewLeaderboard(kv KeyValueStore, key string, logger *zap.Logger) *Leaderboard {
	return &Leaderboard{kv: kv, key: key, logger: logger}
}

// Load returns the stored entries, or none when the snapshot is absent or corrupt.
func (l *Leaderboard) Load(ctx context.Context) []domain.LeaderboardEntry {
	raw, err := l.kv.Get(ctx, l.key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return []domain.LeaderboardEntry{}
	}
	if err != nil {
		l.logger.Warn("leaderboard unavailable", zap.String("key", l.key), zap.Error(err))
		return []domain.LeaderboardEntry{}
	}

	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		l.logger.Warn("leaderboard snapshot corrupt", zap.String("key", l.key), zap.Error(err))
		return []domain.LeaderboardEntry{}
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return entries
}

// Submit records a result and keeps the best LeaderboardSize entries. Ties
// keep earlier results ahead of the new one.
func (l *Leaderboard) Submit(ctx context.Context, result domain.QuizResult) ([]domain.LeaderboardEntry, error) {
	entries := append(l.Load(ctx), result)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > LeaderboardSize {
		entries = entries[:LeaderboardSize]
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode leaderboard: %w", err)
	}
	if err := l.kv.Set(ctx, l.key, raw); err != nil {
		metrics.PersistFailures.WithLabelValues("leaderboard").Inc()
		return nil, fmt.Errorf("persist leaderboard: %w", err)
	}
	return entries, nil
}

// Reset removes every stored entry.
func (l *Leaderboard) Reset(ctx context.Context) error {
	if err := l.kv.Delete(ctx, l.key); err != nil {
		metrics.PersistFailures.WithLabelValues("leaderboard").Inc()
		return fmt.Errorf("reset leaderboard: %w", err)
	}
	return nil
}
