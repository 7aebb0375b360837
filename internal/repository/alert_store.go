package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"FedPulse/internal/domain/models"
	domrepo "FedPulse/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

// RedisAlertStore keeps alert configurations in a Redis hash keyed by alert
// id. Hash writes are atomic per field, which satisfies the per-id write
// serialization the evaluator contract asks for as long as only one
// evaluation cycle runs at a time.
type RedisAlertStore struct {
	cli *redis.Client
	key string
}

func NewRedisAlertStore(cli *redis.Client) domrepo.AlertStore {
	return &RedisAlertStore{cli: cli, key: "fedpulse:alerts"}
}

func (s *RedisAlertStore) List(ctx context.Context) ([]models.AlertConfig, error) {
	raw, err := s.cli.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("alert store list: %w", err)
	}
	out := make([]models.AlertConfig, 0, len(raw))
	for _, v := range raw {
		var a models.AlertConfig
		if err := json.Unmarshal([]byte(v), &a); err != nil {
			return nil, fmt.Errorf("alert store decode: %w", err)
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *RedisAlertStore) Get(ctx context.Context, id string) (*models.AlertConfig, error) {
	v, err := s.cli.HGet(ctx, s.key, id).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("alert store get: %w", err)
	}
	var a models.AlertConfig
	if err := json.Unmarshal([]byte(v), &a); err != nil {
		return nil, fmt.Errorf("alert store decode: %w", err)
	}
	return &a, nil
}

func (s *RedisAlertStore) Save(ctx context.Context, alert models.AlertConfig) error {
	b, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("alert store encode: %w", err)
	}
	if err := s.cli.HSet(ctx, s.key, alert.ID, b).Err(); err != nil {
		return fmt.Errorf("alert store save: %w", err)
	}
	return nil
}

func (s *RedisAlertStore) Delete(ctx context.Context, id string) error {
	if err := s.cli.HDel(ctx, s.key, id).Err(); err != nil {
		return fmt.Errorf("alert store delete: %w", err)
	}
	return nil
}

// MemoryAlertStore is the in-process fallback used when Redis is not
// configured, and in tests.
type MemoryAlertStore struct {
	mu sync.RWMutex
	m  map[string]models.AlertConfig
}

func NewMemoryAlertStore() *MemoryAlertStore {
	return &MemoryAlertStore{m: make(map[string]models.AlertConfig)}
}

func (s *MemoryAlertStore) List(ctx context.Context) ([]models.AlertConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AlertConfig, 0, len(s.m))
	for _, a := range s.m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryAlertStore) Get(ctx context.Context, id string) (*models.AlertConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.m[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *MemoryAlertStore) Save(ctx context.Context, alert models.AlertConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[alert.ID] = alert
	return nil
}

func (s *MemoryAlertStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}
