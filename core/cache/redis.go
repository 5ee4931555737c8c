package cache

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"mentor-scheduler/core/constants"
	"mentor-scheduler/core/logger"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Cache:NewRedisClient:Ping", "addr", cfg.Addr, "error", err)
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info("Redis connected", "addr", cfg.Addr, "db", cfg.DB)
	return client, nil
}

// ModeStore keeps the acting mode of each session.
type ModeStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewModeStore(client *redis.Client, ttl time.Duration) *ModeStore {
	if ttl <= 0 {
		ttl = constants.ActingModeTTL
	}
	return &ModeStore{client: client, ttl: ttl}
}

func modeKey(sessionKey string) string {
	return constants.RedisKeyActingMode + sessionKey
}

// GetMode returns the stored mode and whether one was stored.
func (s *ModeStore) GetMode(ctx context.Context, sessionKey string) (string, bool, error) {
	val, err := s.client.Get(ctx, modeKey(sessionKey)).Result()
	if stderrors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		logger.Error("ModeStore:GetMode", "session", sessionKey, "error", err)
		return "", false, err
	}
	return val, true, nil
}

// SetMode stores mode and refreshes the session TTL.
func (s *ModeStore) SetMode(ctx context.Context, sessionKey string, mode string) error {
	if err := s.client.Set(ctx, modeKey(sessionKey), mode, s.ttl).Err(); err != nil {
		logger.Error("ModeStore:SetMode", "session", sessionKey, "error", err)
		return err
	}
	return nil
}
