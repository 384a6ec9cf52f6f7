package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"gourmet-search/internal/model"
)

const (
	statePrefix = "gourmet:state:"
	pagePrefix  = "gourmet:page:"
)

var ErrCacheMiss = errors.New("cache miss")

type RedisClient struct {
	client   *redis.Client
	stateTTL time.Duration
}

func NewRedisClient(addr string, password string, db int, stateTTL time.Duration) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client, stateTTL: stateTTL}, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func (r *RedisClient) SaveState(ctx context.Context, chatID int64, state model.ListState) error {
	data, err := json.Marshal(state)
	if err != nil {
		slog.Error("Error marshaling state", "error", err)
		return err
	}
	return r.client.Set(ctx, stateKey(chatID), data, r.stateTTL).Err()
}

// GetState returns nil, nil when the chat has no saved cursor.
func (r *RedisClient) GetState(ctx context.Context, chatID int64) (*model.ListState, error) {
	data, err := r.client.Get(ctx, stateKey(chatID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		slog.Error("Error getting state", "error", err)
		return nil, err
	}

	var state model.ListState
	if err := json.Unmarshal(data, &state); err != nil {
		slog.Error("Error unmarshaling state", "error", err)
		return nil, err
	}
	return &state, nil
}

// GetPage returns ErrCacheMiss when key is not cached.
func (r *RedisClient) GetPage(ctx context.Context, key string) (*model.ShopPage, error) {
	data, err := r.client.Get(ctx, pagePrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var page model.ShopPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return &page, nil
}

func (r *RedisClient) SetPage(ctx context.Context, key string, page *model.ShopPage, ttl time.Duration) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}
	if err := r.client.Set(ctx, pagePrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

func stateKey(chatID int64) string {
	return statePrefix + strconv.FormatInt(chatID, 10)
}
