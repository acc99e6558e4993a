package session

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/wizard"
	"github.com/redis/go-redis/v9"
)

const maxUpdateRetries = 5

// ErrConflict is returned when a draft kept changing underneath an update.
var ErrConflict = errors.New("draft modified concurrently")

// RedisStore keeps drafts in redis with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient connects to redisURL and pings the server.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func parseRedisURL(redisURL string) (*redis.Options, error) {
	u, err := url.Parse(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("invalid redis URL scheme %q", u.Scheme)
	}

	opts := &redis.Options{Addr: u.Host}
	if u.User != nil {
		if password, ok := u.User.Password(); ok {
			opts.Password = password
		}
		opts.Username = u.User.Username()
	}
	if u.Path != "" && u.Path != "/" {
		db, err := strconv.Atoi(u.Path[1:])
		if err != nil {
			return nil, fmt.Errorf("invalid redis database %q", u.Path[1:])
		}
		opts.DB = db
	}
	if u.Scheme == "rediss" {
		opts.TLSConfig = &tls.Config{ServerName: u.Hostname()}
	}
	return opts, nil
}

// NewRedisStore wraps a connected client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func draftKey(id uuid.UUID) string {
	return fmt.Sprintf("draft:%s", id)
}

// Create stores a new draft.
func (s *RedisStore) Create(ctx context.Context, d wizard.Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	return s.client.Set(ctx, draftKey(d.ID), data, s.ttl).Err()
}

// Get loads a draft and refreshes its TTL.
func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (wizard.Draft, error) {
	data, err := s.client.GetEx(ctx, draftKey(id), s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return wizard.Draft{}, ErrNotFound
	}
	if err != nil {
		return wizard.Draft{}, fmt.Errorf("failed to load draft: %w", err)
	}
	return decodeDraft(data)
}

func decodeDraft(data []byte) (wizard.Draft, error) {
	var d wizard.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return wizard.Draft{}, fmt.Errorf("failed to decode draft: %w", err)
	}
	return d, nil
}

// Update applies fn inside a WATCH/MULTI transaction, retrying when another
// writer touched the draft first.
func (s *RedisStore) Update(ctx context.Context, id uuid.UUID, fn UpdateFunc) (wizard.Draft, error) {
	key := draftKey(id)
	var out wizard.Draft

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		current, err := decodeDraft(data)
		if err != nil {
			return err
		}
		next, err := apply(current, fn, time.Now().UTC())
		if err != nil {
			out = current
			return err
		}
		encoded, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to encode draft: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl)
			return nil
		})
		if err == nil {
			out = next
		}
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return out, err
	}
	return wizard.Draft{}, ErrConflict
}

// Delete discards a draft.
func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.Del(ctx, draftKey(id)).Err()
}

// Close closes the redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
