// Package redis provides a RecordStore backed by Redis.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smallnest/reflective/store"
)

// RecordStore implements store.RecordStore using Redis.
//
// Each record is stored as a JSON blob in two lists: a global log (insertion
// order) and a per-tag list (most recent first). Appends run in a MULTI/EXEC
// transaction so a concurrent reader never observes a half-written record.
type RecordStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ store.RecordStore = (*RecordStore)(nil)

// Options configuration for the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "reflective:"
	TTL      time.Duration // Expiration for record keys, default 0 (no expiration)
}

// NewRecordStore creates a new Redis record store.
func NewRecordStore(opts Options) *RecordStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "reflective:"
	}

	return &RecordStore{
		client: client,
		prefix: prefix,
		ttl:    opts.TTL,
	}
}

// Close closes the underlying client.
func (s *RecordStore) Close() error {
	return s.client.Close()
}

func (s *RecordStore) allKey() string {
	return s.prefix + "records"
}

func (s *RecordStore) tagKey(tag string) string {
	return fmt.Sprintf("%stag:%s", s.prefix, tag)
}

func (s *RecordStore) tagsKey() string {
	return s.prefix + "tags"
}

// Append stores a record.
func (s *RecordStore) Append(ctx context.Context, rec *store.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, s.allKey(), data)
		pipe.LPush(ctx, s.tagKey(rec.Tag), data)
		pipe.SAdd(ctx, s.tagsKey(), rec.Tag)
		if s.ttl > 0 {
			pipe.Expire(ctx, s.allKey(), s.ttl)
			pipe.Expire(ctx, s.tagKey(rec.Tag), s.ttl)
			pipe.Expire(ctx, s.tagsKey(), s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append record to redis: %w", err)
	}
	return nil
}

// List returns up to limit records with the given tag, most recent first.
func (s *RecordStore) List(ctx context.Context, tag string, limit int) ([]*store.Record, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	items, err := s.client.LRange(ctx, s.tagKey(tag), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list records for tag %s: %w", tag, err)
	}
	return decodeRecords(items)
}

// All returns every record in insertion order.
func (s *RecordStore) All(ctx context.Context) ([]*store.Record, error) {
	items, err := s.client.LRange(ctx, s.allKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	return decodeRecords(items)
}

// Clear removes all records.
func (s *RecordStore) Clear(ctx context.Context) error {
	tags, err := s.client.SMembers(ctx, s.tagsKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to list tags for clearing: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, tag := range tags {
			pipe.Del(ctx, s.tagKey(tag))
		}
		pipe.Del(ctx, s.allKey())
		pipe.Del(ctx, s.tagsKey())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}

func decodeRecords(items []string) ([]*store.Record, error) {
	records := make([]*store.Record, 0, len(items))
	for _, item := range items {
		var rec store.Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, nil
}
