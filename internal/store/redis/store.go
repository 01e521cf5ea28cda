package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store keeps widget impression counters in Redis for a single data source.
type Store struct {
	client *redis.Client
	source string
}

// NewStore creates a new Redis store counting renders read from source.
func NewStore(client *redis.Client, source string) *Store {
	return &Store{
		client: client,
		source: source,
	}
}

// Source returns the data source whose renders are counted.
func (s *Store) Source() string {
	return s.source
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
