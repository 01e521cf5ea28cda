package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/webring/internal/widget"
)

// CategoryStats holds the impression counters of one category.
type CategoryStats struct {
	Name        string           `json:"name"`
	Impressions int64            `json:"impressions"`
	Links       map[string]int64 `json:"links"`
}

// Stats is the snapshot served by /stats.
type Stats struct {
	Renders    int64           `json:"renders"`
	Categories []CategoryStats `json:"categories"`
}

// RecordImpressions counts one render and every link it displayed, in a
// single round trip. Renders of any other data source are ignored so callers
// cannot grow the key set with rings of their own.
func (s *Store) RecordImpressions(ctx context.Context, dataSource string, state widget.RenderState) error {
	if state.Failed || dataSource != s.source {
		return nil
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, KeyRenders)
		for _, category := range state.Categories.Categories() {
			links, _ := state.Categories.Get(category)
			if len(links) == 0 {
				continue
			}
			pipe.ZIncrBy(ctx, KeyCategories, 1, category)
			for _, link := range links {
				pipe.HIncrBy(ctx, LinksKey(category), link.URL, 1)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record impressions: %w", err)
	}
	return nil
}

// GetStats returns all counters, categories sorted by impressions.
func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	renders, err := s.client.Get(ctx, KeyRenders).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Stats{}, fmt.Errorf("failed to get render count: %w", err)
	}

	ranked, err := s.client.ZRevRangeWithScores(ctx, KeyCategories, 0, -1).Result()
	if err != nil {
		return Stats{}, fmt.Errorf("failed to get category ranking: %w", err)
	}

	cmds := make([]*redis.MapStringStringCmd, len(ranked))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, z := range ranked {
			cmds[i] = pipe.HGetAll(ctx, LinksKey(fmt.Sprint(z.Member)))
		}
		return nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("failed to get link counters: %w", err)
	}

	stats := Stats{Renders: renders, Categories: make([]CategoryStats, 0, len(ranked))}
	for i, z := range ranked {
		stats.Categories = append(stats.Categories, CategoryStats{
			Name:        fmt.Sprint(z.Member),
			Impressions: int64(z.Score),
			Links:       parseCounters(cmds[i].Val()),
		})
	}
	sortCategories(stats.Categories)
	return stats, nil
}

// parseCounters converts a Redis hash of counters, dropping values that are
// not integers.
func parseCounters(raw map[string]string) map[string]int64 {
	out := make(map[string]int64, len(raw))
	for k, v := range raw {
		var n int64
		if _, err := fmt.Sscan(v, &n); err != nil {
			continue
		}
		out[k] = n
	}
	return out
}

// sortCategories orders by impressions, then name, so equal scores are
// stable across calls.
func sortCategories(cs []CategoryStats) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Impressions != cs[j].Impressions {
			return cs[i].Impressions > cs[j].Impressions
		}
		return cs[i].Name < cs[j].Name
	})
}
