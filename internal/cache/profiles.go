package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/shelf-social/internal/model"
	"github.com/d60-Lab/shelf-social/internal/repository"
	"github.com/d60-Lab/shelf-social/pkg/logger"
)

const directoryKey = "profiles:directory"

func profileKey(id string) string { return fmt.Sprintf("profile:%s", id) }

// ProfileCache serves profile snapshots from redis, filling misses with one bulk
// store query. A nil redis client disables caching; redis errors fall back to
// the store.
type ProfileCache struct {
	repo  repository.ProfileRepository
	cache *redis.Client
	ttl   time.Duration

	bulkLoads      atomic.Int64
	directoryLoads atomic.Int64
}

func NewProfileCache(repo repository.ProfileRepository, cache *redis.Client, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ProfileCache{repo: repo, cache: cache, ttl: ttl}
}

// Load 返回 id -> 快照；不存在的 id 不出现在结果中
func (c *ProfileCache) Load(ctx context.Context, ids []string) (map[string]model.ProfileSnapshot, error) {
	out := make(map[string]model.ProfileSnapshot, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	if c.cache != nil {
		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = profileKey(id)
		}
		vals, err := c.cache.MGet(ctx, keys...).Result()
		if err != nil {
			logger.Warn("profile cache mget failed", zap.Error(err))
		}
		for i, v := range vals {
			str, ok := v.(string)
			if !ok {
				continue
			}
			var snap model.ProfileSnapshot
			if uErr := json.Unmarshal([]byte(str), &snap); uErr == nil {
				out[ids[i]] = snap
			}
		}
	}

	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	c.bulkLoads.Add(1)
	profiles, err := c.repo.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}

	var pipe redis.Pipeliner
	if c.cache != nil {
		pipe = c.cache.Pipeline()
	}
	for _, p := range profiles {
		snap := p.Snapshot()
		out[p.ID] = snap
		if pipe != nil {
			if payload, err := json.Marshal(snap); err == nil {
				pipe.Set(ctx, profileKey(p.ID), payload, c.ttl)
			}
		}
	}
	if pipe != nil && len(profiles) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			logger.Warn("profile cache fill failed", zap.Error(err))
		}
	}
	return out, nil
}

// Directory 全量用户目录快照（搜索用）
func (c *ProfileCache) Directory(ctx context.Context) ([]model.ProfileSnapshot, error) {
	if c.cache != nil {
		if data, err := c.cache.Get(ctx, directoryKey).Bytes(); err == nil {
			var out []model.ProfileSnapshot
			if uErr := json.Unmarshal(data, &out); uErr == nil {
				return out, nil
			}
		} else if err != redis.Nil {
			logger.Warn("profile directory cache get failed", zap.Error(err))
		}
	}

	c.directoryLoads.Add(1)
	profiles, err := c.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.ProfileSnapshot, len(profiles))
	for i, p := range profiles {
		out[i] = p.Snapshot()
	}
	if c.cache != nil {
		if payload, err := json.Marshal(out); err == nil {
			_ = c.cache.Set(ctx, directoryKey, payload, c.ttl).Err()
		}
	}
	return out, nil
}

// Invalidate 资料变更或删除后清除缓存
func (c *ProfileCache) Invalidate(ctx context.Context, id string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Del(ctx, profileKey(id), directoryKey).Err(); err != nil {
		logger.Warn("profile cache invalidate failed", zap.String("user", id), zap.Error(err))
	}
}

// Counters reports how many store loads the cache has issued.
func (c *ProfileCache) Counters() LoadCounters {
	return LoadCounters{BulkLoads: c.bulkLoads.Load(), DirectoryLoads: c.directoryLoads.Load()}
}

// ResetCounters clears recorded store load counters.
func (c *ProfileCache) ResetCounters() {
	c.bulkLoads.Store(0)
	c.directoryLoads.Store(0)
}

// LoadCounters summarises store hits.
type LoadCounters struct {
	BulkLoads      int64
	DirectoryLoads int64
}
