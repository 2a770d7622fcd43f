package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/d60-Lab/shelf-social/internal/model"
	"github.com/d60-Lab/shelf-social/pkg/logger"
)

// DefaultMaxBatchKeys bounds how many distinct keys one reference fetch may carry.
const DefaultMaxBatchKeys = 1000

// 降级区块名称
const (
	SectionFollowing  = "following"
	SectionPosts      = "posts"
	SectionLikes      = "likes"
	SectionLikedPosts = "liked_posts"
	SectionFollowers  = "followers"
	SectionPapers     = "papers"
	SectionProfiles   = "profiles"
	SectionDirectory  = "directory"
	SectionCounts     = "counts"
	SectionLibrary    = "library"
)

// ProfileLoader resolves user ids to profile snapshots. *cache.ProfileCache implements it.
type ProfileLoader interface {
	Load(ctx context.Context, ids []string) (map[string]model.ProfileSnapshot, error)
	Directory(ctx context.Context) ([]model.ProfileSnapshot, error)
	Invalidate(ctx context.Context, id string)
}

// PaperLoader resolves paper ids in one query. repository.PaperRepository implements it.
type PaperLoader interface {
	GetByIDs(ctx context.Context, ids []string) ([]*model.Paper, error)
}

// RefKeys 一批事件引用到的外键；可含重复与空值
type RefKeys struct {
	PaperIDs []string
	UserIDs  []string
}

// References holds joined reference rows. Lookups of unknown keys return nil.
type References struct {
	Papers   map[string]*model.Paper
	Profiles map[string]*model.ProfileSnapshot
	Degraded []string
}

func (r *References) Paper(id *string) *model.Paper {
	if r == nil || id == nil {
		return nil
	}
	return r.Papers[*id]
}

func (r *References) Profile(id string) *model.ProfileSnapshot {
	if r == nil {
		return nil
	}
	return r.Profiles[id]
}

// ReferenceJoiner fetches the reference rows for a batch of events with one
// query per reference kind.
type ReferenceJoiner struct {
	papers   PaperLoader
	profiles ProfileLoader
	maxKeys  int
	rec      Recorder
}

func NewReferenceJoiner(papers PaperLoader, profiles ProfileLoader, maxKeys int, rec Recorder) *ReferenceJoiner {
	if maxKeys <= 0 {
		maxKeys = DefaultMaxBatchKeys
	}
	return &ReferenceJoiner{papers: papers, profiles: profiles, maxKeys: maxKeys, rec: orNop(rec)}
}

// Join runs the paper and profile fetches concurrently and returns once both
// finished. A failed fetch leaves its map empty and is listed in Degraded.
// Distinct keys beyond the batch cap are dropped and resolve to nil.
func (j *ReferenceJoiner) Join(ctx context.Context, keys RefKeys) *References {
	ctx, span := tracer.Start(ctx, "ReferenceJoiner.Join")
	defer span.End()

	paperIDs := j.distinct(keys.PaperIDs, SectionPapers)
	userIDs := j.distinct(keys.UserIDs, SectionProfiles)

	refs := &References{
		Papers:   make(map[string]*model.Paper, len(paperIDs)),
		Profiles: make(map[string]*model.ProfileSnapshot, len(userIDs)),
	}
	var paperErr, profileErr error
	var papers []*model.Paper
	var profiles map[string]model.ProfileSnapshot

	var g errgroup.Group
	if len(paperIDs) > 0 {
		g.Go(func() error {
			papers, paperErr = j.papers.GetByIDs(ctx, paperIDs)
			return nil
		})
	}
	if len(userIDs) > 0 {
		g.Go(func() error {
			profiles, profileErr = j.profiles.Load(ctx, userIDs)
			return nil
		})
	}
	_ = g.Wait()

	if paperErr != nil {
		refs.Degraded = append(refs.Degraded, j.degrade(ctx, SectionPapers, paperErr))
	} else {
		for _, p := range papers {
			refs.Papers[p.ID] = p
		}
	}
	if profileErr != nil {
		refs.Degraded = append(refs.Degraded, j.degrade(ctx, SectionProfiles, profileErr))
	} else {
		for id, snap := range profiles {
			refs.Profiles[id] = &snap
		}
	}
	return refs
}

// distinct 去重并去空，保持首次出现顺序；超过上限时静默截断并记录告警
func (j *ReferenceJoiner) distinct(ids []string, section string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) > j.maxKeys {
		logger.Warn("reference batch truncated",
			zap.String("section", section),
			zap.Int("keys", len(out)),
			zap.Int("cap", j.maxKeys))
		out = out[:j.maxKeys]
	}
	return out
}

func (j *ReferenceJoiner) degrade(ctx context.Context, section string, err error) string {
	return degrade(ctx, j.rec, section, err)
}

// degrade 记录一次子查询失败并返回区块名
func degrade(ctx context.Context, rec Recorder, section string, err error) string {
	if ctx.Err() == nil {
		logger.Warn("section degraded", zap.String("section", section), zap.Error(err))
		rec.SectionDegraded(section)
	}
	return section
}
