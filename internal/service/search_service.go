package service

import (
	"context"

	"github.com/d60-Lab/shelf-social/internal/model"
)

// SearchService 在全量用户目录上做模糊匹配（不限于已关注用户）
type SearchService interface {
	SearchUsers(ctx context.Context, query string) ([]model.ProfileSnapshot, error)
}

type searchService struct {
	profiles ProfileLoader
}

func NewSearchService(profiles ProfileLoader) SearchService {
	return &searchService{profiles: profiles}
}

func (s *searchService) SearchUsers(ctx context.Context, query string) ([]model.ProfileSnapshot, error) {
	ctx, span := tracer.Start(ctx, "SearchService.SearchUsers")
	defer span.End()

	dir, err := s.profiles.Directory(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.ProfileSnapshot, 0)
	for _, p := range dir {
		if Match(p.SearchName(), query) {
			out = append(out, p)
		}
	}
	return out, nil
}
