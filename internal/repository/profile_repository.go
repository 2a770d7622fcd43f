package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/shelf-social/internal/model"
)

type ProfileRepository interface {
	Create(ctx context.Context, p *model.Profile) error
	Update(ctx context.Context, p *model.Profile) error
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.Profile, error)
	GetByUsername(ctx context.Context, username string) (*model.Profile, error)
	ListAll(ctx context.Context) ([]*model.Profile, error)
}

type profileRepository struct{ db *gorm.DB }

func NewProfileRepository(db *gorm.DB) ProfileRepository { return &profileRepository{db: db} }

func (r *profileRepository) Create(ctx context.Context, p *model.Profile) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return conn(ctx, r.db).Create(p).Error
}

func (r *profileRepository) Update(ctx context.Context, p *model.Profile) error {
	return conn(ctx, r.db).
		Model(&model.Profile{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"username":     p.Username,
			"display_name": p.DisplayName,
			"bio":          p.Bio,
			"avatar_url":   p.AvatarURL,
			"updated_at":   time.Now().UTC(),
		}).Error
}

// GetByID 不存在时返回 (nil, nil)
func (r *profileRepository) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	var p model.Profile
	err := conn(ctx, r.db).Where("id = ?", id).First(&p).Error
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByIDs 批量查询，一次 IN 查询；缺失的 id 不出现在结果中
func (r *profileRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var res []*model.Profile
	err := conn(ctx, r.db).Where("id IN ?", ids).Find(&res).Error
	return res, err
}

// GetByUsername 大小写不敏感匹配；不存在时返回 (nil, nil)
func (r *profileRepository) GetByUsername(ctx context.Context, username string) (*model.Profile, error) {
	var p model.Profile
	err := conn(ctx, r.db).Where("LOWER(username) = ?", strings.ToLower(username)).First(&p).Error
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListAll 全量用户目录，供搜索使用
func (r *profileRepository) ListAll(ctx context.Context) ([]*model.Profile, error) {
	var res []*model.Profile
	err := conn(ctx, r.db).Order("username").Find(&res).Error
	return res, err
}
