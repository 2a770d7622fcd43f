package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/shelf-social/internal/model"
)

type PaperRepository interface {
	GetByIDs(ctx context.Context, ids []string) ([]*model.Paper, error)
	Upsert(ctx context.Context, p *model.Paper) error
}

type paperRepository struct{ db *gorm.DB }

func NewPaperRepository(db *gorm.DB) PaperRepository { return &paperRepository{db: db} }

func (r *paperRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.Paper, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var res []*model.Paper
	err := conn(ctx, r.db).Where("openalex_id IN ?", ids).Find(&res).Error
	return res, err
}

// Upsert 论文为共享引用数据，重复写入时覆盖元数据
func (r *paperRepository) Upsert(ctx context.Context, p *model.Paper) error {
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "openalex_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "authors", "year", "url", "source", "updated_at"}),
	}).Create(p).Error
}
