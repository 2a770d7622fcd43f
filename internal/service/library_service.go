package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/shelf-social/internal/model"
	"github.com/d60-Lab/shelf-social/internal/repository"
)

// AddPaperInput 加入书架的请求体
type AddPaperInput struct {
	PaperID string            `json:"paper_id" binding:"required"`
	Title   string            `json:"title" binding:"required"`
	Authors []string          `json:"authors"`
	Year    *int              `json:"year"`
	URL     string            `json:"url"`
	Source  string            `json:"source"`
	Status  model.ShelfStatus `json:"status" binding:"required"`
}

type LibraryService interface {
	AddToLibrary(ctx context.Context, userID string, in AddPaperInput) (*model.LibraryItem, error)
	SetStatus(ctx context.Context, userID, paperID string, status model.ShelfStatus) error
	ListLibrary(ctx context.Context, userID string, status *model.ShelfStatus) (*model.LibraryList, error)
}

type libraryService struct {
	papers  repository.PaperRepository
	library repository.LibraryRepository
	posts   repository.PostRepository
	joiner  *ReferenceJoiner
	tx      repository.TxManager
}

func NewLibraryService(papers repository.PaperRepository, library repository.LibraryRepository, posts repository.PostRepository, joiner *ReferenceJoiner, tx repository.TxManager) LibraryService {
	return &libraryService{papers: papers, library: library, posts: posts, joiner: joiner, tx: tx}
}

// AddToLibrary 在一个事务内写入论文元数据、书架条目与 added_to_library 动态
func (s *libraryService) AddToLibrary(ctx context.Context, userID string, in AddPaperInput) (*model.LibraryItem, error) {
	in.PaperID = strings.TrimSpace(in.PaperID)
	in.Title = strings.TrimSpace(in.Title)
	if in.PaperID == "" || in.Title == "" {
		return nil, ErrInvalidPaper
	}
	if !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	now := time.Now().UTC()
	item := &model.LibraryItem{UserID: userID, PaperID: in.PaperID, Status: in.Status, InsertedAt: now}
	paperID, status := in.PaperID, in.Status
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.papers.Upsert(ctx, &model.Paper{
			ID:      in.PaperID,
			Title:   in.Title,
			Authors: in.Authors,
			Year:    in.Year,
			URL:     in.URL,
			Source:  in.Source,
		}); err != nil {
			return err
		}
		if err := s.library.Create(ctx, item); err != nil {
			if repository.IsDuplicate(err) {
				return ErrAlreadyInLibrary
			}
			return err
		}
		return s.posts.Create(ctx, &model.Post{
			ID:        uuid.New().String(),
			UserID:    userID,
			Kind:      model.PostAddedToLibrary,
			PaperID:   &paperID,
			Status:    &status,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// SetStatus 修改阅读状态并产生一条 status_changed 动态，两者同一事务
func (s *libraryService) SetStatus(ctx context.Context, userID, paperID string, status model.ShelfStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		hit, err := s.library.UpdateStatus(ctx, userID, paperID, status)
		if err != nil {
			return err
		}
		if !hit {
			return ErrNotInLibrary
		}
		return s.posts.Create(ctx, &model.Post{
			ID:        uuid.New().String(),
			UserID:    userID,
			Kind:      model.PostStatusChanged,
			PaperID:   &paperID,
			Status:    &status,
			CreatedAt: time.Now().UTC(),
		})
	})
}

func (s *libraryService) ListLibrary(ctx context.Context, userID string, status *model.ShelfStatus) (*model.LibraryList, error) {
	ctx, span := tracer.Start(ctx, "LibraryService.ListLibrary")
	defer span.End()

	if status != nil && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	items, err := s.library.List(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	keys := RefKeys{PaperIDs: make([]string, len(items))}
	for i, it := range items {
		keys.PaperIDs[i] = it.PaperID
	}
	refs := s.joiner.Join(ctx, keys)

	list := &model.LibraryList{Entries: make([]model.LibraryEntry, 0, len(items)), Degraded: refs.Degraded}
	for _, it := range items {
		id := it.PaperID
		list.Entries = append(list.Entries, model.LibraryEntry{
			PaperID:    id,
			Status:     it.Status,
			Paper:      refs.Paper(&id),
			InsertedAt: it.InsertedAt,
		})
	}
	return list, nil
}
