package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/d60-Lab/shelf-social/internal/model"
	"github.com/d60-Lab/shelf-social/internal/repository"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.]{3,20}$`)

// RegisterValidations 注册自定义校验 tag（username），gin 的 binding 引擎与服务内部共用。
// 校验前先做与 Normalize 相同的小写化。
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(normalizeUsername(fl.Field().String()))
	})
}

func normalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ProfileInput 创建或修改资料的请求体
type ProfileInput struct {
	Username    string `json:"username" binding:"required,username"`
	DisplayName string `json:"display_name" binding:"max=100"`
	Bio         string `json:"bio" binding:"max=500"`
	AvatarURL   string `json:"avatar_url" binding:"omitempty,url"`
}

// Normalize 用户名统一小写并去掉首尾空白
func (in *ProfileInput) Normalize() {
	in.Username = normalizeUsername(in.Username)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
}

type ProfileService interface {
	Register(ctx context.Context, userID string, in ProfileInput) (*model.Profile, error)
	GetByUsername(ctx context.Context, username string) (*model.Profile, error)
	Overview(ctx context.Context, viewerID, username string) (*model.ProfileOverview, error)
	Update(ctx context.Context, userID string, in ProfileInput) (*model.Profile, error)
	DeleteMyData(ctx context.Context, userID string) error
}

type profileService struct {
	profiles repository.ProfileRepository
	follows  repository.FollowRepository
	posts    repository.PostRepository
	library  repository.LibraryRepository
	accounts repository.AccountRepository
	cache    ProfileLoader
	tx       repository.TxManager
	validate *validator.Validate
	rec      Recorder
}

func NewProfileService(
	profiles repository.ProfileRepository,
	follows repository.FollowRepository,
	posts repository.PostRepository,
	library repository.LibraryRepository,
	accounts repository.AccountRepository,
	cache ProfileLoader,
	tx repository.TxManager,
	rec Recorder,
) ProfileService {
	v := validator.New()
	v.SetTagName("binding")
	_ = RegisterValidations(v)
	return &profileService{
		profiles: profiles,
		follows:  follows,
		posts:    posts,
		library:  library,
		accounts: accounts,
		cache:    cache,
		tx:       tx,
		validate: v,
		rec:      orNop(rec),
	}
}

func (s *profileService) check(in *ProfileInput) error {
	in.Normalize()
	if err := s.validate.Var(in.Username, "required,username"); err != nil {
		return ErrInvalidUsername
	}
	return s.validate.Struct(in)
}

// Register 创建资料并产生一条 user_joined 动态，两者同一事务
func (s *profileService) Register(ctx context.Context, userID string, in ProfileInput) (*model.Profile, error) {
	if err := s.check(&in); err != nil {
		return nil, err
	}
	existing, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrProfileExists
	}
	if owner, err := s.profiles.GetByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if owner != nil {
		return nil, ErrUsernameTaken
	}

	now := time.Now().UTC()
	p := &model.Profile{
		ID:          userID,
		Username:    in.Username,
		DisplayName: in.DisplayName,
		Bio:         in.Bio,
		AvatarURL:   in.AvatarURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.profiles.Create(ctx, p); err != nil {
			if repository.IsDuplicate(err) {
				return ErrUsernameTaken
			}
			return err
		}
		return s.posts.Create(ctx, &model.Post{
			ID:        uuid.New().String(),
			UserID:    userID,
			Kind:      model.PostUserJoined,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, userID)
	return p, nil
}

func (s *profileService) GetByUsername(ctx context.Context, username string) (*model.Profile, error) {
	return s.profiles.GetByUsername(ctx, strings.TrimSpace(username))
}

// Overview 资料不存在时返回 (nil, nil)；计数查询失败仅降级对应区块
func (s *profileService) Overview(ctx context.Context, viewerID, username string) (*model.ProfileOverview, error) {
	ctx, span := tracer.Start(ctx, "ProfileService.Overview")
	defer span.End()

	p, err := s.GetByUsername(ctx, username)
	if err != nil || p == nil {
		return nil, err
	}

	out := &model.ProfileOverview{
		Profile: p.Snapshot(),
		Bio:     p.Bio,
		IsSelf:  viewerID != "" && viewerID == p.ID,
	}
	var countsErr, libErr, postErr, followErr error
	var g errgroup.Group
	g.Go(func() error {
		out.Counts.Followers, countsErr = s.follows.CountFollowers(ctx, p.ID)
		if countsErr == nil {
			out.Counts.Following, countsErr = s.follows.CountFollowing(ctx, p.ID)
		}
		return nil
	})
	g.Go(func() error {
		out.LibraryCount, libErr = s.library.Count(ctx, p.ID)
		return nil
	})
	g.Go(func() error {
		out.PostCount, postErr = s.posts.CountByAuthor(ctx, p.ID)
		return nil
	})
	if viewerID != "" && !out.IsSelf {
		g.Go(func() error {
			out.IsFollowing, followErr = s.follows.Exists(ctx, viewerID, p.ID)
			return nil
		})
	}
	_ = g.Wait()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if countsErr != nil {
		out.Counts = model.FollowCounts{}
		out.Degraded = append(out.Degraded, degrade(ctx, s.rec, SectionCounts, countsErr))
	}
	if libErr != nil {
		out.Degraded = append(out.Degraded, degrade(ctx, s.rec, SectionLibrary, libErr))
	}
	if postErr != nil {
		out.Degraded = append(out.Degraded, degrade(ctx, s.rec, SectionPosts, postErr))
	}
	if followErr != nil {
		out.Degraded = append(out.Degraded, degrade(ctx, s.rec, SectionFollowing, followErr))
	}
	return out, nil
}

func (s *profileService) Update(ctx context.Context, userID string, in ProfileInput) (*model.Profile, error) {
	if err := s.check(&in); err != nil {
		return nil, err
	}
	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrUserNotFound
	}
	if in.Username != p.Username {
		owner, err := s.profiles.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if owner != nil && owner.ID != userID {
			return nil, ErrUsernameTaken
		}
	}

	p.Username = in.Username
	p.DisplayName = in.DisplayName
	p.Bio = in.Bio
	p.AvatarURL = in.AvatarURL
	if err := s.profiles.Update(ctx, p); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	s.cache.Invalidate(ctx, userID)
	return p, nil
}

// DeleteMyData 删除本人数据；他人对我的关注边保留
func (s *profileService) DeleteMyData(ctx context.Context, userID string) error {
	if err := s.accounts.DeleteUserData(ctx, userID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, userID)
	return nil
}
