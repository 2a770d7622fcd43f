package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/shelf-social/internal/middleware"
	"github.com/d60-Lab/shelf-social/internal/model"
	"github.com/d60-Lab/shelf-social/internal/service"
	"github.com/d60-Lab/shelf-social/pkg/response"
)

// Handler 聚合各业务服务的 HTTP 入口
type Handler struct {
	feedService    service.FeedService
	relService     service.RelationshipService
	searchService  service.SearchService
	profileService service.ProfileService
	libraryService service.LibraryService
	likeService    service.LikeService
	superseder     *service.Superseder
	timeout        time.Duration
}

// Services 构造 Handler 所需依赖
type Services struct {
	Feed         service.FeedService
	Relationship service.RelationshipService
	Search       service.SearchService
	Profile      service.ProfileService
	Library      service.LibraryService
	Like         service.LikeService
	Superseder   *service.Superseder
}

func New(s Services, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if s.Superseder == nil {
		s.Superseder = service.NewSuperseder(nil)
	}
	return &Handler{
		feedService:    s.Feed,
		relService:     s.Relationship,
		searchService:  s.Search,
		profileService: s.Profile,
		libraryService: s.Library,
		likeService:    s.Like,
		superseder:     s.Superseder,
		timeout:        timeout,
	}
}

// requestContext 带请求超时的 context
func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// latestOnly 同一用户同一 feed 只保留最新请求
func (h *Handler) latestOnly(c *gin.Context, feed string) (context.Context, func()) {
	ctx, cancel := h.requestContext(c)
	key := middleware.UserID(c) + ":" + feed
	ctx, done := h.superseder.Begin(ctx, key)
	return ctx, func() {
		done()
		cancel()
	}
}

// resolveUser 按用户名查资料；不存在时已写出 404
func (h *Handler) resolveUser(ctx context.Context, c *gin.Context) (*model.Profile, bool) {
	p, err := h.profileService.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		h.fail(ctx, c, err)
		return nil, false
	}
	if p == nil {
		response.NotFound(c, service.ErrUserNotFound.Error())
		return nil, false
	}
	return p, true
}

// fail 将服务层错误映射为响应
func (h *Handler) fail(ctx context.Context, c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	switch {
	case service.IsSuperseded(ctx):
		response.Superseded(c)
	case errors.As(err, &verrs):
		response.BadRequest(c, verrs.Error())
	case errors.Is(err, service.ErrFollowSelf),
		errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidPaper):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrNotInLibrary):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrProfileExists),
		errors.Is(err, service.ErrAlreadyInLibrary):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
