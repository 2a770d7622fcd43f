package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shelf-social/internal/middleware"
	"github.com/d60-Lab/shelf-social/pkg/response"
)

// Feed 关注时间线
// @Summary 关注时间线（关注的人 + 自己）
// @Description 读时聚合；子查询失败时对应区块降级并列在 degraded 中。同一用户的新请求会取代未完成的旧请求（499）。
// @Tags 动态
// @Produce json
// @Security BearerAuth
// @Param q query string false "按作者名模糊过滤"
// @Success 200 {object} response.Response{data=model.Feed}
// @Failure 401 {object} response.Response
// @Failure 499 {object} response.Response
// @Router /api/v1/feed [get]
func (h *Handler) Feed(c *gin.Context) {
	ctx, done := h.latestOnly(c, "feed")
	defer done()
	feed, err := h.feedService.Feed(ctx, middleware.UserID(c), c.Query("q"))
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	response.Success(c, feed)
}

// Activity 我的动态
// @Summary 与我相关的动态（被点赞、被关注）
// @Tags 动态
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=model.Activity}
// @Failure 401 {object} response.Response
// @Failure 499 {object} response.Response
// @Router /api/v1/activity [get]
func (h *Handler) Activity(c *gin.Context) {
	ctx, done := h.latestOnly(c, "activity")
	defer done()
	act, err := h.feedService.Activity(ctx, middleware.UserID(c))
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	response.Success(c, act)
}

// UserPosts 某用户的最近动态
// @Summary 用户动态
// @Tags 动态
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} response.Response{data=model.Feed}
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{username}/posts [get]
func (h *Handler) UserPosts(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()
	p, ok := h.resolveUser(ctx, c)
	if !ok {
		return
	}
	feed, err := h.feedService.UserPosts(ctx, middleware.UserID(c), p.ID)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	response.Success(c, feed)
}

// ToggleLike 点赞 / 取消点赞
// @Summary 切换点赞
// @Tags 动态
// @Produce json
// @Security BearerAuth
// @Param post_id path string true "动态ID"
// @Success 200 {object} response.Response{data=map[string]bool}
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{post_id}/like [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()
	liked, err := h.likeService.ToggleLike(ctx, middleware.UserID(c), c.Param("post_id"))
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	response.Success(c, gin.H{"liked": liked})
}
