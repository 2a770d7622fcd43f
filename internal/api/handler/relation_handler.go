package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shelf-social/internal/middleware"
	"github.com/d60-Lab/shelf-social/pkg/response"
)

type followRequest struct {
	ToUserID string `json:"to_user_id" binding:"required"`
}

// Follow 关注用户（幂等）
// @Summary 关注用户
// @Tags 关系链
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body followRequest true "关注目标"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/relations/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()
	if err := h.relService.Follow(ctx, middleware.UserID(c), req.ToUserID); err != nil {
		h.fail(ctx, c, err)
		return
	}
	response.Success(c, nil)
}

// Unfollow 取消关注；关系不存在时同样成功
// @Summary 取消关注
// @Tags 关系链
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body followRequest true "取消关注目标"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/relations/unfollow [post]
func (h *Handler) Unfollow(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()
	if err := h.relService.Unfollow(ctx, middleware.UserID(c), req.ToUserID); err != nil {
		h.fail(ctx, c, err)
		return
	}
	response.Success(c, nil)
}

// FollowCounts 粉丝数 / 关注数（精确计数）
// @Summary 关注计数
// @Tags 关系链
// @Produce json
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response{data=model.FollowCounts}
// @Router /api/v1/relations/{user_id}/counts [get]
func (h *Handler) FollowCounts(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()
	counts, err := h.relService.FollowCounts(ctx, c.Param("user_id"))
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	response.Success(c, counts)
}

type followingResponse struct {
	Following bool `json:"following"`
}

// IsFollowing 当前用户是否关注了 user_id
// @Summary 是否已关注
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response{data=followingResponse}
// @Failure 401 {object} response.Response
// @Router /api/v1/relations/{user_id}/following [get]
func (h *Handler) IsFollowing(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()
	ok, err := h.relService.IsFollowing(ctx, middleware.UserID(c), c.Param("user_id"))
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	response.Success(c, followingResponse{Following: ok})
}

// ListFollowers 查询某用户的粉丝
// @Summary 粉丝列表
// @Tags 关系链
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} response.Response{data=model.FollowList}
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{username}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()
	p, ok := h.resolveUser(ctx, c)
	if !ok {
		return
	}
	list, err := h.relService.ListFollowers(ctx, p.ID)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	response.Success(c, list)
}

// ListFollowing 查询某用户关注的人
// @Summary 关注列表
// @Tags 关系链
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} response.Response{data=model.FollowList}
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{username}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()
	p, ok := h.resolveUser(ctx, c)
	if !ok {
		return
	}
	list, err := h.relService.ListFollowing(ctx, p.ID)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	response.Success(c, list)
}
