package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shelf-social/internal/middleware"
	"github.com/d60-Lab/shelf-social/internal/service"
	"github.com/d60-Lab/shelf-social/pkg/response"
)

// CreateProfile 首次登录后创建资料
// @Summary 创建资料
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ProfileInput true "资料"
// @Success 200 {object} response.Response{data=model.ProfileSnapshot}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/profile [post]
func (h *Handler) CreateProfile(c *gin.Context) {
	var req service.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()
	p, err := h.profileService.Register(ctx, middleware.UserID(c), req)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	response.Success(c, p.Snapshot())
}

// UpdateProfile 修改资料
// @Summary 修改资料
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ProfileInput true "资料"
// @Success 200 {object} response.Response{data=model.ProfileSnapshot}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req service.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()
	p, err := h.profileService.Update(ctx, middleware.UserID(c), req)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	response.Success(c, p.Snapshot())
}

// DeleteMyData 删除本人全部数据
// @Summary 删除我的数据
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/profile/data [delete]
func (h *Handler) DeleteMyData(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()
	if err := h.profileService.DeleteMyData(ctx, middleware.UserID(c)); err != nil {
		h.fail(ctx, c, err)
		return
	}
	response.Success(c, nil)
}
