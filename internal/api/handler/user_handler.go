package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shelf-social/internal/middleware"
	"github.com/d60-Lab/shelf-social/internal/model"
	"github.com/d60-Lab/shelf-social/internal/service"
	"github.com/d60-Lab/shelf-social/pkg/response"
)

// SearchUsers 全量用户模糊搜索
// @Summary 搜索用户
// @Tags 用户
// @Produce json
// @Param q query string false "关键字（子串或按序子序列）"
// @Success 200 {object} response.Response{data=[]model.ProfileSnapshot}
// @Failure 429 {object} response.Response
// @Router /api/v1/users/search [get]
func (h *Handler) SearchUsers(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()
	users, err := h.searchService.SearchUsers(ctx, c.Query("q"))
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	response.Success(c, users)
}

// GetUser 个人主页概览
// @Summary 用户主页
// @Tags 用户
// @Produce json
// @Param username path string true "用户名（大小写不敏感）"
// @Success 200 {object} response.Response{data=model.ProfileOverview}
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{username} [get]
func (h *Handler) GetUser(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()
	ov, err := h.profileService.Overview(ctx, middleware.UserID(c), c.Param("username"))
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	if ov == nil {
		response.NotFound(c, service.ErrUserNotFound.Error())
		return
	}
	response.Success(c, ov)
}

// UserLibrary 用户书架
// @Summary 用户书架
// @Tags 书架
// @Produce json
// @Param username path string true "用户名"
// @Param status query string false "to_read | reading | read"
// @Success 200 {object} response.Response{data=model.LibraryList}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{username}/library [get]
func (h *Handler) UserLibrary(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()
	p, ok := h.resolveUser(ctx, c)
	if !ok {
		return
	}
	var status *model.ShelfStatus
	if s := c.Query("status"); s != "" {
		st := model.ShelfStatus(s)
		status = &st
	}
	list, err := h.libraryService.ListLibrary(ctx, p.ID, status)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	response.Success(c, list)
}
