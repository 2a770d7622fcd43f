package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shelf-social/internal/middleware"
	"github.com/d60-Lab/shelf-social/internal/model"
	"github.com/d60-Lab/shelf-social/internal/service"
	"github.com/d60-Lab/shelf-social/pkg/response"
)

type statusRequest struct {
	Status model.ShelfStatus `json:"status" binding:"required"`
}

// AddToLibrary 加入书架
// @Summary 加入书架
// @Tags 书架
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.AddPaperInput true "论文与状态"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/library [post]
func (h *Handler) AddToLibrary(c *gin.Context) {
	var req service.AddPaperInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()
	item, err := h.libraryService.AddToLibrary(ctx, middleware.UserID(c), req)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	response.Success(c, gin.H{"paper_id": item.PaperID, "status": item.Status})
}

// SetLibraryStatus 修改阅读状态
// @Summary 修改阅读状态
// @Tags 书架
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param paper_id path string true "论文ID"
// @Param request body statusRequest true "新状态"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/library/{paper_id} [patch]
func (h *Handler) SetLibraryStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()
	if err := h.libraryService.SetStatus(ctx, middleware.UserID(c), c.Param("paper_id"), req.Status); err != nil {
		h.fail(ctx, c, err)
		return
	}
	response.Success(c, nil)
}
