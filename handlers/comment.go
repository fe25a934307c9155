package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ads_platform_backend/mapper"
	"ads_platform_backend/models"
	"ads_platform_backend/services"
)

type CommentHandler struct {
	comments *services.CommentService
	log      logrus.FieldLogger
}

func NewCommentHandler(comments *services.CommentService, log logrus.FieldLogger) *CommentHandler {
	return &CommentHandler{comments: comments, log: log}
}

type commentRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

func (h *CommentHandler) GetComments(c *gin.Context) {
	adID, ok := pathID(c, "id")
	if !ok {
		return
	}
	comments, err := h.comments.List(c.Request.Context(), adID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, mapper.WrapComments(comments))
}

func (h *CommentHandler) GetComment(c *gin.Context) {
	adID, ok := pathID(c, "id")
	if !ok {
		return
	}
	id, ok := pathID(c, "commentId")
	if !ok {
		return
	}
	comment, err := h.comments.Get(c.Request.Context(), adID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, mapper.CommentToDto(comment))
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	adID, ok := pathID(c, "id")
	if !ok {
		return
	}

	// Only the text of an AdsCommentDto is honoured.
	var req models.AdsCommentDto
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), caller, adID, mapper.DtoToComment(req))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.CommentToDto(comment))
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	adID, ok := pathID(c, "id")
	if !ok {
		return
	}
	id, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), caller, adID, id, req.Text)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, mapper.CommentToDto(comment))
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	adID, ok := pathID(c, "id")
	if !ok {
		return
	}
	id, ok := pathID(c, "commentId")
	if !ok {
		return
	}
	if err := h.comments.Delete(c.Request.Context(), caller, adID, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
