package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/postline/backend/internal/dto"
	apperrors "github.com/postline/backend/internal/errors"
	"github.com/postline/backend/internal/middleware"
	"github.com/postline/backend/internal/service"
)

// Uploaded images larger than this are rejected before they touch storage.
const maxImageSize = 5 << 20

type PostHandler struct {
	postService    *service.PostService
	commentService *service.CommentService
}

func NewPostHandler(postService *service.PostService, commentService *service.CommentService) *PostHandler {
	return &PostHandler{
		postService:    postService,
		commentService: commentService,
	}
}

// Create accepts either a JSON body or a multipart form with an optional
// image file.
func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrMissingToken)
		return
	}

	var req dto.CreatePostRequest
	var image *service.Upload

	if c.ContentType() == "multipart/form-data" {
		if err := c.ShouldBind(&req); err != nil {
			respondBindError(c, err)
			return
		}

		file, err := c.FormFile("image")
		if err == nil {
			if file.Size > maxImageSize {
				respondError(c, apperrors.ErrInvalidInput)
				return
			}
			src, err := file.Open()
			if err != nil {
				respondError(c, apperrors.WrapError(apperrors.ErrInternal, err))
				return
			}
			data, err := io.ReadAll(src)
			src.Close()
			if err != nil {
				respondError(c, apperrors.WrapError(apperrors.ErrInternal, err))
				return
			}
			image = &service.Upload{
				Filename:    file.Filename,
				ContentType: file.Header.Get("Content-Type"),
				Data:        data,
			}
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	response, err := h.postService.Create(c.Request.Context(), userID, req, image)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetAll lists posts newest first; ?owner= restricts to one author.
func (h *PostHandler) GetAll(c *gin.Context) {
	var ownerID *uint
	if raw := c.Query("owner"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondBindError(c, err)
			return
		}
		value := uint(id)
		ownerID = &value
	}

	response, err := h.postService.GetAll(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *PostHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	response, err := h.postService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *PostHandler) Update(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrMissingToken)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.postService.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *PostHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrMissingToken)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.postService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "post deleted",
	})
}

func (h *PostHandler) Like(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrMissingToken)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.postService.Like(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "post liked",
	})
}

func (h *PostHandler) Unlike(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrMissingToken)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.postService.Unlike(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "post unliked",
	})
}

func (h *PostHandler) GetLikes(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	response, err := h.postService.GetLikes(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetComments lists a post's comments oldest first.
func (h *PostHandler) GetComments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// 404 for a missing post rather than an empty list.
	if _, err := h.postService.GetByID(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response, err := h.commentService.GetAll(c.Request.Context(), &id, nil)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
