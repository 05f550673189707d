package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/postline/backend/internal/service"
)

type SearchHandler struct {
	searchService *service.SearchService
}

func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// Search runs a combined user and post lookup on ?q=.
func (h *SearchHandler) Search(c *gin.Context) {
	results, err := h.searchService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
	})
}
