package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CategoryRegistry is the shared set of expense categories.
type CategoryRegistry interface {
	List() []string
	Add(ctx context.Context, name string) (bool, error)
	Subscribe() (<-chan []string, func())
}

// CategoryHandler lists and adds expense categories.
type CategoryHandler struct {
	registry CategoryRegistry
	logger   *zap.Logger
}

// NewCategoryHandler builds a CategoryHandler.
func NewCategoryHandler(registry CategoryRegistry, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{registry: registry, logger: nopIfNil(logger)}
}

type categoryRequest struct {
	Name string `json:"name" binding:"required,max=64"`
}

// List handles GET /categories.
func (h *CategoryHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.List())
}

// Add handles POST /categories. It answers 201 when the category is new.
func (h *CategoryHandler) Add(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	added, err := h.registry.Add(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	c.JSON(status, h.registry.List())
}
