package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/station/internal/domain/models"
)

// SchemaHandler serves field descriptors for the generic record forms. The
// expense category options follow the category registry.
type SchemaHandler struct {
	mu         sync.RWMutex
	categories []string
	logger     *zap.Logger
}

// NewSchemaHandler builds the handler and follows registry updates until ctx is done.
func NewSchemaHandler(ctx context.Context, registry CategoryRegistry, logger *zap.Logger) *SchemaHandler {
	h := &SchemaHandler{categories: registry.List(), logger: nopIfNil(logger)}

	updates, cancel := registry.Subscribe()
	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case names, ok := <-updates:
				if !ok {
					return
				}
				h.mu.Lock()
				h.categories = names
				h.mu.Unlock()
				h.logger.Debug("category options refreshed", zap.Int("count", len(names)))
			}
		}
	}()
	return h
}

// Get handles GET /schemas/{resource}.
func (h *SchemaHandler) Get(c *gin.Context) {
	resource, err := models.ParseResource(c.Param("resource"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	schema, ok := models.SchemaFor(resource)
	if !ok {
		respondError(c, h.logger, models.ErrNotFound)
		return
	}

	if resource == models.ResourceExpenses {
		h.mu.RLock()
		options := append([]string(nil), h.categories...)
		h.mu.RUnlock()
		for i := range schema.Fields {
			if schema.Fields[i].Name == "category" {
				schema.Fields[i].Options = options
			}
		}
	}
	c.JSON(http.StatusOK, schema)
}
