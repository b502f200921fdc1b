package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/station/internal/domain/models"
	"github.com/mamadbah2/station/internal/query"
)

// RecordService is the CRUD workflow of one resource.
type RecordService[T any] interface {
	Resource() models.Resource
	List(ctx context.Context, params map[string]string) ([]T, error)
	Create(ctx context.Context, doc T) (T, error)
	Update(ctx context.Context, rawID string, doc T) (T, error)
	Delete(ctx context.Context, rawID string) error
}

// RecordHandler serves list/create/update/delete for one resource.
type RecordHandler[T any] struct {
	svc    RecordService[T]
	logger *zap.Logger
}

// NewRecordHandler builds the handler of svc's resource.
func NewRecordHandler[T any](svc RecordService[T], logger *zap.Logger) *RecordHandler[T] {
	return &RecordHandler[T]{svc: svc, logger: nopIfNil(logger)}
}

// Register mounts the resource routes on rg.
func (h *RecordHandler[T]) Register(rg *gin.RouterGroup) {
	path := "/" + string(h.svc.Resource())
	rg.GET(path, h.List)
	rg.POST(path, h.Create)
	rg.PUT(path+"/:id", h.Update)
	rg.DELETE(path+"/:id", h.Delete)
}

// List handles GET /{resource} with filter parameters.
func (h *RecordHandler[T]) List(c *gin.Context) {
	docs, err := h.svc.List(c.Request.Context(), query.Params(c.Request.URL.Query()))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if docs == nil {
		docs = []T{}
	}
	c.JSON(http.StatusOK, docs)
}

// Create handles POST /{resource}.
func (h *RecordHandler[T]) Create(c *gin.Context) {
	var doc T
	if err := c.ShouldBindJSON(&doc); err != nil {
		respondBindError(c, err)
		return
	}

	created, err := h.svc.Create(c.Request.Context(), doc)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update handles PUT /{resource}/{id}.
func (h *RecordHandler[T]) Update(c *gin.Context) {
	var doc T
	if err := c.ShouldBindJSON(&doc); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), c.Param("id"), doc)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /{resource}/{id}.
func (h *RecordHandler[T]) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
