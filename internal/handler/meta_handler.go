package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/edufin/finboard-backend/internal/response"
	"github.com/edufin/finboard-backend/internal/service"
)

// MetaHandler serves the dictionary data behind the dashboard's filter
// dropdowns.
type MetaHandler struct {
	metaService *service.MetaService
	log         zerolog.Logger
}

// NewMetaHandler creates a new MetaHandler.
func NewMetaHandler(metaService *service.MetaService, log zerolog.Logger) *MetaHandler {
	return &MetaHandler{metaService: metaService, log: log}
}

// GetMeta godoc
// GET /api/meta
// Returns the campus list and course-type list.
func (h *MetaHandler) GetMeta(c *gin.Context) {
	meta, err := h.metaService.GetMeta(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Meta lookup failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, meta)
}
