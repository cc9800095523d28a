package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nayna-import-api/internal/importer"
	"github.com/nayna-import-api/internal/models"
	"github.com/nayna-import-api/internal/service"
	"github.com/rs/zerolog"
)

// ExportHandler handles export and schema endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// StreamExport handles GET /v1/instances/:instance_id/exports/:kind?format=...
// Streams the export directly to the response
func (h *ExportHandler) StreamExport(c *gin.Context) {
	req := &models.ExportRequest{
		InstanceID: c.Param("instance_id"),
		Kind:       c.Param("kind"),
		Format:     c.DefaultQuery("format", "csv"),
	}

	if _, ok := importer.Lookup(req.Kind); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown record kind: " + req.Kind})
		return
	}
	if req.Format != "csv" && req.Format != "json" && req.Format != "ndjson" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: csv, json, ndjson"})
		return
	}

	if err := h.services.Export.Stream(c.Request.Context(), c.Writer, req); err != nil {
		h.log.Error().Err(err).Str("kind", req.Kind).Msg("Export failed")
		// Can't return error JSON after streaming has started
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		}
	}
}

type schemaField struct {
	Key      string   `json:"key"`
	Aliases  []string `json:"aliases"`
	Required bool     `json:"required"`
	Coerce   string   `json:"coerce"`
	Default  string   `json:"default,omitempty"`
	Values   []string `json:"values,omitempty"`
}

type schemaView struct {
	Kind    string        `json:"kind"`
	Headers []string      `json:"headers"`
	Fields  []schemaField `json:"fields"`
}

func viewSchema(s *importer.Schema) schemaView {
	v := schemaView{Kind: s.Kind(), Headers: s.Headers()}
	for _, f := range s.Fields() {
		v.Fields = append(v.Fields, schemaField{
			Key:      f.Key,
			Aliases:  f.Aliases,
			Required: f.Required,
			Coerce:   f.Coerce.String(),
			Default:  f.Default,
			Values:   f.EnumValues,
		})
	}
	return v
}

// ListSchemas handles GET /v1/schemas
func (h *ExportHandler) ListSchemas(c *gin.Context) {
	kinds := importer.Kinds()
	out := make([]schemaView, 0, len(kinds))
	for _, kind := range kinds {
		if s, ok := importer.Lookup(kind); ok {
			out = append(out, viewSchema(s))
		}
	}
	c.JSON(http.StatusOK, gin.H{"schemas": out})
}

// GetTemplate handles GET /v1/schemas/:kind/template
func (h *ExportHandler) GetTemplate(c *gin.Context) {
	kind := c.Param("kind")
	data, err := h.services.Export.Template(kind)
	if errors.Is(err, service.ErrUnknownKind) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown record kind: " + kind})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("kind", kind).Msg("Failed to build template")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build template"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+kind+"_template.csv")
	c.Data(http.StatusOK, "text/csv", data)
}
