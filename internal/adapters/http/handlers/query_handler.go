package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/metadata-aggregator/internal/adapters/http/dto"
	"github.com/jsamuelsen11/metadata-aggregator/internal/dom"
	"github.com/jsamuelsen11/metadata-aggregator/internal/dom/saml"
	"github.com/jsamuelsen11/metadata-aggregator/internal/platform/logging"
	"github.com/jsamuelsen11/metadata-aggregator/internal/ports"
)

// metadataContentType is the media type for SAML metadata responses.
const metadataContentType = "application/samlmetadata+xml"

// QueryHandler serves published metadata over HTTP. A single matching item
// is returned as its bare element; multiple matches are wrapped in an
// EntitiesDescriptor assembled on the fly.
type QueryHandler struct {
	svc        ports.MetadataService
	name       string
	serializer dom.ElementSerializer
}

// QueryOption configures the query handler.
type QueryOption func(*QueryHandler)

// WithDescriptorName sets the Name attribute on assembled
// EntitiesDescriptor responses.
func WithDescriptorName(name string) QueryOption {
	return func(h *QueryHandler) { h.name = name }
}

// NewQueryHandler creates a new QueryHandler backed by the given service.
func NewQueryHandler(svc ports.MetadataService, opts ...QueryOption) *QueryHandler {
	h := &QueryHandler{
		svc:        svc,
		serializer: dom.ElementSerializer{Declaration: true},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ListEntities handles GET /entities. It returns the whole published
// collection as one EntitiesDescriptor.
func (h *QueryHandler) ListEntities(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Query(r.Context(), nil)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	h.writeMetadata(w, r, []*dom.Item{dom.NewItem(saml.Assemble(items, h.name, nil))})
}

// GetEntities handles GET /entities/{terms}. Terms are "+"-separated; every
// term must match for an item to be returned.
func (h *QueryHandler) GetEntities(w http.ResponseWriter, r *http.Request) {
	terms := strings.Split(chi.URLParam(r, "terms"), "+")

	items, err := h.svc.Query(r.Context(), terms)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	if len(items) > 1 {
		items = []*dom.Item{dom.NewItem(saml.Assemble(items, h.name, nil))}
	}
	h.writeMetadata(w, r, items)
}

// writeMetadata serializes the items and writes them with the SAML metadata
// content type. Serialization happens into a buffer first so a failure can
// still produce a clean error response.
func (h *QueryHandler) writeMetadata(w http.ResponseWriter, r *http.Request, items []*dom.Item) {
	var buf bytes.Buffer
	if err := h.serializer.Serialize(&buf, items); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "failed to serialize metadata",
			slog.Any("error", err),
		)
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", metadataContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "failed to write metadata response",
			slog.Any("error", err),
		)
	}
}
