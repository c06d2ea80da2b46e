package handlers

import (
	"net/http"

	"github.com/eslbridge/sign-translator/internal/catalog"
)

type ClipHandler struct {
	catalog *catalog.Catalog
}

func NewClipHandler(c *catalog.Catalog) *ClipHandler {
	return &ClipHandler{catalog: c}
}

func (h *ClipHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ClipsResponse{
		Model:  h.catalog.Model(),
		Count:  h.catalog.Len(),
		Labels: h.catalog.Labels(),
	})
}
