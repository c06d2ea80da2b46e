package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// VideoStore resolves names of assembled videos to files on disk.
type VideoStore interface {
	OutputPath(name string) (string, bool)
}

type VideoHandler struct {
	store VideoStore
}

func NewVideoHandler(store VideoStore) *VideoHandler {
	return &VideoHandler{store: store}
}

func (h *VideoHandler) GetVideo(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	path, ok := h.store.OutputPath(name)
	if !ok {
		http.Error(w, "Video not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "video/mp4")
	http.ServeFile(w, r, path)
}
