package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/eslbridge/sign-translator/internal/logger"
	"github.com/eslbridge/sign-translator/internal/pipeline"
	"github.com/eslbridge/sign-translator/internal/transcription"
)

const maxAudioBytes = 25 << 20

type Translator interface {
	Translate(ctx context.Context, req pipeline.Request) (pipeline.Result, error)
	TranslateSpeech(ctx context.Context, audio transcription.Audio, locale, language string) (pipeline.Result, error)
}

type TranslateHandler struct {
	translator Translator
	log        *logger.Logger
}

func NewTranslateHandler(translator Translator, log *logger.Logger) *TranslateHandler {
	return &TranslateHandler{translator: translator, log: log.With("handler", "translate")}
}

func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.translator.Translate(r.Context(), pipeline.Request{Text: req.Text, Language: req.Language})
	h.respond(w, res, err)
}

func (h *TranslateHandler) Speech(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAudioBytes)
	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		http.Error(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		http.Error(w, "missing audio file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "read audio: "+err.Error(), http.StatusBadRequest)
		return
	}

	audio := transcription.Audio{
		Data:     data,
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
	}
	res, err := h.translator.TranslateSpeech(r.Context(), audio, r.FormValue("locale"), r.FormValue("language"))
	h.respond(w, res, err)
}

func (h *TranslateHandler) respond(w http.ResponseWriter, res pipeline.Result, err error) {
	switch {
	case errors.Is(err, pipeline.ErrNoSignContent):
		http.Error(w, pipeline.ErrNoSignContent.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		h.log.Error("translation failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := TranslateResponse{
		Text:    res.Text,
		English: res.English,
		Clips:   res.Clips,
		Missing: res.Missing,
	}
	if out.Missing == nil {
		out.Missing = []string{}
	}
	if res.Video != "" {
		out.Video = "/videos/" + res.Video
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
