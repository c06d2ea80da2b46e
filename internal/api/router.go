package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/eslbridge/sign-translator/internal/api/handlers"
	"github.com/eslbridge/sign-translator/internal/api/middleware"
	"github.com/eslbridge/sign-translator/internal/catalog"
	"github.com/eslbridge/sign-translator/internal/logger"
)

type Deps struct {
	Translator handlers.Translator
	Videos     handlers.VideoStore
	Catalog    *catalog.Catalog
	APIKey     string
	Log        *logger.Logger
}

func NewRouter(d Deps) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestLog(d.Log))

	// Public routes
	r.HandleFunc("/health", healthCheck).Methods(http.MethodGet)

	// Protected routes
	protected := r.PathPrefix("").Subrouter()
	protected.Use(middleware.APIKey(d.APIKey))

	translate := handlers.NewTranslateHandler(d.Translator, d.Log)
	protected.HandleFunc("/translate", translate.Translate).Methods(http.MethodPost)
	protected.HandleFunc("/speech", translate.Speech).Methods(http.MethodPost)

	videos := handlers.NewVideoHandler(d.Videos)
	protected.HandleFunc("/videos/{name}", videos.GetVideo).Methods(http.MethodGet)

	clips := handlers.NewClipHandler(d.Catalog)
	protected.HandleFunc("/clips", clips.List).Methods(http.MethodGet)

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
