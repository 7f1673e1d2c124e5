package router

import (
	"net/http"

	"github.com/BerylCAtieno/document-processing-service/internal/config"
	"github.com/BerylCAtieno/document-processing-service/internal/handlers"
	"github.com/BerylCAtieno/document-processing-service/internal/middleware"
	"github.com/BerylCAtieno/document-processing-service/internal/services"
	"github.com/BerylCAtieno/document-processing-service/internal/utils"

	"github.com/gorilla/mux"
)

func NewRouter(docService services.DocumentService, cfg *config.Config, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(logger))

	docHandler := handlers.NewDocumentHandler(docService, logger, cfg.MaxRequestBytes)

	r.HandleFunc("/health", docHandler.Health).Methods(http.MethodGet)
	r.HandleFunc("/", docHandler.Root).Methods(http.MethodGet)

	// Extraction endpoints
	r.HandleFunc("/extract", docHandler.ExtractText).Methods(http.MethodPost)
	r.HandleFunc("/extract-tables", docHandler.ExtractTables).Methods(http.MethodPost)

	// Audit log
	r.HandleFunc("/extractions", docHandler.ListExtractions).Methods(http.MethodGet)
	r.HandleFunc("/extractions/{id}", docHandler.GetExtraction).Methods(http.MethodGet)

	// mux runs r.Use middleware only for matched routes. These wrap the
	// whole router so preflights, 404s and 405s get CORS headers, a request
	// id and an access log line too.
	var handler http.Handler = r
	handler = middleware.CORS(cfg.CORSAllowedOrigins)(handler)
	handler = middleware.Logger(logger)(handler)
	handler = middleware.RequestID()(handler)

	return handler
}
