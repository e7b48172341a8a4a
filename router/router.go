package router

import (
	"database/sql"
	"net/http"

	docHandler "quickshare/internal/document"
	"quickshare/internal/document/repository"
	"quickshare/internal/document/service"
	"quickshare/middleware"
	"quickshare/socket"
)

// Setup wires the repository, service, and handlers into the gateway mux.
// The returned hub must be started with go hub.Run() before serving.
func Setup(db *sql.DB) (http.Handler, *socket.Hub) {
	mux := http.NewServeMux()

	docRepo := repository.NewDocumentRepository(db)
	hub := socket.NewHub(docRepo)
	docService := service.NewDocumentService(docRepo, hub)
	docHandler := docHandler.NewDocumentHandler(docService)

	mux.HandleFunc("POST /create", docHandler.Create)
	mux.HandleFunc("GET /doc/{shortID}", docHandler.View)
	mux.HandleFunc("POST /get", docHandler.FetchForEdit)
	mux.HandleFunc("POST /update", docHandler.Update)

	// Live view: pushes new content to open view pages after a save.
	mux.HandleFunc("GET /ws/doc/{shortID}", func(w http.ResponseWriter, r *http.Request) {
		socket.ServeWs(hub, w, r, r.PathValue("shortID"))
	})

	return middleware.CORSMiddleware(mux), hub
}
