package handle

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/assistant"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/manualstore"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/session"
)

type Handle struct {
	store    *manualstore.Store
	svc      *assistant.Service
	sessions *session.Manager
}

func New(store *manualstore.Store, svc *assistant.Service, sessions *session.Manager) *Handle {
	return &Handle{
		store:    store,
		svc:      svc,
		sessions: sessions,
	}
}

// Routes builds the full API router.
func (d *Handle) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Route("/v1", func(r chi.Router) {
		r.Get("/manuals", d.ListManuals)
		r.Get("/manuals/{manual}", d.GetManual)
		r.Get("/manuals/{manual}/pages/{page}/image", d.PageImage)
		r.Post("/ask", d.Ask)
		r.Post("/sessions/{id}/transform", d.UpdateTransform)
		r.Post("/sessions/{id}/reset", d.ResetSession)
	})
	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
