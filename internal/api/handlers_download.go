package api

import (
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/pdfmark/internal/storage"
)

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	filename := chi.URLParam(r, "filename")
	if !storage.ValidID(id) {
		jsonError(w, "file not found", http.StatusNotFound)
		return
	}

	f, err := s.orchestrator.Store().OpenOutput(id, filename)
	if err != nil {
		jsonError(w, "file not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		jsonError(w, "file not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	http.ServeContent(w, r, filename, info.ModTime(), f)
}
