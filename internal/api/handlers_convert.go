package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/dgallion1/pdfmark/internal/parser"
	"github.com/dgallion1/pdfmark/internal/pipeline"
	"github.com/dgallion1/pdfmark/internal/storage"
)

// Multipart parts beyond this size are spooled to disk by net/http.
const formMemory = 32 << 20

// resultView is a conversion result as returned to clients.
type resultView struct {
	pipeline.Result
	DownloadURL string `json:"download_url,omitempty"`
}

type failedFile struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

func newResultView(res pipeline.Result) resultView {
	v := resultView{Result: res}
	if res.OK() {
		v.DownloadURL = downloadURL(res.ID, res.OutputFilename)
	}
	return v
}

func downloadURL(id, filename string) string {
	return "/download/" + id + "/" + url.PathEscape(filename)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	// Extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(formMemory); err != nil {
		formError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "no file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	res := s.convertPart(r, header.Filename, file)
	if !res.OK() {
		jsonError(w, res.Error, statusFor(res.Reason))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message":         "File converted successfully",
		"id":              res.ID,
		"filename":        res.Filename,
		"output_filename": res.OutputFilename,
		"download_url":    downloadURL(res.ID, res.OutputFilename),
		"pages":           res.Pages,
		"headings":        res.Headings,
	})
}

// convertPart saves one uploaded part and converts it synchronously.
func (s *Server) convertPart(r *http.Request, name string, file multipart.File) pipeline.Result {
	upload, res, ok := s.saveUpload(name, file)
	if !ok {
		return res
	}
	return s.orchestrator.Convert(r.Context(), upload)
}

// saveUpload stores one part under a fresh ID. Rejected parts come back
// as a recorded failure with ok set to false.
func (s *Server) saveUpload(name string, file multipart.File) (pipeline.Upload, pipeline.Result, bool) {
	id := storage.NewID()
	filename := sanitizeFilename(name)
	if !parser.IsSupportedExtension(filename) {
		err := fmt.Errorf("%w: %s", parser.ErrUnsupported, filepath.Ext(filename))
		return s.reject(id, filename, pipeline.ReasonUnsupported, err)
	}

	if _, err := s.orchestrator.Store().SaveUpload(id, filename, file, s.cfg.MaxUploadBytes); err != nil {
		reason := pipeline.ReasonStorage
		if errors.Is(err, storage.ErrTooLarge) {
			reason = pipeline.ReasonTooLarge
		} else {
			s.log.Error("save upload failed", "conversion_id", id, "filename", filename, "error", err)
		}
		return s.reject(id, filename, reason, err)
	}
	return pipeline.Upload{ID: id, Filename: filename}, pipeline.Result{}, true
}

func (s *Server) reject(id, filename string, reason pipeline.Reason, err error) (pipeline.Upload, pipeline.Result, bool) {
	res := pipeline.Failed(id, filename, reason, err)
	s.orchestrator.Record(res)
	return pipeline.Upload{}, res, false
}

func (s *Server) handleConvertBatch(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.MaxUploadBytes*int64(s.cfg.MaxBatchFiles) + 10*1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(formMemory); err != nil {
		formError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "no files uploaded", http.StatusBadRequest)
		return
	}
	if len(files) > s.cfg.MaxBatchFiles {
		jsonError(w, fmt.Sprintf("too many files: %d (max %d)", len(files), s.cfg.MaxBatchFiles), http.StatusBadRequest)
		return
	}

	results := make([]pipeline.Result, len(files))
	var uploads []pipeline.Upload
	var slots []int
	for i, fh := range files {
		f, err := fh.Open()
		if err != nil {
			_, results[i], _ = s.reject(storage.NewID(), sanitizeFilename(fh.Filename), pipeline.ReasonStorage, err)
			continue
		}
		upload, res, ok := s.saveUpload(fh.Filename, f)
		f.Close()
		if !ok {
			results[i] = res
			continue
		}
		uploads = append(uploads, upload)
		slots = append(slots, i)
	}

	if len(uploads) > 0 {
		converted := s.orchestrator.ConvertBatch(r.Context(), uploads)
		for j, res := range converted.Results {
			results[slots[j]] = res
		}
	}

	batch := pipeline.NewBatchResult(results)
	views := make([]resultView, len(batch.Results))
	for i, res := range batch.Results {
		views[i] = newResultView(res)
	}
	failed := make([]failedFile, 0, batch.Failed)
	for _, res := range batch.Failures() {
		failed = append(failed, failedFile{Filename: res.Filename, Error: res.Error})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message":      fmt.Sprintf("Converted %d of %d files", batch.Successful, batch.Total),
		"total_files":  batch.Total,
		"successful":   batch.Successful,
		"failed":       batch.Failed,
		"results":      views,
		"failed_files": failed,
	})
}

// statusFor maps a failure reason to an HTTP status.
func statusFor(reason pipeline.Reason) int {
	switch reason {
	case pipeline.ReasonUnsupported:
		return http.StatusBadRequest
	case pipeline.ReasonTooLarge:
		return http.StatusRequestEntityTooLarge
	case pipeline.ReasonNoText:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func formError(w http.ResponseWriter, err error) {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		jsonError(w, "request exceeds the upload size limit", http.StatusRequestEntityTooLarge)
		return
	}
	jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed.pdf"
	}
	return name
}
