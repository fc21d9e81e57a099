package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/bailgen/internal/loader"
	"github.com/dgallion1/bailgen/internal/pipeline"
	"github.com/dgallion1/bailgen/internal/render"
	"github.com/dgallion1/bailgen/internal/template"
)

// readTemplateUpload parses a multipart form and returns its "file" part, a
// .docx template. On failure the error response is already written.
func (s *Server) readTemplateUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if ext := strings.ToLower(filepath.Ext(filename)); ext != ".docx" {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", ext), http.StatusBadRequest)
		return "", nil, false
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return "", nil, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return "", nil, false
	}
	return filename, data, true
}

func (s *Server) handleTemplatePlaceholders(w http.ResponseWriter, r *http.Request) {
	defer removeForm(r)
	filename, data, ok := s.readTemplateUpload(w, r)
	if !ok {
		return
	}

	inv, err := template.Extract(bytes.NewReader(data))
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	resp := map[string]any{
		"filename":     filename,
		"count":        inv.Len(),
		"placeholders": inv,
	}
	if raw := r.FormValue("facts"); raw != "" {
		dec := json.NewDecoder(strings.NewReader(raw))
		dec.UseNumber()
		var facts map[string]any
		if err := dec.Decode(&facts); err != nil {
			jsonError(w, "invalid facts json: "+err.Error(), http.StatusBadRequest)
			return
		}
		resp["missing_variables"] = inv.Missing(s.gen.Extend(loader.DecodeFacts(facts)))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleFillTemplate generates from the "request" form field, a generate
// request in JSON, and fills the uploaded template with the result.
func (s *Server) handleFillTemplate(w http.ResponseWriter, r *http.Request) {
	defer removeForm(r)
	_, data, ok := s.readTemplateUpload(w, r)
	if !ok {
		return
	}

	var body generateRequest
	dec := json.NewDecoder(strings.NewReader(r.FormValue("request")))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		jsonError(w, "invalid request json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if body.Facts == nil {
		jsonError(w, "facts is required", http.StatusBadRequest)
		return
	}
	req, err := body.toPipeline()
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	id, res := s.generate(req)
	s.writeFilled(w, id, res, data)
}

// handleGenerationTemplate fills the uploaded template with a stored
// generation.
func (s *Server) handleGenerationTemplate(w http.ResponseWriter, r *http.Request) {
	g := s.store.Get(chi.URLParam(r, "generationID"))
	if g == nil {
		jsonError(w, "generation not found", http.StatusNotFound)
		return
	}
	defer removeForm(r)
	_, data, ok := s.readTemplateUpload(w, r)
	if !ok {
		return
	}
	s.writeFilled(w, g.ID, g.Result, data)
}

func (s *Server) writeFilled(w http.ResponseWriter, id string, res pipeline.Result, tmpl []byte) {
	var buf bytes.Buffer
	rep, err := render.Fill(&buf, bytes.NewReader(tmpl), int64(len(tmpl)), pipeline.TemplateData(res))
	if err != nil {
		s.log.Warn("template fill failed", "generation_id", id, "error", err)
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.stats.TemplateFills.Add(1)
	s.log.Info("template filled", "generation_id", id,
		"removed_paragraphs", rep.Removed, "missing_placeholders", len(rep.Missing))

	filename := pipeline.OutputFilename(res.Context)
	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("X-Generation-ID", id)
	w.Header().Set("X-Removed-Paragraphs", strconv.Itoa(rep.Removed))
	w.Header().Set("X-Missing-Placeholders", strconv.Itoa(len(rep.Missing)))
	io.Copy(w, &buf)
}

func removeForm(r *http.Request) {
	if r.MultipartForm != nil {
		r.MultipartForm.RemoveAll()
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
