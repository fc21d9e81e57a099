package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dgallion1/bailgen/internal/diag"
	"github.com/dgallion1/bailgen/internal/doctree"
	"github.com/dgallion1/bailgen/internal/loader"
	"github.com/dgallion1/bailgen/internal/pipeline"
	"github.com/dgallion1/bailgen/internal/render"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type generateRequest struct {
	Facts    map[string]any `json:"facts"`
	Sections []string       `json:"sections,omitempty"`
}

type generateResponse struct {
	GenerationID        string            `json:"generation_id"`
	Filename            string            `json:"filename"`
	Sections            []doctree.Section `json:"sections"`
	Diagnostics         []diag.Diagnostic `json:"diagnostics"`
	MissingPlaceholders []string          `json:"missing_placeholders"`
	Variables           map[string]string `json:"variables,omitempty"`
}

func (req generateRequest) toPipeline() (pipeline.Request, error) {
	keys, err := pipeline.ParseSectionKeys(req.Sections)
	if err != nil {
		return pipeline.Request{}, err
	}
	return pipeline.Request{Facts: loader.DecodeFacts(req.Facts), Sections: keys}, nil
}

// decodeJSON reads a JSON body with numbers kept exact.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid json body: %w", err)
	}
	return nil
}

// generate runs and stores one generation.
func (s *Server) generate(req pipeline.Request) (string, pipeline.Result) {
	res := s.gen.Generate(req.Facts, req.Sections)
	id := uuid.NewString()
	s.store.Put(id, res)
	s.stats.Generations.Add(1)
	s.stats.Diagnostics.Add(int64(len(res.Diagnostics)))
	s.stats.Missing.Add(int64(len(res.Missing)))
	return id, res
}

func newGenerateResponse(id string, res pipeline.Result, withVars bool) generateResponse {
	out := generateResponse{
		GenerationID:        id,
		Filename:            pipeline.OutputFilename(res.Context),
		Sections:            res.Sections,
		Diagnostics:         res.Diagnostics,
		MissingPlaceholders: res.Missing,
	}
	if out.MissingPlaceholders == nil {
		out.MissingPlaceholders = []string{}
	}
	if withVars {
		out.Variables = res.Context.Strings()
	}
	return out
}

func (s *Server) parseGenerate(w http.ResponseWriter, r *http.Request) (pipeline.Request, bool) {
	var body generateRequest
	if err := s.decodeJSON(w, r, &body); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return pipeline.Request{}, false
	}
	if body.Facts == nil {
		jsonError(w, "facts is required", http.StatusBadRequest)
		return pipeline.Request{}, false
	}
	req, err := body.toPipeline()
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return pipeline.Request{}, false
	}
	return req, true
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.parseGenerate(w, r)
	if !ok {
		return
	}
	id, res := s.generate(req)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(newGenerateResponse(id, res, r.URL.Query().Get("variables") == "true"))
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, ok := s.parseGenerate(w, r)
	if !ok {
		return
	}
	id, res := s.generate(req)
	s.writePreview(w, id, res)
}

func (s *Server) handleGenerateDOCX(w http.ResponseWriter, r *http.Request) {
	req, ok := s.parseGenerate(w, r)
	if !ok {
		return
	}
	id, res := s.generate(req)
	s.writeDOCX(w, id, res)
}

func (s *Server) handleGetGeneration(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "generationID")
	g := s.store.Get(id)
	if g == nil {
		jsonError(w, "generation not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(newGenerateResponse(g.ID, g.Result, false))
}

func (s *Server) handleGenerationDOCX(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "generationID")
	g := s.store.Get(id)
	if g == nil {
		jsonError(w, "generation not found", http.StatusNotFound)
		return
	}
	s.writeDOCX(w, g.ID, g.Result)
}

func (s *Server) writeDOCX(w http.ResponseWriter, id string, res pipeline.Result) {
	var buf bytes.Buffer
	if err := render.DOCX(&buf, pipeline.Document(res, s.letterheads)); err != nil {
		s.log.Error("render docx failed", "generation_id", id, "error", err)
		jsonError(w, "failed to render document", http.StatusInternalServerError)
		return
	}
	filename := pipeline.OutputFilename(res.Context)
	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("X-Generation-ID", id)
	io.Copy(w, &buf)
}

func (s *Server) writePreview(w http.ResponseWriter, id string, res pipeline.Result) {
	body, err := render.HTML(pipeline.Document(res, s.letterheads))
	if err != nil {
		s.log.Error("render preview failed", "generation_id", id, "error", err)
		jsonError(w, "failed to render preview", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Generation-ID", id)
	w.Write(render.Page(pipeline.OutputFilename(res.Context), body))
}

type batchRequest struct {
	Requests []generateRequest `json:"requests"`
}

func (s *Server) handleBatchGenerate(w http.ResponseWriter, r *http.Request) {
	var body batchRequest
	if err := s.decodeJSON(w, r, &body); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(body.Requests) == 0 {
		jsonError(w, "at least one request is required", http.StatusBadRequest)
		return
	}

	reqs := make([]pipeline.Request, len(body.Requests))
	for i, br := range body.Requests {
		req, err := br.toPipeline()
		if err != nil {
			jsonError(w, fmt.Sprintf("request %d: %s", i, err), http.StatusBadRequest)
			return
		}
		reqs[i] = req
	}

	results, err := s.gen.GenerateBatch(r.Context(), reqs, s.cfg.BatchConcurrency)
	if err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.stats.Batches.Add(1)

	out := make([]generateResponse, len(results))
	for i, res := range results {
		id := uuid.NewString()
		s.store.Put(id, res)
		s.stats.Generations.Add(1)
		s.stats.Diagnostics.Add(int64(len(res.Diagnostics)))
		s.stats.Missing.Add(int64(len(res.Missing)))
		out[i] = newGenerateResponse(id, res, false)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"results": out})
}
