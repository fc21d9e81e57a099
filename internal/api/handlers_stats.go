package api

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// Stats counts generation activity since start.
type Stats struct {
	Generations atomic.Int64
	Batches     atomic.Int64
	Diagnostics atomic.Int64
	Missing     atomic.Int64
	// TemplateFills counts Word templates filled.
	TemplateFills atomic.Int64
}

// StatsSnapshot is a JSON-safe copy of Stats.
type StatsSnapshot struct {
	Generations       int64 `json:"generations"`
	Batches           int64 `json:"batches"`
	Diagnostics       int64 `json:"diagnostics"`
	MissingFields     int64 `json:"missing_placeholders"`
	TemplateFills     int64 `json:"template_fills"`
	StoredGenerations int   `json:"stored_generations"`
}

func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Generations:   s.Generations.Load(),
		Batches:       s.Batches.Load(),
		Diagnostics:   s.Diagnostics.Load(),
		MissingFields: s.Missing.Load(),
		TemplateFills: s.TemplateFills.Load(),
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap := s.stats.Snapshot()
	snap.StoredGenerations = s.store.Len()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"stats": snap})
}
