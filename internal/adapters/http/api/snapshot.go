package api

import "net/http"

// SnapshotHandler saves and restores the game.
type SnapshotHandler struct {
	deps Dependencies
}

// NewSnapshotHandler creates a new snapshot handler.
func NewSnapshotHandler(deps Dependencies) *SnapshotHandler {
	return &SnapshotHandler{deps: deps}
}

// HandleSave handles POST /snapshot/save requests.
func (h *SnapshotHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	hdr, err := h.deps.Save(r.Context())
	if err != nil {
		writeError(w, Wrap("api.snapshot_save", err))
		return
	}
	writeJSON(w, http.StatusOK, hdr)
}

// HandleLoad handles POST /snapshot/load requests.
func (h *SnapshotHandler) HandleLoad(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	hdr, err := h.deps.Load(r.Context())
	if err != nil {
		writeError(w, Wrap("api.snapshot_load", err))
		return
	}
	writeJSON(w, http.StatusOK, hdr)
}
