// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/tycoon/internal/adapters/repository"
	"github.com/okian/tycoon/internal/adapters/snapshot"
	"github.com/okian/tycoon/internal/content"
	"github.com/okian/tycoon/internal/domain/game"
	"github.com/okian/tycoon/internal/domain/model"
)

const (
	defaultReviewLimit = 10
	maxBodyBytes       = 1 << 20
)

// Dependencies required by HTTP handlers. The service satisfies it; tests
// swap in fakes.
type Dependencies interface {
	State(ctx context.Context) game.State
	Apply(ctx context.Context, a game.Action) (game.State, game.Outcome, error)
	AcceptTemplate(ctx context.Context, templateID string) (game.State, game.Outcome, error)
	Work(ctx context.Context, requestID string) (game.State, game.Outcome, bool, error)

	Templates(ctx context.Context, query string) ([]content.Template, error)
	AvailableTemplates(ctx context.Context) ([]content.Template, error)

	Equipment(ctx context.Context) ([]model.Equipment, error)
	PurchaseEquipment(ctx context.Context, equipmentID string) (game.State, game.Outcome, error)

	Reviews(ctx context.Context, limit int) ([]repository.Entry, error)
	Review(ctx context.Context, projectID string) (repository.Entry, error)

	Save(ctx context.Context) (snapshot.Header, error)
	Load(ctx context.Context) (snapshot.Header, error)

	GetStats(ctx context.Context) map[string]any
}

// Server wires HTTP routes for the studio API.
type Server struct {
	ops      *OpsHandler
	actions  *ActionsHandler
	reviews  *ReviewsHandler
	snapshot *SnapshotHandler
	stream   http.Handler
}

// NewServer builds the handlers over deps. stream serves /ws and may be nil.
func NewServer(deps Dependencies, stream http.Handler, maxReviewLimit int) *Server {
	return &Server{
		ops:      NewOpsHandler(deps),
		actions:  NewActionsHandler(deps),
		reviews:  NewReviewsHandler(deps, maxReviewLimit),
		snapshot: NewSnapshotHandler(deps),
		stream:   stream,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	a := s.actions
	routes := []struct {
		path, endpoint string
		h              http.HandlerFunc
	}{
		{"/healthz", "healthz", s.ops.HandleHealth},
		{"/stats", "stats", s.ops.HandleStats},
		{"/state", "state", a.HandleGetState},
		{"/projects", "projects", a.HandleAcceptProject},
		{"/focus", "focus", a.HandleSetFocus},
		{"/staff/hire", "staff_hire", a.HandleHireStaff},
		{"/staff/assign", "staff_assign", a.HandleAssignStaff},
		{"/staff/unassign", "staff_unassign", a.HandleUnassignStaff},
		{"/staff/rest", "staff_rest", a.HandleRestStaff},
		{"/staff/train", "staff_train", a.HandleTrainStaff},
		{"/perks/spend", "perks_spend", a.HandleSpendPerk},
		{"/work", "work", a.HandleWork},
		{"/minigames/complete", "minigames_complete", a.HandleCompleteMinigame},
		{"/day/advance", "day_advance", a.HandleAdvanceDay},
		{"/templates", "templates", a.HandleTemplates},
		{"/equipment", "equipment", a.HandleEquipment},
		{"/equipment/purchase", "equipment_purchase", a.HandlePurchaseEquipment},
		{"/reviews", "reviews", s.reviews.HandleTopReviews},
		{"/reviews/", "review", s.reviews.HandleGetReview},
		{"/snapshot/save", "snapshot_save", s.snapshot.HandleSave},
		{"/snapshot/load", "snapshot_load", s.snapshot.HandleLoad},
	}
	for _, rt := range routes {
		mux.HandleFunc(rt.path, instrument(rt.endpoint, rt.h))
	}
	mux.Handle("/metrics", s.ops.MetricsHandler())
	if s.stream != nil {
		mux.Handle("/ws", s.stream)
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := statusOf(err)
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(op string, r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}
