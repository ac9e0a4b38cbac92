package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/tycoon/internal/domain/game"
	"github.com/okian/tycoon/internal/domain/model"
	"github.com/okian/tycoon/internal/domain/workcalc"
)

type actionResponse struct {
	State     game.State   `json:"state"`
	Outcome   game.Outcome `json:"outcome"`
	Duplicate bool         `json:"duplicate,omitempty"`
}

type acceptRequest struct {
	TemplateID string `json:"template_id"`
}

type staffRequest struct {
	StaffID string `json:"staff_id"`
	Skill   string `json:"skill,omitempty"`
}

type hireRequest struct {
	Member model.StaffMember `json:"member"`
}

type perkRequest struct {
	Attribute model.Attribute `json:"attribute"`
}

type workRequest struct {
	RequestID string `json:"request_id"`
}

type purchaseRequest struct {
	EquipmentID string `json:"equipment_id"`
}

type focusResponse struct {
	Focus      model.FocusAllocation `json:"focus"`
	Suggested  model.FocusAllocation `json:"suggested"`
	FocusAreas []string              `json:"focus_areas,omitempty"`
}

type minigameRequest struct {
	TriggerID string  `json:"trigger_id"`
	Score     float64 `json:"score"`
}

// ActionsHandler serves the state and every player action.
type ActionsHandler struct {
	deps Dependencies
}

// NewActionsHandler creates a new actions handler.
func NewActionsHandler(deps Dependencies) *ActionsHandler {
	return &ActionsHandler{deps: deps}
}

// HandleGetState handles GET /state requests.
func (h *ActionsHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.State(r.Context()))
}

// HandleAcceptProject handles POST /projects requests.
func (h *ActionsHandler) HandleAcceptProject(w http.ResponseWriter, r *http.Request) {
	const op = "api.accept_project"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req acceptRequest
	if err := decodeBody(op, r, &req); err != nil {
		writeError(w, err)
		return
	}
	st, out, err := h.deps.AcceptTemplate(r.Context(), req.TemplateID)
	h.respond(w, op, st, out, err)
}

// HandleSetFocus handles GET and POST /focus requests. GET reports the
// current allocation and the one suggested for the current stage. POST
// stores the allocation as sent; out-of-range values are clamped when work
// is computed.
func (h *ActionsHandler) HandleSetFocus(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_focus"
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, newFocusResponse(h.deps.State(r.Context())))
	case http.MethodPost:
		var focus model.FocusAllocation
		if err := decodeBody(op, r, &focus); err != nil {
			writeError(w, err)
			return
		}
		h.apply(w, r, op, game.SetFocus{Focus: focus})
	default:
		http.NotFound(w, r)
	}
}

func newFocusResponse(st game.State) focusResponse {
	var areas []string
	if p := st.ActiveProject; p != nil {
		if stage := p.CurrentStage(); stage != nil {
			areas = stage.FocusAreas
		}
	}
	return focusResponse{
		Focus:      st.Focus,
		Suggested:  workcalc.SuggestedFocus(areas),
		FocusAreas: areas,
	}
}

// HandleEquipment handles GET /equipment requests.
func (h *ActionsHandler) HandleEquipment(w http.ResponseWriter, r *http.Request) {
	const op = "api.equipment"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	gear, err := h.deps.Equipment(r.Context())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, gear)
}

// HandlePurchaseEquipment handles POST /equipment/purchase requests.
func (h *ActionsHandler) HandlePurchaseEquipment(w http.ResponseWriter, r *http.Request) {
	const op = "api.purchase_equipment"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req purchaseRequest
	if err := decodeBody(op, r, &req); err != nil {
		writeError(w, err)
		return
	}
	st, out, err := h.deps.PurchaseEquipment(r.Context(), req.EquipmentID)
	h.respond(w, op, st, out, err)
}

// HandleHireStaff handles POST /staff/hire requests.
func (h *ActionsHandler) HandleHireStaff(w http.ResponseWriter, r *http.Request) {
	const op = "api.hire_staff"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req hireRequest
	if err := decodeBody(op, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Member.Name) == "" || req.Member.Salary < 0 {
		writeError(w, NewKind(op, ErrBadRequest))
		return
	}
	h.apply(w, r, op, game.HireStaff{Member: req.Member})
}

// HandleAssignStaff handles POST /staff/assign requests.
func (h *ActionsHandler) HandleAssignStaff(w http.ResponseWriter, r *http.Request) {
	h.staffAction(w, r, "api.assign_staff", func(req staffRequest) game.Action {
		return game.AssignStaff{StaffID: req.StaffID}
	})
}

// HandleUnassignStaff handles POST /staff/unassign requests.
func (h *ActionsHandler) HandleUnassignStaff(w http.ResponseWriter, r *http.Request) {
	h.staffAction(w, r, "api.unassign_staff", func(req staffRequest) game.Action {
		return game.UnassignStaff{StaffID: req.StaffID}
	})
}

// HandleRestStaff handles POST /staff/rest requests.
func (h *ActionsHandler) HandleRestStaff(w http.ResponseWriter, r *http.Request) {
	h.staffAction(w, r, "api.rest_staff", func(req staffRequest) game.Action {
		return game.RestStaff{StaffID: req.StaffID}
	})
}

// HandleTrainStaff handles POST /staff/train requests.
func (h *ActionsHandler) HandleTrainStaff(w http.ResponseWriter, r *http.Request) {
	h.staffAction(w, r, "api.train_staff", func(req staffRequest) game.Action {
		return game.TrainStaff{StaffID: req.StaffID, Skill: req.Skill}
	})
}

func (h *ActionsHandler) staffAction(w http.ResponseWriter, r *http.Request, op string, build func(staffRequest) game.Action) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req staffRequest
	if err := decodeBody(op, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.StaffID) == "" {
		writeError(w, NewKind(op, ErrBadRequest))
		return
	}
	h.apply(w, r, op, build(req))
}

// HandleSpendPerk handles POST /perks/spend requests.
func (h *ActionsHandler) HandleSpendPerk(w http.ResponseWriter, r *http.Request) {
	const op = "api.spend_perk"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req perkRequest
	if err := decodeBody(op, r, &req); err != nil {
		writeError(w, err)
		return
	}
	h.apply(w, r, op, game.SpendPerkPoint{Attribute: req.Attribute})
}

// HandleWork handles POST /work requests. A repeated request_id answers 200
// with duplicate set and changes nothing.
func (h *ActionsHandler) HandleWork(w http.ResponseWriter, r *http.Request) {
	const op = "api.work"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req workRequest
	if err := decodeBody(op, r, &req); err != nil {
		writeError(w, err)
		return
	}
	st, out, dup, err := h.deps.Work(r.Context(), strings.TrimSpace(req.RequestID))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{State: st, Outcome: out, Duplicate: dup})
}

// HandleCompleteMinigame handles POST /minigames/complete requests.
func (h *ActionsHandler) HandleCompleteMinigame(w http.ResponseWriter, r *http.Request) {
	const op = "api.complete_minigame"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req minigameRequest
	if err := decodeBody(op, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.TriggerID) == "" || req.Score < 0 || req.Score > 100 {
		writeError(w, NewKind(op, ErrBadRequest))
		return
	}
	h.apply(w, r, op, game.CompleteMinigame{TriggerID: req.TriggerID, Score: req.Score})
}

// HandleAdvanceDay handles POST /day/advance requests.
func (h *ActionsHandler) HandleAdvanceDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	h.apply(w, r, "api.advance_day", game.AdvanceDay{})
}

// HandleTemplates handles GET /templates?q=&available= requests.
func (h *ActionsHandler) HandleTemplates(w http.ResponseWriter, r *http.Request) {
	const op = "api.templates"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	available := false
	if v := q.Get("available"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		available = b
	}

	var (
		list any
		err  error
	)
	if available {
		list, err = h.deps.AvailableTemplates(r.Context())
	} else {
		list, err = h.deps.Templates(r.Context(), q.Get("q"))
	}
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ActionsHandler) apply(w http.ResponseWriter, r *http.Request, op string, a game.Action) {
	st, out, err := h.deps.Apply(r.Context(), a)
	h.respond(w, op, st, out, err)
}

func (h *ActionsHandler) respond(w http.ResponseWriter, op string, st game.State, out game.Outcome, err error) {
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{State: st, Outcome: out})
}
