package api

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/okian/tycoon/internal/adapters/repository"
	"github.com/okian/tycoon/internal/adapters/snapshot"
	service "github.com/okian/tycoon/internal/app"
	"github.com/okian/tycoon/internal/content"
	"github.com/okian/tycoon/internal/domain/game"
	"github.com/okian/tycoon/internal/domain/player"
	"github.com/okian/tycoon/internal/domain/staff"
	"github.com/okian/tycoon/internal/domain/studio"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrBackpressure = errors.New("backpressure")
	ErrUnavailable  = errors.New("unavailable")
)

// Error tags a failure with the operation that produced it and the kind the
// HTTP layer maps to a status code.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	case e.Kind != nil:
		return e.Op + ": " + e.Kind.Error()
	default:
		return e.Op
	}
}

func (e *Error) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Wrap tags err with op and classifies it from the domain sentinels.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: classify(err), Err: err}
}

// NewKind returns an error of kind for op.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// WrapKind tags err with op and an explicit kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

var (
	badRequestErrs = []error{
		ErrBadRequest,
		service.ErrMissingInput,
		repository.ErrInvalidLimit,
		player.ErrUnknownAttribute,
		staff.ErrNoSkill,
		game.ErrInvalidProject,
		game.ErrInvalidEquipment,
		game.ErrUnknownAction,
	}
	notFoundErrs = []error{
		ErrNotFound,
		repository.ErrNotFound,
		content.ErrTemplateNotFound,
		content.ErrEquipmentNotFound,
		game.ErrStaffNotFound,
		fs.ErrNotExist,
	}
	conflictErrs = []error{
		ErrConflict,
		game.ErrNoActiveProject,
		game.ErrProjectInProgress,
		game.ErrDuplicateStaff,
		game.ErrInsufficientFunds,
		game.ErrNoPendingMinigame,
		player.ErrNoPerkPoints,
		staff.ErrNotIdle,
		staff.ErrLowEnergy,
		staff.ErrAlreadyAssigned,
		staff.ErrNotAssigned,
		staff.ErrLevelTooLow,
		studio.ErrInsufficientFunds,
		studio.ErrAlreadyOwned,
		studio.ErrSkillTooLow,
		snapshot.ErrInvalidSnapshot,
		snapshot.ErrUnsupportedVersion,
		snapshot.ErrTooLarge,
	}
)

func classify(err error) error {
	switch {
	case isAny(err, badRequestErrs):
		return ErrBadRequest
	case isAny(err, notFoundErrs):
		return ErrNotFound
	case isAny(err, conflictErrs):
		return ErrConflict
	case errors.Is(err, ErrBackpressure), errors.Is(err, service.ErrBackpressure):
		return ErrBackpressure
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, ErrUnavailable):
		return ErrUnavailable
	}
	return nil
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// statusOf maps an error to its HTTP status and response code.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	}
	return http.StatusInternalServerError, "internal_error"
}
