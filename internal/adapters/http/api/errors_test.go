package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"testing"

	service "github.com/okian/tycoon/internal/app"
	"github.com/okian/tycoon/internal/domain/game"
	"github.com/okian/tycoon/internal/domain/player"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"explicit kind", NewKind("op", ErrBadRequest), http.StatusBadRequest, "bad_request"},
		{"wrapped domain rule", Wrap("op", fmt.Errorf("%w: 0", player.ErrNoPerkPoints)), http.StatusConflict, "conflict"},
		{"unknown attribute", Wrap("op", player.ErrUnknownAttribute), http.StatusBadRequest, "bad_request"},
		{"missing staff", Wrap("op", game.ErrStaffNotFound), http.StatusNotFound, "not_found"},
		{"missing save file", Wrap("op", &os.PathError{Op: "open", Path: "x", Err: os.ErrNotExist}), http.StatusNotFound, "not_found"},
		{"not started", Wrap("op", service.ErrNotStarted), http.StatusServiceUnavailable, "unavailable"},
		{"backpressure", NewKind("op", ErrBackpressure), http.StatusTooManyRequests, "backpressure"},
		{"queue full", Wrap("op", service.ErrBackpressure), http.StatusTooManyRequests, "backpressure"},
		{"anything else", Wrap("op", errors.New("boom")), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, code := statusOf(tc.err)
			if got != tc.want || code != tc.code {
				t.Fatalf("statusOf(%v) = %d %s, want %d %s", tc.err, got, code, tc.want, tc.code)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	err := WrapKind("api.op", ErrConflict, cause)
	if !errors.Is(err, ErrConflict) || !errors.Is(err, cause) {
		t.Fatalf("WrapKind lost its chain: %v", err)
	}
	if err.Error() != "api.op: cause" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if Wrap("op", nil) != nil {
		t.Fatal("Wrap(nil) must be nil")
	}
}
