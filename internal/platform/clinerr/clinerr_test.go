package clinerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorConstructors(t *testing.T) {
	cases := []struct {
		err  *Error
		kind Kind
	}{
		{NotFound("patient not found"), KindNotFound},
		{Validation("pain scale must be between %d and %d", 0, 10), KindValidation},
		{PolicyViolation("cannot schedule in the past"), KindPolicyViolation},
		{Conflict("student already has an appointment at this time"), KindConflict},
	}

	for _, c := range cases {
		if c.err.Kind != c.kind {
			t.Errorf("expected kind %v, got %v", c.kind, c.err.Kind)
		}
		if c.err.Error() == "" {
			t.Error("expected non-empty reason")
		}
	}

	v := Validation("pain scale must be between %d and %d", 0, 10)
	if v.Error() != "pain scale must be between 0 and 10" {
		t.Errorf("unexpected formatted reason: %s", v.Error())
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("schedule appointment: %w", Conflict("time slot taken"))
	if KindOf(err) != KindConflict {
		t.Errorf("expected KindConflict through wrapping, got %v", KindOf(err))
	}
	if !IsKind(err, KindConflict) {
		t.Error("expected IsKind to match wrapped error")
	}
}

func TestKindOf_Unclassified(t *testing.T) {
	if KindOf(errors.New("boom")) != 0 {
		t.Error("expected kind 0 for unclassified error")
	}
	if KindOf(nil) != 0 {
		t.Error("expected kind 0 for nil error")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{NotFound("x"), http.StatusNotFound},
		{Validation("x"), http.StatusBadRequest},
		{PolicyViolation("x"), http.StatusUnprocessableEntity},
		{Conflict("x"), http.StatusConflict},
		{errors.New("x"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatus(c.err); got != c.status {
			t.Errorf("HTTPStatus(%v) = %d, want %d", c.err, got, c.status)
		}
	}
}
