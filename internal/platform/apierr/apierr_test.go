package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFromUnwrapsWrappedError(t *testing.T) {
	base := Conflict("transition_in_progress", errors.New("busy"))
	got := From(fmt.Errorf("select: %w", base))
	if got.Status != http.StatusConflict || got.Code != "transition_in_progress" {
		t.Fatalf("From: got status=%d code=%q", got.Status, got.Code)
	}
}

func TestFromUnknownIsInternal(t *testing.T) {
	got := From(errors.New("boom"))
	if got.Status != http.StatusInternalServerError || got.Code != "internal_error" {
		t.Fatalf("From: got status=%d code=%q", got.Status, got.Code)
	}
	if From(nil) != nil {
		t.Fatalf("From(nil) should be nil")
	}
}
