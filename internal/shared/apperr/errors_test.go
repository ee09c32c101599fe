package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindMatchingThroughWrap(t *testing.T) {
	base := Wrap(KindRetryableIngestion, "use manual text", errors.New("actor quota"))
	wrapped := fmt.Errorf("import profile: %w", base)

	if !errors.Is(wrapped, ErrRetryableIngestion) {
		t.Fatalf("expected errors.Is to match kind sentinel")
	}
	if errors.Is(wrapped, ErrValidation) {
		t.Fatalf("unexpected match against another kind")
	}
	if KindOf(wrapped) != KindRetryableIngestion {
		t.Fatalf("KindOf = %s", KindOf(wrapped))
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindUnauthorized, http.StatusUnauthorized},
		{KindValidation, http.StatusBadRequest},
		{KindUnreadableDocument, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindRetryableIngestion, http.StatusPaymentRequired},
		{KindStructuring, http.StatusInternalServerError},
		{KindTailoring, http.StatusInternalServerError},
		{KindConfiguration, http.StatusInternalServerError},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := Status(tt.kind); got != tt.want {
			t.Fatalf("Status(%s) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestPublicMessageHidesConfiguration(t *testing.T) {
	err := Configuration("STRIPE_SECRET_KEY missing")
	if got := PublicMessage(err); got != "service not configured" {
		t.Fatalf("PublicMessage = %q", got)
	}
	if got := PublicMessage(errors.New("boom")); got != "internal error" {
		t.Fatalf("PublicMessage(plain) = %q", got)
	}
	if got := PublicMessage(Validation("profileId is required")); got != "profileId is required" {
		t.Fatalf("PublicMessage(validation) = %q", got)
	}
}
