package observability_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rohatours/internal/adapters/observability"
	"rohatours/internal/domain"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so the vectors are non-empty
	observability.ObserveHTTP("/bookings", "GET", 200, 12*time.Millisecond)
	observability.ObserveStorage("insert", nil, 3*time.Millisecond)
	observability.ObserveBookingCreated()

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, name := range []string{
		"rohatours_http_requests_total",
		"rohatours_storage_operations_total",
		"rohatours_bookings_created_total",
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}

func TestLabelErr(t *testing.T) {
	cases := map[string]error{
		"ok":            nil,
		"configuration": fmt.Errorf("%w: MONGODB_URI is not set", domain.ErrConfiguration),
		"connection":    fmt.Errorf("%w: ping: timeout", domain.ErrConnection),
		"validation":    domain.ErrValidation,
		"storage":       fmt.Errorf("boom"),
	}
	for want, err := range cases {
		if got := observability.LabelErr(err); got != want {
			t.Fatalf("LabelErr(%v) = %q, want %q", err, got, want)
		}
	}
}
