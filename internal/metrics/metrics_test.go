package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveMutation(t *testing.T) {
	m := New()
	m.ObserveMutation("expense", "create", nil, time.Millisecond)
	m.ObserveMutation("expense", "create", nil, time.Millisecond)
	m.ObserveMutation("expense", "create", errors.New("disk full"), time.Millisecond)

	if got := testutil.ToFloat64(m.mutations.WithLabelValues("expense", "create", "ok")); got != 2 {
		t.Errorf("ok mutations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.mutations.WithLabelValues("expense", "create", "error")); got != 1 {
		t.Errorf("failed mutations = %v, want 1", got)
	}
}

func TestObserveMirrorKeepsRowsOnFailure(t *testing.T) {
	m := New()
	m.ObserveMirror("event", 12, nil, time.Millisecond)
	m.ObserveMirror("tick", 99, errors.New("quota"), time.Millisecond)

	if got := testutil.ToFloat64(m.mirroredRows); got != 12 {
		t.Errorf("rows = %v, want 12", got)
	}
	if got := testutil.ToFloat64(m.mirrors.WithLabelValues("tick", "error")); got != 1 {
		t.Errorf("failed tick runs = %v, want 1", got)
	}
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.ObserveMutation("goal", "delete", nil, 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `ghostledger_mutations_total{entity="goal",op="delete",status="ok"} 1`) {
		t.Errorf("metrics body missing mutation counter:\n%s", body)
	}
}
