package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ghostledger/internal/log"
	"ghostledger/internal/metrics"
)

func TestRouter(t *testing.T) {
	cfg := log.DefaultConfig()
	cfg.Output = &bytes.Buffer{}
	m := metrics.New()
	m.ObserveMutation("expense", "create", nil, time.Millisecond)
	h := newRouter(log.New(cfg), m)

	tests := []struct {
		path     string
		status   int
		contains string
	}{
		{"/healthz", http.StatusOK, "ok"},
		{"/metrics", http.StatusOK, "ghostledger_mutations_total"},
		{"/nope", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body does not contain %q", tt.contains)
			}
		})
	}
}
