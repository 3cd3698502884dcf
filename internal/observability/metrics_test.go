package observability

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/api/me", "200", time.Millisecond)
	m.APIInflightInc()
	m.APIInflightDec()
	m.ObserveSweep("due", 1, 2, time.Second, nil)
	if err := m.RegisterDB(nil, "x"); err != nil {
		t.Fatalf("RegisterDB on nil: %v", err)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("nil handler status: %d", rec.Code)
	}
}

func TestMetricsExposition(t *testing.T) {
	m := New()
	m.ObserveAPI("GET", "/api/courses", "200", 20*time.Millisecond)
	m.ObserveSweep("due", 3, 1, time.Second, nil)
	m.ObserveSweep("weekly", 0, 0, time.Second, errors.New("boom"))

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	text := string(body)

	for _, want := range []string{
		`studyplanner_api_requests_total{method="GET",route="/api/courses",status="200"} 1`,
		`studyplanner_sweep_runs_total{kind="due",status="ok"} 1`,
		`studyplanner_sweep_runs_total{kind="weekly",status="failed"} 1`,
		`studyplanner_sweep_notifications_total{kind="due",outcome="created"} 3`,
		`studyplanner_sweep_notifications_total{kind="due",outcome="skipped"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in exposition:\n%s", want, text)
		}
	}
}

func TestInitDisabled(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "false")
	if Init(nil) != nil {
		t.Fatalf("Init should return nil when disabled")
	}
}
