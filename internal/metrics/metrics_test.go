package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestJobMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewJobMetrics(reg)
	m.ObserveDuration("extract-exif", 250*time.Millisecond)
	m.IncSuccess("extract-exif")
	m.IncFailure("tag-image")
	m.IncFailure("tag-image")
	m.IncDeadLettered("")

	if got := testutil.ToFloat64(m.success.WithLabelValues("extract-exif")); got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}
	if got := testutil.ToFloat64(m.failure.WithLabelValues("tag-image")); got != 2 {
		t.Fatalf("expected failure=2, got %f", got)
	}
	if got := testutil.ToFloat64(m.deadLettered.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("expected empty task label normalised to unknown, got %f", got)
	}
	if n := testutil.CollectAndCount(m.duration, "asset_job_duration_seconds"); n != 1 {
		t.Fatalf("expected one duration series, got %d", n)
	}
}

func TestNilRecordersAreSafe(t *testing.T) {
	var jm *JobMetrics
	jm.IncSuccess("x")
	jm.ObserveDuration("x", time.Second)

	NewJobMetrics(nil).IncFailure("x")

	var gm *GatewayMetrics
	gm.SessionOpened()
	gm.Delivered("e", 2)
	NewGatewayMetrics(nil).Rejected()
}

func TestGatewayMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewGatewayMetrics(reg)
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()
	m.Delivered("on_upload_success", 3)
	m.Dropped("on_tags_assigned")
	m.Rejected()

	if got := testutil.ToFloat64(m.sessions); got != 1 {
		t.Errorf("sessions = %f, want 1", got)
	}
	if got := testutil.ToFloat64(m.delivered.WithLabelValues("on_upload_success")); got != 3 {
		t.Errorf("delivered = %f, want 3", got)
	}
	if got := testutil.ToFloat64(m.dropped.WithLabelValues("on_tags_assigned")); got != 1 {
		t.Errorf("dropped = %f, want 1", got)
	}
	if got := testutil.ToFloat64(m.rejected); got != 1 {
		t.Errorf("rejected = %f, want 1", got)
	}
}

func TestHandlerServesRegistry(t *testing.T) {
	reg := NewRegistry()
	NewJobMetrics(reg).IncSuccess("process-asset")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `asset_job_success_total{task="process-asset"} 1`) {
		t.Errorf("metric missing from exposition:\n%s", rec.Body.String())
	}
}
