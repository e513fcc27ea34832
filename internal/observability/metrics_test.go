package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCountDomainEvents(t *testing.T) {
	m := NewMetrics()

	m.ComplaintCreated("Water Supply")
	m.ComplaintCreated("Water Supply")
	m.AuthorizationDenied("update_complaint")
	m.FieldUpdated("status")
	m.RoleChanged("department_staff")
	m.IntakeThrottled()
	m.RecordRequest("/complaints/:reference", "PATCH", 403, 12*time.Millisecond)
	m.RecordError("/complaints/:reference", "PATCH", "FORBIDDEN")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.complaintsCreated.WithLabelValues("Water Supply")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.denials.WithLabelValues("update_complaint")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fieldUpdates.WithLabelValues("status")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.roleChanges.WithLabelValues("department_staff")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.intakeThrottled))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/complaints/:reference", "PATCH", "403")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/complaints/:reference", "PATCH", "FORBIDDEN")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ComplaintCreated("Other")
		m.AuthorizationDenied("update_account")
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.IntakeThrottled()
	})
}
