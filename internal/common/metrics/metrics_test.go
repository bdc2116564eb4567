// internal/common/metrics/metrics_test.go
package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"ticket-classifier/internal/models"
)

func TestRecordSummary(t *testing.T) {
	beforeBilling := testutil.ToFloat64(TicketsClassified.WithLabelValues("MetricsBilling"))
	beforeOthers := testutil.ToFloat64(TicketsUnclassified)

	s := models.NewSummary()
	s.Record(models.ClassificationResult{TicketID: "1", AssignedCategory: "MetricsBilling", MatchedCategories: []string{"MetricsBilling"}})
	s.Record(models.ClassificationResult{TicketID: "2", AssignedCategory: "MetricsBilling", MatchedCategories: []string{"MetricsBilling"}})
	s.Record(models.ClassificationResult{TicketID: "3", AssignedCategory: models.FallbackCategory, MatchedCategories: []string{}})

	RecordSummary(s)

	assert.Equal(t, beforeBilling+2, testutil.ToFloat64(TicketsClassified.WithLabelValues("MetricsBilling")))
	assert.Equal(t, beforeOthers+1, testutil.ToFloat64(TicketsUnclassified))
}

func TestRecordRun(t *testing.T) {
	before := testutil.ToFloat64(ClassificationRuns.WithLabelValues("success"))

	RecordRun("success", 150*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(ClassificationRuns.WithLabelValues("success")))
	assert.Equal(t, 1, testutil.CollectAndCount(ClassificationRunDuration))
}
