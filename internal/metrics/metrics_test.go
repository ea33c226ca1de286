package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRecommendation(t *testing.T) {
	before := testutil.ToFloat64(RecommendationOutcomes.WithLabelValues("test", "degraded", "timeout"))

	RecordRecommendation("test", true, "timeout")

	after := testutil.ToFloat64(RecommendationOutcomes.WithLabelValues("test", "degraded", "timeout"))
	if after-before != 1 {
		t.Errorf("degraded counter delta = %v, want 1", after-before)
	}

	okBefore := testutil.ToFloat64(RecommendationOutcomes.WithLabelValues("test", "ok", "none"))
	RecordRecommendation("test", false, "none")
	okAfter := testutil.ToFloat64(RecommendationOutcomes.WithLabelValues("test", "ok", "none"))
	if okAfter-okBefore != 1 {
		t.Errorf("ok counter delta = %v, want 1", okAfter-okBefore)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/chat_ia/", "200"))

	RecordAPIRequest("POST", "/chat_ia/", 200, 10*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/chat_ia/", "200"))
	if after-before != 1 {
		t.Errorf("request counter delta = %v, want 1", after-before)
	}
}

func TestRecordImage(t *testing.T) {
	before := testutil.ToFloat64(ImageOutcomes.WithLabelValues("test", "none"))
	RecordImage("test", "none")
	after := testutil.ToFloat64(ImageOutcomes.WithLabelValues("test", "none"))
	if after-before != 1 {
		t.Errorf("image counter delta = %v, want 1", after-before)
	}
}
