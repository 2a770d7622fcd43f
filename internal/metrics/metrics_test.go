package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.SectionDegraded("papers")
	c.SectionDegraded("papers")
	c.LikesCollapsed(3)
	c.LikesCollapsed(0)
	c.Superseded()
	c.ObserveAssembly("feed", 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.degraded.WithLabelValues("papers")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.likesCollapse))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.superseded))
	assert.Equal(t, 1, testutil.CollectAndCount(c.assembly))

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shelf_feed_degraded_sections_total")
}
