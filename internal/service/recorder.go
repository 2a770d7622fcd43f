package service

import (
	"time"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("service")

// Recorder receives feed assembly measurements. *metrics.Collector implements it.
type Recorder interface {
	ObserveAssembly(feed string, d time.Duration)
	SectionDegraded(section string)
	LikesCollapsed(n int)
	Superseded()
}

type nopRecorder struct{}

func (nopRecorder) ObserveAssembly(string, time.Duration) {}
func (nopRecorder) SectionDegraded(string)                {}
func (nopRecorder) LikesCollapsed(int)                    {}
func (nopRecorder) Superseded()                           {}

func orNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}
