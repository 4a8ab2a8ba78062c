package perf

import (
	"expvar"
	"net/http"

	"github.com/encodeous/metric"
)

var (
	DispatchLatency        = metric.NewHistogram("1m1s")
	LinkQueueDepth         = metric.NewHistogram("10s1s")
	VectorsRecvPerSecond   = metric.NewCounter("10s1s")
	VectorsSentPerSecond   = metric.NewCounter("10s1s")
	VectorChangesPerSecond = metric.NewCounter("10s1s")
	RoundsPerSecond        = metric.NewCounter("10s1s")
)

func init() {
	http.Handle("/debug/metrics", metric.Handler(metric.Exposed))
	expvar.Publish("dvsim:LinkQueueDepth", LinkQueueDepth)

	expvar.Publish("dvsim:VectorsRecv/s", VectorsRecvPerSecond)
	expvar.Publish("dvsim:VectorsSent/s", VectorsSentPerSecond)
	expvar.Publish("dvsim:VectorChanges/s", VectorChangesPerSecond)
	expvar.Publish("dvsim:Rounds/s", RoundsPerSecond)
	expvar.Publish("dvsim:DispatchLatency (µs)", DispatchLatency)
}
