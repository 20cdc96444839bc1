package fetcher

import (
	"github.com/prometheus/client_golang/prometheus"
)

const promNamespace = "kliquidity"

// Metrics counts RPC traffic issued by a Client. A nil *Metrics is a no-op.
type Metrics struct {
	rpcRequests       *prometheus.CounterVec
	tickArraysFetched *prometheus.CounterVec
}

// NewMetrics registers the fetcher counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	rpcRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "rpc_requests_total",
		Help:      "Total number of RPC requests by method.",
	}, []string{"method"})
	tickArraysFetched := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "tick_arrays_fetched_total",
		Help:      "Total number of initialized tick or bin arrays decoded by dex.",
	}, []string{"dex"})

	reg.MustRegister(rpcRequests, tickArraysFetched)

	return &Metrics{
		rpcRequests:       rpcRequests,
		tickArraysFetched: tickArraysFetched,
	}
}

func (m *Metrics) rpcRequest(method string) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(method).Inc()
}

func (m *Metrics) tickArrays(dex string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.tickArraysFetched.WithLabelValues(dex).Add(float64(n))
}
