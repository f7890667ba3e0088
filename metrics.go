package redis

import "github.com/prometheus/client_golang/prometheus"

// Metrics is an optional set of Prometheus collectors a Connection reports
// to. Construct one with NewMetrics and register it with a Registerer of
// your choosing; a nil *Metrics (the Options zero value) disables
// collection entirely, and every method on it is a nil-safe no-op so
// Connection code never needs to branch on whether metrics are enabled.
type Metrics struct {
	commandsIssued        prometheus.Counter
	repliesDrained        prometheus.Counter
	handlesDetached       prometheus.Counter
	transactionsCommitted prometheus.Counter
	transactionsAborted   prometheus.Counter
	queueDepth            prometheus.Gauge
}

// NewMetrics builds a Metrics instance with the given namespace (e.g.
// "myapp") and registers its collectors with reg. Pass
// prometheus.DefaultRegisterer to use the global registry.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		commandsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "redis",
			Name:      "commands_issued_total",
			Help:      "Commands submitted to the server, including ones whose reply has not yet been read.",
		}),
		repliesDrained: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "redis",
			Name:      "replies_drained_total",
			Help:      "Materializations of a pending reply handle forced by the caller; predecessors drained along the way are not counted separately.",
		}),
		handlesDetached: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "redis",
			Name:      "handles_detached_total",
			Help:      "Per-call reply handles detached by a transaction Abort; handles detached by TakeFrom are not counted.",
		}),
		transactionsCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "redis",
			Name:      "transactions_committed_total",
			Help:      "Transactions that reached Commit successfully.",
		}),
		transactionsAborted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "redis",
			Name:      "transactions_aborted_total",
			Help:      "Transactions that reached Abort, including ones abandoned via Connection.Close.",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "redis",
			Name:      "reply_queue_depth",
			Help:      "Number of reply handles currently Pending on the connection.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.commandsIssued,
			m.repliesDrained,
			m.handlesDetached,
			m.transactionsCommitted,
			m.transactionsAborted,
			m.queueDepth,
		)
	}
	return m
}

func (m *Metrics) commandIssued() {
	if m == nil {
		return
	}
	m.commandsIssued.Inc()
}

func (m *Metrics) replyDrained() {
	if m == nil {
		return
	}
	m.repliesDrained.Inc()
}

func (m *Metrics) handleDetached() {
	if m == nil {
		return
	}
	m.handlesDetached.Inc()
}

func (m *Metrics) transactionCommitted() {
	if m == nil {
		return
	}
	m.transactionsCommitted.Inc()
}

func (m *Metrics) transactionAborted() {
	if m == nil {
		return
	}
	m.transactionsAborted.Inc()
}

func (m *Metrics) setQueueDepth(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}
