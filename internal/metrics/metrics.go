package metrics

import "sync/atomic"

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

// Registry groups the application counters. A single shared instance is
// wired through cmd/server.
type Registry struct {
	HTTPRequests     Counter
	OrdersCreated    Counter
	OrdersCancelled  Counter
	PaymentsRecorded Counter
	WalletEntries    Counter
}

var Default = &Registry{}

// Snapshot returns the current counter values keyed by name.
func (r *Registry) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"http_requests":     r.HTTPRequests.Load(),
		"orders_created":    r.OrdersCreated.Load(),
		"orders_cancelled":  r.OrdersCancelled.Load(),
		"payments_recorded": r.PaymentsRecorded.Load(),
		"wallet_entries":    r.WalletEntries.Load(),
	}
}
