// Package metrics records server activity through a small Collector
// interface, with a Prometheus-backed implementation and a no-op
// default so metrics stay opt-in.
package metrics

// Collector records server activity. Implementations must be safe for
// concurrent use, since every session goroutine calls into it.
type Collector interface {
	ConnectionOpened()
	ConnectionClosed()
	AuthAttempt(result string)
	CommandHandled(cmd string)
	TransferCompleted(kind string, bytes int64)
}

// Nop is a Collector that discards everything. It is the default so
// that running the server without a metrics_addr configured never
// touches the Prometheus registry.
type Nop struct{}

func (Nop) ConnectionOpened()                          {}
func (Nop) ConnectionClosed()                          {}
func (Nop) AuthAttempt(result string)                  {}
func (Nop) CommandHandled(cmd string)                  {}
func (Nop) TransferCompleted(kind string, bytes int64) {}

var _ Collector = Nop{}
