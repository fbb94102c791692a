package contract

import "sync/atomic"

// Health is the tri-state availability of a provider.
type Health int32

const (
	HealthDisabled Health = iota
	HealthUnhealthy
	HealthHealthy
)

func (h Health) String() string {
	switch h {
	case HealthHealthy:
		return "HEALTHY"
	case HealthUnhealthy:
		return "UNHEALTHY"
	default:
		return "DISABLED"
	}
}

// HealthCell is an atomically updated health flag shared between the provider
// that writes it after each remote call and the orchestrator that reads it
// while filtering. Concurrent queries against the same provider instance must
// not tear reads or lose updates.
type HealthCell struct {
	v atomic.Int32
}

// NewHealthCell returns a cell initialized to HEALTHY.
func NewHealthCell() *HealthCell {
	c := &HealthCell{}
	c.v.Store(int32(HealthHealthy))
	return c
}

func (c *HealthCell) Get() Health {
	return Health(c.v.Load())
}

func (c *HealthCell) MarkHealthy() {
	c.v.Store(int32(HealthHealthy))
}

func (c *HealthCell) MarkUnhealthy() {
	c.v.Store(int32(HealthUnhealthy))
}
