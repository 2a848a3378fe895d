package presale

import (
	"sync"
	"time"
)

// Clock fuente de tiempo del motor. La fase de la venta se deriva de Now() en cada llamada.
type Clock interface {
	Now() time.Time
}

// SystemClock reloj de pared.
type SystemClock struct{}

// Now implementa Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock reloj controlable para pruebas y simulaciones (viaje en el tiempo).
type ManualClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewManualClock crea un reloj detenido en t.
func NewManualClock(t time.Time) *ManualClock {
	return &ManualClock{now: t}
}

// Now implementa Clock.
func (c *ManualClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Set mueve el reloj a t (puede retroceder).
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Advance adelanta el reloj d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
