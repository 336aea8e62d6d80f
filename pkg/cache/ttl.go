// Package cache implementa una caché en memoria con expiración por TTL.
package cache

import (
	"sync"
	"time"

	"github.com/jhoicas/farmacia-api/pkg/clock"
)

type entry[V any] struct {
	value    V
	cachedAt time.Time
}

// TTL caché concurrente clave → valor. Las entradas vencidas no se purgan en segundo plano:
// se reemplazan en el siguiente acceso. No hay límite de claves.
type TTL[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration
	clock   clock.Clock
	copyFn  func(V) V
}

// NewTTL crea la caché. copyFn (opcional) se aplica a cada valor devuelto para que el
// llamador no pueda mutar lo almacenado.
func NewTTL[K comparable, V any](ttl time.Duration, clk clock.Clock, copyFn func(V) V) *TTL[K, V] {
	if clk == nil {
		clk = clock.System(nil)
	}
	if copyFn == nil {
		copyFn = func(v V) V { return v }
	}
	return &TTL[K, V]{
		entries: make(map[K]entry[V]),
		ttl:     ttl,
		clock:   clk,
		copyFn:  copyFn,
	}
}

// Get devuelve una copia del valor si existe y no ha vencido.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.expired(e) {
		var zero V
		return zero, false
	}
	return c.copyFn(e.value), true
}

// Set guarda value bajo key con la hora actual.
func (c *TTL[K, V]) Set(key K, value V) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: c.copyFn(value), cachedAt: c.clock.Now()}
	c.mu.Unlock()
}

// GetOrCompute devuelve el valor vigente o lo calcula con compute y lo guarda.
// El cálculo corre fuera del lock: dos llamadas concurrentes con la misma clave pueden
// calcular ambas y gana la última escritura. Los errores no se guardan.
func (c *TTL[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}
	c.Set(key, v)
	return c.copyFn(v), nil
}

// Len número de entradas almacenadas, incluidas las vencidas aún no reemplazadas.
func (c *TTL[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *TTL[K, V]) expired(e entry[V]) bool {
	return c.clock.Now().Sub(e.cachedAt) > c.ttl
}
