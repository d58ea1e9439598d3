package ratelimit

import (
	"math"
	"sync"
	"time"
)

// ============================================================================
// RATE LIMITER - VENTANA FIJA EN MEMORIA
// ============================================================================
// Contador por (cliente, ruta). La primera petición abre la ventana con
// count=1 y expiresAt=now+window; las siguientes incrementan hasta llegar a
// max. Al vencer la ventana el próximo request la reinicia (reset perezoso)
// y un barrido periódico elimina los registros vencidos.
//
// Es un limitador de un solo proceso: con varias instancias cada una lleva
// su propia cuenta.
//
// Uso:
//   limiter := New(5 * time.Minute)
//   limiter.Start()
//   defer limiter.Stop()
//   d := limiter.CheckAndIncrement(ip, "/api/v2/solicitudes", time.Minute, 5)

// record es el estado de una llave; nunca sale del Limiter
type record struct {
	count     int
	expiresAt time.Time
}

// Decision es el resultado de CheckAndIncrement
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter int // segundos hasta que vence la ventana (solo si !Allowed)
	ResetAt    time.Time
}

// Limiter es la tabla de contadores con su barrido en background
type Limiter struct {
	mu            sync.Mutex
	records       map[string]*record
	now           func() time.Time
	sweepInterval time.Duration
	stop          chan struct{}
	done          chan struct{}
	running       bool
}

// New crea un Limiter; sweepInterval <= 0 usa 5 minutos
func New(sweepInterval time.Duration) *Limiter {
	if sweepInterval <= 0 {
		sweepInterval = 5 * time.Minute
	}
	return &Limiter{
		records:       make(map[string]*record),
		now:           time.Now,
		sweepInterval: sweepInterval,
	}
}

// SetClock reemplaza el reloj (tests)
func (l *Limiter) SetClock(now func() time.Time) {
	l.mu.Lock()
	l.now = now
	l.mu.Unlock()
}

// Key arma la llave compuesta cliente-ruta
func Key(identity, route string) string {
	return identity + "-" + route
}

// CheckAndIncrement registra una petición y decide si se permite
func (l *Limiter) CheckAndIncrement(identity, route string, window time.Duration, max int) Decision {
	key := Key(identity, route)

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	rec, ok := l.records[key]
	if !ok || !now.Before(rec.expiresAt) {
		rec = &record{count: 1, expiresAt: now.Add(window)}
		l.records[key] = rec
		return Decision{Allowed: true, Limit: max, Remaining: max - 1, ResetAt: rec.expiresAt}
	}

	if rec.count >= max {
		remaining := rec.expiresAt.Sub(now)
		return Decision{
			Allowed:    false,
			Limit:      max,
			Remaining:  0,
			RetryAfter: int(math.Ceil(remaining.Seconds())),
			ResetAt:    rec.expiresAt,
		}
	}

	rec.count++
	return Decision{Allowed: true, Limit: max, Remaining: max - rec.count, ResetAt: rec.expiresAt}
}

// Sweep elimina los registros vencidos y retorna cuántos borró
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, rec := range l.records {
		if !now.Before(rec.expiresAt) {
			delete(l.records, key)
			removed++
		}
	}
	return removed
}

// Len retorna la cantidad de registros (incluye vencidos aún no barridos)
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Reset limpia toda la tabla
func (l *Limiter) Reset() {
	l.mu.Lock()
	l.records = make(map[string]*record)
	l.mu.Unlock()
}

// Start lanza el barrido periódico. Llamarlo dos veces no tiene efecto.
func (l *Limiter) Start() {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return
	}
	l.running = true
	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	stop, done := l.stop, l.done
	l.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(l.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				l.Sweep()
			case <-stop:
				return
			}
		}
	}()
}

// Stop detiene el barrido y espera a que la goroutine termine
func (l *Limiter) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	stop, done := l.stop, l.done
	l.mu.Unlock()

	close(stop)
	<-done
}
