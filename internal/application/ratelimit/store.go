package ratelimit

import (
	"sync"
	"time"
)

// Attempt es el registro por clave (p.ej. "login:u@x.com"): cuántos intentos
// van en la ventana y, si aplica, hasta cuándo dura el castigo.
type Attempt struct {
	Count       int
	WindowReset time.Time
	LockedUntil time.Time
}

// Locked indica si la clave sigue castigada respecto a now.
func (a Attempt) Locked(now time.Time) bool {
	return now.Before(a.LockedUntil)
}

// AttemptStore es la abstracción inyectable de conteo de intentos. El
// default es memoria de proceso (single-instance, best-effort: dos requests
// simultáneos pueden leer "no bloqueado" antes de que cualquiera incremente).
// Para despliegues multi-instancia se inyecta el store Redis, que incrementa
// de forma atómica.
type AttemptStore interface {
	Get(key string) (Attempt, bool, error)
	// Increment suma un intento y devuelve el registro resultante. Si el
	// registro no existe o su ventana venció, arranca en count=1 con una
	// ventana nueva de window.
	Increment(key string, window time.Duration) (Attempt, error)
	// Lock fija el castigo de la clave hasta now+lock.
	Lock(key string, lock time.Duration) error
	// Clear borra el registro (éxito de la operación protegida).
	Clear(key string) error
}

// MemoryStore implementación por defecto de AttemptStore en memoria de
// proceso. Un barrido periódico acota la memoria borrando registros viejos;
// nunca borra locks vivos.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Attempt
	done    chan struct{}
	once    sync.Once
}

// NewMemoryStore construye el store en memoria.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Attempt),
		done:    make(chan struct{}),
	}
}

// Get devuelve el registro de la clave si existe.
func (s *MemoryStore) Get(key string) (Attempt, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.entries[key]
	return a, ok, nil
}

// Increment suma un intento respetando la ventana.
func (s *MemoryStore) Increment(key string, window time.Duration) (Attempt, error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.entries[key]
	if !ok || now.After(a.WindowReset) {
		a = Attempt{Count: 1, WindowReset: now.Add(window), LockedUntil: a.LockedUntil}
	} else {
		a.Count++
	}
	s.entries[key] = a
	return a, nil
}

// Lock castiga la clave hasta now+lock.
func (s *MemoryStore) Lock(key string, lock time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.entries[key]
	a.LockedUntil = time.Now().Add(lock)
	s.entries[key] = a
	return nil
}

// Clear borra el registro de la clave.
func (s *MemoryStore) Clear(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// StartSweeper lanza el barrido periódico de registros viejos. Sólo borra
// entradas con ventana vencida y sin lock activo.
func (s *MemoryStore) StartSweeper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep(time.Now())
			case <-s.done:
				return
			}
		}
	}()
}

// Stop detiene el barrido.
func (s *MemoryStore) Stop() {
	s.once.Do(func() { close(s.done) })
}

func (s *MemoryStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, a := range s.entries {
		if a.Locked(now) {
			continue
		}
		if now.After(a.WindowReset) {
			delete(s.entries, key)
		}
	}
}
