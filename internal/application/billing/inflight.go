package billing

import "sync"

// InflightGuard conjunto de claves con un guardado en curso, local al proceso.
// No es un lock distribuido: dos réplicas del servicio no se ven entre sí.
type InflightGuard struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// NewInflightGuard construye el guard vacío.
func NewInflightGuard() *InflightGuard {
	return &InflightGuard{keys: make(map[string]struct{})}
}

// TryAcquire reserva la clave; false si ya estaba ocupada.
// Quien obtiene true debe llamar a la función devuelta (normalmente con defer).
func (g *InflightGuard) TryAcquire(key string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.keys[key]; busy {
		return nil, false
	}
	g.keys[key] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.keys, key)
			g.mu.Unlock()
		})
	}, true
}

// Len número de guardados en curso.
func (g *InflightGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.keys)
}

func saveKey(userID, invoiceNumber string) string {
	return userID + "\x00" + invoiceNumber
}
