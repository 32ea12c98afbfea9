// Package drafts guarda el estado sin persistir del editor (formularios y personalización de plantilla)
// con escrituras diferidas: cada Save reinicia el temporizador de su clave y solo la última versión llega a la base.
package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/repository"
)

// flushTimeout límite de cada escritura disparada por temporizador.
const flushTimeout = 10 * time.Second

type draftKey struct {
	userID string
	key    string
}

type pendingWrite struct {
	payload []byte
	gen     uint64
	timer   *time.Timer
}

// Store almacén de borradores con debounce por clave. No hay orden entre claves distintas.
type Store struct {
	repo  repository.DraftRepository
	delay time.Duration
	log   zerolog.Logger
	now   func() time.Time

	mu      sync.Mutex
	pending map[draftKey]*pendingWrite
	gen     uint64
	closed  bool

	// io serializa las operaciones contra el repositorio para que un Clear no
	// quede por detrás de una escritura diferida de la misma clave.
	io sync.Mutex
}

// NewStore crea el almacén. delay <= 0 escribe de forma síncrona.
func NewStore(repo repository.DraftRepository, delay time.Duration, log zerolog.Logger) *Store {
	return &Store{
		repo:    repo,
		delay:   delay,
		log:     log,
		now:     time.Now,
		pending: make(map[draftKey]*pendingWrite),
	}
}

// Save programa la escritura de v bajo (userID, key). Una escritura pendiente de la misma clave se reemplaza.
func (s *Store) Save(ctx context.Context, userID, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("drafts: encode %s: %w", key, err)
	}
	k := draftKey{userID: userID, key: key}

	s.mu.Lock()
	if s.delay <= 0 || s.closed {
		if p := s.pending[k]; p != nil {
			p.timer.Stop()
			delete(s.pending, k)
		}
		s.mu.Unlock()
		return s.write(ctx, k, payload)
	}
	s.gen++
	gen := s.gen
	if p := s.pending[k]; p != nil {
		p.timer.Stop()
	}
	s.pending[k] = &pendingWrite{
		payload: payload,
		gen:     gen,
		timer:   time.AfterFunc(s.delay, func() { s.flushKey(k, gen) }),
	}
	s.mu.Unlock()
	return nil
}

// Load decodifica en v el valor de (userID, key). Un valor pendiente de escribir tiene prioridad.
// Para el borrador de la plantilla default se consulta también la clave genérica heredada.
func (s *Store) Load(ctx context.Context, userID, key string, v any) (bool, error) {
	found, err := s.load(ctx, userID, key, v)
	if err != nil || found || key != entity.DraftKeyDefault {
		return found, err
	}
	return s.load(ctx, userID, entity.DraftKeyLegacy, v)
}

func (s *Store) load(ctx context.Context, userID, key string, v any) (bool, error) {
	k := draftKey{userID: userID, key: key}
	s.mu.Lock()
	if p := s.pending[k]; p != nil {
		payload := p.payload
		s.mu.Unlock()
		return true, decode(key, payload, v)
	}
	s.mu.Unlock()

	s.io.Lock()
	d, err := s.repo.Get(ctx, userID, key)
	s.io.Unlock()
	if err != nil {
		return false, fmt.Errorf("drafts: load %s: %w", key, err)
	}
	if d == nil {
		return false, nil
	}
	return true, decode(key, d.Payload, v)
}

func decode(key string, payload []byte, v any) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("drafts: decode %s: %w", key, err)
	}
	return nil
}

// Clear cancela cualquier escritura pendiente y borra el valor guardado.
// Borrar el borrador default elimina también la clave heredada.
func (s *Store) Clear(ctx context.Context, userID, key string) error {
	keys := []string{key}
	if key == entity.DraftKeyDefault {
		keys = append(keys, entity.DraftKeyLegacy)
	}

	s.mu.Lock()
	for _, kk := range keys {
		k := draftKey{userID: userID, key: kk}
		if p := s.pending[k]; p != nil {
			p.timer.Stop()
			delete(s.pending, k)
		}
	}
	s.mu.Unlock()

	s.io.Lock()
	defer s.io.Unlock()
	for _, kk := range keys {
		if err := s.repo.Delete(ctx, userID, kk); err != nil {
			return fmt.Errorf("drafts: clear %s: %w", kk, err)
		}
	}
	return nil
}

// Pending número de escrituras diferidas sin aplicar.
func (s *Store) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Flush aplica ya todas las escrituras pendientes.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	type item struct {
		k   draftKey
		gen uint64
	}
	items := make([]item, 0, len(s.pending))
	for k, p := range s.pending {
		p.timer.Stop()
		items = append(items, item{k: k, gen: p.gen})
	}
	s.mu.Unlock()

	var errs []error
	for _, it := range items {
		if err := s.flush(ctx, it.k, it.gen); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close vacía las escrituras pendientes; a partir de aquí Save escribe de forma síncrona.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.Flush(ctx)
}

func (s *Store) flushKey(k draftKey, gen uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := s.flush(ctx, k, gen); err != nil {
		s.log.Error().Err(err).Str("user_id", k.userID).Str("key", k.key).Msg("escritura diferida de borrador")
	}
}

// flush escribe la versión gen de la clave si sigue siendo la pendiente.
func (s *Store) flush(ctx context.Context, k draftKey, gen uint64) error {
	s.io.Lock()
	defer s.io.Unlock()

	s.mu.Lock()
	p := s.pending[k]
	if p == nil || p.gen != gen {
		s.mu.Unlock()
		return nil
	}
	delete(s.pending, k)
	payload := p.payload
	s.mu.Unlock()

	return s.upsert(ctx, k, payload)
}

func (s *Store) write(ctx context.Context, k draftKey, payload []byte) error {
	s.io.Lock()
	defer s.io.Unlock()
	return s.upsert(ctx, k, payload)
}

func (s *Store) upsert(ctx context.Context, k draftKey, payload []byte) error {
	d := &entity.Draft{UserID: k.userID, Key: k.key, Payload: payload, UpdatedAt: s.now()}
	if err := s.repo.Upsert(ctx, d); err != nil {
		return fmt.Errorf("drafts: save %s: %w", k.key, err)
	}
	return nil
}
