package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"crm-commerce/internal/models"
)

// Writer records entries in the background so the primary operation never waits on,
// or fails because of, the audit store.
type Writer struct {
	store   Store
	log     zerolog.Logger
	timeout time.Duration
	now     func() time.Time
	wg      sync.WaitGroup
}

func NewWriter(store Store, log zerolog.Logger, timeout time.Duration) *Writer {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Writer{
		store:   store,
		log:     log.With().Str("component", "audit").Logger(),
		timeout: timeout,
		now:     time.Now,
	}
}

// Record builds the row from e and the actor in ctx and stores it asynchronously.
// Call it after the primary change has committed.
func (w *Writer) Record(ctx context.Context, e Entry) {
	actor := ActorFrom(ctx)
	row := &models.AuditLog{
		ID:        uuid.NewString(),
		UserID:    actor.UserID,
		Action:    e.Action,
		Entity:    e.Entity,
		EntityID:  e.EntityID,
		OldData:   w.encode(e.Old),
		NewData:   w.encode(e.New),
		IP:        actor.IP,
		UserAgent: actor.UserAgent,
		CreatedAt: w.now().UTC(),
	}

	// the request context is usually cancelled right after the response is written
	base := context.WithoutCancel(ctx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				w.log.Error().Interface("panic", r).Str("action", row.Action).Msg("audit write panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(base, w.timeout)
		defer cancel()

		if err := w.store.Insert(ctx, row); err != nil {
			w.log.Error().Err(err).
				Str("action", row.Action).
				Str("entity", row.Entity).
				Str("entity_id", row.EntityID).
				Msg("failed to write audit log")
		}
	}()
}

// Wait blocks until every pending write has finished.
func (w *Writer) Wait() {
	w.wg.Wait()
}

func (w *Writer) encode(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		w.log.Warn().Err(err).Msg("audit payload not serialisable")
		return ""
	}
	return string(b)
}
