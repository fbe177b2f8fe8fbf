// Package audit records administrative actions as an append-only side channel.
// Recording never fails the caller: store errors are logged and dropped.
package audit

import (
	"context"

	"crm-commerce/internal/models"
	"crm-commerce/internal/repository"
)

//go:generate mockgen -destination=mock_store.go -package=audit crm-commerce/internal/audit Store

// Store persists audit log rows.
type Store interface {
	Insert(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, f repository.AuditFilter) ([]models.AuditLog, int64, error)
}

// Entry describes one action. Old and New are serialised as JSON.
type Entry struct {
	Action   string
	Entity   string
	EntityID string
	Old      any
	New      any
}

// Recorder is what business code depends on.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

// Nop discards every entry.
type Nop struct{}

func (Nop) Record(context.Context, Entry) {}

const (
	ActionCreate       = "CREATE"
	ActionUpdate       = "UPDATE"
	ActionDelete       = "DELETE"
	ActionStatusChange = "STATUS_CHANGE"
	ActionCancel       = "CANCEL"
	ActionPlaceOrder   = "PLACE_ORDER"
)

// Actor identifies who performed a request.
type Actor struct {
	UserID    string
	IP        string
	UserAgent string
}

type actorKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the request's actor, or the zero Actor.
func ActorFrom(ctx context.Context) Actor {
	a, _ := ctx.Value(actorKey{}).(Actor)
	return a
}
