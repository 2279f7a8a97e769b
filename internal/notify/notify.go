// Package notify persists notifications and pushes them to live
// subscribers.
package notify

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"agrihub/internal/models"
)

// Store is the slice of the data layer the dispatcher needs.
type Store interface {
	InsertNotification(ctx context.Context, n *models.Notification) (*models.Notification, error)
}

// Dispatcher writes a notification durably and then pushes the persisted
// record to the addressed user's live sessions.
type Dispatcher struct {
	store Store
	hub   *Hub
}

func NewDispatcher(store Store, hub *Hub) *Dispatcher {
	return &Dispatcher{store: store, hub: hub}
}

// Notify persists the record first; only a persisted record is pushed, so a
// disconnected user can still recover it later from the notification list.
func (d *Dispatcher) Notify(ctx context.Context, userID primitive.ObjectID, kind, message string) (*models.Notification, error) {
	n, err := d.store.InsertNotification(ctx, &models.Notification{
		UserID:  userID,
		Type:    kind,
		Message: message,
	})
	if err != nil {
		return nil, err
	}

	d.hub.Push(userID.Hex(), n)
	return n, nil
}
