// server/internal/notify/notifier.go
package notify

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"foodbridge-api-server/internal/models"
	"foodbridge-api-server/internal/service"
	"foodbridge-api-server/internal/socket"
)

// Notifier writes inbox documents and pushes live WebSocket events.
// Everything is best effort: a failed notification is logged and
// dropped, never surfaced to the triggering request.
type Notifier struct {
	Store service.Store
	Hub   *socket.Hub
	Now   func() time.Time
}

func New(store service.Store, hub *socket.Hub) *Notifier {
	return &Notifier{
		Store: store,
		Hub:   hub,
		Now:   func() time.Time { return time.Now().UTC() },
	}
}

// Notify fans the input out to its recipients. A "role:<name>" key is
// expanded into one notification per user holding that role.
func (n *Notifier) Notify(ctx context.Context, in service.NotificationInput) {
	recipients, err := n.resolveRecipients(ctx, in.RecipientKey)
	if err != nil {
		log.Printf("Notification recipient lookup failed for %q: %v", in.RecipientKey, err)
		return
	}

	for _, userID := range recipients {
		notification := models.Notification{
			ID:           uuid.NewString(),
			RecipientKey: userID,
			ActorID:      in.ActorID,
			ActorRole:    in.ActorRole,
			DonationID:   in.DonationID,
			Type:         in.Type,
			Title:        in.Title,
			Message:      in.Message,
			Read:         false,
			CreatedAt:    n.Now(),
		}

		if err := n.Store.InsertNotification(ctx, notification); err != nil {
			log.Printf("Notification insert failed for %s: %v", userID, err)
			continue
		}

		if n.Hub != nil {
			n.Hub.SendEvent(userID, socket.Event{Event: in.Type, Payload: notification})
		}
	}
}

func (n *Notifier) resolveRecipients(ctx context.Context, key string) ([]string, error) {
	role, ok := strings.CutPrefix(key, "role:")
	if !ok {
		return []string{key}, nil
	}

	users, err := n.Store.UsersByRole(ctx, role)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}
