package task

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	qport "github.com/idrissnt/SEMO-sub000/internal/infrastructure/queue/port"
	repository "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/port"
)

// MarkDeliveredTaskType is the queue task name for stamping delivered_at on
// messages after they were fanned out to the conversation group.
const MarkDeliveredTaskType = "messaging:mark_delivered"

// MarkDeliveredPayload is the JSON payload transported via the queue.
type MarkDeliveredPayload struct {
	MessageIDs []uuid.UUID `json:"messageIds"`
}

// EnqueueMarkDelivered schedules the delivery stamp off the hot path. Enqueue
// failures are the caller's to log; delivery marking is best-effort.
func EnqueueMarkDelivered(ctx context.Context, client qport.Client, messageIDs []uuid.UUID) error {
	payload, err := json.Marshal(MarkDeliveredPayload{MessageIDs: messageIDs})
	if err != nil {
		return err
	}
	_, err = client.Enqueue(ctx, qport.Task{Type: MarkDeliveredTaskType, Payload: payload}, qport.EnqueueOption{
		Queue:    "messaging",
		MaxRetry: 3,
	})
	return err
}

// RegisterMarkDeliveredTask binds the task handler to the provided server.
// delivered_at only transitions null -> set in the store, so retries are safe.
func RegisterMarkDeliveredTask(srv qport.Server, messages repository.MessageRepository) {
	srv.Register(MarkDeliveredTaskType, func(ctx context.Context, t qport.Task) error {
		var p MarkDeliveredPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: do not retry indefinitely
			return err
		}
		if len(p.MessageIDs) == 0 {
			return nil
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		_, err := messages.MarkDelivered(ctx, p.MessageIDs, time.Now().UTC())
		return err
	})
}
