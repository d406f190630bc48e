package repository

import (
	"context"

	"github.com/google/uuid"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
)

// AttachmentRepository defines persistence operations for attachments.
type AttachmentRepository interface {
	Create(ctx context.Context, a messaging.Attachment) error
	GetByID(ctx context.Context, id uuid.UUID) (messaging.Attachment, error)

	// Associate sets the owning message on an attachment that has none yet.
	Associate(ctx context.Context, attachmentID, messageID uuid.UUID) error

	ListByMessage(ctx context.Context, messageID uuid.UUID) ([]messaging.Attachment, error)
}
