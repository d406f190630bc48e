package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	repository "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/port"
)

// RegisterAttachmentInput records an upload before any message references it.
type RegisterAttachmentInput struct {
	UploaderID  uuid.UUID
	FileURL     string
	FileSize    int64
	ContentType string
}

// RegisterAttachmentUseCase stores the metadata of an uploaded file. The file
// body itself lives in external storage; only the pointer is persisted here.
type RegisterAttachmentUseCase struct {
	Attachments repository.AttachmentRepository
}

func NewRegisterAttachmentUseCase(attachments repository.AttachmentRepository) *RegisterAttachmentUseCase {
	return &RegisterAttachmentUseCase{Attachments: attachments}
}

func (uc *RegisterAttachmentUseCase) Execute(ctx context.Context, in RegisterAttachmentInput) (messaging.Attachment, error) {
	att, err := messaging.NewAttachment(in.UploaderID, in.FileURL, in.FileSize, in.ContentType)
	if err != nil {
		return messaging.Attachment{}, err
	}
	if err := uc.Attachments.Create(ctx, att); err != nil {
		return messaging.Attachment{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return att, nil
}
