package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	repository "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/port"
)

// AssociateAttachmentInput ties an uploaded attachment to its owning message.
type AssociateAttachmentInput struct {
	AttachmentID uuid.UUID
	MessageID    uuid.UUID
	RequestedBy  uuid.UUID
}

// AssociateAttachmentUseCase links an attachment to a message, once. Only the
// uploader may associate their own attachment.
type AssociateAttachmentUseCase struct {
	Attachments repository.AttachmentRepository
	Messages    repository.MessageRepository
}

func NewAssociateAttachmentUseCase(attachments repository.AttachmentRepository, messages repository.MessageRepository) *AssociateAttachmentUseCase {
	return &AssociateAttachmentUseCase{Attachments: attachments, Messages: messages}
}

func (uc *AssociateAttachmentUseCase) Execute(ctx context.Context, in AssociateAttachmentInput) (messaging.Attachment, error) {
	att, err := uc.Attachments.GetByID(ctx, in.AttachmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return messaging.Attachment{}, repository.ErrNotFound
	}
	if err != nil {
		return messaging.Attachment{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if att.UploaderID != in.RequestedBy {
		return messaging.Attachment{}, messaging.ErrNotParticipant
	}
	if err := att.Associate(in.MessageID); err != nil {
		return messaging.Attachment{}, err
	}

	if _, err := uc.Messages.GetByID(ctx, in.MessageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return messaging.Attachment{}, repository.ErrNotFound
		}
		return messaging.Attachment{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := uc.Attachments.Associate(ctx, in.AttachmentID, in.MessageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return messaging.Attachment{}, messaging.ErrAlreadyAssociated
		}
		return messaging.Attachment{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return att, nil
}
