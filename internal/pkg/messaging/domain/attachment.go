package messaging

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyFileURL       = errors.New("messaging: attachment file url is required")
	ErrAlreadyAssociated  = errors.New("messaging: attachment already belongs to a message")
)

// Attachment is an uploaded file. It is created independently of any message
// (the upload happens first) and later associated with at most one message.
type Attachment struct {
	ID          uuid.UUID
	MessageID   *uuid.UUID
	UploaderID  uuid.UUID
	FileURL     string
	FileSize    int64
	ContentType string
	CreatedAt   time.Time
}

// NewAttachment registers an upload that is not yet tied to a message.
func NewAttachment(uploaderID uuid.UUID, fileURL string, fileSize int64, contentType string) (Attachment, error) {
	fileURL = strings.TrimSpace(fileURL)
	if fileURL == "" {
		return Attachment{}, ErrEmptyFileURL
	}
	return Attachment{
		ID:          uuid.New(),
		UploaderID:  uploaderID,
		FileURL:     fileURL,
		FileSize:    fileSize,
		ContentType: contentType,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Associate ties the attachment to its owning message, once.
func (a *Attachment) Associate(messageID uuid.UUID) error {
	if a.MessageID != nil {
		return ErrAlreadyAssociated
	}
	a.MessageID = &messageID
	return nil
}
