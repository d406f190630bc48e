package adapter

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	repository "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/port"
)

type PgAttachmentRepository struct {
	pool *pgxpool.Pool
}

func NewPgAttachmentRepository(pool *pgxpool.Pool) *PgAttachmentRepository {
	return &PgAttachmentRepository{pool: pool}
}

var _ repository.AttachmentRepository = (*PgAttachmentRepository)(nil)

func (r *PgAttachmentRepository) Create(ctx context.Context, a messaging.Attachment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO messaging.attachment (id, message_id, uploader_id, file_url, file_size, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.ID, a.MessageID, a.UploaderID, a.FileURL, a.FileSize, a.ContentType, a.CreatedAt)
	return err
}

func (r *PgAttachmentRepository) GetByID(ctx context.Context, id uuid.UUID) (messaging.Attachment, error) {
	var a messaging.Attachment
	err := r.pool.QueryRow(ctx, `
		SELECT id, message_id, uploader_id, file_url, file_size, content_type, created_at
		FROM messaging.attachment
		WHERE id = $1
	`, id).Scan(&a.ID, &a.MessageID, &a.UploaderID, &a.FileURL, &a.FileSize, &a.ContentType, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return messaging.Attachment{}, repository.ErrNotFound
	}
	return a, err
}

// Associate only succeeds when the attachment is still unowned, which keeps
// the at-most-one-owning-message rule in the database.
func (r *PgAttachmentRepository) Associate(ctx context.Context, attachmentID, messageID uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE messaging.attachment
		SET message_id = $2
		WHERE id = $1 AND message_id IS NULL
	`, attachmentID, messageID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PgAttachmentRepository) ListByMessage(ctx context.Context, messageID uuid.UUID) ([]messaging.Attachment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, message_id, uploader_id, file_url, file_size, content_type, created_at
		FROM messaging.attachment
		WHERE message_id = $1
		ORDER BY created_at
	`, messageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var atts []messaging.Attachment
	for rows.Next() {
		var a messaging.Attachment
		if err := rows.Scan(&a.ID, &a.MessageID, &a.UploaderID, &a.FileURL, &a.FileSize, &a.ContentType, &a.CreatedAt); err != nil {
			return nil, err
		}
		atts = append(atts, a)
	}
	return atts, rows.Err()
}
