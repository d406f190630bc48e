package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	repository "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/port"
)

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

var _ repository.MessageRepository = (*PgMessageRepository)(nil)

func (r *PgMessageRepository) Create(ctx context.Context, m messaging.Message) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMessageRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO messaging.message (id, conversation_id, sender_id, content, content_type, sent_at, delivered_at, read_at, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, m.ID, m.ConversationID, m.SenderID, m.Content, string(m.ContentType), m.SentAt, m.DeliveredAt, m.ReadAt, m.Metadata)
	return err
}

func (r *PgMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (messaging.Message, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, conversation_id, sender_id, content, content_type, sent_at, delivered_at, read_at, metadata
		FROM messaging.message
		WHERE id = $1
	`, id)
	return scanMessage(row)
}

// ListByConversation pages newest-first. The cursor comparison uses a row
// value so the (sent_at, id) total order holds even when two messages share
// a timestamp.
func (r *PgMessageRepository) ListByConversation(ctx context.Context, conversationID uuid.UUID, limit int, before *messaging.Cursor) ([]messaging.Message, error) {
	if limit <= 0 {
		limit = 50
	}

	var (
		rows pgx.Rows
		err  error
	)
	if before != nil {
		rows, err = r.pool.Query(ctx, `
			SELECT id, conversation_id, sender_id, content, content_type, sent_at, delivered_at, read_at, metadata
			FROM messaging.message
			WHERE conversation_id = $1 AND (sent_at, id) < ($2, $3)
			ORDER BY sent_at DESC, id DESC
			LIMIT $4
		`, conversationID, before.SentAt, before.ID, limit)
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT id, conversation_id, sender_id, content, content_type, sent_at, delivered_at, read_at, metadata
			FROM messaging.message
			WHERE conversation_id = $1
			ORDER BY sent_at DESC, id DESC
			LIMIT $2
		`, conversationID, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []messaging.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *PgMessageRepository) MarkDelivered(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE messaging.message
		SET delivered_at = $2
		WHERE id = ANY($1) AND delivered_at IS NULL
	`, ids, at)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *PgMessageRepository) MarkRead(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE messaging.message
		SET read_at = $2
		WHERE id = ANY($1) AND read_at IS NULL
	`, ids, at)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *PgMessageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM messaging.message WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PgMessageRepository) CountUnread(ctx context.Context, conversationID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM messaging.message
		WHERE conversation_id = $1 AND sender_id <> $2 AND read_at IS NULL
	`, conversationID, userID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func scanMessage(row rowScanner) (messaging.Message, error) {
	var (
		m           messaging.Message
		contentType string
	)
	err := row.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &contentType, &m.SentAt, &m.DeliveredAt, &m.ReadAt, &m.Metadata)
	if errors.Is(err, pgx.ErrNoRows) {
		return messaging.Message{}, repository.ErrNotFound
	}
	if err != nil {
		return messaging.Message{}, err
	}
	m.ContentType = messaging.ContentType(contentType)
	return m, nil
}
