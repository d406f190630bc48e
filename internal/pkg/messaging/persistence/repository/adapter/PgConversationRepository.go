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

type PgConversationRepository struct {
	pool *pgxpool.Pool
}

func NewPgConversationRepository(pool *pgxpool.Pool) *PgConversationRepository {
	return &PgConversationRepository{pool: pool}
}

var _ repository.ConversationRepository = (*PgConversationRepository)(nil)

const conversationSelect = `
	SELECT c.id, c.type, c.title, c.created_at, c.last_message_at, c.metadata,
	       array_agg(p.user_id ORDER BY p.joined_at) AS participants
	FROM messaging.conversation c
	JOIN messaging.conversation_participant p ON p.conversation_id = c.id
`

func (r *PgConversationRepository) Create(ctx context.Context, c messaging.Conversation) error {
	if r == nil || r.pool == nil {
		return errors.New("PgConversationRepository: nil pool")
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO messaging.conversation (id, type, title, created_at, last_message_at, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, string(c.Type), c.Title, c.CreatedAt, c.LastMessageAt, c.Metadata)
	if err != nil {
		return err
	}

	for _, userID := range c.Participants {
		_, err = tx.Exec(ctx, `
			INSERT INTO messaging.conversation_participant (conversation_id, user_id, joined_at, is_admin)
			VALUES ($1, $2, $3, false)
			ON CONFLICT (conversation_id, user_id) DO NOTHING
		`, c.ID, userID, c.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PgConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (messaging.Conversation, error) {
	row := r.pool.QueryRow(ctx, conversationSelect+`
		WHERE c.id = $1
		GROUP BY c.id
	`, id)
	return scanConversation(row)
}

func (r *PgConversationRepository) GetDirectBetween(ctx context.Context, userID1, userID2 uuid.UUID) (messaging.Conversation, error) {
	row := r.pool.QueryRow(ctx, conversationSelect+`
		WHERE c.type = 'direct'
		  AND EXISTS (SELECT 1 FROM messaging.conversation_participant
		              WHERE conversation_id = c.id AND user_id = $1)
		  AND EXISTS (SELECT 1 FROM messaging.conversation_participant
		              WHERE conversation_id = c.id AND user_id = $2)
		GROUP BY c.id
		LIMIT 1
	`, userID1, userID2)
	return scanConversation(row)
}

func (r *PgConversationRepository) GetByTask(ctx context.Context, taskID uuid.UUID) (messaging.Conversation, error) {
	row := r.pool.QueryRow(ctx, conversationSelect+`
		WHERE c.type = 'task' AND c.metadata->>'task_id' = $1
		GROUP BY c.id
		LIMIT 1
	`, taskID.String())
	return scanConversation(row)
}

func (r *PgConversationRepository) ListByParticipant(ctx context.Context, userID uuid.UUID, limit, offset int) ([]messaging.Conversation, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, conversationSelect+`
		WHERE c.id IN (SELECT conversation_id FROM messaging.conversation_participant WHERE user_id = $1)
		GROUP BY c.id
		ORDER BY c.last_message_at DESC NULLS LAST, c.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []messaging.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

func (r *PgConversationRepository) AddParticipant(ctx context.Context, p messaging.Participant) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO messaging.conversation_participant (conversation_id, user_id, joined_at, last_read_at, is_admin)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (conversation_id, user_id) DO NOTHING
	`, p.ConversationID, p.UserID, p.JoinedAt, p.LastReadAt, p.IsAdmin)
	return err
}

func (r *PgConversationRepository) RemoveParticipant(ctx context.Context, conversationID, userID uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `
		DELETE FROM messaging.conversation_participant
		WHERE conversation_id = $1 AND user_id = $2
	`, conversationID, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PgConversationRepository) IsParticipant(ctx context.Context, conversationID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM messaging.conversation_participant
		               WHERE conversation_id = $1 AND user_id = $2)
	`, conversationID, userID).Scan(&exists)
	return exists, err
}

func (r *PgConversationRepository) UpdateLastMessageAt(ctx context.Context, conversationID uuid.UUID, at time.Time) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE messaging.conversation
		SET last_message_at = GREATEST(COALESCE(last_message_at, 'epoch'::timestamptz), $2)
		WHERE id = $1
	`, conversationID, at)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PgConversationRepository) UpdateTitle(ctx context.Context, conversationID uuid.UUID, title string) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE messaging.conversation
		SET title = $2
		WHERE id = $1
	`, conversationID, title)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PgConversationRepository) UpdateLastRead(ctx context.Context, conversationID, userID uuid.UUID, at time.Time) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE messaging.conversation_participant
		SET last_read_at = GREATEST(COALESCE(last_read_at, 'epoch'::timestamptz), $3)
		WHERE conversation_id = $1 AND user_id = $2
	`, conversationID, userID, at)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversation(row rowScanner) (messaging.Conversation, error) {
	var (
		c        messaging.Conversation
		convType string
	)
	err := row.Scan(&c.ID, &convType, &c.Title, &c.CreatedAt, &c.LastMessageAt, &c.Metadata, &c.Participants)
	if errors.Is(err, pgx.ErrNoRows) {
		return messaging.Conversation{}, repository.ErrNotFound
	}
	if err != nil {
		return messaging.Conversation{}, err
	}
	c.Type = messaging.ConversationType(convType)
	return c, nil
}
