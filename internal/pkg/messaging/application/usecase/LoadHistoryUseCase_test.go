package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// seedMessages inserts n messages with strictly increasing sent_at and
// returns them oldest first.
func seedMessages(t *testing.T, repo *adapter.MemMessageRepository, conversationID uuid.UUID, n int) []messaging.Message {
	t.Helper()
	base := time.Now().UTC().Add(-time.Hour)
	sender := uuid.New()
	msgs := make([]messaging.Message, 0, n)
	for i := 0; i < n; i++ {
		m := messaging.Message{
			ID:             uuid.New(),
			ConversationID: conversationID,
			SenderID:       sender,
			Content:        "m",
			ContentType:    messaging.ContentTypeText,
			SentAt:         base.Add(time.Duration(i) * time.Second),
			Metadata:       map[string]any{},
		}
		require.NoError(t, repo.Create(context.Background(), m))
		msgs = append(msgs, m)
	}
	return msgs
}

func TestLoadHistoryPaging(t *testing.T) {
	repo := adapter.NewMemMessageRepository()
	convID := uuid.New()
	msgs := seedMessages(t, repo, convID, 25)
	uc := NewLoadHistoryUseCase(repo)
	ctx := context.Background()

	// First page: newest 10, more behind it.
	page, err := uc.Execute(ctx, LoadHistoryInput{ConversationID: convID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Messages, 10)
	require.True(t, page.HasMore)
	require.NotNil(t, page.NextCursor)
	require.Equal(t, msgs[24].ID, page.Messages[0].ID)
	require.Equal(t, msgs[15].ID, page.Messages[9].ID)
	require.Equal(t, msgs[15].ID, *page.NextCursor)

	// Second page continues strictly past the cursor.
	page2, err := uc.Execute(ctx, LoadHistoryInput{ConversationID: convID, Limit: 10, BeforeID: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, page2.Messages, 10)
	require.True(t, page2.HasMore)
	require.Equal(t, msgs[14].ID, page2.Messages[0].ID)
	require.Equal(t, msgs[5].ID, page2.Messages[9].ID)

	// Last page: short, no further cursor.
	page3, err := uc.Execute(ctx, LoadHistoryInput{ConversationID: convID, Limit: 10, BeforeID: page2.NextCursor})
	require.NoError(t, err)
	require.Len(t, page3.Messages, 5)
	require.False(t, page3.HasMore)
	require.Nil(t, page3.NextCursor)
	require.Equal(t, msgs[0].ID, page3.Messages[4].ID)
}

func TestLoadHistoryLimits(t *testing.T) {
	repo := adapter.NewMemMessageRepository()
	convID := uuid.New()
	seedMessages(t, repo, convID, 120)
	uc := NewLoadHistoryUseCase(repo)
	ctx := context.Background()

	// Zero and negative limits fall back to the default.
	page, err := uc.Execute(ctx, LoadHistoryInput{ConversationID: convID})
	require.NoError(t, err)
	require.Len(t, page.Messages, 50)
	require.True(t, page.HasMore)

	page, err = uc.Execute(ctx, LoadHistoryInput{ConversationID: convID, Limit: -3})
	require.NoError(t, err)
	require.Len(t, page.Messages, 50)

	// Oversized limits are clamped to the maximum.
	page, err = uc.Execute(ctx, LoadHistoryInput{ConversationID: convID, Limit: 500})
	require.NoError(t, err)
	require.Len(t, page.Messages, 100)
	require.True(t, page.HasMore)
}

func TestLoadHistoryUnknownCursor(t *testing.T) {
	repo := adapter.NewMemMessageRepository()
	convID := uuid.New()
	seedMessages(t, repo, convID, 5)
	uc := NewLoadHistoryUseCase(repo)
	ctx := context.Background()

	// A cursor id no message has degrades to no filter.
	unknown := uuid.New()
	page, err := uc.Execute(ctx, LoadHistoryInput{ConversationID: convID, Limit: 10, BeforeID: &unknown})
	require.NoError(t, err)
	require.Len(t, page.Messages, 5)
	require.False(t, page.HasMore)

	// So does a cursor pointing at a message in another conversation.
	foreign := seedMessages(t, repo, uuid.New(), 1)
	page, err = uc.Execute(ctx, LoadHistoryInput{ConversationID: convID, Limit: 10, BeforeID: &foreign[0].ID})
	require.NoError(t, err)
	require.Len(t, page.Messages, 5)
}

func TestLoadHistoryEmptyConversation(t *testing.T) {
	uc := NewLoadHistoryUseCase(adapter.NewMemMessageRepository())
	page, err := uc.Execute(context.Background(), LoadHistoryInput{ConversationID: uuid.New()})
	require.NoError(t, err)
	require.Empty(t, page.Messages)
	require.False(t, page.HasMore)
	require.Nil(t, page.NextCursor)
}
