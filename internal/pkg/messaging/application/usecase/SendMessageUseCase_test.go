package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

func TestSendMessage(t *testing.T) {
	msgRepo := adapter.NewMemMessageRepository()
	convRepo := adapter.NewMemConversationRepository()
	sender, other := uuid.New(), uuid.New()
	conv := seedConversation(t, convRepo, sender, other)
	ctx := context.Background()

	uc := NewSendMessageUseCase(msgRepo, convRepo)
	msg, err := uc.Execute(ctx, SendMessageInput{
		ConversationID: conv.ID,
		SenderID:       sender,
		Content:        "  hello there  ",
	})
	require.NoError(t, err)
	require.Equal(t, "hello there", msg.Content)
	require.Equal(t, messaging.ContentTypeText, msg.ContentType)
	require.Equal(t, sender, msg.SenderID)
	require.NotEqual(t, uuid.Nil, msg.ID)

	stored, err := msgRepo.GetByID(ctx, msg.ID)
	require.NoError(t, err)
	require.Equal(t, msg.ID, stored.ID)

	// The conversation activity watermark follows the message.
	updated, err := convRepo.GetByID(ctx, conv.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.LastMessageAt)
	require.True(t, updated.LastMessageAt.Equal(msg.SentAt))
}

func TestSendMessageRejectsNonParticipant(t *testing.T) {
	msgRepo := adapter.NewMemMessageRepository()
	convRepo := adapter.NewMemConversationRepository()
	conv := seedConversation(t, convRepo, uuid.New(), uuid.New())

	uc := NewSendMessageUseCase(msgRepo, convRepo)

	_, err := uc.Execute(context.Background(), SendMessageInput{
		ConversationID: conv.ID,
		SenderID:       uuid.New(),
		Content:        "hi",
	})
	require.ErrorIs(t, err, messaging.ErrNotParticipant)

	// A missing conversation looks the same as a non-membership.
	_, err = uc.Execute(context.Background(), SendMessageInput{
		ConversationID: uuid.New(),
		SenderID:       uuid.New(),
		Content:        "hi",
	})
	require.ErrorIs(t, err, messaging.ErrNotParticipant)
}

func TestSendMessageRejectsEmptyContent(t *testing.T) {
	msgRepo := adapter.NewMemMessageRepository()
	convRepo := adapter.NewMemConversationRepository()
	sender := uuid.New()
	conv := seedConversation(t, convRepo, sender, uuid.New())
	ctx := context.Background()

	uc := NewSendMessageUseCase(msgRepo, convRepo)
	_, err := uc.Execute(ctx, SendMessageInput{
		ConversationID: conv.ID,
		SenderID:       sender,
		Content:        "   ",
	})
	require.ErrorIs(t, err, messaging.ErrEmptyContent)

	msgs, err := msgRepo.ListByConversation(ctx, conv.ID, 10, nil)
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func TestCreateConversationDirectDedup(t *testing.T) {
	convRepo := adapter.NewMemConversationRepository()
	a, b := uuid.New(), uuid.New()
	uc := NewCreateConversationUseCase(convRepo)
	ctx := context.Background()

	first, err := uc.Execute(ctx, CreateConversationInput{
		Type:         messaging.ConversationTypeDirect,
		Participants: []uuid.UUID{a, b},
	})
	require.NoError(t, err)

	// Opening the same pair again returns the existing thread, either order.
	second, err := uc.Execute(ctx, CreateConversationInput{
		Type:         messaging.ConversationTypeDirect,
		Participants: []uuid.UUID{b, a},
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	convs, err := convRepo.ListByParticipant(ctx, a, 10, 0)
	require.NoError(t, err)
	require.Len(t, convs, 1)
}

func TestTaskConversationGetOrCreate(t *testing.T) {
	convRepo := adapter.NewMemConversationRepository()
	create := NewCreateConversationUseCase(convRepo)
	uc := NewTaskConversationUseCase(create, convRepo)
	ctx := context.Background()

	in := TaskConversationInput{
		TaskID:      uuid.New(),
		RequesterID: uuid.New(),
		PerformerID: uuid.New(),
		TaskTitle:   "Assemble the shelf",
	}

	conv, err := uc.Execute(ctx, in)
	require.NoError(t, err)
	require.Equal(t, messaging.ConversationTypeTask, conv.Type)
	require.Equal(t, in.TaskID.String(), conv.Metadata["task_id"])
	require.NotNil(t, conv.Title)
	require.Equal(t, "Task: Assemble the shelf", *conv.Title)
	require.True(t, conv.HasParticipant(in.RequesterID))
	require.True(t, conv.HasParticipant(in.PerformerID))

	again, err := uc.Execute(ctx, in)
	require.NoError(t, err)
	require.Equal(t, conv.ID, again.ID, "one conversation per task")
}

func TestVerifyMembership(t *testing.T) {
	convRepo := adapter.NewMemConversationRepository()
	member := uuid.New()
	conv := seedConversation(t, convRepo, member, uuid.New())

	uc := NewVerifyMembershipUseCase(convRepo)
	ctx := context.Background()

	require.NoError(t, uc.Execute(ctx, conv.ID, member))
	require.ErrorIs(t, uc.Execute(ctx, conv.ID, uuid.New()), messaging.ErrNotParticipant)
	require.ErrorIs(t, uc.Execute(ctx, uuid.New(), member), messaging.ErrNotParticipant)
}

func TestParticipantUseCases(t *testing.T) {
	convRepo := adapter.NewMemConversationRepository()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	conv := seedConversation(t, convRepo, a, b)
	ctx := context.Background()

	add := NewAddParticipantUseCase(convRepo)
	remove := NewRemoveParticipantUseCase(convRepo)

	// Only a participant may add.
	_, err := add.Execute(ctx, AddParticipantInput{ConversationID: conv.ID, UserID: c, AddedByID: uuid.New()})
	require.ErrorIs(t, err, messaging.ErrNotParticipant)

	got, err := add.Execute(ctx, AddParticipantInput{ConversationID: conv.ID, UserID: c, AddedByID: a})
	require.NoError(t, err)
	require.True(t, got.HasParticipant(c))

	// Self-removal is always allowed.
	got, err = remove.Execute(ctx, RemoveParticipantInput{ConversationID: conv.ID, UserID: c, RemovedByID: c})
	require.NoError(t, err)
	require.False(t, got.HasParticipant(c))

	// Dropping below two participants is rejected.
	_, err = remove.Execute(ctx, RemoveParticipantInput{ConversationID: conv.ID, UserID: b, RemovedByID: a})
	require.ErrorIs(t, err, messaging.ErrMinParticipants)
}

func TestAttachmentUseCases(t *testing.T) {
	attRepo := adapter.NewMemAttachmentRepository()
	msgRepo := adapter.NewMemMessageRepository()
	uploader := uuid.New()
	ctx := context.Background()

	register := NewRegisterAttachmentUseCase(attRepo)
	associate := NewAssociateAttachmentUseCase(attRepo, msgRepo)

	att, err := register.Execute(ctx, RegisterAttachmentInput{
		UploaderID:  uploader,
		FileURL:     "https://files.example.com/report.pdf",
		FileSize:    2048,
		ContentType: "application/pdf",
	})
	require.NoError(t, err)
	require.Nil(t, att.MessageID)

	msg, err := messaging.NewMessage(uuid.New(), uploader, "see attached", messaging.ContentTypeFile, nil)
	require.NoError(t, err)
	require.NoError(t, msgRepo.Create(ctx, msg))

	// Only the uploader may associate.
	_, err = associate.Execute(ctx, AssociateAttachmentInput{AttachmentID: att.ID, MessageID: msg.ID, RequestedBy: uuid.New()})
	require.ErrorIs(t, err, messaging.ErrNotParticipant)

	linked, err := associate.Execute(ctx, AssociateAttachmentInput{AttachmentID: att.ID, MessageID: msg.ID, RequestedBy: uploader})
	require.NoError(t, err)
	require.NotNil(t, linked.MessageID)
	require.Equal(t, msg.ID, *linked.MessageID)

	// An attachment is owned by at most one message.
	_, err = associate.Execute(ctx, AssociateAttachmentInput{AttachmentID: att.ID, MessageID: uuid.New(), RequestedBy: uploader})
	require.ErrorIs(t, err, messaging.ErrAlreadyAssociated)
}
