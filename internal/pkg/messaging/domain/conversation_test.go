package messaging

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewConversationDirect(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	conv, err := NewConversation(ConversationTypeDirect, []uuid.UUID{a, b}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, ConversationTypeDirect, conv.Type)
	require.Len(t, conv.Participants, 2)
	require.NotEqual(t, uuid.Nil, conv.ID)
	require.False(t, conv.CreatedAt.IsZero())

	_, err = NewConversation(ConversationTypeDirect, []uuid.UUID{a}, nil, nil)
	require.ErrorIs(t, err, ErrDirectParticipants)

	_, err = NewConversation(ConversationTypeDirect, []uuid.UUID{a, b, uuid.New()}, nil, nil)
	require.ErrorIs(t, err, ErrDirectParticipants)

	// Duplicated ids collapse before validation.
	_, err = NewConversation(ConversationTypeDirect, []uuid.UUID{a, a}, nil, nil)
	require.ErrorIs(t, err, ErrDirectParticipants)
}

func TestNewConversationGroup(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	_, err := NewConversation(ConversationTypeGroup, []uuid.UUID{a}, nil, nil)
	require.ErrorIs(t, err, ErrMinParticipants)

	conv, err := NewConversation(ConversationTypeGroup, []uuid.UUID{a, b, c, b}, nil, nil)
	require.NoError(t, err)
	require.Len(t, conv.Participants, 3)

	_, err = NewConversation(ConversationType("broadcast"), []uuid.UUID{a, b}, nil, nil)
	require.ErrorIs(t, err, ErrInvalidConversation)
}

func TestConversationParticipants(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	direct, err := NewConversation(ConversationTypeDirect, []uuid.UUID{a, b}, nil, nil)
	require.NoError(t, err)
	require.ErrorIs(t, direct.AddParticipant(c), ErrDirectParticipants)
	require.ErrorIs(t, direct.RemoveParticipant(a), ErrDirectParticipants)

	group, err := NewConversation(ConversationTypeGroup, []uuid.UUID{a, b}, nil, nil)
	require.NoError(t, err)

	// Removal below two participants is rejected, set unchanged.
	require.ErrorIs(t, group.RemoveParticipant(a), ErrMinParticipants)
	require.Len(t, group.Participants, 2)

	require.NoError(t, group.AddParticipant(c))
	require.True(t, group.HasParticipant(c))
	require.NoError(t, group.AddParticipant(c)) // idempotent
	require.Len(t, group.Participants, 3)

	require.NoError(t, group.RemoveParticipant(c))
	require.False(t, group.HasParticipant(c))

	group2, err := NewConversation(ConversationTypeGroup, []uuid.UUID{a, b, c}, nil, nil)
	require.NoError(t, err)
	require.ErrorIs(t, group2.RemoveParticipant(uuid.New()), ErrNotParticipant)
}

func TestTouchLastMessageMonotonic(t *testing.T) {
	conv, err := NewConversation(ConversationTypeGroup, []uuid.UUID{uuid.New(), uuid.New()}, nil, nil)
	require.NoError(t, err)

	t1 := time.Now().UTC()
	t0 := t1.Add(-time.Minute)

	conv.TouchLastMessage(t1)
	require.NotNil(t, conv.LastMessageAt)
	require.True(t, conv.LastMessageAt.Equal(t1))

	conv.TouchLastMessage(t0)
	require.True(t, conv.LastMessageAt.Equal(t1), "watermark must not move backward")
}

func TestParticipantAdvanceLastRead(t *testing.T) {
	p := Participant{ConversationID: uuid.New(), UserID: uuid.New(), JoinedAt: time.Now().UTC()}

	t1 := time.Now().UTC()
	p.AdvanceLastRead(t1)
	require.NotNil(t, p.LastReadAt)
	require.True(t, p.LastReadAt.Equal(t1))

	p.AdvanceLastRead(t1.Add(-time.Second))
	require.True(t, p.LastReadAt.Equal(t1))
}
