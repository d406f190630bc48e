package messaging

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	convID, senderID := uuid.New(), uuid.New()

	msg, err := NewMessage(convID, senderID, "  hello  ", "", nil)
	require.NoError(t, err)
	require.Equal(t, "hello", msg.Content)
	require.Equal(t, ContentTypeText, msg.ContentType)
	require.NotEqual(t, uuid.Nil, msg.ID)
	require.False(t, msg.SentAt.IsZero())
	require.Nil(t, msg.DeliveredAt)
	require.Nil(t, msg.ReadAt)
	require.NotNil(t, msg.Metadata)

	_, err = NewMessage(convID, senderID, "   ", ContentTypeText, nil)
	require.ErrorIs(t, err, ErrEmptyContent)

	_, err = NewMessage(convID, senderID, "hi", ContentType("video"), nil)
	require.ErrorIs(t, err, ErrUnknownContent)
}

func TestMessageOrdering(t *testing.T) {
	at := time.Now().UTC()

	earlier := Message{ID: uuid.New(), SentAt: at.Add(-time.Second)}
	later := Message{ID: uuid.New(), SentAt: at}
	require.True(t, earlier.Before(&later))
	require.False(t, later.Before(&earlier))

	// Same timestamp: the id breaks the tie, deterministically.
	a := Message{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), SentAt: at}
	b := Message{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), SentAt: at}
	require.True(t, a.Before(&b))
	require.False(t, b.Before(&a))
}

func TestCursorOf(t *testing.T) {
	msg := Message{ID: uuid.New(), SentAt: time.Now().UTC()}
	cur := CursorOf(msg)
	require.Equal(t, msg.ID, cur.ID)
	require.True(t, cur.SentAt.Equal(msg.SentAt))
}

func TestAttachmentAssociate(t *testing.T) {
	att, err := NewAttachment(uuid.New(), "https://files.example.com/a.png", 1024, "image/png")
	require.NoError(t, err)
	require.Nil(t, att.MessageID)

	msgID := uuid.New()
	require.NoError(t, att.Associate(msgID))
	require.NotNil(t, att.MessageID)
	require.Equal(t, msgID, *att.MessageID)

	require.ErrorIs(t, att.Associate(uuid.New()), ErrAlreadyAssociated)

	_, err = NewAttachment(uuid.New(), "   ", 0, "")
	require.ErrorIs(t, err, ErrEmptyFileURL)
}
