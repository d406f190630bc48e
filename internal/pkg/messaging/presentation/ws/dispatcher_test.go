package ws

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDispatchUnknownType(t *testing.T) {
	env := newTestEnv(t)
	user := uuid.New()
	conv := env.seedConversation(t, user, uuid.New())
	sess, client := env.newJoinedSession(t, user, conv.ID)

	env.dispatcher.Dispatch(context.Background(), sess, []byte(`{"type":"bogus"}`))

	frame := readFrame(t, client, "error")
	var data errorData
	decodeData(t, frame, &data)
	require.Equal(t, "unknown message type: bogus", data.Message)

	// The session stays usable afterwards.
	require.Equal(t, StateJoined, sess.State())
	env.dispatcher.Dispatch(context.Background(), sess, []byte(`{"type":"typing","is_typing":true}`))
	readFrame(t, client, EventTypingIndicator)
}

func TestDispatchMalformedJSON(t *testing.T) {
	env := newTestEnv(t)
	user := uuid.New()
	conv := env.seedConversation(t, user, uuid.New())
	sess, client := env.newJoinedSession(t, user, conv.ID)

	env.dispatcher.Dispatch(context.Background(), sess, []byte(`{not json`))

	frame := readFrame(t, client, "error")
	var data errorData
	decodeData(t, frame, &data)
	require.Equal(t, "invalid frame", data.Message)
	require.Equal(t, StateJoined, sess.State())
}

func TestDispatchMissingType(t *testing.T) {
	env := newTestEnv(t)
	user := uuid.New()
	conv := env.seedConversation(t, user, uuid.New())
	sess, client := env.newJoinedSession(t, user, conv.ID)

	env.dispatcher.Dispatch(context.Background(), sess, []byte(`{"content":"hi"}`))

	frame := readFrame(t, client, "error")
	var data errorData
	decodeData(t, frame, &data)
	require.Equal(t, "unknown message type: ", data.Message)
}
