package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	repository "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/port"
)

// TaskConversationInput identifies the task and the two parties discussing it.
type TaskConversationInput struct {
	TaskID      uuid.UUID
	RequesterID uuid.UUID
	PerformerID uuid.UUID
	TaskTitle   string
}

// TaskConversationUseCase gets or creates the conversation attached to a
// task. At most one conversation exists per task; the link lives in the
// conversation metadata under "task_id".
type TaskConversationUseCase struct {
	Create        *CreateConversationUseCase
	Conversations repository.ConversationRepository
}

func NewTaskConversationUseCase(create *CreateConversationUseCase, conversations repository.ConversationRepository) *TaskConversationUseCase {
	return &TaskConversationUseCase{Create: create, Conversations: conversations}
}

func (uc *TaskConversationUseCase) Execute(ctx context.Context, in TaskConversationInput) (messaging.Conversation, error) {
	existing, err := uc.Conversations.GetByTask(ctx, in.TaskID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return messaging.Conversation{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	title := "Task Discussion"
	if in.TaskTitle != "" {
		title = "Task: " + in.TaskTitle
	}

	return uc.Create.Execute(ctx, CreateConversationInput{
		Type:         messaging.ConversationTypeTask,
		Participants: []uuid.UUID{in.RequesterID, in.PerformerID},
		Title:        &title,
		Metadata: map[string]any{
			"task_id":      in.TaskID.String(),
			"requester_id": in.RequesterID.String(),
			"performer_id": in.PerformerID.String(),
		},
	})
}
