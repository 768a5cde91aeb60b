package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/mmynk/gamemate/internal/api"
	"github.com/mmynk/gamemate/internal/auth"
	"github.com/mmynk/gamemate/internal/middleware"
	"github.com/mmynk/gamemate/internal/models"
	"github.com/mmynk/gamemate/internal/storage"
)

// watchBuffer is how many live messages a slow watcher may fall behind
// before new ones are dropped for it.
const watchBuffer = 64

// ChatService implements the Connect ChatService.
type ChatService struct {
	store storage.DocumentStore
	users *storage.UserDirectory
	now   func() time.Time
}

var _ api.ChatServiceHandler = (*ChatService)(nil)

// NewChatService creates a ChatService.
func NewChatService(store storage.DocumentStore, users *storage.UserDirectory) *ChatService {
	return &ChatService{store: store, users: users, now: time.Now}
}

func (s *ChatService) requireGroup(ctx context.Context, groupID string) error {
	if groupID == "" {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group_id required"))
	}
	_, err := s.store.Get(ctx, storage.GroupPath(groupID))
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, fmt.Errorf("group %s not found", groupID))
	}
	if err != nil {
		return connect.NewError(connect.CodeUnavailable, err)
	}
	return nil
}

// SendMessage posts a message to a group's chat.
func (s *ChatService) SendMessage(ctx context.Context, req *connect.Request[api.SendMessageRequest]) (*connect.Response[api.SendMessageResponse], error) {
	userID := middleware.GetUserID(ctx)
	slog.Info("SendMessage request received", "group_id", req.Msg.GroupId, "user_id", userID)

	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	text := strings.TrimSpace(req.Msg.Text)
	if text == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("message text required"))
	}
	if err := s.requireGroup(ctx, req.Msg.GroupId); err != nil {
		return nil, err
	}

	msg := &models.Message{SenderID: userID, Text: text, Timestamp: s.now().UnixMilli()}
	id, err := s.store.Create(ctx, storage.ChatsCollection(req.Msg.GroupId), msg)
	if err != nil {
		slog.Error("SendMessage failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}
	msg.ID = id

	return connect.NewResponse(&api.SendMessageResponse{
		Message: toAPIMessage(ctx, s.users, req.Msg.GroupId, msg),
	}), nil
}

// ListMessages returns a group's chat, oldest first.
func (s *ChatService) ListMessages(ctx context.Context, req *connect.Request[api.ListMessagesRequest]) (*connect.Response[api.ListMessagesResponse], error) {
	slog.Info("ListMessages request received", "group_id", req.Msg.GroupId)

	if err := s.requireGroup(ctx, req.Msg.GroupId); err != nil {
		return nil, err
	}
	messages, err := s.history(ctx, req.Msg.GroupId)
	if err != nil {
		return nil, err
	}

	slog.Info("ListMessages successful", "group_id", req.Msg.GroupId, "count", len(messages))
	return connect.NewResponse(&api.ListMessagesResponse{Messages: messages}), nil
}

func (s *ChatService) history(ctx context.Context, groupID string) ([]*api.Message, error) {
	docs, err := s.store.Query(ctx, storage.ChatsCollection(groupID))
	if err != nil {
		slog.Error("Failed to list messages", "group_id", groupID, "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}

	messages := make([]*api.Message, 0, len(docs))
	for i := range docs {
		msg, err := decodeMessage(&docs[i])
		if err != nil {
			slog.Warn("Skipping undecodable message", "group_id", groupID, "message_id", docs[i].ID, "error", err)
			continue
		}
		messages = append(messages, toAPIMessage(ctx, s.users, groupID, msg))
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp < messages[j].Timestamp
	})
	return messages, nil
}

// WatchMessages streams the chat backlog followed by new messages until the
// client disconnects.
func (s *ChatService) WatchMessages(ctx context.Context, req *connect.Request[api.WatchMessagesRequest], stream *connect.ServerStream[api.WatchMessagesResponse]) error {
	groupID := req.Msg.GroupId
	slog.Info("WatchMessages request received", "group_id", groupID, "user_id", middleware.GetUserID(ctx))

	if err := s.requireGroup(ctx, groupID); err != nil {
		return err
	}

	// Subscribe before reading the backlog so nothing falls in between.
	live := make(chan *models.Message, watchBuffer)
	unsubscribe := s.store.Watch(storage.ChatsCollection(groupID), func(change storage.Change) {
		if change.Type != storage.ChangeCreated || change.Document == nil {
			return
		}
		msg, err := decodeMessage(change.Document)
		if err != nil {
			return
		}
		select {
		case live <- msg:
		default:
			slog.Warn("Chat watcher falling behind, dropping message", "group_id", groupID, "message_id", msg.ID)
		}
	})
	defer unsubscribe()

	backlog, err := s.history(ctx, groupID)
	if err != nil {
		return err
	}
	sent := make(map[string]bool, len(backlog))
	for _, msg := range backlog {
		if err := stream.Send(&api.WatchMessagesResponse{Message: msg}); err != nil {
			return err
		}
		sent[msg.Id] = true
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-live:
			if sent[msg.ID] {
				continue
			}
			sent[msg.ID] = true
			if err := stream.Send(&api.WatchMessagesResponse{
				Message: toAPIMessage(ctx, s.users, groupID, msg),
			}); err != nil {
				return err
			}
		}
	}
}

func decodeMessage(doc *storage.Document) (*models.Message, error) {
	msg := &models.Message{}
	if err := doc.Decode(msg); err != nil {
		return nil, err
	}
	msg.ID = doc.ID
	return msg, nil
}
