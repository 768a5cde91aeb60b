package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/mmynk/gamemate/internal/api"
	"github.com/mmynk/gamemate/internal/auth"
	"github.com/mmynk/gamemate/internal/lifecycle"
	"github.com/mmynk/gamemate/internal/middleware"
	"github.com/mmynk/gamemate/internal/models"
	"github.com/mmynk/gamemate/internal/storage"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	store  storage.DocumentStore
	users  *storage.UserDirectory
	events *lifecycle.Service
}

var _ api.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a new GroupService with the given storage backend.
// events may be nil; when set, its cached view of deleted groups is dropped.
func NewGroupService(store storage.DocumentStore, users *storage.UserDirectory, events *lifecycle.Service) *GroupService {
	return &GroupService{store: store, users: users, events: events}
}

func (s *GroupService) loadGroup(ctx context.Context, groupID string) (*models.Group, int64, error) {
	if groupID == "" {
		return nil, 0, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group_id required"))
	}
	doc, err := s.store.Get(ctx, storage.GroupPath(groupID))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, 0, connect.NewError(connect.CodeNotFound, fmt.Errorf("group %s not found", groupID))
	}
	if err != nil {
		return nil, 0, connect.NewError(connect.CodeUnavailable, err)
	}
	group := &models.Group{}
	if err := doc.Decode(group); err != nil {
		return nil, 0, connect.NewError(connect.CodeInternal, err)
	}
	group.ID = doc.ID
	return group, doc.Version, nil
}

// CreateGroup creates a new group with the caller as its first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID := middleware.GetUserID(ctx)
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.MemberIds),
		"user_id", userID,
	)

	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("name required"))
	}

	members := []string{userID}
	seen := map[string]bool{userID: true}
	for _, id := range req.Msg.MemberIds {
		id = strings.TrimSpace(id)
		if id != "" && !seen[id] {
			members = append(members, id)
			seen[id] = true
		}
	}

	group := &models.Group{
		Name:      name,
		MemberIDs: members,
		UsedHosts: []string{},
		CreatedAt: time.Now().Unix(),
	}
	id, err := s.store.Create(ctx, storage.GroupsCollection, group)
	if err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}
	group.ID = id

	slog.Info("Group created", "group_id", group.ID)

	return connect.NewResponse(&api.CreateGroupResponse{
		Group: toAPIGroup(ctx, s.users, group),
	}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupId)

	group, _, err := s.loadGroup(ctx, req.Msg.GroupId)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, err
	}

	slog.Info("GetGroup successful", "group_id", group.ID, "name", group.Name)

	return connect.NewResponse(&api.GetGroupResponse{
		Group: toAPIGroup(ctx, s.users, group),
	}), nil
}

// ListGroups retrieves the groups the caller belongs to.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID := middleware.GetUserID(ctx)
	slog.Info("ListGroups request received", "user_id", userID)

	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	storeID, err := s.users.GetUserStoreID(ctx, userID)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}
	if storeID == "" {
		// No profile yet, so no memberships either.
		return connect.NewResponse(&api.ListGroupsResponse{Groups: []*api.Group{}}), nil
	}

	docs, err := s.store.Query(ctx, storage.GroupsCollection,
		storage.Where("memberIds", storage.OpArrayContains, storeID))
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}

	groups := make([]*api.Group, 0, len(docs))
	for _, doc := range docs {
		group := &models.Group{}
		if err := doc.Decode(group); err != nil {
			slog.Warn("Skipping undecodable group", "group_id", doc.ID, "error", err)
			continue
		}
		group.ID = doc.ID
		groups = append(groups, toAPIGroup(ctx, s.users, group))
	}

	slog.Info("ListGroups successful", "count", len(groups))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: groups}), nil
}

// AddMember adds a user to a group.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	slog.Info("AddMember request received", "group_id", req.Msg.GroupId, "member", req.Msg.UserId)

	userID := strings.TrimSpace(req.Msg.UserId)
	if userID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("user_id required"))
	}

	group, err := s.updateMembers(ctx, req.Msg.GroupId, func(group *models.Group) (map[string]any, error) {
		if group.HasMember(userID) {
			return nil, connect.NewError(connect.CodeAlreadyExists, fmt.Errorf("%s is already a member", userID))
		}
		group.MemberIDs = append(group.MemberIDs, userID)
		return map[string]any{"memberIds": group.MemberIDs}, nil
	})
	if err != nil {
		slog.Error("AddMember failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, err
	}

	slog.Info("Member added", "group_id", group.ID, "member", userID)

	return connect.NewResponse(&api.AddMemberResponse{Group: toAPIGroup(ctx, s.users, group)}), nil
}

// RemoveMember removes a user from a group and from its rotation record.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	slog.Info("RemoveMember request received", "group_id", req.Msg.GroupId, "member", req.Msg.UserId)

	userID := req.Msg.UserId
	group, err := s.updateMembers(ctx, req.Msg.GroupId, func(group *models.Group) (map[string]any, error) {
		if !group.HasMember(userID) {
			return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("%s is not a member", userID))
		}
		group.MemberIDs = without(group.MemberIDs, userID)
		group.UsedHosts = without(group.UsedHosts, userID)
		return map[string]any{"memberIds": group.MemberIDs, "usedHosts": group.UsedHosts}, nil
	})
	if err != nil {
		slog.Error("RemoveMember failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, err
	}

	slog.Info("Member removed", "group_id", group.ID, "member", userID)

	return connect.NewResponse(&api.RemoveMemberResponse{Group: toAPIGroup(ctx, s.users, group)}), nil
}

// updateMembers applies fn to the stored group and writes the result only
// if nobody changed the group in between.
func (s *GroupService) updateMembers(ctx context.Context, groupID string, fn func(*models.Group) (map[string]any, error)) (*models.Group, error) {
	group, version, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	fields, err := fn(group)
	if err != nil {
		return nil, err
	}
	err = s.store.UpdateIfVersion(ctx, storage.GroupPath(group.ID), version, fields)
	if errors.Is(err, storage.ErrVersionConflict) {
		return nil, connect.NewError(connect.CodeAborted, fmt.Errorf("group %s changed concurrently, retry", group.ID))
	}
	if err != nil {
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}
	return group, nil
}

// DeleteGroup removes a group with its events and chat.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupId)

	if _, _, err := s.loadGroup(ctx, req.Msg.GroupId); err != nil {
		slog.Error("DeleteGroup failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, err
	}

	n, err := s.store.DeleteTree(ctx, storage.GroupPath(req.Msg.GroupId))
	if err != nil {
		slog.Error("DeleteGroup failed", "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}
	if s.events != nil {
		s.events.ForgetGroup(req.Msg.GroupId)
	}

	slog.Info("Group deleted", "group_id", req.Msg.GroupId, "documents", n)

	return connect.NewResponse(&api.DeleteGroupResponse{Deleted: n}), nil
}

func without(ids []string, drop string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
