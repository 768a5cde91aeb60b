package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/gamemate/internal/api"
	"github.com/mmynk/gamemate/internal/lifecycle"
	"github.com/mmynk/gamemate/internal/models"
)

func toAPIUser(user *models.User) *api.User {
	return &api.User{
		Id:          user.ID,
		Email:       user.Email,
		DisplayName: user.Name,
		CreatedAt:   user.CreatedAt,
	}
}

func toAPIProposals(list []models.Proposal) []api.Proposal {
	ranked := lifecycle.RankProposals(list)
	out := make([]api.Proposal, len(ranked))
	for i, p := range ranked {
		out[i] = api.Proposal{
			Index:   p.Index,
			Name:    p.Name,
			Votes:   p.Votes,
			VotedBy: append([]string{}, p.VotedBy...),
		}
	}
	return out
}

func toAPISummary(s lifecycle.RatingSummary) api.RatingSummary {
	return api.RatingSummary{Raters: s.Raters, Host: s.Host, Food: s.Food, Overall: s.Overall}
}

func toAPIEvent(view *lifecycle.EventView) *api.Event {
	return &api.Event{
		Id:         view.ID,
		GroupId:    view.GroupID,
		HostId:     view.Host,
		HostName:   view.HostName,
		Date:       view.Date,
		Time:       view.Time,
		Games:      toAPIProposals(view.Games),
		Food:       toAPIProposals(view.Food),
		Completed:  view.Completed,
		Ratings:    toAPISummary(lifecycle.Summarize(&view.Event)),
		RatedUsers: append([]string{}, view.RatedUsers...),
		CreatedAt:  view.CreatedAt,
	}
}

func toAPIEvents(views []lifecycle.EventView) []*api.Event {
	out := make([]*api.Event, len(views))
	for i := range views {
		out[i] = toAPIEvent(&views[i])
	}
	return out
}

// displayName resolves a user id to a name, falling back to the id.
func displayName(ctx context.Context, users lifecycle.UserLookup, userID string) string {
	if users == nil {
		return userID
	}
	user, err := users.GetUser(ctx, userID)
	if err != nil {
		slog.Warn("Failed to resolve user name", "user_id", userID, "error", err)
		return userID
	}
	if user == nil || user.Name == "" {
		return userID
	}
	return user.Name
}

func toAPIGroup(ctx context.Context, users lifecycle.UserLookup, group *models.Group) *api.Group {
	members := make([]api.Member, len(group.MemberIDs))
	for i, id := range group.MemberIDs {
		members[i] = api.Member{Id: id, Name: displayName(ctx, users, id)}
	}
	return &api.Group{
		Id:        group.ID,
		Name:      group.Name,
		Members:   members,
		UsedHosts: append([]string{}, group.UsedHosts...),
		CreatedAt: group.CreatedAt,
	}
}

func toAPIMessage(ctx context.Context, users lifecycle.UserLookup, groupID string, msg *models.Message) *api.Message {
	return &api.Message{
		Id:         msg.ID,
		GroupId:    groupID,
		SenderId:   msg.SenderID,
		SenderName: displayName(ctx, users, msg.SenderID),
		Text:       msg.Text,
		Timestamp:  msg.Timestamp,
	}
}
