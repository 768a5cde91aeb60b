package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/mmynk/gamemate/internal/api"
	"github.com/mmynk/gamemate/internal/lifecycle"
)

// EventService exposes the event lifecycle over Connect.
type EventService struct {
	events *lifecycle.Service
}

var _ api.EventServiceHandler = (*EventService)(nil)

// NewEventService creates an EventService backed by events.
func NewEventService(events *lifecycle.Service) *EventService {
	return &EventService{events: events}
}

// ListEligibleHosts returns the members who may host the next event.
func (s *EventService) ListEligibleHosts(ctx context.Context, req *connect.Request[api.ListEligibleHostsRequest]) (*connect.Response[api.ListEligibleHostsResponse], error) {
	slog.Info("ListEligibleHosts request received", "group_id", req.Msg.GroupId)

	members, err := s.events.EligibleHosts(ctx, req.Msg.GroupId)
	if err != nil {
		return nil, lifecycleError(err)
	}

	hosts := make([]api.Member, len(members))
	for i, m := range members {
		hosts[i] = api.Member{Id: m.ID, Name: m.Name}
	}
	return connect.NewResponse(&api.ListEligibleHostsResponse{Hosts: hosts}), nil
}

// PlanEvent creates an event and advances the host rotation.
func (s *EventService) PlanEvent(ctx context.Context, req *connect.Request[api.PlanEventRequest]) (*connect.Response[api.PlanEventResponse], error) {
	slog.Info("PlanEvent request received",
		"group_id", req.Msg.GroupId,
		"host", req.Msg.HostId,
		"date", req.Msg.Date,
		"time", req.Msg.Time,
	)

	view, err := s.events.PlanEvent(ctx, lifecycle.PlanEventInput{
		GroupID: req.Msg.GroupId,
		HostID:  req.Msg.HostId,
		Date:    req.Msg.Date,
		Time:    req.Msg.Time,
		Games:   req.Msg.Games,
		Food:    req.Msg.Food,
	})
	if err != nil {
		if view != nil {
			slog.Error("PlanEvent partially applied", "group_id", req.Msg.GroupId, "event_id", view.ID, "error", err)
		}
		return nil, lifecycleError(err)
	}

	slog.Info("PlanEvent successful", "group_id", view.GroupID, "event_id", view.ID)
	return connect.NewResponse(&api.PlanEventResponse{Event: toAPIEvent(view)}), nil
}

// GetEvent returns one event.
func (s *EventService) GetEvent(ctx context.Context, req *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error) {
	view, err := s.events.GetEvent(ctx, req.Msg.GroupId, req.Msg.EventId)
	if err != nil {
		return nil, lifecycleError(err)
	}
	return connect.NewResponse(&api.GetEventResponse{Event: toAPIEvent(view)}), nil
}

// ListEvents completes due events, then lists the group's events.
func (s *EventService) ListEvents(ctx context.Context, req *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	slog.Info("ListEvents request received", "group_id", req.Msg.GroupId, "upcoming_only", req.Msg.UpcomingOnly)

	var (
		views []lifecycle.EventView
		err   error
	)
	if req.Msg.UpcomingOnly {
		views, err = s.events.UpcomingEvents(ctx, req.Msg.GroupId)
	} else {
		views, err = s.events.LoadGroupEvents(ctx, req.Msg.GroupId)
	}
	if err != nil {
		return nil, lifecycleError(err)
	}

	slog.Info("ListEvents successful", "group_id", req.Msg.GroupId, "count", len(views))
	return connect.NewResponse(&api.ListEventsResponse{Events: toAPIEvents(views)}), nil
}

// DeleteEvent removes an event.
func (s *EventService) DeleteEvent(ctx context.Context, req *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error) {
	slog.Info("DeleteEvent request received", "group_id", req.Msg.GroupId, "event_id", req.Msg.EventId)

	if err := s.events.RemoveEvent(ctx, req.Msg.GroupId, req.Msg.EventId); err != nil {
		return nil, lifecycleError(err)
	}
	return connect.NewResponse(&api.DeleteEventResponse{}), nil
}

// AddProposal suggests a game or a dish.
func (s *EventService) AddProposal(ctx context.Context, req *connect.Request[api.AddProposalRequest]) (*connect.Response[api.AddProposalResponse], error) {
	slog.Info("AddProposal request received",
		"group_id", req.Msg.GroupId,
		"event_id", req.Msg.EventId,
		"category", req.Msg.Category,
	)

	view, err := s.events.AddProposal(ctx, req.Msg.GroupId, req.Msg.EventId, lifecycle.Category(req.Msg.Category), req.Msg.Name)
	if err != nil {
		return nil, lifecycleError(err)
	}
	return connect.NewResponse(&api.AddProposalResponse{Event: toAPIEvent(view)}), nil
}

// Vote casts the caller's vote for a proposal.
func (s *EventService) Vote(ctx context.Context, req *connect.Request[api.VoteRequest]) (*connect.Response[api.VoteResponse], error) {
	view, err := s.events.Vote(ctx, req.Msg.GroupId, req.Msg.EventId, lifecycle.Category(req.Msg.Category), req.Msg.Index)
	if err != nil {
		return nil, lifecycleError(err)
	}
	return connect.NewResponse(&api.VoteResponse{Event: toAPIEvent(view)}), nil
}

// SubmitRating records the caller's scores for an event.
func (s *EventService) SubmitRating(ctx context.Context, req *connect.Request[api.SubmitRatingRequest]) (*connect.Response[api.SubmitRatingResponse], error) {
	view, err := s.events.SubmitRating(ctx, req.Msg.GroupId, req.Msg.EventId, lifecycle.Scores{
		Host:    req.Msg.Host,
		Food:    req.Msg.Food,
		Overall: req.Msg.Overall,
	})
	if err != nil {
		return nil, lifecycleError(err)
	}
	return connect.NewResponse(&api.SubmitRatingResponse{Event: toAPIEvent(view)}), nil
}

// GetRatingSummary returns an event's averages and whether the caller rated.
func (s *EventService) GetRatingSummary(ctx context.Context, req *connect.Request[api.GetRatingSummaryRequest]) (*connect.Response[api.GetRatingSummaryResponse], error) {
	summary, err := s.events.RatingSummary(ctx, req.Msg.GroupId, req.Msg.EventId)
	if err != nil {
		return nil, lifecycleError(err)
	}
	rated, err := s.events.HasRated(ctx, req.Msg.GroupId, req.Msg.EventId)
	if err != nil {
		return nil, lifecycleError(err)
	}
	return connect.NewResponse(&api.GetRatingSummaryResponse{
		Summary:  toAPISummary(summary),
		HasRated: rated,
	}), nil
}

// SweepEvents completes due events in one group, or in all groups.
func (s *EventService) SweepEvents(ctx context.Context, req *connect.Request[api.SweepEventsRequest]) (*connect.Response[api.SweepEventsResponse], error) {
	slog.Info("SweepEvents request received", "group_id", req.Msg.GroupId)

	var (
		result lifecycle.SweepResult
		err    error
	)
	if req.Msg.GroupId == "" {
		result, err = s.events.SweepAll(ctx, s.events.Now())
	} else {
		result, err = s.events.Sweep(ctx, req.Msg.GroupId, s.events.Now())
	}
	if err != nil {
		return nil, lifecycleError(err)
	}

	slog.Info("SweepEvents successful", "checked", result.Checked, "completed", result.Completed)
	return connect.NewResponse(&api.SweepEventsResponse{
		Checked:   result.Checked,
		Completed: result.Completed,
		Skipped:   result.Skipped,
		Failed:    result.Failed,
	}), nil
}
