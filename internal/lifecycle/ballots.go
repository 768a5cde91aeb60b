package lifecycle

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mmynk/gamemate/internal/metrics"
	"github.com/mmynk/gamemate/internal/models"
)

func outcome(err error) string {
	if err == nil {
		return metrics.OutcomeOK
	}
	return string(KindOf(err))
}

// AddProposal appends a proposal to the event's games or food. A blank name
// changes nothing and returns the current event.
func (s *Service) AddProposal(ctx context.Context, groupID, eventID string, c Category, name string) (_ *EventView, err error) {
	ctx, span := s.startSpan(ctx, "AddProposal",
		attribute.String("group_id", groupID),
		attribute.String("event_id", eventID),
		attribute.String("category", string(c)),
	)
	defer func() { endSpan(span, err) }()

	if _, err := ParseCategory(string(c)); err != nil {
		return nil, err
	}

	added := false
	ev, err := s.mutateEvent(ctx, groupID, eventID, func(ev *models.Event) (map[string]any, error) {
		added = AddProposal(ev, c, name)
		if !added {
			return nil, nil
		}
		return map[string]any{string(c): Proposals(ev, c)}, nil
	})
	if err != nil {
		return nil, err
	}
	if added {
		s.metrics.Proposal(string(c))
	}

	view := s.view(ctx, ev)
	s.cacheEvent(view)
	return &view, nil
}

// Vote casts the calling user's vote in category c for the proposal at
// index. Each user has one vote per category per event.
func (s *Service) Vote(ctx context.Context, groupID, eventID string, c Category, index int) (_ *EventView, err error) {
	ctx, span := s.startSpan(ctx, "Vote",
		attribute.String("group_id", groupID),
		attribute.String("event_id", eventID),
		attribute.String("category", string(c)),
		attribute.Int("index", index),
	)
	defer func() {
		s.metrics.Vote(string(c), outcome(err))
		endSpan(span, err)
	}()

	userID := s.auth.CurrentUserID(ctx)
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if _, err := ParseCategory(string(c)); err != nil {
		return nil, err
	}

	ev, err := s.mutateEvent(ctx, groupID, eventID, func(ev *models.Event) (map[string]any, error) {
		if err := Vote(ev, c, index, userID); err != nil {
			return nil, err
		}
		return map[string]any{string(c): Proposals(ev, c)}, nil
	})
	if err != nil {
		s.logger.Info("Vote rejected",
			"group_id", groupID, "event_id", eventID, "category", c, "user_id", userID, "error", err)
		return nil, err
	}

	s.logger.Info("Vote recorded",
		"group_id", groupID, "event_id", eventID, "category", c, "index", index, "user_id", userID)

	view := s.view(ctx, ev)
	s.cacheEvent(view)
	return &view, nil
}

// HasRated reports whether the calling user already rated the event.
func (s *Service) HasRated(ctx context.Context, groupID, eventID string) (bool, error) {
	userID := s.auth.CurrentUserID(ctx)
	if userID == "" {
		return false, ErrNotAuthenticated
	}
	view, err := s.GetEvent(ctx, groupID, eventID)
	if err != nil {
		return false, err
	}
	return HasRated(&view.Event, userID), nil
}

// SubmitRating records the calling user's scores for the event. Each user
// rates an event at most once.
func (s *Service) SubmitRating(ctx context.Context, groupID, eventID string, scores Scores) (_ *EventView, err error) {
	ctx, span := s.startSpan(ctx, "SubmitRating",
		attribute.String("group_id", groupID),
		attribute.String("event_id", eventID),
	)
	defer func() {
		s.metrics.Rating(outcome(err))
		endSpan(span, err)
	}()

	userID := s.auth.CurrentUserID(ctx)
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if err := scores.Validate(); err != nil {
		return nil, err
	}

	ev, err := s.mutateEvent(ctx, groupID, eventID, func(ev *models.Event) (map[string]any, error) {
		if err := ApplyRating(ev, userID, scores); err != nil {
			return nil, err
		}
		return map[string]any{
			"hostRatings":    ev.HostRatings,
			"foodRatings":    ev.FoodRatings,
			"overallRatings": ev.OverallRatings,
			"ratedUsers":     ev.RatedUsers,
		}, nil
	})
	if err != nil {
		s.logger.Info("Rating rejected", "group_id", groupID, "event_id", eventID, "user_id", userID, "error", err)
		return nil, err
	}

	s.logger.Info("Rating recorded", "group_id", groupID, "event_id", eventID, "user_id", userID)

	view := s.view(ctx, ev)
	s.cacheEvent(view)
	return &view, nil
}

// RatingSummary returns the event's rating averages.
func (s *Service) RatingSummary(ctx context.Context, groupID, eventID string) (RatingSummary, error) {
	view, err := s.GetEvent(ctx, groupID, eventID)
	if err != nil {
		return RatingSummary{}, err
	}
	return Summarize(&view.Event), nil
}
