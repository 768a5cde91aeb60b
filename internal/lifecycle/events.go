package lifecycle

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mmynk/gamemate/internal/models"
	"github.com/mmynk/gamemate/internal/storage"
)

// PlanEventInput describes a new event.
type PlanEventInput struct {
	GroupID string
	HostID  string
	Date    string
	Time    string
	Games   []string
	Food    []string
}

// SweepResult counts what a sweep did.
type SweepResult struct {
	Checked   int
	Completed int
	Skipped   int
	Failed    int
}

func (r *SweepResult) add(other SweepResult) {
	r.Checked += other.Checked
	r.Completed += other.Completed
	r.Skipped += other.Skipped
	r.Failed += other.Failed
}

// EligibleHosts returns the members of groupID who may host the next event.
func (s *Service) EligibleHosts(ctx context.Context, groupID string) (_ []Member, err error) {
	ctx, span := s.startSpan(ctx, "EligibleHosts", attribute.String("group_id", groupID))
	defer func() { endSpan(span, err) }()

	group, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	members := make([]Member, len(group.MemberIDs))
	for i, id := range group.MemberIDs {
		members[i] = Member{ID: id, Name: s.displayName(ctx, id)}
	}
	return EligibleHosts(group.UsedHosts, members), nil
}

// PlanEvent creates an event hosted by a current group member and advances
// the group's host rotation.
//
// The event insert and the rotation update are separate writes. If the
// rotation update fails, the created event is returned together with an
// ErrStoreFailure error.
func (s *Service) PlanEvent(ctx context.Context, in PlanEventInput) (_ *EventView, err error) {
	ctx, span := s.startSpan(ctx, "PlanEvent", attribute.String("group_id", in.GroupID))
	defer func() { endSpan(span, err) }()

	group, err := s.loadGroup(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(in.HostID) {
		return nil, invalidInput("host %q is not a member of group %s", in.HostID, in.GroupID)
	}

	ev := models.Event{
		GroupID: in.GroupID,
		Host:    in.HostID,
		Date:    strings.TrimSpace(in.Date),
		Time:    strings.TrimSpace(in.Time),
	}
	for _, name := range in.Games {
		AddProposal(&ev, CategoryGames, name)
	}
	for _, name := range in.Food {
		AddProposal(&ev, CategoryFood, name)
	}

	view, err := s.AddEvent(ctx, ev)
	if err != nil {
		return nil, err
	}

	usedHosts, err := s.recordRotation(ctx, group.ID, in.HostID)
	if err != nil {
		s.logger.Error("Event created but host rotation not recorded",
			"group_id", group.ID, "event_id", view.ID, "host", in.HostID, "error", err)
		return view, err
	}

	s.logger.Info("Event planned",
		"group_id", group.ID,
		"event_id", view.ID,
		"host", in.HostID,
		"used_hosts", len(usedHosts),
	)
	return view, nil
}

// AddEvent stores ev as a new, not yet completed event. The host must be a
// member of the group. The stored host is the user id; the returned view
// carries the resolved display name. AddEvent does not advance the rotation.
func (s *Service) AddEvent(ctx context.Context, ev models.Event) (_ *EventView, err error) {
	ctx, span := s.startSpan(ctx, "AddEvent", attribute.String("group_id", ev.GroupID))
	defer func() { endSpan(span, err) }()

	if ev.GroupID == "" {
		return nil, invalidInput("group id required")
	}
	if ev.Host == "" {
		return nil, invalidInput("host required")
	}
	if _, err := ScheduledAt(ev.Date, ev.Time, s.loc); err != nil {
		return nil, invalidInput("date must be %s and time %s: %v", DateLayout, TimeLayout, err)
	}
	group, err := s.loadGroup(ctx, ev.GroupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(ev.Host) {
		return nil, invalidInput("host %q is not a member of group %s", ev.Host, ev.GroupID)
	}

	ev.ID = ""
	ev.Completed = false
	ev.HostRatings, ev.FoodRatings, ev.OverallRatings, ev.RatedUsers = nil, nil, nil, nil
	ev.CreatedAt = s.now().Unix()
	ev.Normalize()

	id, err := s.store.Create(ctx, storage.EventsCollection(ev.GroupID), &ev)
	if err != nil {
		return nil, storeFailure("create event", err)
	}
	ev.ID = id
	s.metrics.EventPlanned()

	view := s.view(ctx, &ev)
	s.cacheEvent(view)
	return &view, nil
}

// GetEvent loads one event.
func (s *Service) GetEvent(ctx context.Context, groupID, eventID string) (*EventView, error) {
	doc, err := s.store.Get(ctx, storage.EventPath(groupID, eventID))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFound("event", eventID)
	}
	if err != nil {
		return nil, storeFailure("get event", err)
	}
	ev, err := decodeEvent(doc)
	if err != nil {
		return nil, storeFailure("decode event", err)
	}
	view := s.view(ctx, ev)
	return &view, nil
}

// RemoveEvent deletes an event.
func (s *Service) RemoveEvent(ctx context.Context, groupID, eventID string) error {
	err := s.store.Delete(ctx, storage.EventPath(groupID, eventID))
	if errors.Is(err, storage.ErrNotFound) {
		return notFound("event", eventID)
	}
	if err != nil {
		return storeFailure("delete event", err)
	}
	s.dropCachedEvent(groupID, eventID)
	s.logger.Info("Event removed", "group_id", groupID, "event_id", eventID)
	return nil
}

// LoadGroupEvents sweeps the group's events, then returns all of them with
// host names resolved. The in-memory view of this group is replaced; other
// groups are left alone.
func (s *Service) LoadGroupEvents(ctx context.Context, groupID string) (_ []EventView, err error) {
	ctx, span := s.startSpan(ctx, "LoadGroupEvents", attribute.String("group_id", groupID))
	defer func() { endSpan(span, err) }()

	if _, err := s.loadGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if _, err := s.Sweep(ctx, groupID, s.now()); err != nil {
		return nil, err
	}

	docs, err := s.store.Query(ctx, storage.EventsCollection(groupID))
	if err != nil {
		return nil, storeFailure("list events", err)
	}

	views := make([]EventView, 0, len(docs))
	for i := range docs {
		ev, err := decodeEvent(&docs[i])
		if err != nil {
			s.logger.Warn("Skipping undecodable event", "group_id", groupID, "event_id", docs[i].ID, "error", err)
			continue
		}
		views = append(views, s.view(ctx, ev))
	}

	s.replaceCachedGroup(groupID, views)
	return views, nil
}

// UpcomingEvents returns the group's events that have not started yet,
// soonest first.
func (s *Service) UpcomingEvents(ctx context.Context, groupID string) ([]EventView, error) {
	views, err := s.LoadGroupEvents(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return Upcoming(views, s.now(), s.loc), nil
}

// Sweep marks every open event of groupID whose scheduled instant lies
// before now as completed. Events that cannot be evaluated or written are
// logged and counted; they do not stop the sweep.
func (s *Service) Sweep(ctx context.Context, groupID string, now time.Time) (_ SweepResult, err error) {
	ctx, span := s.startSpan(ctx, "Sweep", attribute.String("group_id", groupID))
	defer func() { endSpan(span, err) }()

	var result SweepResult
	docs, err := s.store.Query(ctx, storage.EventsCollection(groupID),
		storage.Where("completed", storage.OpEqual, false))
	if err != nil {
		return result, storeFailure("list open events", err)
	}

	for i := range docs {
		result.Checked++
		ev, err := decodeEvent(&docs[i])
		if err != nil {
			s.logger.Warn("Sweep skipped undecodable event", "group_id", groupID, "event_id", docs[i].ID, "error", err)
			s.metrics.SweepSkipped()
			result.Skipped++
			continue
		}
		due, err := IsDue(ev, now, s.loc)
		if err != nil {
			s.logger.Warn("Sweep skipped event with malformed schedule",
				"group_id", groupID, "event_id", ev.ID, "date", ev.Date, "time", ev.Time, "error", err)
			s.metrics.SweepSkipped()
			result.Skipped++
			continue
		}
		if !due {
			continue
		}

		updated, err := s.mutateEvent(ctx, groupID, ev.ID, func(current *models.Event) (map[string]any, error) {
			if current.Completed {
				return nil, nil
			}
			current.Completed = true
			return map[string]any{"completed": true}, nil
		})
		if err != nil {
			s.logger.Error("Sweep failed to complete event", "group_id", groupID, "event_id", ev.ID, "error", err)
			s.metrics.SweepSkipped()
			result.Failed++
			continue
		}

		result.Completed++
		s.metrics.EventCompleted()
		s.cacheEvent(s.view(ctx, updated))
		s.logger.Info("Event completed", "group_id", groupID, "event_id", ev.ID)
	}

	return result, nil
}

// SweepAll sweeps every group. A group whose events cannot be listed is
// logged and skipped.
func (s *Service) SweepAll(ctx context.Context, now time.Time) (SweepResult, error) {
	var total SweepResult
	docs, err := s.store.Query(ctx, storage.GroupsCollection)
	if err != nil {
		return total, storeFailure("list groups", err)
	}
	for _, doc := range docs {
		result, err := s.Sweep(ctx, doc.ID, now)
		if err != nil {
			s.logger.Error("Sweep failed for group", "group_id", doc.ID, "error", err)
			total.Failed++
			continue
		}
		total.add(result)
	}
	return total, nil
}
