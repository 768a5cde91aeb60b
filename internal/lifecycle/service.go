// Package lifecycle implements the event lifecycle of a group: host
// rotation, the Scheduled to Completed transition, proposal voting and
// post-event ratings.
//
// The pure functions (EligibleHosts, RecordHost, Vote, ApplyRating,
// AverageOf, ...) hold the rules. Service wires them to a
// storage.DocumentStore and keeps an in-memory view of loaded events.
//
// Known hazards:
//   - PlanEvent writes the event and then the group's rotation record. The
//     two writes are not atomic; a failure in between leaves usedHosts
//     stale but the event intact.
//   - Read-modify-write paths go through UpdateIfVersion and are retried on
//     conflict, so concurrent voters in different processes do not lose
//     each other's votes.
package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mmynk/gamemate/internal/metrics"
	"github.com/mmynk/gamemate/internal/models"
	"github.com/mmynk/gamemate/internal/storage"
)

// maxWriteAttempts bounds the retries of a conditional write.
const maxWriteAttempts = 5

// UserLookup resolves user ids to profiles.
// GetUser returns nil and no error for unknown users.
type UserLookup interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// AuthContext supplies the identity of the calling user.
// CurrentUserID returns "" when nobody is logged in.
type AuthContext interface {
	CurrentUserID(ctx context.Context) string
}

// AuthContextFunc adapts a function to AuthContext.
type AuthContextFunc func(ctx context.Context) string

// CurrentUserID calls f.
func (f AuthContextFunc) CurrentUserID(ctx context.Context) string { return f(ctx) }

// EventView is an event with its host's display name resolved.
type EventView struct {
	models.Event
	HostName string
}

// Options configures a Service.
type Options struct {
	Store storage.DocumentStore
	Users UserLookup
	Auth  AuthContext

	// Clock defaults to time.Now.
	Clock func() time.Time

	// Location interprets event dates and times. Defaults to UTC.
	Location *time.Location

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Metrics may be nil.
	Metrics *metrics.Metrics
}

// Service is the event lifecycle service.
type Service struct {
	store   storage.DocumentStore
	users   UserLookup
	auth    AuthContext
	now     func() time.Time
	loc     *time.Location
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	locks   *keyedMutex

	mu    sync.RWMutex
	cache map[string][]EventView
}

// NewService creates a Service from opts.
func NewService(opts Options) *Service {
	s := &Service{
		store:   opts.Store,
		users:   opts.Users,
		auth:    opts.Auth,
		now:     opts.Clock,
		loc:     opts.Location,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		tracer:  otel.Tracer("github.com/mmynk/gamemate/internal/lifecycle"),
		locks:   newKeyedMutex(),
		cache:   make(map[string][]EventView),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.auth == nil {
		s.auth = AuthContextFunc(func(context.Context) string { return "" })
	}
	return s
}

// Now reads the service clock.
func (s *Service) Now() time.Time { return s.now() }

// CachedEvents returns the events last loaded or modified for groupID.
func (s *Service) CachedEvents(groupID string) []EventView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]EventView(nil), s.cache[groupID]...)
}

// ForgetGroup drops the in-memory view of groupID, for example after the
// group was deleted.
func (s *Service) ForgetGroup(groupID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, groupID)
}

func (s *Service) replaceCachedGroup(groupID string, views []EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[groupID] = append([]EventView(nil), views...)
}

func (s *Service) cacheEvent(view EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.cache[view.GroupID]
	for i := range list {
		if list[i].ID == view.ID {
			list[i] = view
			return
		}
	}
	s.cache[view.GroupID] = append(list, view)
}

func (s *Service) dropCachedEvent(groupID, eventID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.cache[groupID]
	for i := range list {
		if list[i].ID == eventID {
			s.cache[groupID] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "lifecycle."+name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(KindOf(err)))
	}
	span.End()
}

func (s *Service) loadGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, _, err := s.loadGroupVersion(ctx, groupID)
	return group, err
}

// loadGroupVersion also returns the stored version for a conditional write.
func (s *Service) loadGroupVersion(ctx context.Context, groupID string) (*models.Group, int64, error) {
	doc, err := s.store.Get(ctx, storage.GroupPath(groupID))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, 0, notFound("group", groupID)
	}
	if err != nil {
		return nil, 0, storeFailure("get group", err)
	}
	group := &models.Group{}
	if err := doc.Decode(group); err != nil {
		return nil, 0, storeFailure("decode group", err)
	}
	group.ID = doc.ID
	return group, doc.Version, nil
}

// recordRotation adds hostID to the group's rotation record. The record is
// recomputed from a fresh read on every attempt, so concurrent plans and
// membership changes are not overwritten.
func (s *Service) recordRotation(ctx context.Context, groupID, hostID string) ([]string, error) {
	path := storage.GroupPath(groupID)
	unlock := s.locks.Lock(path)
	defer unlock()

	for attempt := 1; ; attempt++ {
		group, version, err := s.loadGroupVersion(ctx, groupID)
		if err != nil {
			return nil, err
		}
		usedHosts := RecordHost(group.UsedHosts, group.MemberIDs, hostID)

		err = s.store.UpdateIfVersion(ctx, path, version, map[string]any{"usedHosts": usedHosts})
		switch {
		case err == nil:
			return usedHosts, nil
		case errors.Is(err, storage.ErrVersionConflict) && attempt < maxWriteAttempts:
			s.metrics.VersionConflict()
			s.logger.Debug("Group changed concurrently, retrying", "group_id", groupID, "attempt", attempt)
		case errors.Is(err, storage.ErrNotFound):
			return nil, notFound("group", groupID)
		default:
			return nil, storeFailure("update host rotation", err)
		}
	}
}

func decodeEvent(doc *storage.Document) (*models.Event, error) {
	ev := &models.Event{}
	if err := doc.Decode(ev); err != nil {
		return nil, err
	}
	ev.ID = doc.ID
	ev.Normalize()
	return ev, nil
}

// displayName resolves a user id to a name, falling back to the id itself.
func (s *Service) displayName(ctx context.Context, userID string) string {
	if s.users == nil || userID == "" {
		return userID
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to resolve user name", "user_id", userID, "error", err)
		return userID
	}
	if user == nil || user.Name == "" {
		return userID
	}
	return user.Name
}

func (s *Service) view(ctx context.Context, ev *models.Event) EventView {
	return EventView{Event: *ev, HostName: s.displayName(ctx, ev.Host)}
}

// mutateEvent applies fn to the current event and writes the returned fields
// conditionally on the version that was read. fn returning nil fields means
// nothing to write. On a version conflict the event is re-read and fn runs
// again, so its validations see the latest state.
func (s *Service) mutateEvent(ctx context.Context, groupID, eventID string, fn func(*models.Event) (map[string]any, error)) (*models.Event, error) {
	path := storage.EventPath(groupID, eventID)
	unlock := s.locks.Lock(path)
	defer unlock()

	for attempt := 1; ; attempt++ {
		doc, err := s.store.Get(ctx, path)
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

		fields, err := fn(ev)
		if err != nil {
			return nil, err
		}
		if fields == nil {
			return ev, nil
		}

		err = s.store.UpdateIfVersion(ctx, path, doc.Version, fields)
		switch {
		case err == nil:
			return ev, nil
		case errors.Is(err, storage.ErrVersionConflict) && attempt < maxWriteAttempts:
			s.metrics.VersionConflict()
			s.logger.Debug("Event changed concurrently, retrying",
				"group_id", groupID, "event_id", eventID, "attempt", attempt)
		case errors.Is(err, storage.ErrNotFound):
			return nil, notFound("event", eventID)
		default:
			return nil, storeFailure("update event", err)
		}
	}
}
