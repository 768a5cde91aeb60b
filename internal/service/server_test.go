package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/mmynk/gamemate/internal/api"
	"github.com/mmynk/gamemate/internal/auth"
	"github.com/mmynk/gamemate/internal/lifecycle"
	"github.com/mmynk/gamemate/internal/middleware"
	"github.com/mmynk/gamemate/internal/storage"
	"github.com/mmynk/gamemate/internal/storage/sqlite"
)

var testNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

type testServer struct {
	store storage.DocumentStore
	auth  *api.AuthServiceClient
	group *api.GroupServiceClient
	event *api.EventServiceClient
	chat  *api.ChatServiceClient
}

// newTestServer wires every service the way cmd/server does, against a temp
// database, with the lifecycle clock fixed at testNow.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := storage.NewUserDirectory(store)
	jwtManager := auth.NewJWTManager("test-secret-0123456789", time.Hour)
	events := lifecycle.NewService(lifecycle.Options{
		Store:  store,
		Users:  users,
		Auth:   lifecycle.AuthContextFunc(middleware.GetUserID),
		Clock:  func() time.Time { return testNow },
		Logger: logger,
	})

	public := connect.WithInterceptors(middleware.OptionalAuth(jwtManager), middleware.LoggingInterceptor(logger))
	private := connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor(logger))

	mux := http.NewServeMux()
	mux.Handle(api.NewAuthServiceHandler(NewAuthService(auth.NewPasswordAuthenticator(users), jwtManager, users, logger), public))
	mux.Handle(api.NewGroupServiceHandler(NewGroupService(store, users, events), private))
	mux.Handle(api.NewEventServiceHandler(NewEventService(events), private))
	mux.Handle(api.NewChatServiceHandler(NewChatService(store, users), private))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testServer{
		store: store,
		auth:  api.NewAuthServiceClient(http.DefaultClient, server.URL),
		group: api.NewGroupServiceClient(http.DefaultClient, server.URL),
		event: api.NewEventServiceClient(http.DefaultClient, server.URL),
		chat:  api.NewChatServiceClient(http.DefaultClient, server.URL),
	}
}

// session is a registered user and their bearer token.
type session struct {
	user  *api.User
	token string
}

func (ts *testServer) register(t *testing.T, email, name string) session {
	t.Helper()
	resp, err := ts.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: name,
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", email, err)
	}
	return session{user: resp.Msg.User, token: resp.Msg.Token}
}

func withToken[T any](s session, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+s.token)
	return req
}

func (ts *testServer) createGroup(t *testing.T, owner session, name string, others ...session) *api.Group {
	t.Helper()
	ids := make([]string, len(others))
	for i, o := range others {
		ids[i] = o.user.Id
	}
	resp, err := ts.group.CreateGroup(context.Background(), withToken(owner, &api.CreateGroupRequest{
		Name:      name,
		MemberIds: ids,
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("code = %s, want %s (%v)", got, want, err)
	}
}

func assertKind(t *testing.T, err error, want lifecycle.Kind) {
	t.Helper()
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect error, got %v", err)
	}
	if got := connectErr.Meta().Get(ErrorKindHeader); got != string(want) {
		t.Errorf("%s = %q, want %q", ErrorKindHeader, got, want)
	}
}
