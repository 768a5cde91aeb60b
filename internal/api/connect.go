package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// Fully-qualified service names.
const (
	AuthServiceName  = "gamemate.v1.AuthService"
	GroupServiceName = "gamemate.v1.GroupService"
	EventServiceName = "gamemate.v1.EventService"
	ChatServiceName  = "gamemate.v1.ChatService"
)

// routes collects the handlers of one service.
type routes struct {
	mux  *http.ServeMux
	opts []connect.HandlerOption
}

func newRoutes(opts []connect.HandlerOption) *routes {
	return &routes{
		mux:  http.NewServeMux(),
		opts: append([]connect.HandlerOption{WithCodec()}, opts...),
	}
}

func unary[Req, Res any](r *routes, procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error)) {
	r.mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, r.opts...))
}

func serverStream[Req, Res any](r *routes, procedure string, fn func(context.Context, *connect.Request[Req], *connect.ServerStream[Res]) error) {
	r.mux.Handle(procedure, connect.NewServerStreamHandler(procedure, fn, r.opts...))
}

func newClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts []connect.ClientOption) *connect.Client[Req, Res] {
	opts = append([]connect.ClientOption{WithCodec()}, opts...)
	return connect.NewClient[Req, Res](httpClient, baseURL+procedure, opts...)
}
