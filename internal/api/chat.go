package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// ChatService procedures.
const (
	ChatServiceSendMessageProcedure   = "/" + ChatServiceName + "/SendMessage"
	ChatServiceListMessagesProcedure  = "/" + ChatServiceName + "/ListMessages"
	ChatServiceWatchMessagesProcedure = "/" + ChatServiceName + "/WatchMessages"
)

// ChatServiceHandler serves a group's chat.
type ChatServiceHandler interface {
	SendMessage(context.Context, *connect.Request[SendMessageRequest]) (*connect.Response[SendMessageResponse], error)
	ListMessages(context.Context, *connect.Request[ListMessagesRequest]) (*connect.Response[ListMessagesResponse], error)
	WatchMessages(context.Context, *connect.Request[WatchMessagesRequest], *connect.ServerStream[WatchMessagesResponse]) error
}

// NewChatServiceHandler returns the path prefix and handler for svc.
func NewChatServiceHandler(svc ChatServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	r := newRoutes(opts)
	unary(r, ChatServiceSendMessageProcedure, svc.SendMessage)
	unary(r, ChatServiceListMessagesProcedure, svc.ListMessages)
	serverStream(r, ChatServiceWatchMessagesProcedure, svc.WatchMessages)
	return "/" + ChatServiceName + "/", r.mux
}

// ChatServiceClient calls ChatService.
type ChatServiceClient struct {
	sendMessage   *connect.Client[SendMessageRequest, SendMessageResponse]
	listMessages  *connect.Client[ListMessagesRequest, ListMessagesResponse]
	watchMessages *connect.Client[WatchMessagesRequest, WatchMessagesResponse]
}

// NewChatServiceClient creates a client for the server at baseURL.
func NewChatServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ChatServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &ChatServiceClient{
		sendMessage:   newClient[SendMessageRequest, SendMessageResponse](httpClient, baseURL, ChatServiceSendMessageProcedure, opts),
		listMessages:  newClient[ListMessagesRequest, ListMessagesResponse](httpClient, baseURL, ChatServiceListMessagesProcedure, opts),
		watchMessages: newClient[WatchMessagesRequest, WatchMessagesResponse](httpClient, baseURL, ChatServiceWatchMessagesProcedure, opts),
	}
}

func (c *ChatServiceClient) SendMessage(ctx context.Context, req *connect.Request[SendMessageRequest]) (*connect.Response[SendMessageResponse], error) {
	return c.sendMessage.CallUnary(ctx, req)
}

func (c *ChatServiceClient) ListMessages(ctx context.Context, req *connect.Request[ListMessagesRequest]) (*connect.Response[ListMessagesResponse], error) {
	return c.listMessages.CallUnary(ctx, req)
}

// WatchMessages opens a stream of the group's messages: the backlog first,
// then new messages as they arrive.
func (c *ChatServiceClient) WatchMessages(ctx context.Context, req *connect.Request[WatchMessagesRequest]) (*connect.ServerStreamForClient[WatchMessagesResponse], error) {
	return c.watchMessages.CallServerStream(ctx, req)
}
