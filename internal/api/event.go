package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// EventService procedures.
const (
	EventServiceListEligibleHostsProcedure = "/" + EventServiceName + "/ListEligibleHosts"
	EventServicePlanEventProcedure         = "/" + EventServiceName + "/PlanEvent"
	EventServiceGetEventProcedure          = "/" + EventServiceName + "/GetEvent"
	EventServiceListEventsProcedure        = "/" + EventServiceName + "/ListEvents"
	EventServiceDeleteEventProcedure       = "/" + EventServiceName + "/DeleteEvent"
	EventServiceAddProposalProcedure       = "/" + EventServiceName + "/AddProposal"
	EventServiceVoteProcedure              = "/" + EventServiceName + "/Vote"
	EventServiceSubmitRatingProcedure      = "/" + EventServiceName + "/SubmitRating"
	EventServiceGetRatingSummaryProcedure  = "/" + EventServiceName + "/GetRatingSummary"
	EventServiceSweepEventsProcedure       = "/" + EventServiceName + "/SweepEvents"
)

// EventServiceHandler serves the event lifecycle.
type EventServiceHandler interface {
	ListEligibleHosts(context.Context, *connect.Request[ListEligibleHostsRequest]) (*connect.Response[ListEligibleHostsResponse], error)
	PlanEvent(context.Context, *connect.Request[PlanEventRequest]) (*connect.Response[PlanEventResponse], error)
	GetEvent(context.Context, *connect.Request[GetEventRequest]) (*connect.Response[GetEventResponse], error)
	ListEvents(context.Context, *connect.Request[ListEventsRequest]) (*connect.Response[ListEventsResponse], error)
	DeleteEvent(context.Context, *connect.Request[DeleteEventRequest]) (*connect.Response[DeleteEventResponse], error)
	AddProposal(context.Context, *connect.Request[AddProposalRequest]) (*connect.Response[AddProposalResponse], error)
	Vote(context.Context, *connect.Request[VoteRequest]) (*connect.Response[VoteResponse], error)
	SubmitRating(context.Context, *connect.Request[SubmitRatingRequest]) (*connect.Response[SubmitRatingResponse], error)
	GetRatingSummary(context.Context, *connect.Request[GetRatingSummaryRequest]) (*connect.Response[GetRatingSummaryResponse], error)
	SweepEvents(context.Context, *connect.Request[SweepEventsRequest]) (*connect.Response[SweepEventsResponse], error)
}

// NewEventServiceHandler returns the path prefix and handler for svc.
func NewEventServiceHandler(svc EventServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	r := newRoutes(opts)
	unary(r, EventServiceListEligibleHostsProcedure, svc.ListEligibleHosts)
	unary(r, EventServicePlanEventProcedure, svc.PlanEvent)
	unary(r, EventServiceGetEventProcedure, svc.GetEvent)
	unary(r, EventServiceListEventsProcedure, svc.ListEvents)
	unary(r, EventServiceDeleteEventProcedure, svc.DeleteEvent)
	unary(r, EventServiceAddProposalProcedure, svc.AddProposal)
	unary(r, EventServiceVoteProcedure, svc.Vote)
	unary(r, EventServiceSubmitRatingProcedure, svc.SubmitRating)
	unary(r, EventServiceGetRatingSummaryProcedure, svc.GetRatingSummary)
	unary(r, EventServiceSweepEventsProcedure, svc.SweepEvents)
	return "/" + EventServiceName + "/", r.mux
}

// EventServiceClient calls EventService.
type EventServiceClient struct {
	listEligibleHosts *connect.Client[ListEligibleHostsRequest, ListEligibleHostsResponse]
	planEvent         *connect.Client[PlanEventRequest, PlanEventResponse]
	getEvent          *connect.Client[GetEventRequest, GetEventResponse]
	listEvents        *connect.Client[ListEventsRequest, ListEventsResponse]
	deleteEvent       *connect.Client[DeleteEventRequest, DeleteEventResponse]
	addProposal       *connect.Client[AddProposalRequest, AddProposalResponse]
	vote              *connect.Client[VoteRequest, VoteResponse]
	submitRating      *connect.Client[SubmitRatingRequest, SubmitRatingResponse]
	getRatingSummary  *connect.Client[GetRatingSummaryRequest, GetRatingSummaryResponse]
	sweepEvents       *connect.Client[SweepEventsRequest, SweepEventsResponse]
}

// NewEventServiceClient creates a client for the server at baseURL.
func NewEventServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *EventServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &EventServiceClient{
		listEligibleHosts: newClient[ListEligibleHostsRequest, ListEligibleHostsResponse](httpClient, baseURL, EventServiceListEligibleHostsProcedure, opts),
		planEvent:         newClient[PlanEventRequest, PlanEventResponse](httpClient, baseURL, EventServicePlanEventProcedure, opts),
		getEvent:          newClient[GetEventRequest, GetEventResponse](httpClient, baseURL, EventServiceGetEventProcedure, opts),
		listEvents:        newClient[ListEventsRequest, ListEventsResponse](httpClient, baseURL, EventServiceListEventsProcedure, opts),
		deleteEvent:       newClient[DeleteEventRequest, DeleteEventResponse](httpClient, baseURL, EventServiceDeleteEventProcedure, opts),
		addProposal:       newClient[AddProposalRequest, AddProposalResponse](httpClient, baseURL, EventServiceAddProposalProcedure, opts),
		vote:              newClient[VoteRequest, VoteResponse](httpClient, baseURL, EventServiceVoteProcedure, opts),
		submitRating:      newClient[SubmitRatingRequest, SubmitRatingResponse](httpClient, baseURL, EventServiceSubmitRatingProcedure, opts),
		getRatingSummary:  newClient[GetRatingSummaryRequest, GetRatingSummaryResponse](httpClient, baseURL, EventServiceGetRatingSummaryProcedure, opts),
		sweepEvents:       newClient[SweepEventsRequest, SweepEventsResponse](httpClient, baseURL, EventServiceSweepEventsProcedure, opts),
	}
}

func (c *EventServiceClient) ListEligibleHosts(ctx context.Context, req *connect.Request[ListEligibleHostsRequest]) (*connect.Response[ListEligibleHostsResponse], error) {
	return c.listEligibleHosts.CallUnary(ctx, req)
}

func (c *EventServiceClient) PlanEvent(ctx context.Context, req *connect.Request[PlanEventRequest]) (*connect.Response[PlanEventResponse], error) {
	return c.planEvent.CallUnary(ctx, req)
}

func (c *EventServiceClient) GetEvent(ctx context.Context, req *connect.Request[GetEventRequest]) (*connect.Response[GetEventResponse], error) {
	return c.getEvent.CallUnary(ctx, req)
}

func (c *EventServiceClient) ListEvents(ctx context.Context, req *connect.Request[ListEventsRequest]) (*connect.Response[ListEventsResponse], error) {
	return c.listEvents.CallUnary(ctx, req)
}

func (c *EventServiceClient) DeleteEvent(ctx context.Context, req *connect.Request[DeleteEventRequest]) (*connect.Response[DeleteEventResponse], error) {
	return c.deleteEvent.CallUnary(ctx, req)
}

func (c *EventServiceClient) AddProposal(ctx context.Context, req *connect.Request[AddProposalRequest]) (*connect.Response[AddProposalResponse], error) {
	return c.addProposal.CallUnary(ctx, req)
}

func (c *EventServiceClient) Vote(ctx context.Context, req *connect.Request[VoteRequest]) (*connect.Response[VoteResponse], error) {
	return c.vote.CallUnary(ctx, req)
}

func (c *EventServiceClient) SubmitRating(ctx context.Context, req *connect.Request[SubmitRatingRequest]) (*connect.Response[SubmitRatingResponse], error) {
	return c.submitRating.CallUnary(ctx, req)
}

func (c *EventServiceClient) GetRatingSummary(ctx context.Context, req *connect.Request[GetRatingSummaryRequest]) (*connect.Response[GetRatingSummaryResponse], error) {
	return c.getRatingSummary.CallUnary(ctx, req)
}

func (c *EventServiceClient) SweepEvents(ctx context.Context, req *connect.Request[SweepEventsRequest]) (*connect.Response[SweepEventsResponse], error) {
	return c.sweepEvents.CallUnary(ctx, req)
}
