package api

// User is a registered account as seen by clients.
type User struct {
	Id          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   int64  `json:"createdAt"`
}

// Member is a group member with a resolved display name.
type Member struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

// Group is a set of members sharing events and a chat.
type Group struct {
	Id        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []Member `json:"members"`
	UsedHosts []string `json:"usedHosts"`
	CreatedAt int64    `json:"createdAt"`
}

// Proposal is a votable game or food suggestion. Index is its stored
// position, the value Vote expects; lists are sent most-voted first.
type Proposal struct {
	Index   int      `json:"index"`
	Name    string   `json:"name"`
	Votes   int      `json:"votes"`
	VotedBy []string `json:"votedBy"`
}

// RatingSummary holds an event's averaged ratings.
type RatingSummary struct {
	Raters  int     `json:"raters"`
	Host    float64 `json:"host"`
	Food    float64 `json:"food"`
	Overall float64 `json:"overall"`
}

// Event is a planned group meeting.
type Event struct {
	Id         string        `json:"id"`
	GroupId    string        `json:"groupId"`
	HostId     string        `json:"hostId"`
	HostName   string        `json:"hostName"`
	Date       string        `json:"date"`
	Time       string        `json:"time"`
	Games      []Proposal    `json:"games"`
	Food       []Proposal    `json:"food"`
	Completed  bool          `json:"completed"`
	Ratings    RatingSummary `json:"ratings"`
	RatedUsers []string      `json:"ratedUsers"`
	CreatedAt  int64         `json:"createdAt"`
}

// Message is a chat message.
type Message struct {
	Id         string `json:"id"`
	GroupId    string `json:"groupId"`
	SenderId   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"`
}

// AuthService

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// GroupService

type CreateGroupRequest struct {
	Name string `json:"name"`
	// MemberIds are added next to the caller, who always becomes a member.
	MemberIds []string `json:"memberIds"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupId string `json:"groupId"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type AddMemberRequest struct {
	GroupId string `json:"groupId"`
	UserId  string `json:"userId"`
}

type AddMemberResponse struct {
	Group *Group `json:"group"`
}

type RemoveMemberRequest struct {
	GroupId string `json:"groupId"`
	UserId  string `json:"userId"`
}

type RemoveMemberResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupId string `json:"groupId"`
}

type DeleteGroupResponse struct {
	// Deleted counts the removed documents, the group included.
	Deleted int `json:"deleted"`
}

// EventService

type ListEligibleHostsRequest struct {
	GroupId string `json:"groupId"`
}

type ListEligibleHostsResponse struct {
	Hosts []Member `json:"hosts"`
}

type PlanEventRequest struct {
	GroupId string   `json:"groupId"`
	HostId  string   `json:"hostId"`
	Date    string   `json:"date"`
	Time    string   `json:"time"`
	Games   []string `json:"games"`
	Food    []string `json:"food"`
}

type PlanEventResponse struct {
	Event *Event `json:"event"`
}

type GetEventRequest struct {
	GroupId string `json:"groupId"`
	EventId string `json:"eventId"`
}

type GetEventResponse struct {
	Event *Event `json:"event"`
}

type ListEventsRequest struct {
	GroupId string `json:"groupId"`
	// UpcomingOnly keeps events that have not started, soonest first.
	UpcomingOnly bool `json:"upcomingOnly"`
}

type ListEventsResponse struct {
	Events []*Event `json:"events"`
}

type DeleteEventRequest struct {
	GroupId string `json:"groupId"`
	EventId string `json:"eventId"`
}

type DeleteEventResponse struct{}

type AddProposalRequest struct {
	GroupId  string `json:"groupId"`
	EventId  string `json:"eventId"`
	Category string `json:"category"`
	Name     string `json:"name"`
}

type AddProposalResponse struct {
	Event *Event `json:"event"`
}

type VoteRequest struct {
	GroupId  string `json:"groupId"`
	EventId  string `json:"eventId"`
	Category string `json:"category"`
	Index    int    `json:"index"`
}

type VoteResponse struct {
	Event *Event `json:"event"`
}

type SubmitRatingRequest struct {
	GroupId string `json:"groupId"`
	EventId string `json:"eventId"`
	Host    int    `json:"host"`
	Food    int    `json:"food"`
	Overall int    `json:"overall"`
}

type SubmitRatingResponse struct {
	Event *Event `json:"event"`
}

type GetRatingSummaryRequest struct {
	GroupId string `json:"groupId"`
	EventId string `json:"eventId"`
}

type GetRatingSummaryResponse struct {
	Summary  RatingSummary `json:"summary"`
	HasRated bool          `json:"hasRated"`
}

type SweepEventsRequest struct {
	// GroupId limits the sweep to one group. Empty sweeps all groups.
	GroupId string `json:"groupId"`
}

type SweepEventsResponse struct {
	Checked   int `json:"checked"`
	Completed int `json:"completed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// ChatService

type SendMessageRequest struct {
	GroupId string `json:"groupId"`
	Text    string `json:"text"`
}

type SendMessageResponse struct {
	Message *Message `json:"message"`
}

type ListMessagesRequest struct {
	GroupId string `json:"groupId"`
}

type ListMessagesResponse struct {
	Messages []*Message `json:"messages"`
}

type WatchMessagesRequest struct {
	GroupId string `json:"groupId"`
}

type WatchMessagesResponse struct {
	Message *Message `json:"message"`
}
