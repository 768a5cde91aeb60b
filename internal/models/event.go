package models

// Event is a scheduled group meeting with its proposals and ratings.
type Event struct {
	// ID is the document id (UUID format). Not part of the stored data.
	ID string `json:"-"`

	// GroupID is the owning group.
	GroupID string `json:"groupId"`

	// Host is the user id of the hosting member.
	Host string `json:"host"`

	// Date is the calendar day in dd.MM.yyyy form.
	Date string `json:"date"`

	// Time is the 24-hour time of day in HH:mm form.
	Time string `json:"time"`

	// Games and Food are the proposals in insertion order.
	Games []Proposal `json:"games"`
	Food  []Proposal `json:"food"`

	// Completed flips to true once the scheduled instant has passed.
	// It never flips back.
	Completed bool `json:"completed"`

	// The rating arrays are parallel to RatedUsers: index i of each holds
	// the scores submitted by RatedUsers[i].
	HostRatings    []int    `json:"hostRatings"`
	FoodRatings    []int    `json:"foodRatings"`
	OverallRatings []int    `json:"overallRatings"`
	RatedUsers     []string `json:"ratedUsers"`

	// CreatedAt is the Unix timestamp when the event was planned.
	CreatedAt int64 `json:"createdAt"`
}

// Proposal is a votable game or food suggestion.
type Proposal struct {
	Name    string   `json:"name"`
	Votes   int      `json:"votes"`
	VotedBy []string `json:"votedBy"`
}

// Normalize replaces nil slices with empty ones so the stored JSON always
// carries arrays rather than nulls.
func (e *Event) Normalize() {
	if e.Games == nil {
		e.Games = []Proposal{}
	}
	if e.Food == nil {
		e.Food = []Proposal{}
	}
	for i := range e.Games {
		e.Games[i].normalize()
	}
	for i := range e.Food {
		e.Food[i].normalize()
	}
	if e.HostRatings == nil {
		e.HostRatings = []int{}
	}
	if e.FoodRatings == nil {
		e.FoodRatings = []int{}
	}
	if e.OverallRatings == nil {
		e.OverallRatings = []int{}
	}
	if e.RatedUsers == nil {
		e.RatedUsers = []string{}
	}
}

func (p *Proposal) normalize() {
	if p.VotedBy == nil {
		p.VotedBy = []string{}
	}
}
