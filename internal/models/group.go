package models

// Group is a set of users who meet for recurring events.
type Group struct {
	// ID is the document id (UUID format). Not part of the stored data.
	ID string `json:"-"`

	// Name is the display name of the group (e.g., "Board Game Night").
	Name string `json:"name"`

	// MemberIDs is the set of user ids belonging to the group.
	// Order is irrelevant; ids are unique.
	MemberIDs []string `json:"memberIds"`

	// UsedHosts lists the members that already hosted in the current
	// rotation cycle, in hosting order. It is emptied once every member
	// has hosted.
	UsedHosts []string `json:"usedHosts"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`
}

// HasMember reports whether userID belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
