package lifecycle

// Member is a group member with a resolved display name.
type Member struct {
	ID   string
	Name string
}

// EligibleHosts returns the members that have not hosted in the current
// rotation cycle. When everyone has hosted, all members are eligible again.
func EligibleHosts(usedHosts []string, members []Member) []Member {
	used := make(map[string]bool, len(usedHosts))
	for _, id := range usedHosts {
		used[id] = true
	}

	eligible := make([]Member, 0, len(members))
	for _, m := range members {
		if !used[m.ID] {
			eligible = append(eligible, m)
		}
	}
	if len(eligible) == 0 {
		return append([]Member(nil), members...)
	}
	return eligible
}

// RecordHost returns the rotation record after hostID hosted an event.
// Ids of users no longer in memberIDs are dropped first. Once every member
// has hosted, the record resets to empty.
func RecordHost(usedHosts, memberIDs []string, hostID string) []string {
	members := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		members[id] = true
	}

	next := make([]string, 0, len(usedHosts)+1)
	seen := make(map[string]bool, len(usedHosts)+1)
	for _, id := range usedHosts {
		if members[id] && !seen[id] {
			next = append(next, id)
			seen[id] = true
		}
	}
	if !seen[hostID] {
		next = append(next, hostID)
	}

	if len(next) >= len(memberIDs) {
		return []string{}
	}
	return next
}
