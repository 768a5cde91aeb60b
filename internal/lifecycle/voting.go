package lifecycle

import (
	"sort"
	"strings"

	"github.com/mmynk/gamemate/internal/models"
)

// Category selects which proposal list of an event is addressed.
type Category string

const (
	CategoryGames Category = "games"
	CategoryFood  Category = "food"
)

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryGames, CategoryFood:
		return Category(s), nil
	default:
		return "", invalidInput("unknown category %q", s)
	}
}

// proposals returns a pointer to the event's list for c.
func proposals(event *models.Event, c Category) *[]models.Proposal {
	if c == CategoryFood {
		return &event.Food
	}
	return &event.Games
}

// Proposals returns the event's proposals in category c.
func Proposals(event *models.Event, c Category) []models.Proposal {
	return *proposals(event, c)
}

// AddProposal appends a new proposal named name to category c.
// Blank names are ignored and reported as false. Identical names are not
// merged: each call adds a new entry.
func AddProposal(event *models.Event, c Category, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	list := proposals(event, c)
	*list = append(*list, models.Proposal{Name: name, Votes: 0, VotedBy: []string{}})
	return true
}

// HasVoted reports whether userID voted on any of the proposals.
func HasVoted(list []models.Proposal, userID string) bool {
	for _, p := range list {
		for _, id := range p.VotedBy {
			if id == userID {
				return true
			}
		}
	}
	return false
}

// Vote records userID's single vote in category c for the proposal at index.
// The event is left untouched when an error is returned.
func Vote(event *models.Event, c Category, index int, userID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	list := proposals(event, c)
	if index < 0 || index >= len(*list) {
		return invalidInput("proposal index %d out of range [0,%d)", index, len(*list))
	}
	if HasVoted(*list, userID) {
		return ErrAlreadyVoted
	}

	p := &(*list)[index]
	p.VotedBy = append(p.VotedBy, userID)
	p.Votes = len(p.VotedBy)
	return nil
}

// RankedProposal is a proposal with its storage position.
type RankedProposal struct {
	Index int
	models.Proposal
}

// RankProposals orders proposals by votes, most first. Ties keep insertion
// order. Index refers back to the stored position, which Vote expects.
func RankProposals(list []models.Proposal) []RankedProposal {
	ranked := make([]RankedProposal, len(list))
	for i, p := range list {
		ranked[i] = RankedProposal{Index: i, Proposal: p}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Votes > ranked[j].Votes
	})
	return ranked
}
