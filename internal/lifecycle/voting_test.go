package lifecycle

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mmynk/gamemate/internal/models"
)

func newEvent() *models.Event {
	ev := &models.Event{GroupID: "g1", Host: "A", Date: "20.10.2026", Time: "19:00"}
	ev.Normalize()
	return ev
}

func assertProposalInvariants(t *testing.T, list []models.Proposal) {
	t.Helper()
	for i, p := range list {
		if p.Votes != len(p.VotedBy) {
			t.Errorf("proposal %d: votes %d != len(votedBy) %d", i, p.Votes, len(p.VotedBy))
		}
		seen := map[string]bool{}
		for _, id := range p.VotedBy {
			if seen[id] {
				t.Errorf("proposal %d: duplicate voter %s", i, id)
			}
			seen[id] = true
		}
	}
}

func TestVoting_Scenario(t *testing.T) {
	ev := newEvent()

	if !AddProposal(ev, CategoryGames, "Chess") {
		t.Fatal("AddProposal returned false")
	}
	want := models.Proposal{Name: "Chess", Votes: 0, VotedBy: []string{}}
	if !reflect.DeepEqual(ev.Games, []models.Proposal{want}) {
		t.Fatalf("games = %+v", ev.Games)
	}

	if err := Vote(ev, CategoryGames, 0, "u1"); err != nil {
		t.Fatalf("Vote failed: %v", err)
	}
	want = models.Proposal{Name: "Chess", Votes: 1, VotedBy: []string{"u1"}}
	if !reflect.DeepEqual(ev.Games[0], want) {
		t.Fatalf("after vote = %+v", ev.Games[0])
	}

	err := Vote(ev, CategoryGames, 0, "u1")
	if !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("second vote: got %v, want ErrAlreadyVoted", err)
	}
	if !reflect.DeepEqual(ev.Games[0], want) {
		t.Errorf("state changed after rejected vote: %+v", ev.Games[0])
	}
}

func TestVote_OneVotePerCategory(t *testing.T) {
	ev := newEvent()
	AddProposal(ev, CategoryGames, "Chess")
	AddProposal(ev, CategoryGames, "Catan")
	AddProposal(ev, CategoryFood, "Pizza")

	if err := Vote(ev, CategoryGames, 0, "u1"); err != nil {
		t.Fatalf("Vote failed: %v", err)
	}
	if err := Vote(ev, CategoryGames, 1, "u1"); !errors.Is(err, ErrAlreadyVoted) {
		t.Errorf("vote on other game: got %v, want ErrAlreadyVoted", err)
	}
	if err := Vote(ev, CategoryFood, 0, "u1"); err != nil {
		t.Errorf("vote in other category should succeed: %v", err)
	}
	if err := Vote(ev, CategoryGames, 1, "u2"); err != nil {
		t.Errorf("other user should be able to vote: %v", err)
	}

	assertProposalInvariants(t, ev.Games)
	assertProposalInvariants(t, ev.Food)

	voters := 0
	for _, p := range ev.Games {
		for _, id := range p.VotedBy {
			if id == "u1" {
				voters++
			}
		}
	}
	if voters != 1 {
		t.Errorf("u1 appears %d times in games, want 1", voters)
	}
}

func TestVote_Errors(t *testing.T) {
	ev := newEvent()
	AddProposal(ev, CategoryFood, "Tacos")

	tests := []struct {
		name    string
		index   int
		userID  string
		wantErr error
	}{
		{"missing user", 0, "", ErrNotAuthenticated},
		{"negative index", -1, "u1", ErrInvalidInput},
		{"index past end", 1, "u1", ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Vote(ev, CategoryFood, tt.index, tt.userID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
			if ev.Food[0].Votes != 0 {
				t.Errorf("state changed: %+v", ev.Food[0])
			}
		})
	}
}

func TestAddProposal(t *testing.T) {
	ev := newEvent()

	for _, blank := range []string{"", "   ", "\t\n"} {
		if AddProposal(ev, CategoryGames, blank) {
			t.Errorf("blank name %q should be ignored", blank)
		}
	}
	if len(ev.Games) != 0 {
		t.Fatalf("games = %v, want empty", ev.Games)
	}

	AddProposal(ev, CategoryGames, "  Uno ")
	AddProposal(ev, CategoryGames, "Uno")
	if len(ev.Games) != 2 {
		t.Fatalf("duplicate names should create two entries, got %d", len(ev.Games))
	}
	if ev.Games[0].Name != "Uno" {
		t.Errorf("name should be trimmed, got %q", ev.Games[0].Name)
	}
	if len(ev.Food) != 0 {
		t.Errorf("food should be untouched, got %v", ev.Food)
	}
}

func TestParseCategory(t *testing.T) {
	for _, ok := range []string{"games", "food"} {
		if _, err := ParseCategory(ok); err != nil {
			t.Errorf("ParseCategory(%q) failed: %v", ok, err)
		}
	}
	if _, err := ParseCategory("drinks"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ParseCategory(drinks) = %v, want ErrInvalidInput", err)
	}
}

func TestRankProposals(t *testing.T) {
	list := []models.Proposal{
		{Name: "a", Votes: 1, VotedBy: []string{"x"}},
		{Name: "b", Votes: 3, VotedBy: []string{"x", "y", "z"}},
		{Name: "c", Votes: 1, VotedBy: []string{"y"}},
	}
	ranked := RankProposals(list)

	gotNames := []string{ranked[0].Name, ranked[1].Name, ranked[2].Name}
	if !reflect.DeepEqual(gotNames, []string{"b", "a", "c"}) {
		t.Errorf("order = %v, want [b a c]", gotNames)
	}
	if ranked[0].Index != 1 {
		t.Errorf("index of b = %d, want 1", ranked[0].Index)
	}
	if list[0].Name != "a" {
		t.Error("storage order must not change")
	}
}
