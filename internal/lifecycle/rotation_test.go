package lifecycle

import (
	"reflect"
	"testing"
)

func memberIDs(members []Member) []string {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}

func TestEligibleHosts(t *testing.T) {
	members := []Member{{ID: "A", Name: "Anna"}, {ID: "B", Name: "Ben"}, {ID: "C", Name: "Cleo"}}

	tests := []struct {
		name      string
		usedHosts []string
		want      []string
	}{
		{"empty rotation returns everyone", nil, []string{"A", "B", "C"}},
		{"excludes used hosts", []string{"A"}, []string{"B", "C"}},
		{"one left", []string{"A", "C"}, []string{"B"}},
		{"everyone hosted falls back to all", []string{"A", "B", "C"}, []string{"A", "B", "C"}},
		{"unknown used ids are ignored", []string{"Z"}, []string{"A", "B", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := memberIDs(EligibleHosts(tt.usedHosts, members))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("EligibleHosts(%v) = %v, want %v", tt.usedHosts, got, tt.want)
			}
		})
	}
}

func TestRecordHost_Scenario(t *testing.T) {
	ids := []string{"A", "B", "C"}
	members := []Member{{ID: "A"}, {ID: "B"}, {ID: "C"}}

	var used []string
	used = RecordHost(used, ids, "A")
	if !reflect.DeepEqual(used, []string{"A"}) {
		t.Fatalf("after A: usedHosts = %v", used)
	}
	if got := memberIDs(EligibleHosts(used, members)); !reflect.DeepEqual(got, []string{"B", "C"}) {
		t.Errorf("eligible after A = %v, want [B C]", got)
	}

	used = RecordHost(used, ids, "B")
	used = RecordHost(used, ids, "C")
	if len(used) != 0 {
		t.Errorf("after full cycle usedHosts = %v, want empty", used)
	}
	if used == nil {
		t.Error("reset rotation should be an empty slice, not nil")
	}
}

func TestRecordHost_FullCycleVisitsEveryMemberOnce(t *testing.T) {
	ids := []string{"m1", "m2", "m3", "m4", "m5"}
	members := make([]Member, len(ids))
	for i, id := range ids {
		members[i] = Member{ID: id}
	}

	for cycle := 0; cycle < 3; cycle++ {
		var used []string
		hosted := map[string]int{}
		for i := 0; i < len(ids); i++ {
			next := EligibleHosts(used, members)[0].ID
			hosted[next]++
			used = RecordHost(used, ids, next)
			if i < len(ids)-1 && len(used) != i+1 {
				t.Fatalf("cycle %d step %d: usedHosts = %v", cycle, i, used)
			}
		}
		if len(used) != 0 {
			t.Errorf("cycle %d: usedHosts not reset: %v", cycle, used)
		}
		for _, id := range ids {
			if hosted[id] != 1 {
				t.Errorf("cycle %d: %s hosted %d times", cycle, id, hosted[id])
			}
		}
	}
}

func TestRecordHost_Edges(t *testing.T) {
	t.Run("repeat host is not appended twice", func(t *testing.T) {
		got := RecordHost([]string{"A"}, []string{"A", "B", "C"}, "A")
		if !reflect.DeepEqual(got, []string{"A"}) {
			t.Errorf("got %v, want [A]", got)
		}
	})

	t.Run("departed members are pruned", func(t *testing.T) {
		got := RecordHost([]string{"gone", "A"}, []string{"A", "B", "C"}, "B")
		if !reflect.DeepEqual(got, []string{"A", "B"}) {
			t.Errorf("got %v, want [A B]", got)
		}
	})

	t.Run("does not modify input", func(t *testing.T) {
		used := []string{"A"}
		RecordHost(used, []string{"A", "B", "C"}, "B")
		if !reflect.DeepEqual(used, []string{"A"}) {
			t.Errorf("input mutated: %v", used)
		}
	})
}
