package conflict

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/concordai/concord/pkg/domain"
)

func TestResolveDropsBothSides(t *testing.T) {
	actions := []domain.DomainAction{
		act("a-0", "climate", "protect_forest", domain.PriorityStrategic),
		act("a-1", "economy", "expand_agriculture", domain.PriorityStrategic),
		act("a-2", "health", "vaccination_drive", domain.PriorityStrategic),
	}

	conflicts := NewDetector(nil).Detect(actions)
	if len(conflicts) != 1 {
		t.Fatalf("fixture expects one catalog conflict, got %d", len(conflicts))
	}

	survivors := Resolve(actions, conflicts)
	if len(survivors) != 1 {
		t.Fatalf("both conflict sides must be removed, got %d survivors", len(survivors))
	}
	if survivors[0].ID != "a-2" {
		t.Errorf("survivor = %q, want a-2", survivors[0].ID)
	}
}

func TestResolveWithoutConflictsKeepsEveryAction(t *testing.T) {
	actions := []domain.DomainAction{
		act("a-0", "climate", "reduce_emissions", domain.PriorityStrategic),
		act("a-1", "economy", "green_growth", domain.PriorityStrategic),
	}

	survivors := Resolve(actions, nil)
	if len(survivors) != 2 {
		t.Fatalf("got %d survivors, want 2", len(survivors))
	}
	for i := range actions {
		if survivors[i].ID != actions[i].ID {
			t.Errorf("position %d: got %q, want %q", i, survivors[i].ID, actions[i].ID)
		}
	}
}

func TestResolveReturnsDetachedCopies(t *testing.T) {
	actions := []domain.DomainAction{
		{ID: "a-0", Domain: "energy", Type: "expand_solar", Params: map[string]string{"region": "north"}},
	}

	survivors := Resolve(actions, nil)
	survivors[0].Params["region"] = "south"

	if actions[0].Params["region"] != "north" {
		t.Fatalf("resolver must not share parameter maps with its input")
	}
}

func TestResolveSubsetProperty(t *testing.T) {
	domains := []string{"climate", "economy", "energy", "water"}
	types := []string{
		"increase_output", "decrease_output", "reduce_emissions",
		"increase_production", "protect_forest", "expand_agriculture", "green_growth",
	}

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 8).Draw(t, "batch_size")
		actions := make([]domain.DomainAction, n)
		for i := range actions {
			actions[i] = domain.DomainAction{
				ID:       fmt.Sprintf("a-%d", i),
				Domain:   rapid.SampledFrom(domains).Draw(t, fmt.Sprintf("domain_%d", i)),
				Type:     rapid.SampledFrom(types).Draw(t, fmt.Sprintf("type_%d", i)),
				Priority: domain.PriorityStrategic,
			}
		}

		conflicts := NewDetector(nil).Detect(actions)
		survivors := Resolve(actions, conflicts)

		if len(survivors) > len(actions) {
			t.Fatalf("resolution added actions: %d from %d", len(survivors), len(actions))
		}

		index := make(map[string]int, len(actions))
		for i, a := range actions {
			index[a.ID] = i
		}

		last := -1
		for _, s := range survivors {
			pos, ok := index[s.ID]
			if !ok {
				t.Fatalf("fabricated action %q", s.ID)
			}
			if pos <= last {
				t.Fatalf("relative order not preserved at %q", s.ID)
			}
			last = pos
		}

		conflicted := make(map[string]struct{}, len(conflicts)*2)
		for _, c := range conflicts {
			conflicted[c.First.ID] = struct{}{}
			conflicted[c.Second.ID] = struct{}{}
		}
		for _, s := range survivors {
			if _, bad := conflicted[s.ID]; bad {
				t.Fatalf("conflicted action %q survived", s.ID)
			}
		}
	})
}
