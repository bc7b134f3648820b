package router

import (
	"testing"

	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/types"
)

func TestLeastLoadedEmpty(t *testing.T) {
	var s LeastLoaded

	if _, ok := s.Select(nil, func(string) int { return 0 }); ok {
		t.Error("expected no selection from empty set")
	}
}

func TestLeastLoadedPicksFewestCalls(t *testing.T) {
	var s LeastLoaded

	agents := []types.Agent{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	loads := map[string]int{"a": 2, "b": 0, "c": 1}

	agent, ok := s.Select(agents, func(id string) int { return loads[id] })
	if !ok {
		t.Fatal("expected a selection")
	}
	if agent.ID != "b" {
		t.Errorf("expected least loaded agent b, got %s", agent.ID)
	}
}

func TestLeastLoadedTieGoesToFirst(t *testing.T) {
	var s LeastLoaded

	agents := []types.Agent{{ID: "a"}, {ID: "b"}}

	agent, ok := s.Select(agents, func(string) int { return 0 })
	if !ok {
		t.Fatal("expected a selection")
	}
	if agent.ID != "a" {
		t.Errorf("tie should keep the first candidate, got %s", agent.ID)
	}
}
