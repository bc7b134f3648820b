package bus

import (
	"testing"

	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/types"
)

func TestHistoryEvictsOldest(t *testing.T) {
	h := NewHistory(3)

	for _, id := range []string{"a", "b", "c", "d"} {
		h.Add(types.NewEvent(types.CallEnded{CallID: id}))
	}

	all := h.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 retained events, got %d", len(all))
	}
	first := all[0].Data.(types.CallEnded)
	if first.CallID != "b" {
		t.Errorf("expected oldest retained event b, got %s", first.CallID)
	}
	last := all[2].Data.(types.CallEnded)
	if last.CallID != "d" {
		t.Errorf("expected newest event d, got %s", last.CallID)
	}
}

func TestHistoryDisabled(t *testing.T) {
	h := NewHistory(0)
	h.Add(types.NewEvent(types.CallEnded{CallID: "a"}))

	if got := h.Size(); got != 0 {
		t.Errorf("disabled history should retain nothing, got %d", got)
	}
}

func TestHistoryAllReturnsCopy(t *testing.T) {
	h := NewHistory(5)
	h.Add(types.NewEvent(types.CallEnded{CallID: "a"}))

	all := h.All()
	all[0].CorrelationID = "mutated"

	if h.All()[0].CorrelationID == "mutated" {
		t.Error("All should return a copy, not the backing slice")
	}
}
