package directory

import (
	"testing"

	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/types"
	"github.com/rs/zerolog"
)

func TestRegisterDefaultsToOffline(t *testing.T) {
	d := New(zerolog.Nop())

	d.Register(types.Agent{ID: "agent-1", Name: "Amina"})

	agent, err := d.Get("agent-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if agent.Status != types.StatusOffline {
		t.Errorf("expected offline default, got %s", agent.Status)
	}
	if agent.CreatedAt.IsZero() || agent.StatusSince.IsZero() {
		t.Error("expected timestamps to be stamped on registration")
	}
}

func TestGetUnknownAgent(t *testing.T) {
	d := New(zerolog.Nop())

	if _, err := d.Get("missing"); err != ErrAgentNotFound {
		t.Errorf("expected ErrAgentNotFound, got %v", err)
	}
}

func TestSetStatus(t *testing.T) {
	d := New(zerolog.Nop())
	d.Register(types.Agent{ID: "agent-1", Name: "Amina"})

	if err := d.SetStatus("agent-1", types.StatusAvailable); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	agent, _ := d.Get("agent-1")
	if agent.Status != types.StatusAvailable {
		t.Errorf("expected available, got %s", agent.Status)
	}

	if err := d.SetStatus("missing", types.StatusBusy); err != ErrAgentNotFound {
		t.Errorf("expected ErrAgentNotFound, got %v", err)
	}
}

func TestClaimBusy(t *testing.T) {
	d := New(zerolog.Nop())
	d.Register(types.Agent{ID: "agent-1", Status: types.StatusAvailable})

	if err := d.ClaimBusy("agent-1"); err != nil {
		t.Fatalf("ClaimBusy: %v", err)
	}
	agent, _ := d.Get("agent-1")
	if agent.Status != types.StatusBusy {
		t.Errorf("expected busy after claim, got %s", agent.Status)
	}

	// Second claim must fail, the agent is already taken
	if err := d.ClaimBusy("agent-1"); err != ErrAgentBusy {
		t.Errorf("expected ErrAgentBusy, got %v", err)
	}
}

func TestClaimBusyOffline(t *testing.T) {
	d := New(zerolog.Nop())
	d.Register(types.Agent{ID: "agent-1", Status: types.StatusOffline})

	if err := d.ClaimBusy("agent-1"); err != ErrAgentBusy {
		t.Errorf("expected ErrAgentBusy for offline agent, got %v", err)
	}
}

func TestRelease(t *testing.T) {
	d := New(zerolog.Nop())
	d.Register(types.Agent{ID: "agent-1", Status: types.StatusBusy})

	if err := d.Release("agent-1"); err != nil {
		t.Fatalf("Release: %v", err)
	}
	agent, _ := d.Get("agent-1")
	if agent.Status != types.StatusAvailable {
		t.Errorf("expected available after release, got %s", agent.Status)
	}
}

func TestAvailableSortedByID(t *testing.T) {
	d := New(zerolog.Nop())
	d.Register(types.Agent{ID: "agent-2", Status: types.StatusAvailable})
	d.Register(types.Agent{ID: "agent-1", Status: types.StatusAvailable})
	d.Register(types.Agent{ID: "agent-3", Status: types.StatusBusy})

	available := d.Available()
	if len(available) != 2 {
		t.Fatalf("expected 2 available agents, got %d", len(available))
	}
	if available[0].ID != "agent-1" || available[1].ID != "agent-2" {
		t.Errorf("expected sorted IDs, got %s, %s", available[0].ID, available[1].ID)
	}
}

func TestCountByStatus(t *testing.T) {
	d := New(zerolog.Nop())
	d.Register(types.Agent{ID: "a", Status: types.StatusAvailable})
	d.Register(types.Agent{ID: "b", Status: types.StatusBusy})
	d.Register(types.Agent{ID: "c", Status: types.StatusBusy})
	d.Register(types.Agent{ID: "d"})

	available, busy, offline := d.CountByStatus()
	if available != 1 || busy != 2 || offline != 1 {
		t.Errorf("expected 1/2/1, got %d/%d/%d", available, busy, offline)
	}
	if d.Count() != 4 {
		t.Errorf("expected 4 agents, got %d", d.Count())
	}
}
