package directory

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/types"
	"github.com/rs/zerolog"
)

var (
	// ErrAgentNotFound is returned for an unknown agent ID
	ErrAgentNotFound = errors.New("agent not found")
	// ErrAgentBusy is returned when claiming an agent that is not available
	ErrAgentBusy = errors.New("agent not available")
)

// Directory is the registry of agents and their availability. It owns
// Agent records exclusively; status transitions flow through the
// router's serialized path.
type Directory struct {
	agents map[string]*types.Agent
	mu     sync.RWMutex
	logger zerolog.Logger
}

// New creates an empty directory
func New(logger zerolog.Logger) *Directory {
	return &Directory{
		agents: make(map[string]*types.Agent),
		logger: logger.With().Str("component", "directory").Logger(),
	}
}

// Register adds or replaces an agent. A zero status defaults to offline.
func (d *Directory) Register(agent types.Agent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	if agent.Status == "" {
		agent.Status = types.StatusOffline
	}
	if agent.CreatedAt.IsZero() {
		agent.CreatedAt = now
	}
	agent.StatusSince = now
	d.agents[agent.ID] = &agent

	d.logger.Debug().
		Str("agent_id", agent.ID).
		Str("status", string(agent.Status)).
		Msg("agent registered")
}

// Get returns a copy of the agent
func (d *Directory) Get(agentID string) (types.Agent, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	agent, ok := d.agents[agentID]
	if !ok {
		return types.Agent{}, ErrAgentNotFound
	}
	return *agent, nil
}

// SetStatus updates an agent's status
func (d *Directory) SetStatus(agentID string, status types.AgentStatus) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	agent, ok := d.agents[agentID]
	if !ok {
		return ErrAgentNotFound
	}
	if agent.Status != status {
		agent.Status = status
		agent.StatusSince = time.Now()
	}
	return nil
}

// ClaimBusy atomically flips an available agent to busy. It returns
// ErrAgentBusy if the agent is in any other state, which the router
// treats as an assignment-race invariant violation.
func (d *Directory) ClaimBusy(agentID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	agent, ok := d.agents[agentID]
	if !ok {
		return ErrAgentNotFound
	}
	if agent.Status != types.StatusAvailable {
		return ErrAgentBusy
	}
	agent.Status = types.StatusBusy
	agent.StatusSince = time.Now()
	return nil
}

// Release sets a busy agent back to available after a completed call
func (d *Directory) Release(agentID string) error {
	return d.SetStatus(agentID, types.StatusAvailable)
}

// Available returns all available agents sorted by ID, so that
// tie-breaks in agent selection stay deterministic
func (d *Directory) Available() []types.Agent {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]types.Agent, 0, len(d.agents))
	for _, agent := range d.agents {
		if agent.Status == types.StatusAvailable {
			out = append(out, *agent)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// All returns a copy of every agent, sorted by ID
func (d *Directory) All() []types.Agent {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]types.Agent, 0, len(d.agents))
	for _, agent := range d.agents {
		out = append(out, *agent)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the total number of registered agents
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.agents)
}

// CountByStatus returns how many agents are in each status
func (d *Directory) CountByStatus() (available, busy, offline int) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, agent := range d.agents {
		switch agent.Status {
		case types.StatusAvailable:
			available++
		case types.StatusBusy:
			busy++
		case types.StatusOffline:
			offline++
		}
	}
	return
}
