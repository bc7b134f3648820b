package router

import (
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/types"
)

// Strategy selects the best agent to handle a call. activeCalls
// reports an agent's current number of active calls.
type Strategy interface {
	Select(available []types.Agent, activeCalls func(agentID string) int) (types.Agent, bool)
}

// LeastLoaded selects the available agent with the fewest active
// calls. Ties go to the lowest agent ID so behavior stays
// reproducible under bursty traffic.
type LeastLoaded struct{}

// Select picks the least-loaded agent from available, which must be
// sorted by agent ID
func (LeastLoaded) Select(available []types.Agent, activeCalls func(agentID string) int) (types.Agent, bool) {
	if len(available) == 0 {
		return types.Agent{}, false
	}

	best := available[0]
	bestLoad := activeCalls(best.ID)
	for i := 1; i < len(available); i++ {
		if load := activeCalls(available[i].ID); load < bestLoad {
			best = available[i]
			bestLoad = load
		}
	}
	return best, true
}
