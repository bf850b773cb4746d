// Package lifecycle implements the role-gated stage transition policy for
// produce batches. The state machine is a simple forward path: each role may
// advance only specific stages, and nothing ever moves a batch backwards.
package lifecycle

import (
	"github.com/agrichain/agrichaingo/internal/models"
)

// transitions maps role -> current stage -> next stage. Absence means "no
// transition permitted". RETAILER and INSPECTOR have no entries; they are
// reserved for future use.
var transitions = map[models.Role]map[models.StageName]models.StageName{
	models.RoleFarmer: {
		models.StageHarvested: models.StageInTransit,
	},
	models.RoleDistributor: {
		models.StageInTransit:     models.StageAtDistributor,
		models.StageAtDistributor: models.StageInTransitToConsumer,
	},
	models.RoleConsumer: {
		models.StageInTransitToConsumer: models.StageAtConsumer,
	},
}

// NextStage returns the single stage the given role may advance a batch to
// from its current stage. ok is false when no transition is permitted, in
// which case callers must not mutate batch state.
func NextStage(current models.StageName, role models.Role) (next models.StageName, ok bool) {
	byStage, found := transitions[role]
	if !found {
		return "", false
	}
	next, ok = byStage[current]
	return next, ok
}

// InitialStage is assigned at batch creation; the creation event is the
// first history entry.
const InitialStage = models.StageHarvested

// Successor reports the single transition available from a stage regardless
// of actor: the stage it leads to and the role allowed to perform it. The
// table holds at most one edge per stage, so the lookup is deterministic.
// ok is false for terminal stages.
func Successor(current models.StageName) (next models.StageName, role models.Role, ok bool) {
	for r, byStage := range transitions {
		if n, found := byStage[current]; found {
			return n, r, true
		}
	}
	return "", "", false
}

// IsTerminal reports whether a stage has no outgoing transitions for any
// role.
func IsTerminal(s models.StageName) bool {
	for _, byStage := range transitions {
		for from := range byStage {
			if from == s {
				return false
			}
		}
	}
	return true
}
