package lifecycle

import (
	"testing"

	"github.com/agrichain/agrichaingo/internal/models"
)

var allStages = []models.StageName{
	models.StageHarvested,
	models.StageInTransit,
	models.StageAtDistributor,
	models.StageInTransitToConsumer,
	models.StageAtConsumer,
	models.StageAvailableForSale,
	models.StageSold,
}

var allRoles = []models.Role{
	models.RoleFarmer,
	models.RoleDistributor,
	models.RoleRetailer,
	models.RoleConsumer,
	models.RoleInspector,
}

func TestNextStageTable(t *testing.T) {
	cases := []struct {
		current models.StageName
		role    models.Role
		want    models.StageName
		ok      bool
	}{
		{models.StageHarvested, models.RoleFarmer, models.StageInTransit, true},
		{models.StageInTransit, models.RoleDistributor, models.StageAtDistributor, true},
		{models.StageAtDistributor, models.RoleDistributor, models.StageInTransitToConsumer, true},
		{models.StageInTransitToConsumer, models.RoleConsumer, models.StageAtConsumer, true},

		// Cross-role attempts are rejected.
		{models.StageHarvested, models.RoleDistributor, "", false},
		{models.StageInTransit, models.RoleFarmer, "", false},
		{models.StageInTransitToConsumer, models.RoleDistributor, "", false},

		// Reserved roles never advance anything.
		{models.StageHarvested, models.RoleRetailer, "", false},
		{models.StageAtDistributor, models.RoleInspector, "", false},

		// Terminal stages have no outgoing edges.
		{models.StageAtConsumer, models.RoleConsumer, "", false},
		{models.StageAvailableForSale, models.RoleRetailer, "", false},
		{models.StageSold, models.RoleFarmer, "", false},
	}

	for _, c := range cases {
		got, ok := NextStage(c.current, c.role)
		if ok != c.ok || got != c.want {
			t.Errorf("NextStage(%s, %s) = (%q, %v), want (%q, %v)",
				c.current, c.role, got, ok, c.want, c.ok)
		}
	}
}

// Every permitted transition must move strictly forward in the canonical
// stage order, for every (stage, role) pair.
func TestTransitionsStrictlyForward(t *testing.T) {
	for _, s := range allStages {
		for _, r := range allRoles {
			next, ok := NextStage(s, r)
			if !ok {
				continue
			}
			if models.StageRank(next) <= models.StageRank(s) {
				t.Errorf("NextStage(%s, %s) = %s does not move forward", s, r, next)
			}
		}
	}
}

// Successor must agree with the per-role table: for every non-terminal stage
// it names the one next stage and the one role that may perform the advance.
func TestSuccessor(t *testing.T) {
	cases := []struct {
		current models.StageName
		next    models.StageName
		role    models.Role
		ok      bool
	}{
		{models.StageHarvested, models.StageInTransit, models.RoleFarmer, true},
		{models.StageInTransit, models.StageAtDistributor, models.RoleDistributor, true},
		{models.StageAtDistributor, models.StageInTransitToConsumer, models.RoleDistributor, true},
		{models.StageInTransitToConsumer, models.StageAtConsumer, models.RoleConsumer, true},
		{models.StageAtConsumer, "", "", false},
		{models.StageAvailableForSale, "", "", false},
		{models.StageSold, "", "", false},
	}

	for _, c := range cases {
		next, role, ok := Successor(c.current)
		if next != c.next || role != c.role || ok != c.ok {
			t.Errorf("Successor(%s) = (%q, %q, %v), want (%q, %q, %v)",
				c.current, next, role, ok, c.next, c.role, c.ok)
		}
		if ok {
			if got, nok := NextStage(c.current, role); !nok || got != next {
				t.Errorf("Successor(%s) disagrees with NextStage(%s, %s)", c.current, c.current, role)
			}
		}
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := map[models.StageName]bool{
		models.StageAtConsumer:       true,
		models.StageAvailableForSale: true,
		models.StageSold:             true,
	}
	for _, s := range allStages {
		if got := IsTerminal(s); got != terminal[s] {
			t.Errorf("IsTerminal(%s) = %v, want %v", s, got, terminal[s])
		}
	}
}

func TestStageRankUnknown(t *testing.T) {
	if rank := models.StageRank("BOGUS"); rank != -1 {
		t.Errorf("StageRank(BOGUS) = %d, want -1", rank)
	}
}
