package ai_test

import (
	"testing"

	"github.com/cory-johannsen/brawl/internal/game/ai"
)

func TestRegistry_Register_And_PlannerFor(t *testing.T) {
	reg := ai.NewRegistry()
	caller := &mockScriptCaller{returnVal: nil}
	if err := reg.Register(botDomain(), caller); err != nil {
		t.Fatalf("Register: %v", err)
	}
	planner, ok := reg.PlannerFor("bot")
	if !ok || planner == nil {
		t.Fatal("expected planner for bot")
	}
	if planner.Domain().ID != "bot" {
		t.Fatalf("expected bot domain, got %q", planner.Domain().ID)
	}
}

func TestRegistry_Register_CollisionError(t *testing.T) {
	reg := ai.NewRegistry()
	caller := &mockScriptCaller{}
	_ = reg.Register(botDomain(), caller)
	if err := reg.Register(botDomain(), caller); err == nil {
		t.Fatal("expected collision error on second Register")
	}
}

func TestRegistry_PlannerFor_NotFound(t *testing.T) {
	reg := ai.NewRegistry()
	_, ok := reg.PlannerFor("missing")
	if ok {
		t.Fatal("expected not found")
	}
}

func TestRegistry_IDs_Sorted(t *testing.T) {
	reg := ai.NewRegistry()
	caller := &mockScriptCaller{}
	for _, id := range []string{"zeta", "alpha"} {
		d := botDomain()
		d.ID = id
		if err := reg.Register(d, caller); err != nil {
			t.Fatalf("Register(%s): %v", id, err)
		}
	}
	ids := reg.IDs()
	if len(ids) != 2 || ids[0] != "alpha" || ids[1] != "zeta" {
		t.Fatalf("expected [alpha zeta], got %v", ids)
	}
}
