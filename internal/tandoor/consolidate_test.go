package tandoor

import (
	"strings"
	"testing"
)

var (
	gram  = Unit{ID: 1, Name: "g"}
	kilo  = Unit{ID: 2, Name: "kg"}
	piece = Unit{ID: 3, Name: "piece"}
)

func demand(food Food, unit *Unit, amount float64) Demand {
	return Demand{Food: food, Unit: unit, Amount: amount}
}

func TestBuildPlan_Partition(t *testing.T) {
	milk := Food{ID: 1, Name: "Milk"}
	eggs := Food{ID: 2, Name: "Eggs", OnHand: true}
	flour := Food{ID: 3, Name: "Flour"}

	open := []ShoppingListEntry{
		{ID: 10, Food: &flour, Unit: &gram, Amount: 200},
	}
	demands := []Demand{
		demand(milk, nil, 1),         // nothing open -> added
		demand(eggs, nil, 12),        // on hand -> skipped
		demand(flour, &gram, 300),    // same unit -> consolidated
	}

	plan := buildPlan(demands, open, false, nil)

	added, skipped, consolidated := plan.Counts()
	if added != 1 || skipped != 1 || consolidated != 1 {
		t.Fatalf("partition = %d/%d/%d, want 1/1/1", added, skipped, consolidated)
	}

	for _, step := range plan.Steps {
		switch step.Demand.Food.ID {
		case milk.ID:
			if step.Action != ActionAdd {
				t.Errorf("milk action = %s, want added", step.Action)
			}
		case eggs.ID:
			if step.Action != ActionSkip {
				t.Errorf("eggs action = %s, want skipped", step.Action)
			}
			if step.Reason == "" {
				t.Error("skip should carry a reason")
			}
		case flour.ID:
			if step.Action != ActionMerge {
				t.Errorf("flour action = %s, want consolidated", step.Action)
			}
			if step.NewAmount != 500 {
				t.Errorf("NewAmount = %v, want 500", step.NewAmount)
			}
			if step.Entry == nil || step.Entry.ID != 10 {
				t.Error("merge should target the open entry")
			}
		}
	}
}

func TestBuildPlan_IgnoreOnHand(t *testing.T) {
	eggs := Food{ID: 1, Name: "Eggs", OnHand: true}
	plan := buildPlan([]Demand{demand(eggs, nil, 6)}, nil, true, nil)

	if len(plan.Steps) != 1 || plan.Steps[0].Action != ActionAdd {
		t.Errorf("ignoreOnHand should force an add, got %+v", plan.Steps)
	}
}

func TestBuildPlan_CheckedEntriesIgnored(t *testing.T) {
	milk := Food{ID: 1, Name: "Milk"}
	open := []ShoppingListEntry{
		{ID: 5, Food: &milk, Amount: 1, Checked: true},
	}
	plan := buildPlan([]Demand{demand(milk, nil, 1)}, open, false, nil)

	if plan.Steps[0].Action != ActionAdd {
		t.Errorf("checked entries must not receive merges, got %s", plan.Steps[0].Action)
	}
}

func TestBuildPlan_UnitConversionMerge(t *testing.T) {
	flour := Food{ID: 1, Name: "Flour"}
	open := []ShoppingListEntry{
		{ID: 7, Food: &flour, Unit: &gram, Amount: 500},
	}
	conversions := newConversionIndex([]UnitConversion{
		{BaseAmount: 1, BaseUnit: kilo, ConvertedAmount: 1000, ConvertedUnit: gram},
	})

	plan := buildPlan([]Demand{demand(flour, &kilo, 2)}, open, false, conversions)

	step := plan.Steps[0]
	if step.Action != ActionMerge {
		t.Fatalf("action = %s, want consolidated", step.Action)
	}
	if step.NewAmount != 2500 {
		t.Errorf("NewAmount = %v, want 2500 (500g + 2kg)", step.NewAmount)
	}
}

func TestBuildPlan_NoConversionAddsSeparately(t *testing.T) {
	flour := Food{ID: 1, Name: "Flour"}
	open := []ShoppingListEntry{
		{ID: 7, Food: &flour, Unit: &gram, Amount: 500},
	}

	plan := buildPlan([]Demand{demand(flour, &piece, 1)}, open, false, nil)

	step := plan.Steps[0]
	if step.Action != ActionAdd {
		t.Fatalf("action = %s, want added", step.Action)
	}
	if !strings.Contains(step.Reason, "no conversion") {
		t.Errorf("Reason = %q, should explain the separate add", step.Reason)
	}
}

func TestBuildPlan_MergesAccumulate(t *testing.T) {
	sugar := Food{ID: 1, Name: "Sugar"}
	open := []ShoppingListEntry{
		{ID: 3, Food: &sugar, Unit: &gram, Amount: 100},
	}
	demands := []Demand{
		demand(sugar, &gram, 50),
		demand(sugar, &gram, 25),
	}

	plan := buildPlan(demands, open, false, nil)

	if len(plan.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(plan.Steps))
	}
	if plan.Steps[0].NewAmount != 150 {
		t.Errorf("first merge NewAmount = %v, want 150", plan.Steps[0].NewAmount)
	}
	if plan.Steps[1].NewAmount != 175 {
		t.Errorf("second merge NewAmount = %v, want 175 (accumulated)", plan.Steps[1].NewAmount)
	}
}

func TestBuildPlan_UnitlessEntriesAgree(t *testing.T) {
	milk := Food{ID: 1, Name: "Milk"}
	open := []ShoppingListEntry{
		{ID: 2, Food: &milk, Amount: 1},
	}
	plan := buildPlan([]Demand{demand(milk, nil, 2)}, open, false, nil)

	if plan.Steps[0].Action != ActionMerge {
		t.Fatalf("unitless demand and entry should merge, got %s", plan.Steps[0].Action)
	}
	if plan.Steps[0].NewAmount != 3 {
		t.Errorf("NewAmount = %v, want 3", plan.Steps[0].NewAmount)
	}
}

func TestConversionIndex_FoodSpecificWins(t *testing.T) {
	flour := Food{ID: 9, Name: "Flour"}
	idx := newConversionIndex([]UnitConversion{
		// Generic cup conversion and a flour-specific one
		{BaseAmount: 1, BaseUnit: Unit{ID: 5, Name: "cup"}, ConvertedAmount: 240, ConvertedUnit: gram},
		{BaseAmount: 1, BaseUnit: Unit{ID: 5, Name: "cup"}, ConvertedAmount: 120, ConvertedUnit: gram, Food: &flour},
	})

	cup := &Unit{ID: 5, Name: "cup"}
	got, ok := idx.convert(9, cup, &gram, 2)
	if !ok {
		t.Fatal("conversion should exist")
	}
	if got != 240 {
		t.Errorf("flour-specific conversion should win: got %v, want 240", got)
	}

	generic, ok := idx.convert(42, cup, &gram, 1)
	if !ok || generic != 240 {
		t.Errorf("generic fallback = %v/%v, want 240/true", generic, ok)
	}
}

func TestConversionIndex_BothDirections(t *testing.T) {
	idx := newConversionIndex([]UnitConversion{
		{BaseAmount: 1, BaseUnit: kilo, ConvertedAmount: 1000, ConvertedUnit: gram},
	})

	if got, ok := idx.convert(0, &gram, &kilo, 500); !ok || got != 0.5 {
		t.Errorf("reverse conversion = %v/%v, want 0.5/true", got, ok)
	}
}

func TestRoundAmount(t *testing.T) {
	if got := roundAmount(0.1 + 0.2); got != 0.3 {
		t.Errorf("roundAmount(0.1+0.2) = %v, want 0.3", got)
	}
}
