package tandoor

import (
	"fmt"
	"math"
)

// The consolidation engine decides how new shopping demands combine with
// what is already on the list. Planning is pure: the full plan is computed
// before any mutation, so a mid-flight backend failure can be reported
// per step without ever rolling back completed steps.

// PlanAction is the decision for one demand
type PlanAction string

const (
	// ActionAdd creates a new entry
	ActionAdd PlanAction = "added"
	// ActionSkip drops the demand (food already on hand)
	ActionSkip PlanAction = "skipped"
	// ActionMerge adds the amount into an existing open entry
	ActionMerge PlanAction = "consolidated"
)

// Demand is a resolved request for one food
type Demand struct {
	Food   Food
	Unit   *Unit
	Amount float64
	Note   string
}

// PlanStep is one decision of the consolidation plan
type PlanStep struct {
	Action PlanAction
	Demand Demand

	// Entry is the open entry merged into (ActionMerge only)
	Entry *ShoppingListEntry
	// NewAmount is the entry's amount after the merge (ActionMerge only)
	NewAmount float64
	// Reason explains skips and separate adds
	Reason string
}

// Plan is the full consolidation decision for one add_to_shopping_list call
type Plan struct {
	Steps []PlanStep
}

// Counts returns the added/skipped/consolidated partition sizes
func (p *Plan) Counts() (added, skipped, consolidated int) {
	for _, s := range p.Steps {
		switch s.Action {
		case ActionAdd:
			added++
		case ActionSkip:
			skipped++
		case ActionMerge:
			consolidated++
		}
	}
	return
}

// conversionIndex answers unit conversion questions from preloaded
// UnitConversion rows. Conversions in Tandoor are directional rows
// (base -> converted); both directions are derived from each row.
type conversionIndex struct {
	// (foodID, fromUnit, toUnit) -> multiplier
	ratios map[conversionKey]float64
}

type conversionKey struct {
	foodID   int // 0 for food-agnostic conversions
	fromUnit int
	toUnit   int
}

func newConversionIndex(conversions []UnitConversion) *conversionIndex {
	idx := &conversionIndex{ratios: make(map[conversionKey]float64)}
	for _, cv := range conversions {
		if cv.BaseAmount <= 0 || cv.ConvertedAmount <= 0 {
			continue
		}
		foodID := 0
		if cv.Food != nil {
			foodID = cv.Food.ID
		}
		ratio := cv.ConvertedAmount / cv.BaseAmount
		idx.ratios[conversionKey{foodID, cv.BaseUnit.ID, cv.ConvertedUnit.ID}] = ratio
		idx.ratios[conversionKey{foodID, cv.ConvertedUnit.ID, cv.BaseUnit.ID}] = 1 / ratio
	}
	return idx
}

// convert translates amount from one unit to another for a food.
// Food-specific conversions take precedence over generic ones.
func (idx *conversionIndex) convert(foodID int, from, to *Unit, amount float64) (float64, bool) {
	if from == nil || to == nil {
		return 0, false
	}
	if from.ID == to.ID {
		return amount, true
	}
	if ratio, ok := idx.ratios[conversionKey{foodID, from.ID, to.ID}]; ok {
		return amount * ratio, true
	}
	if ratio, ok := idx.ratios[conversionKey{0, from.ID, to.ID}]; ok {
		return amount * ratio, true
	}
	return 0, false
}

// sameUnit reports whether a demand and an entry agree on unit
// (both unitless counts as agreement)
func sameUnit(a, b *Unit) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.ID == b.ID
}

// buildPlan partitions demands into added, skipped, and consolidated.
// Every demand lands in exactly one bucket:
//   - on-hand foods are skipped unless ignoreOnHand is set
//   - a demand with an open entry for the same food merges when the units
//     agree or a conversion exists; otherwise it becomes a separate entry
//   - everything else is added
//
// Merges into the same entry accumulate, so two demands for the same food
// in one call both land on the entry.
func buildPlan(demands []Demand, open []ShoppingListEntry, ignoreOnHand bool, conversions *conversionIndex) Plan {
	if conversions == nil {
		conversions = newConversionIndex(nil)
	}

	// Open unchecked entries by food, in list order
	entriesByFood := make(map[int][]*ShoppingListEntry)
	for i := range open {
		e := &open[i]
		if e.Checked || e.Food == nil {
			continue
		}
		entriesByFood[e.Food.ID] = append(entriesByFood[e.Food.ID], e)
	}

	// Running totals for entries that receive merges
	merged := make(map[int]float64) // entry ID -> accumulated amount

	var plan Plan
	for _, d := range demands {
		if d.Food.OnHand && !ignoreOnHand {
			plan.Steps = append(plan.Steps, PlanStep{
				Action: ActionSkip,
				Demand: d,
				Reason: "already on hand",
			})
			continue
		}

		entries := entriesByFood[d.Food.ID]
		if len(entries) == 0 {
			plan.Steps = append(plan.Steps, PlanStep{Action: ActionAdd, Demand: d})
			continue
		}

		// Prefer an entry with the same unit, then any convertible one
		var target *ShoppingListEntry
		addAmount := d.Amount
		for _, e := range entries {
			if sameUnit(d.Unit, e.Unit) {
				target = e
				break
			}
		}
		if target == nil {
			for _, e := range entries {
				if converted, ok := conversions.convert(d.Food.ID, d.Unit, e.Unit, d.Amount); ok {
					target = e
					addAmount = converted
					break
				}
			}
		}

		if target == nil {
			plan.Steps = append(plan.Steps, PlanStep{
				Action: ActionAdd,
				Demand: d,
				Reason: fmt.Sprintf("no conversion from %s to the existing entry's unit", unitName(d.Unit)),
			})
			continue
		}

		base := target.Amount + merged[target.ID]
		newAmount := roundAmount(base + addAmount)
		merged[target.ID] += addAmount
		plan.Steps = append(plan.Steps, PlanStep{
			Action:    ActionMerge,
			Demand:    d,
			Entry:     target,
			NewAmount: newAmount,
		})
	}

	return plan
}

// unitName is a display helper tolerating nil units
func unitName(u *Unit) string {
	if u == nil {
		return "(no unit)"
	}
	return u.Name
}

// roundAmount trims float noise from summed amounts
func roundAmount(v float64) float64 {
	return math.Round(v*1000) / 1000
}
