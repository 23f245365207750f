package tandoor

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/olgasafonova/tandoor-mcp-server/metrics"
)

// AddToShoppingList adds items to the shopping list, consolidating with
// existing open entries where the food matches and the units agree or can be
// converted. The plan is computed up front; execution reports per-step
// failures and never rolls back completed steps.
func (c *Client) AddToShoppingList(ctx context.Context, args AddToShoppingListArgs) (*AddToShoppingListResult, error) {
	if len(args.Items) == 0 {
		return nil, &ValidationError{Field: "items", Message: "at least one item is required"}
	}
	for i, item := range args.Items {
		if strings.TrimSpace(item.Food) == "" {
			return nil, &ValidationError{Field: fmt.Sprintf("items[%d].food", i),
				Message: "food name cannot be empty"}
		}
		if item.Amount < 0 {
			return nil, &ValidationError{Field: fmt.Sprintf("items[%d].amount", i),
				Value: fmt.Sprintf("%g", item.Amount), Message: "amount cannot be negative"}
		}
	}
	cat, err := c.loadCatalog(ctx, catalogNeeds{foods: true, units: true})
	if err != nil {
		return nil, err
	}

	demands := make([]Demand, 0, len(args.Items))
	for _, item := range args.Items {
		food, _, err := c.resolveFood(ctx, cat, item.Food, !args.SkipMissing)
		if err != nil {
			return nil, err
		}
		unit, _, err := cat.resolveUnit(item.Unit)
		if err != nil {
			return nil, err
		}
		amount := item.Amount
		if amount == 0 {
			amount = 1
		}
		demands = append(demands, Demand{Food: food, Unit: unit, Amount: amount})
	}

	open, err := c.fetchShoppingEntries(ctx, false)
	if err != nil {
		return nil, err
	}
	conversions, err := c.fetchConversions(ctx)
	if err != nil {
		return nil, err
	}

	plan := buildPlan(demands, open, args.IgnoreOnHand, newConversionIndex(conversions))

	result := &AddToShoppingListResult{
		Added:        []ShoppingChange{},
		Skipped:      []ShoppingChange{},
		Consolidated: []ShoppingChange{},
	}
	var completed, failed []StepResult
	for _, step := range plan.Steps {
		change := ShoppingChange{
			Food:   step.Demand.Food.Name,
			Amount: step.Demand.Amount,
			Reason: step.Reason,
		}
		if step.Demand.Unit != nil {
			change.Unit = step.Demand.Unit.Name
		}

		switch step.Action {
		case ActionSkip:
			metrics.RecordConsolidation(string(ActionSkip))
			result.Skipped = append(result.Skipped, change)

		case ActionAdd:
			entry, err := c.createShoppingEntry(ctx, step.Demand)
			stepName := fmt.Sprintf("add %s", step.Demand.Food.Name)
			if err != nil {
				failed = append(failed, StepResult{Step: stepName, Target: step.Demand.Food.Name, Error: err.Error()})
				continue
			}
			metrics.RecordConsolidation(string(ActionAdd))
			completed = append(completed, StepResult{Step: stepName, Target: step.Demand.Food.Name})
			change.EntryID = entry.ID
			result.Added = append(result.Added, change)

		case ActionMerge:
			amount := step.NewAmount
			stepName := fmt.Sprintf("consolidate %s", step.Demand.Food.Name)
			err := c.patchShoppingEntry(ctx, step.Entry.ID, updateShoppingEntryRequest{Amount: &amount})
			if err != nil {
				failed = append(failed, StepResult{Step: stepName, Target: step.Demand.Food.Name, Error: err.Error()})
				continue
			}
			metrics.RecordConsolidation(string(ActionMerge))
			completed = append(completed, StepResult{Step: stepName, Target: step.Demand.Food.Name})
			change.EntryID = step.Entry.ID
			change.Amount = step.NewAmount
			result.Consolidated = append(result.Consolidated, change)
		}
	}

	// Any failed step makes the whole operation a partial failure, even when
	// other steps went through.
	if len(failed) > 0 {
		return nil, &PartialFailure{Operation: "add_to_shopping_list", Completed: completed, Failed: failed}
	}
	return result, nil
}

// GetShoppingList returns the list grouped by supermarket category
func (c *Client) GetShoppingList(ctx context.Context, args GetShoppingListArgs) (*GetShoppingListResult, error) {
	entries, err := c.fetchShoppingEntries(ctx, args.IncludeChecked)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string][]ShoppingItem)
	for _, e := range entries {
		if e.Food == nil {
			continue
		}
		if e.Checked && !args.IncludeChecked {
			continue
		}
		cat := "Uncategorized"
		if e.Food.SupermarketCategory != nil && e.Food.SupermarketCategory.Name != "" {
			cat = e.Food.SupermarketCategory.Name
		}
		item := ShoppingItem{
			EntryID: e.ID,
			Food:    e.Food.Name,
			Amount:  e.Amount,
			Checked: e.Checked,
		}
		if e.Unit != nil {
			item.Unit = e.Unit.Name
		}
		byCategory[cat] = append(byCategory[cat], item)
	}

	result := &GetShoppingListResult{Groups: []ShoppingGroup{}}
	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	// Uncategorized goes last regardless of sort order
	for i, cat := range categories {
		if cat == "Uncategorized" {
			categories = append(append(categories[:i:i], categories[i+1:]...), "Uncategorized")
			break
		}
	}

	for _, cat := range categories {
		items := byCategory[cat]
		sort.Slice(items, func(i, j int) bool { return items[i].Food < items[j].Food })
		result.Groups = append(result.Groups, ShoppingGroup{Category: cat, Items: items})
		result.TotalItems += len(items)
	}
	return result, nil
}

// CheckShoppingItems marks items as checked, selected by entry ID or by
// substring match on food name.
func (c *Client) CheckShoppingItems(ctx context.Context, args CheckShoppingItemsArgs) (*CheckShoppingItemsResult, error) {
	return c.setChecked(ctx, args.EntryIDs, args.Names, true)
}

// UncheckShoppingItems puts checked items back on the open list
func (c *Client) UncheckShoppingItems(ctx context.Context, args UncheckShoppingItemsArgs) (*CheckShoppingItemsResult, error) {
	return c.setChecked(ctx, args.EntryIDs, args.Names, false)
}

func (c *Client) setChecked(ctx context.Context, entryIDs []int, names []string, checked bool) (*CheckShoppingItemsResult, error) {
	if len(entryIDs) == 0 && len(names) == 0 {
		return nil, &ValidationError{Field: "entry_ids",
			Message:    "provide entry_ids or names",
			Suggestion: "Use get_shopping_list to see entry IDs."}
	}

	entries, err := c.fetchShoppingEntries(ctx, true)
	if err != nil {
		return nil, err
	}

	// Only items in the opposite state are eligible
	matched, notFound := selectEntries(entries, entryIDs, names, func(e ShoppingListEntry) bool {
		return e.Checked != checked
	})

	result := &CheckShoppingItemsResult{Checked: []ShoppingItem{}, NotFound: notFound}
	if len(matched) == 0 {
		return result, nil
	}

	ids := make([]int, 0, len(matched))
	for _, e := range matched {
		ids = append(ids, e.ID)
	}
	op := "check shopping items"
	if !checked {
		op = "uncheck shopping items"
	}
	if _, err := c.doRequest(ctx, op, "shopping-list-entry", http.MethodPost,
		"/api/shopping-list-entry/bulk/", nil, bulkCheckRequest{IDs: ids, Checked: checked}); err != nil {
		return nil, err
	}

	for _, e := range matched {
		item := ShoppingItem{EntryID: e.ID, Food: e.Food.Name, Amount: e.Amount, Checked: checked}
		if e.Unit != nil {
			item.Unit = e.Unit.Name
		}
		result.Checked = append(result.Checked, item)
	}
	return result, nil
}

// selectEntries matches shopping entries by ID or case-insensitive food name
// substring. eligible filters candidates before matching; selectors that
// match nothing eligible are reported back.
func selectEntries(entries []ShoppingListEntry, ids []int, names []string, eligible func(ShoppingListEntry) bool) ([]ShoppingListEntry, []string) {
	byID := make(map[int]ShoppingListEntry, len(entries))
	for _, e := range entries {
		if e.Food != nil && eligible(e) {
			byID[e.ID] = e
		}
	}

	var matched []ShoppingListEntry
	var notFound []string
	seen := make(map[int]bool)

	for _, id := range ids {
		e, ok := byID[id]
		if !ok {
			notFound = append(notFound, fmt.Sprintf("entry %d", id))
			continue
		}
		if !seen[e.ID] {
			matched = append(matched, e)
			seen[e.ID] = true
		}
	}

	for _, name := range names {
		needle := normalizeName(name)
		if needle == "" {
			continue
		}
		found := false
		for _, e := range byID {
			if strings.Contains(normalizeName(e.Food.Name), needle) {
				found = true
				if !seen[e.ID] {
					matched = append(matched, e)
					seen[e.ID] = true
				}
			}
		}
		if !found {
			notFound = append(notFound, name)
		}
	}

	// Map iteration order leaks into name matches; keep output stable
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, notFound
}

// RemoveShoppingItems deletes entries from the list entirely
func (c *Client) RemoveShoppingItems(ctx context.Context, args RemoveShoppingItemsArgs) (*RemoveShoppingItemsResult, error) {
	if len(args.EntryIDs) == 0 && len(args.Names) == 0 {
		return nil, &ValidationError{Field: "entry_ids",
			Message:    "provide entry_ids or names",
			Suggestion: "Use get_shopping_list to see entry IDs."}
	}

	entries, err := c.fetchShoppingEntries(ctx, true)
	if err != nil {
		return nil, err
	}
	matched, notFound := selectEntries(entries, args.EntryIDs, args.Names, func(ShoppingListEntry) bool { return true })

	result := &RemoveShoppingItemsResult{Removed: []ShoppingItem{}, NotFound: notFound}
	var completed, failed []StepResult
	for _, e := range matched {
		stepName := fmt.Sprintf("remove %s", e.Food.Name)
		if err := c.deleteShoppingEntry(ctx, e.ID); err != nil {
			failed = append(failed, StepResult{Step: stepName, Target: e.Food.Name, Error: err.Error()})
			continue
		}
		completed = append(completed, StepResult{Step: stepName, Target: e.Food.Name})
		item := ShoppingItem{EntryID: e.ID, Food: e.Food.Name, Amount: e.Amount}
		if e.Unit != nil {
			item.Unit = e.Unit.Name
		}
		result.Removed = append(result.Removed, item)
	}

	if len(failed) > 0 {
		return nil, &PartialFailure{Operation: "remove_shopping_items", Completed: completed, Failed: failed}
	}
	return result, nil
}

// ClearShoppingList removes checked entries and marks their foods as on
// hand. Each item is deleted before its pantry update; steps that fail are
// reported and already-completed steps stay done.
func (c *Client) ClearShoppingList(ctx context.Context, _ ClearShoppingListArgs) (*ClearShoppingListResult, error) {
	entries, err := c.fetchShoppingEntries(ctx, true)
	if err != nil {
		return nil, err
	}

	result := &ClearShoppingListResult{RemovedItems: []string{}, PantryUpdated: []string{}}
	var completed, failed []StepResult
	updatedFoods := make(map[int]bool)

	for _, e := range entries {
		if !e.Checked || e.Food == nil {
			continue
		}
		removeStep := fmt.Sprintf("remove %s", e.Food.Name)
		if err := c.deleteShoppingEntry(ctx, e.ID); err != nil {
			failed = append(failed, StepResult{Step: removeStep, Target: e.Food.Name, Error: err.Error()})
			continue
		}
		completed = append(completed, StepResult{Step: removeStep, Target: e.Food.Name})
		result.RemovedItems = append(result.RemovedItems, e.Food.Name)

		if updatedFoods[e.Food.ID] || e.Food.OnHand {
			continue
		}
		pantryStep := fmt.Sprintf("mark %s on hand", e.Food.Name)
		if err := c.updateFoodOnHand(ctx, e.Food.ID, true); err != nil {
			failed = append(failed, StepResult{Step: pantryStep, Target: e.Food.Name, Error: err.Error()})
			continue
		}
		completed = append(completed, StepResult{Step: pantryStep, Target: e.Food.Name})
		updatedFoods[e.Food.ID] = true
		result.PantryUpdated = append(result.PantryUpdated, e.Food.Name)
	}

	// A delete that succeeded followed by a pantry patch that failed is
	// still a partial failure; the delete stays done.
	if len(failed) > 0 {
		return nil, &PartialFailure{Operation: "clear_shopping_list", Completed: completed, Failed: failed}
	}
	return result, nil
}

// ========== Shopping list API calls ==========

// fetchShoppingEntries lists shopping entries. Some Tandoor versions return
// a bare array when the list is empty; decodeList and getAll both tolerate
// that.
func (c *Client) fetchShoppingEntries(ctx context.Context, includeChecked bool) ([]ShoppingListEntry, error) {
	params := url.Values{}
	if !includeChecked {
		params.Set("checked", "false")
	}
	return getAll[ShoppingListEntry](ctx, c, "list shopping entries", "shopping-list-entry",
		"/api/shopping-list-entry/", params)
}

func (c *Client) createShoppingEntry(ctx context.Context, d Demand) (*ShoppingListEntry, error) {
	req := createShoppingEntryRequest{
		Food:   entityRef{ID: d.Food.ID},
		Amount: d.Amount,
	}
	if d.Unit != nil {
		req.Unit = &entityRef{ID: d.Unit.ID}
	}
	body, err := c.doRequest(ctx, "create shopping entry", "shopping-list-entry", http.MethodPost,
		"/api/shopping-list-entry/", nil, req)
	if err != nil {
		return nil, err
	}
	var entry ShoppingListEntry
	if err := decodeInto("create shopping entry", body, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) patchShoppingEntry(ctx context.Context, id int, req updateShoppingEntryRequest) error {
	_, err := c.doRequest(ctx, "update shopping entry", "shopping-list-entry", http.MethodPatch,
		fmt.Sprintf("/api/shopping-list-entry/%d/", id), nil, req)
	return err
}

func (c *Client) deleteShoppingEntry(ctx context.Context, id int) error {
	_, err := c.doRequest(ctx, "delete shopping entry", "shopping-list-entry", http.MethodDelete,
		fmt.Sprintf("/api/shopping-list-entry/%d/", id), nil, nil)
	return err
}

// fetchConversions lists unit conversion definitions
func (c *Client) fetchConversions(ctx context.Context) ([]UnitConversion, error) {
	return getAll[UnitConversion](ctx, c, "list unit conversions", "unit-conversion",
		"/api/unit-conversion/", nil)
}

// updateFoodOnHand flips the pantry flag on a food
func (c *Client) updateFoodOnHand(ctx context.Context, foodID int, onHand bool) error {
	_, err := c.doRequest(ctx, "update food", "food", http.MethodPatch,
		fmt.Sprintf("/api/food/%d/", foodID), nil, updateFoodRequest{OnHand: onHand})
	return err
}
