package tandoor

import (
	"fmt"
	"strings"
)

// One-line summaries for mutating results. The MCP response carries these as
// text content next to the structured payload, so a model relaying the
// outcome does not have to reconstruct it from JSON.

func (r *CreateRecipeResult) Summary() string {
	return fmt.Sprintf("Created recipe %q (ID %d)", r.Name, r.ID)
}

func (r *UpdateRecipeResult) Summary() string {
	return fmt.Sprintf("Updated %s on recipe %q", strings.Join(r.Updated, ", "), r.Name)
}

func (r *RateRecipeResult) Summary() string {
	return fmt.Sprintf("Rated recipe %d at %.1f", r.RecipeID, r.Rating)
}

func (r *ImportRecipeResult) Summary() string {
	if !r.Imported {
		return "Import failed: " + r.Message
	}
	return fmt.Sprintf("Imported %q (ID %d)", r.Name, r.RecipeID)
}

func (r *AddToShoppingListResult) Summary() string {
	return fmt.Sprintf("Added %d, consolidated %d, skipped %d",
		len(r.Added), len(r.Consolidated), len(r.Skipped))
}

func (r *CheckShoppingItemsResult) Summary() string {
	if len(r.Checked) == 0 {
		return "No items matched" + notFoundSuffix(r.NotFound)
	}
	verb := "Checked"
	if !r.Checked[0].Checked {
		verb = "Unchecked"
	}
	return fmt.Sprintf("%s %d item(s)%s", verb, len(r.Checked), notFoundSuffix(r.NotFound))
}

func (r *RemoveShoppingItemsResult) Summary() string {
	return fmt.Sprintf("Removed %d item(s)%s", len(r.Removed), notFoundSuffix(r.NotFound))
}

func (r *ClearShoppingListResult) Summary() string {
	return fmt.Sprintf("Removed %d checked item(s), marked %d food(s) on hand",
		len(r.RemovedItems), len(r.PantryUpdated))
}

func (r *CreateFoodResult) Summary() string {
	return fmt.Sprintf("Created food %q (ID %d)", r.Food.Name, r.Food.ID)
}

func (r *UpdatePantryResult) Summary() string {
	return fmt.Sprintf("Updated %d food(s)%s", len(r.Updated), notFoundSuffix(r.NotFound))
}

func (r *CreateMealPlanResult) Summary() string {
	what := r.Plan.RecipeName
	if what == "" {
		what = r.Plan.Title
	}
	return fmt.Sprintf("Planned %q for %s on %s", what, r.Plan.MealType, r.Plan.Date)
}

func (r *DeleteMealPlanResult) Summary() string {
	return fmt.Sprintf("Deleted meal plan %d", r.PlanID)
}

func (r *LogCookedRecipeResult) Summary() string {
	return fmt.Sprintf("Logged cook of recipe %d", r.Entry.RecipeID)
}

func (r *CreateRecipeBookResult) Summary() string {
	return fmt.Sprintf("Created recipe book %q (ID %d)", r.Book.Name, r.Book.ID)
}

func (r *AddRecipeToBookResult) Summary() string {
	if r.BookCreated {
		return fmt.Sprintf("Created book %q and added recipe %d", r.BookName, r.RecipeID)
	}
	return fmt.Sprintf("Added recipe %d to %q", r.RecipeID, r.BookName)
}

func notFoundSuffix(notFound []string) string {
	if len(notFound) == 0 {
		return ""
	}
	return fmt.Sprintf(", %d not found", len(notFound))
}
