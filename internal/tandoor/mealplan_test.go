package tandoor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestPlanWindow(t *testing.T) {
	today := time.Now().Format(dateLayout)
	weekOut := time.Now().AddDate(0, 0, 7).Format(dateLayout)

	tests := []struct {
		name     string
		from, to string
		wantFrom string
		wantTo   string
		wantErr  bool
	}{
		{"defaults", "", "", today, weekOut, false},
		{"explicit range", "2026-09-01", "2026-09-08", "2026-09-01", "2026-09-08", false},
		{"bad from", "01/09/2026", "", "", "", true},
		{"bad to", "", "next tuesday", "", "", true},
		{"inverted range", "2026-09-08", "2026-09-01", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := planWindow(tt.from, tt.to)
			if tt.wantErr {
				ve := &ValidationError{}
				if !errors.As(err, &ve) {
					t.Errorf("got %T, want *ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if from != tt.wantFrom || to != tt.wantTo {
				t.Errorf("window = %s..%s, want %s..%s", from, to, tt.wantFrom, tt.wantTo)
			}
		})
	}
}

func TestGetMealPlans(t *testing.T) {
	mock := newMockTandoor()
	mock.mealPlans = []MealPlanEntry{
		{ID: 2, FromDate: "2026-09-02T00:00:00+02:00", MealType: MealType{ID: 1, Name: "Dinner"},
			Recipe: &RecipeOverview{ID: 7, Name: "Carbonara"}, Servings: 2},
		{ID: 1, FromDate: "2026-09-01T00:00:00+02:00", MealType: MealType{ID: 1, Name: "Dinner"},
			Title: "Leftovers", Servings: 1},
	}
	client := createTestClient(t, mock.handler())

	result, err := client.GetMealPlans(context.Background(), GetMealPlansArgs{
		FromDate: "2026-09-01", ToDate: "2026-09-07",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Plans) != 2 {
		t.Fatalf("plans = %d, want 2", len(result.Plans))
	}
	// Sorted by date, timestamps truncated to the day
	if result.Plans[0].ID != 1 || result.Plans[0].Date != "2026-09-01" {
		t.Errorf("Plans[0] = %+v, want plan 1 on 2026-09-01", result.Plans[0])
	}
	if result.Plans[1].RecipeID != 7 || result.Plans[1].RecipeName != "Carbonara" {
		t.Errorf("Plans[1] = %+v, want recipe 7", result.Plans[1])
	}
	if result.Plans[0].Title != "Leftovers" {
		t.Errorf("Title = %q, want Leftovers", result.Plans[0].Title)
	}
}

func TestCreateMealPlan(t *testing.T) {
	mock := newMockTandoor()
	mock.mealTypes = []MealType{{ID: 1, Name: "Breakfast"}, {ID: 2, Name: "Dinner"}}
	mock.recipes[7] = &Recipe{ID: 7, Name: "Carbonara"}
	client := createTestClient(t, mock.handler())

	result, err := client.CreateMealPlan(context.Background(), CreateMealPlanArgs{
		Date:     "2026-09-05",
		MealType: "dinner",
		RecipeID: 7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Plan.Date != "2026-09-05" {
		t.Errorf("Date = %q, want 2026-09-05", result.Plan.Date)
	}

	if len(mock.mealPlanPosts) != 1 {
		t.Fatalf("posts = %d, want 1", len(mock.mealPlanPosts))
	}
	posted := mock.mealPlanPosts[0]
	if posted.MealType.ID != 2 {
		t.Errorf("meal type = %d, want 2 (fuzzy resolved Dinner)", posted.MealType.ID)
	}
	if posted.Recipe == nil || posted.Recipe.ID != 7 {
		t.Errorf("recipe ref = %+v, want 7", posted.Recipe)
	}
	if posted.Servings != 1 {
		t.Errorf("servings = %v, want default 1", posted.Servings)
	}
	if posted.FromDate != "2026-09-05" || posted.ToDate != "2026-09-05" {
		t.Errorf("dates = %s..%s, want the single day", posted.FromDate, posted.ToDate)
	}
}

func TestCreateMealPlan_FreeText(t *testing.T) {
	mock := newMockTandoor()
	mock.mealTypes = []MealType{{ID: 1, Name: "Lunch"}}
	client := createTestClient(t, mock.handler())

	_, err := client.CreateMealPlan(context.Background(), CreateMealPlanArgs{
		Date: "2026-09-05", MealType: "lunch", Title: "Eat out",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.mealPlanPosts[0].Recipe != nil {
		t.Error("free-text entries must not carry a recipe ref")
	}
}

func TestCreateMealPlan_UnknownRecipe(t *testing.T) {
	mock := newMockTandoor()
	mock.mealTypes = []MealType{{ID: 1, Name: "Dinner"}}
	client := createTestClient(t, mock.handler())

	_, err := client.CreateMealPlan(context.Background(), CreateMealPlanArgs{
		Date: "2026-09-05", MealType: "dinner", RecipeID: 99,
	})
	nf := &NotFoundError{}
	if !errors.As(err, &nf) {
		t.Fatalf("got %T, want *NotFoundError", err)
	}
	if len(mock.mealPlanPosts) != 0 {
		t.Error("no plan should be created for an unknown recipe")
	}
}

func TestCreateMealPlan_UnknownMealType(t *testing.T) {
	mock := newMockTandoor()
	mock.mealTypes = []MealType{{ID: 1, Name: "Breakfast"}, {ID: 2, Name: "Dinner"}}
	client := createTestClient(t, mock.handler())

	_, err := client.CreateMealPlan(context.Background(), CreateMealPlanArgs{
		Date: "2026-09-05", MealType: "elevenses", Title: "Snack",
	})
	nf := &NotFoundError{}
	if !errors.As(err, &nf) {
		t.Fatalf("got %T, want *NotFoundError", err)
	}
	// The error lists what is configured so the caller can pick one
	if !strings.Contains(nf.Suggestion, "Breakfast") || !strings.Contains(nf.Suggestion, "Dinner") {
		t.Errorf("Suggestion = %q, should list configured meal types", nf.Suggestion)
	}
}

func TestCreateMealPlan_Validation(t *testing.T) {
	client := createTestClient(t, newMockTandoor().handler())

	tests := []struct {
		name string
		args CreateMealPlanArgs
	}{
		{"bad date", CreateMealPlanArgs{Date: "tomorrow", MealType: "dinner", Title: "x"}},
		{"no recipe or title", CreateMealPlanArgs{Date: "2026-09-05", MealType: "dinner"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.CreateMealPlan(context.Background(), tt.args)
			ve := &ValidationError{}
			if !errors.As(err, &ve) {
				t.Errorf("got %T, want *ValidationError", err)
			}
		})
	}
}

func TestDeleteMealPlan(t *testing.T) {
	mock := newMockTandoor()
	mock.mealPlans = []MealPlanEntry{{ID: 3, Title: "Leftovers"}}
	client := createTestClient(t, mock.handler())

	result, err := client.DeleteMealPlan(context.Background(), DeleteMealPlanArgs{PlanID: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Deleted || result.PlanID != 3 {
		t.Errorf("result = %+v, want deleted plan 3", result)
	}
	if len(mock.deletedPlans) != 1 || mock.deletedPlans[0] != 3 {
		t.Errorf("deletedPlans = %v, want [3]", mock.deletedPlans)
	}
}

func TestDeleteMealPlan_NotFound(t *testing.T) {
	client := createTestClient(t, newMockTandoor().handler())

	_, err := client.DeleteMealPlan(context.Background(), DeleteMealPlanArgs{PlanID: 99})
	nf := &NotFoundError{}
	if !errors.As(err, &nf) {
		t.Fatalf("got %T, want *NotFoundError", err)
	}
	if nf.Kind != "meal plan" || nf.Ref != "99" {
		t.Errorf("Kind/Ref = %s/%s, want meal plan/99", nf.Kind, nf.Ref)
	}
}

func TestGetMealTypes(t *testing.T) {
	mock := newMockTandoor()
	mock.mealTypes = []MealType{{ID: 1, Name: "Breakfast"}, {ID: 2, Name: "Dinner"}}
	client := createTestClient(t, mock.handler())

	result, err := client.GetMealTypes(context.Background(), GetMealTypesArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.MealTypes) != 2 {
		t.Errorf("MealTypes = %+v, want 2", result.MealTypes)
	}
}
