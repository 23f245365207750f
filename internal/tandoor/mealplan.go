package tandoor

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// GetMealPlans lists meal plan entries inside a date window. The window
// defaults to the next seven days.
func (c *Client) GetMealPlans(ctx context.Context, args GetMealPlansArgs) (*GetMealPlansResult, error) {
	from, to, err := planWindow(args.FromDate, args.ToDate)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("from_date", from)
	params.Set("to_date", to)
	plans, err := getAll[MealPlanEntry](ctx, c, "list meal plans", "meal-plan", "/api/meal-plan/", params)
	if err != nil {
		return nil, err
	}

	result := &GetMealPlansResult{FromDate: from, ToDate: to, Plans: make([]MealPlanInfo, 0, len(plans))}
	for _, p := range plans {
		result.Plans = append(result.Plans, mealPlanInfo(p))
	}
	sort.Slice(result.Plans, func(i, j int) bool {
		if result.Plans[i].Date != result.Plans[j].Date {
			return result.Plans[i].Date < result.Plans[j].Date
		}
		return result.Plans[i].ID < result.Plans[j].ID
	})
	return result, nil
}

// planWindow validates and defaults the meal plan date range
func planWindow(fromArg, toArg string) (string, string, error) {
	now := time.Now()
	from := now.Format(dateLayout)
	if fromArg != "" {
		t, err := time.Parse(dateLayout, fromArg)
		if err != nil {
			return "", "", &ValidationError{Field: "from_date", Value: fromArg,
				Message: "dates use YYYY-MM-DD"}
		}
		from = t.Format(dateLayout)
	}
	to := now.AddDate(0, 0, 7).Format(dateLayout)
	if toArg != "" {
		t, err := time.Parse(dateLayout, toArg)
		if err != nil {
			return "", "", &ValidationError{Field: "to_date", Value: toArg,
				Message: "dates use YYYY-MM-DD"}
		}
		to = t.Format(dateLayout)
	}
	if to < from {
		return "", "", &ValidationError{Field: "to_date", Value: toArg,
			Message: "to_date is before from_date"}
	}
	return from, to, nil
}

// CreateMealPlan schedules a recipe or a free-text entry on a date.
// The meal type name is fuzzy resolved against existing meal types.
func (c *Client) CreateMealPlan(ctx context.Context, args CreateMealPlanArgs) (*CreateMealPlanResult, error) {
	date, err := time.Parse(dateLayout, args.Date)
	if err != nil {
		return nil, &ValidationError{Field: "date", Value: args.Date, Message: "dates use YYYY-MM-DD"}
	}
	if args.RecipeID <= 0 && args.Title == "" {
		return nil, &ValidationError{Field: "recipe_id",
			Message:    "provide a recipe_id or a title",
			Suggestion: "Free-text entries need a title; recipe entries need a recipe_id from search_recipes."}
	}

	mealType, err := c.resolveMealType(ctx, args.MealType)
	if err != nil {
		return nil, err
	}

	servings := args.Servings
	if servings <= 0 {
		servings = 1
	}
	req := createMealPlanRequest{
		Title:    args.Title,
		Servings: servings,
		Note:     args.Note,
		FromDate: date.Format(dateLayout),
		ToDate:   date.Format(dateLayout),
		MealType: entityRef{ID: mealType.ID},
	}
	if args.RecipeID > 0 {
		// Surface a missing recipe as NotFound before creating the plan
		if _, err := c.getRecipe(ctx, args.RecipeID); err != nil {
			return nil, err
		}
		req.Recipe = &entityRef{ID: args.RecipeID}
	}

	body, err := c.doRequest(ctx, "create meal plan", "meal-plan", http.MethodPost, "/api/meal-plan/", nil, req)
	if err != nil {
		return nil, err
	}
	var plan MealPlanEntry
	if err := decodeInto("create meal plan", body, &plan); err != nil {
		return nil, err
	}

	c.logger.Info("Meal plan created", "id", plan.ID, "date", plan.FromDate, "meal_type", plan.MealType.Name)
	return &CreateMealPlanResult{Plan: mealPlanInfo(plan)}, nil
}

// resolveMealType fuzzy matches a meal type name against the configured
// meal types. Meal types are never auto-created.
func (c *Client) resolveMealType(ctx context.Context, name string) (*MealType, error) {
	types, err := c.fetchMealTypes(ctx)
	if err != nil {
		return nil, err
	}

	table := newLookupTable("meal type")
	byID := make(map[int]MealType, len(types))
	for _, mt := range types {
		table.add(mt.ID, mt.Name, "")
		byID[mt.ID] = mt
	}

	res := table.resolve(name)
	switch res.Status {
	case ResolutionMatched:
		mt := byID[res.ID]
		return &mt, nil
	case ResolutionAmbiguous:
		return nil, &AmbiguousMatchError{Kind: "meal type", Query: name, Candidates: res.Candidates}
	}
	available := make([]string, 0, len(types))
	for _, mt := range types {
		available = append(available, mt.Name)
	}
	sort.Strings(available)
	return nil, &NotFoundError{Kind: "meal type", Ref: name,
		Suggestion: fmt.Sprintf("Configured meal types: %v", available)}
}

// DeleteMealPlan removes a meal plan entry
func (c *Client) DeleteMealPlan(ctx context.Context, args DeleteMealPlanArgs) (*DeleteMealPlanResult, error) {
	if args.PlanID <= 0 {
		return nil, &ValidationError{Field: "plan_id", Message: "a positive plan ID is required",
			Suggestion: "Use get_meal_plans to see plan IDs."}
	}
	_, err := c.doRequest(ctx, "delete meal plan", "meal-plan", http.MethodDelete,
		fmt.Sprintf("/api/meal-plan/%d/", args.PlanID), nil, nil)
	if err != nil {
		if nf, ok := err.(*NotFoundError); ok {
			nf.Kind = "meal plan"
			nf.Ref = fmt.Sprintf("%d", args.PlanID)
			nf.Suggestion = "Use get_meal_plans to see current plan IDs."
		}
		return nil, err
	}
	return &DeleteMealPlanResult{Deleted: true, PlanID: args.PlanID}, nil
}

// GetMealTypes lists the configured meal types
func (c *Client) GetMealTypes(ctx context.Context, _ GetMealTypesArgs) (*GetMealTypesResult, error) {
	types, err := c.fetchMealTypes(ctx)
	if err != nil {
		return nil, err
	}
	result := &GetMealTypesResult{MealTypes: make([]MealTypeInfo, 0, len(types))}
	for _, mt := range types {
		result.MealTypes = append(result.MealTypes, MealTypeInfo{ID: mt.ID, Name: mt.Name})
	}
	return result, nil
}

func (c *Client) fetchMealTypes(ctx context.Context) ([]MealType, error) {
	return getAll[MealType](ctx, c, "list meal types", "meal-type", "/api/meal-type/", nil)
}

func mealPlanInfo(p MealPlanEntry) MealPlanInfo {
	info := MealPlanInfo{
		ID:       p.ID,
		Date:     p.FromDate,
		MealType: p.MealType.Name,
		Title:    p.Title,
		Servings: p.Servings,
		Note:     p.Note,
	}
	if len(p.FromDate) >= len(dateLayout) {
		info.Date = p.FromDate[:len(dateLayout)]
	}
	if p.Recipe != nil {
		info.RecipeID = p.Recipe.ID
		info.RecipeName = p.Recipe.Name
	}
	return info
}
