package tandoor

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// SearchRecipes searches recipes by name and keyword text
func (c *Client) SearchRecipes(ctx context.Context, args SearchRecipesArgs) (*SearchRecipesResult, error) {
	limit := normalizeLimit(args.Limit, DefaultSearchLimit, MaxSearchLimit)
	page := args.Page
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("page_size", fmt.Sprintf("%d", limit))
	params.Set("page", fmt.Sprintf("%d", page))
	if args.Query != "" {
		params.Set("query", args.Query)
	}

	body, err := c.doRequest(ctx, "search recipes", "recipe", http.MethodGet, "/api/recipe/", params, nil)
	if err != nil {
		return nil, err
	}
	var envelope paginated[RecipeOverview]
	if err := decodeInto("search recipes", body, &envelope); err != nil {
		return nil, err
	}

	result := &SearchRecipesResult{
		Query:   args.Query,
		Total:   envelope.Count,
		Recipes: make([]RecipeSummary, 0, len(envelope.Results)),
		HasMore: envelope.Next != nil && *envelope.Next != "",
	}
	for _, rec := range envelope.Results {
		result.Recipes = append(result.Recipes, RecipeSummary{
			ID:          rec.ID,
			Name:        rec.Name,
			Description: rec.Description,
			Keywords:    keywordNames(rec.Keywords),
			Rating:      rec.Rating,
			TotalTime:   rec.TotalTime(),
			Servings:    rec.Servings,
		})
	}
	return result, nil
}

// GetRecipeDetails fetches one recipe with full steps and ingredients,
// optionally scaling amounts to a requested serving count.
func (c *Client) GetRecipeDetails(ctx context.Context, args GetRecipeDetailsArgs) (*RecipeDetails, error) {
	if args.RecipeID <= 0 {
		return nil, &ValidationError{Field: "recipe_id", Message: "a positive recipe ID is required",
			Suggestion: "Use search_recipes to find the recipe ID first."}
	}
	if args.Servings < 0 {
		return nil, &ValidationError{Field: "servings", Value: fmt.Sprintf("%d", args.Servings),
			Message: "servings cannot be negative"}
	}

	rec, err := c.getRecipe(ctx, args.RecipeID)
	if err != nil {
		return nil, err
	}

	// Scaling is linear on ingredient amounts; amount-less lines stay as-is.
	factor := 1.0
	if args.Servings > 0 && rec.Servings > 0 && args.Servings != rec.Servings {
		factor = float64(args.Servings) / float64(rec.Servings)
	}

	details := &RecipeDetails{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		Keywords:    keywordNames(rec.Keywords),
		Rating:      rec.Rating,
		Servings:    rec.Servings,
		WorkingTime: rec.WorkingTime,
		WaitingTime: rec.WaitingTime,
		TotalTime:   rec.TotalTime(),
		SourceURL:   rec.SourceURL,
	}
	if factor != 1.0 {
		details.ScaledTo = args.Servings
		details.ScalingFactor = roundAmount(factor)
	}

	for _, step := range rec.Steps {
		sd := RecipeStepDetail{Name: step.Name, Instruction: step.Instruction}
		for _, ing := range step.Ingredients {
			id := IngredientDetail{
				Note:     ing.Note,
				IsHeader: ing.IsHeader,
			}
			if ing.Food != nil {
				id.Food = ing.Food.Name
				id.OnHand = ing.Food.OnHand
			}
			if ing.Unit != nil {
				id.Unit = ing.Unit.Name
			}
			if !ing.NoAmount {
				id.Amount = roundAmount(ing.Amount * factor)
			}
			sd.Ingredients = append(sd.Ingredients, id)
		}
		details.Steps = append(details.Steps, sd)
	}
	return details, nil
}

// getRecipe fetches a recipe detail by ID
func (c *Client) getRecipe(ctx context.Context, id int) (*Recipe, error) {
	body, err := c.doRequest(ctx, "get recipe", "recipe", http.MethodGet,
		fmt.Sprintf("/api/recipe/%d/", id), nil, nil)
	if err != nil {
		if nf, ok := err.(*NotFoundError); ok {
			nf.Kind = "recipe"
			nf.Ref = fmt.Sprintf("%d", id)
			nf.Suggestion = "Use search_recipes to list available recipes."
		}
		return nil, err
	}
	var rec Recipe
	if err := decodeInto("get recipe", body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateRecipe creates a recipe with steps and ingredients. Food and keyword
// names are fuzzy resolved against existing entries and created when missing;
// unit names must already exist.
func (c *Client) CreateRecipe(ctx context.Context, args CreateRecipeArgs) (*CreateRecipeResult, error) {
	if strings.TrimSpace(args.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "a recipe name is required"}
	}
	if len(args.Steps) == 0 {
		return nil, &ValidationError{Field: "steps", Message: "at least one step is required"}
	}

	needs := catalogNeeds{foods: true, units: true, keywords: len(args.Keywords) > 0}
	cat, err := c.loadCatalog(ctx, needs)
	if err != nil {
		return nil, err
	}

	var notes []string
	payload := Recipe{
		Name:        strings.TrimSpace(args.Name),
		Description: args.Description,
		Servings:    args.Servings,
		WorkingTime: args.WorkingTime,
		WaitingTime: args.WaitingTime,
	}
	if payload.Servings <= 0 {
		payload.Servings = 1
	}

	for _, kw := range args.Keywords {
		keyword, note, err := c.resolveKeyword(ctx, cat, kw)
		if err != nil {
			return nil, err
		}
		if note != "" {
			notes = append(notes, note)
		}
		payload.Keywords = append(payload.Keywords, keyword)
	}

	for i, stepArg := range args.Steps {
		if strings.TrimSpace(stepArg.Instruction) == "" {
			return nil, &ValidationError{Field: fmt.Sprintf("steps[%d].instruction", i),
				Message: "step instruction cannot be empty"}
		}
		step := Step{Instruction: stepArg.Instruction, Ingredients: []Ingredient{}}
		for _, ingArg := range stepArg.Ingredients {
			food, res, err := c.resolveFood(ctx, cat, ingArg.Food, true)
			if err != nil {
				return nil, err
			}
			if note := resolutionNote(res); note != "" {
				notes = append(notes, note)
			}
			unit, unitRes, err := cat.resolveUnit(ingArg.Unit)
			if err != nil {
				return nil, err
			}
			if note := resolutionNote(unitRes); note != "" {
				notes = append(notes, note)
			}
			step.Ingredients = append(step.Ingredients, Ingredient{
				Food:     &food,
				Unit:     unit,
				Amount:   ingArg.Amount,
				Note:     ingArg.Note,
				NoAmount: ingArg.Amount == 0,
			})
		}
		payload.Steps = append(payload.Steps, step)
	}

	body, err := c.doRequest(ctx, "create recipe", "recipe", http.MethodPost, "/api/recipe/", nil, payload)
	if err != nil {
		return nil, err
	}
	var created Recipe
	if err := decodeInto("create recipe", body, &created); err != nil {
		return nil, err
	}

	c.logger.Info("Recipe created", "id", created.ID, "name", created.Name, "steps", len(created.Steps))
	return &CreateRecipeResult{ID: created.ID, Name: created.Name, Resolutions: notes}, nil
}

// resolveKeyword resolves a keyword name, creating it when missing
func (c *Client) resolveKeyword(ctx context.Context, cat *catalog, name string) (Keyword, string, error) {
	res := cat.keywords.resolve(name)
	switch res.Status {
	case ResolutionMatched:
		return Keyword{ID: res.ID, Name: res.Name}, resolutionNote(res), nil
	case ResolutionAmbiguous:
		return Keyword{}, "", &AmbiguousMatchError{Kind: string(KindKeyword), Query: name, Candidates: res.Candidates}
	}

	body, err := c.doRequest(ctx, "create keyword", "keyword", http.MethodPost, "/api/keyword/", nil,
		map[string]string{"name": strings.TrimSpace(name)})
	if err != nil {
		return Keyword{}, "", err
	}
	var kw Keyword
	if err := decodeInto("create keyword", body, &kw); err != nil {
		return Keyword{}, "", err
	}
	cat.keywords.add(kw.ID, kw.Name, "")
	return kw, fmt.Sprintf("keyword %q created", kw.Name), nil
}

// resolutionNote describes a non-trivial resolution for tool output
func resolutionNote(res Resolution) string {
	switch res.Status {
	case ResolutionCreated:
		return fmt.Sprintf("%s %q created", res.Kind, res.Name)
	case ResolutionMatched:
		if res.Rule != "" && res.Rule != "exact" && !strings.EqualFold(res.Query, res.Name) {
			return fmt.Sprintf("%s %q matched existing %q", res.Kind, res.Query, res.Name)
		}
	}
	return ""
}

// UpdateRecipe patches recipe metadata. Only the provided fields change;
// steps and ingredients are left untouched.
func (c *Client) UpdateRecipe(ctx context.Context, args UpdateRecipeArgs) (*UpdateRecipeResult, error) {
	if args.RecipeID <= 0 {
		return nil, &ValidationError{Field: "recipe_id", Message: "a positive recipe ID is required"}
	}

	rec, err := c.getRecipe(ctx, args.RecipeID)
	if err != nil {
		return nil, err
	}

	var updated []string
	if args.Name != "" {
		rec.Name = args.Name
		updated = append(updated, "name")
	}
	if args.Description != "" {
		rec.Description = args.Description
		updated = append(updated, "description")
	}
	if args.Servings > 0 {
		rec.Servings = args.Servings
		updated = append(updated, "servings")
	}
	if args.WorkingTime > 0 {
		rec.WorkingTime = args.WorkingTime
		updated = append(updated, "working_time")
	}
	if args.WaitingTime > 0 {
		rec.WaitingTime = args.WaitingTime
		updated = append(updated, "waiting_time")
	}

	if len(args.AddKeywords) > 0 {
		cat, err := c.loadCatalog(ctx, catalogNeeds{keywords: true})
		if err != nil {
			return nil, err
		}
		existing := make(map[int]bool, len(rec.Keywords))
		for _, kw := range rec.Keywords {
			existing[kw.ID] = true
		}
		for _, name := range args.AddKeywords {
			kw, _, err := c.resolveKeyword(ctx, cat, name)
			if err != nil {
				return nil, err
			}
			if !existing[kw.ID] {
				rec.Keywords = append(rec.Keywords, kw)
				existing[kw.ID] = true
			}
		}
		updated = append(updated, "keywords")
	}

	if len(updated) == 0 {
		return nil, &ValidationError{Field: "update", Message: "no fields to update were provided",
			Suggestion: "Provide at least one of name, description, servings, working_time, waiting_time, or add_keywords."}
	}

	body, err := c.doRequest(ctx, "update recipe", "recipe", http.MethodPatch,
		fmt.Sprintf("/api/recipe/%d/", args.RecipeID), nil, rec)
	if err != nil {
		return nil, err
	}
	var saved Recipe
	if err := decodeInto("update recipe", body, &saved); err != nil {
		return nil, err
	}

	return &UpdateRecipeResult{ID: saved.ID, Name: saved.Name, Updated: updated}, nil
}

// RateRecipe records a rating as a cook log entry. Tandoor derives the
// displayed recipe rating from its cook log, so rating and logging a cook
// share the same endpoint.
func (c *Client) RateRecipe(ctx context.Context, args RateRecipeArgs) (*RateRecipeResult, error) {
	if args.RecipeID <= 0 {
		return nil, &ValidationError{Field: "recipe_id", Message: "a positive recipe ID is required"}
	}
	if args.Rating < 0 || args.Rating > 5 {
		return nil, &ValidationError{Field: "rating", Value: fmt.Sprintf("%g", args.Rating),
			Message: "rating must be between 0 and 5"}
	}

	rating := args.Rating
	entry, err := c.createCookLog(ctx, createCookLogRequest{
		Recipe:  args.RecipeID,
		Rating:  &rating,
		Comment: args.Comment,
	})
	if err != nil {
		return nil, err
	}
	return &RateRecipeResult{RecipeID: args.RecipeID, Rating: args.Rating, LogID: entry.ID}, nil
}

// ImportRecipeFromURL asks the server to scrape and import a recipe
func (c *Client) ImportRecipeFromURL(ctx context.Context, args ImportRecipeArgs) (*ImportRecipeResult, error) {
	u, err := url.Parse(args.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &ValidationError{Field: "url", Value: args.URL,
			Message:    "a full http(s) URL is required",
			Suggestion: "Example: https://example.com/recipes/carbonara"}
	}

	body, err := c.doRequest(ctx, "import recipe", "recipe", http.MethodPost,
		"/api/recipe-from-source/", nil, importRecipeRequest{URL: args.URL})
	if err != nil {
		return nil, err
	}
	var resp importRecipeResponse
	if err := decodeInto("import recipe", body, &resp); err != nil {
		return nil, err
	}

	if resp.Recipe == nil {
		msg := resp.Error
		if msg == "" {
			msg = resp.Msg
		}
		if msg == "" {
			msg = "the server could not extract a recipe from that page"
		}
		return &ImportRecipeResult{Imported: false, Message: msg}, nil
	}

	c.logger.Info("Recipe imported", "id", resp.Recipe.ID, "name", resp.Recipe.Name, "source", args.URL)
	return &ImportRecipeResult{Imported: true, RecipeID: resp.Recipe.ID, Name: resp.Recipe.Name, Message: resp.Msg}, nil
}

// SuggestFromInventory ranks recipes by how much of their ingredient list is
// already on hand, skipping recently cooked recipes.
func (c *Client) SuggestFromInventory(ctx context.Context, args SuggestArgs) (*SuggestResult, error) {
	mode := strings.ToLower(strings.TrimSpace(args.Mode))
	switch mode {
	case "", ModeDefault, ModeMaximumUse, ModeExpiring:
	default:
		return nil, &ValidationError{Field: "mode", Value: args.Mode,
			Message:    "unknown suggestion mode",
			Suggestion: "Use 'default', 'maximum-use', or 'expiring'."}
	}
	if mode == "" {
		mode = ModeDefault
	}
	excludeDays := DefaultExcludeRecentDays
	if args.ExcludeRecentDays != nil {
		if *args.ExcludeRecentDays < 0 {
			return nil, &ValidationError{Field: "exclude_recent_days",
				Value: fmt.Sprintf("%d", *args.ExcludeRecentDays), Message: "cannot be negative"}
		}
		excludeDays = *args.ExcludeRecentDays
	}

	foods, err := c.fetchFoods(ctx, "")
	if err != nil {
		return nil, err
	}
	onHandIDs := make(map[int]bool)
	onHandNames := make(map[string]bool)
	for _, f := range foods {
		if f.OnHand {
			onHandIDs[f.ID] = true
			onHandNames[normalizeName(f.Name)] = true
		}
	}

	result := &SuggestResult{Mode: mode, OnHandCount: len(onHandIDs), Suggestions: []RecipeScore{}}
	if len(onHandIDs) == 0 {
		return result, nil
	}

	recentIDs := map[int]bool{}
	if excludeDays > 0 {
		recentIDs, err = c.recentlyCookedRecipes(ctx, excludeDays)
		if err != nil {
			return nil, err
		}
	}

	params := url.Values{}
	if args.Query != "" {
		params.Set("query", args.Query)
	}
	overviews, err := getAll[RecipeOverview](ctx, c, "suggest recipes", "recipe", "/api/recipe/", params)
	if err != nil {
		return nil, err
	}

	var candidates []int
	for _, rec := range overviews {
		if recentIDs[rec.ID] {
			result.Excluded++
			continue
		}
		candidates = append(candidates, rec.ID)
	}
	result.Considered = len(candidates)

	scores := c.scoreCandidates(ctx, candidates, onHandIDs, onHandNames)

	minScore, maxMissing := modeThresholds(mode)
	var accepted []RecipeScore
	for _, s := range scores {
		if acceptScore(s, minScore, maxMissing) {
			accepted = append(accepted, s)
		}
	}
	sortScores(accepted)
	if len(accepted) > maxSuggestions {
		accepted = accepted[:maxSuggestions]
	}
	result.Suggestions = accepted
	return result, nil
}

// scoreCandidates fetches recipe details and scores them. Detail fetches run
// concurrently; individual failures drop that recipe from the results rather
// than failing the whole suggestion.
func (c *Client) scoreCandidates(ctx context.Context, ids []int, onHandIDs map[int]bool, onHandNames map[string]bool) []RecipeScore {
	scores := make([]RecipeScore, len(ids))
	valid := make([]bool, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			rec, err := c.getRecipe(ctx, id)
			if err != nil {
				c.logger.Warn("Skipping recipe in suggestions", "recipe_id", id, "error", err)
				return
			}
			scores[i] = scoreRecipe(rec, onHandIDs, onHandNames)
			valid[i] = true
		}(i, id)
	}
	wg.Wait()

	out := scores[:0:0]
	for i, ok := range valid {
		if ok {
			out = append(out, scores[i])
		}
	}
	return out
}

// recentlyCookedRecipes returns the IDs of recipes cooked within the window
func (c *Client) recentlyCookedRecipes(ctx context.Context, days int) (map[int]bool, error) {
	entries, err := getAll[CookLogEntry](ctx, c, "list cook log", "cook-log", "/api/cook-log/", nil)
	if err != nil {
		return nil, err
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	recent := make(map[int]bool)
	for _, e := range entries {
		t, err := time.Parse(time.RFC3339, e.CreatedAt)
		if err != nil {
			continue
		}
		if t.After(cutoff) {
			recent[e.Recipe] = true
		}
	}
	return recent, nil
}

// keywordNames flattens keywords for display
func keywordNames(keywords []Keyword) []string {
	if len(keywords) == 0 {
		return nil
	}
	names := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw.Name != "" {
			names = append(names, kw.Name)
		}
	}
	return names
}
