package tandoor

// Args and Result types for the MCP tool surface.

// Constants for response limits
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// ========== Recipe Types ==========

type SearchRecipesArgs struct {
	Query string `json:"query,omitempty" jsonschema:"description=Search text matched against recipe names and keywords"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Maximum results to return (default 20, max 100)"`
	Page  int    `json:"page,omitempty" jsonschema:"description=Result page for pagination (1-based)"`
}

type SearchRecipesResult struct {
	Query   string          `json:"query,omitempty"`
	Total   int             `json:"total"`
	Recipes []RecipeSummary `json:"recipes"`
	HasMore bool            `json:"has_more"`
}

type RecipeSummary struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	TotalTime   int      `json:"total_time_minutes"`
	Servings    int      `json:"servings"`
}

type GetRecipeDetailsArgs struct {
	RecipeID int `json:"recipe_id" jsonschema:"required,description=Recipe ID from search_recipes"`
	Servings int `json:"servings,omitempty" jsonschema:"description=Scale ingredient amounts to this serving count"`
}

type RecipeDetails struct {
	ID            int                `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description,omitempty"`
	Keywords      []string           `json:"keywords,omitempty"`
	Rating        *float64           `json:"rating,omitempty"`
	Servings      int                `json:"servings"`
	ScaledTo      int                `json:"scaled_to,omitempty"`
	ScalingFactor float64            `json:"scaling_factor,omitempty"`
	WorkingTime   int                `json:"working_time_minutes"`
	WaitingTime   int                `json:"waiting_time_minutes"`
	TotalTime     int                `json:"total_time_minutes"`
	SourceURL     string             `json:"source_url,omitempty"`
	Steps         []RecipeStepDetail `json:"steps"`
}

type RecipeStepDetail struct {
	Name        string             `json:"name,omitempty"`
	Instruction string             `json:"instruction"`
	Ingredients []IngredientDetail `json:"ingredients,omitempty"`
}

type IngredientDetail struct {
	Food     string  `json:"food,omitempty"`
	Amount   float64 `json:"amount,omitempty"`
	Unit     string  `json:"unit,omitempty"`
	Note     string  `json:"note,omitempty"`
	IsHeader bool    `json:"is_header,omitempty"`
	OnHand   bool    `json:"on_hand,omitempty"`
}

type CreateRecipeArgs struct {
	Name        string                `json:"name" jsonschema:"required,description=Recipe name"`
	Description string                `json:"description,omitempty" jsonschema:"description=Short description"`
	Servings    int                   `json:"servings,omitempty" jsonschema:"description=Serving count (default 1)"`
	WorkingTime int                   `json:"working_time,omitempty" jsonschema:"description=Active time in minutes"`
	WaitingTime int                   `json:"waiting_time,omitempty" jsonschema:"description=Passive time in minutes"`
	Keywords    []string              `json:"keywords,omitempty" jsonschema:"description=Keywords to tag the recipe with (created when missing)"`
	Steps       []CreateRecipeStepArg `json:"steps" jsonschema:"required,description=Instruction steps with their ingredients"`
}

type CreateRecipeStepArg struct {
	Instruction string                `json:"instruction" jsonschema:"required,description=Step instruction text"`
	Ingredients []CreateIngredientArg `json:"ingredients,omitempty" jsonschema:"description=Ingredients used in this step"`
}

type CreateIngredientArg struct {
	Food   string  `json:"food" jsonschema:"required,description=Food name (fuzzy matched, created when missing)"`
	Amount float64 `json:"amount,omitempty" jsonschema:"description=Quantity"`
	Unit   string  `json:"unit,omitempty" jsonschema:"description=Unit name (fuzzy matched against existing units)"`
	Note   string  `json:"note,omitempty" jsonschema:"description=Free-text note for the ingredient line"`
}

type CreateRecipeResult struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Resolutions []string `json:"resolutions,omitempty"` // noteworthy fuzzy matches and creations
}

type UpdateRecipeArgs struct {
	RecipeID    int      `json:"recipe_id" jsonschema:"required,description=Recipe ID to update"`
	Name        string   `json:"name,omitempty" jsonschema:"description=New name"`
	Description string   `json:"description,omitempty" jsonschema:"description=New description"`
	Servings    int      `json:"servings,omitempty" jsonschema:"description=New serving count"`
	WorkingTime int      `json:"working_time,omitempty" jsonschema:"description=New active time in minutes"`
	WaitingTime int      `json:"waiting_time,omitempty" jsonschema:"description=New passive time in minutes"`
	AddKeywords []string `json:"add_keywords,omitempty" jsonschema:"description=Keywords to add (created when missing)"`
}

type UpdateRecipeResult struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Updated []string `json:"updated_fields"`
}

type RateRecipeArgs struct {
	RecipeID int     `json:"recipe_id" jsonschema:"required,description=Recipe ID to rate"`
	Rating   float64 `json:"rating" jsonschema:"required,description=Rating from 0 to 5"`
	Comment  string  `json:"comment,omitempty" jsonschema:"description=Optional comment stored with the rating"`
}

type RateRecipeResult struct {
	RecipeID int     `json:"recipe_id"`
	Rating   float64 `json:"rating"`
	LogID    int     `json:"log_id"`
}

type ImportRecipeArgs struct {
	URL string `json:"url" jsonschema:"required,description=Public recipe URL to import via the Tandoor scraper"`
}

type ImportRecipeResult struct {
	Imported bool   `json:"imported"`
	RecipeID int    `json:"recipe_id,omitempty"`
	Name     string `json:"name,omitempty"`
	Message  string `json:"message,omitempty"`
}

type SuggestArgs struct {
	Mode string `json:"mode,omitempty" jsonschema:"description=Suggestion mode: 'default' (>=60% match), 'maximum-use' (>=50%), or 'expiring' (>=30% and at most 3 missing)"`
	// Pointer so an explicit 0 (disable the exclusion) is distinguishable
	// from the field being omitted (default window).
	ExcludeRecentDays *int   `json:"exclude_recent_days,omitempty" jsonschema:"description=Skip recipes cooked within this many days (default 7, 0 disables)"`
	Query             string `json:"query,omitempty" jsonschema:"description=Optional search text to narrow the candidate recipes"`
}

type SuggestResult struct {
	Mode        string        `json:"mode"`
	OnHandCount int           `json:"onhand_food_count"`
	Considered  int           `json:"recipes_considered"`
	Excluded    int           `json:"recently_cooked_excluded"`
	Suggestions []RecipeScore `json:"suggestions"`
}

// ========== Shopping List Types ==========

type AddToShoppingListArgs struct {
	Items        []ShoppingItemArg `json:"items" jsonschema:"required,description=Items to add"`
	IgnoreOnHand bool              `json:"ignore_onhand,omitempty" jsonschema:"description=Add items even when the food is marked on hand"`
	SkipMissing  bool              `json:"skip_missing,omitempty" jsonschema:"description=Fail on foods that cannot be resolved instead of creating them"`
}

type ShoppingItemArg struct {
	Food   string  `json:"food" jsonschema:"required,description=Food name (fuzzy matched)"`
	Amount float64 `json:"amount,omitempty" jsonschema:"description=Quantity (default 1)"`
	Unit   string  `json:"unit,omitempty" jsonschema:"description=Unit name (fuzzy matched)"`
}

type AddToShoppingListResult struct {
	Added        []ShoppingChange `json:"added"`
	Skipped      []ShoppingChange `json:"skipped"`
	Consolidated []ShoppingChange `json:"consolidated"`
}

type ShoppingChange struct {
	Food    string  `json:"food"`
	Amount  float64 `json:"amount,omitempty"`
	Unit    string  `json:"unit,omitempty"`
	EntryID int     `json:"entry_id,omitempty"`
	Reason  string  `json:"reason,omitempty"`
}

type GetShoppingListArgs struct {
	IncludeChecked bool `json:"include_checked,omitempty" jsonschema:"description=Include already-checked items"`
}

type GetShoppingListResult struct {
	TotalItems int             `json:"total_items"`
	Groups     []ShoppingGroup `json:"groups"`
}

type ShoppingGroup struct {
	Category string         `json:"category"`
	Items    []ShoppingItem `json:"items"`
}

type ShoppingItem struct {
	EntryID int     `json:"entry_id"`
	Food    string  `json:"food"`
	Amount  float64 `json:"amount,omitempty"`
	Unit    string  `json:"unit,omitempty"`
	Checked bool    `json:"checked,omitempty"`
}

type CheckShoppingItemsArgs struct {
	EntryIDs []int    `json:"entry_ids,omitempty" jsonschema:"description=Entry IDs from get_shopping_list"`
	Names    []string `json:"names,omitempty" jsonschema:"description=Food names matched by substring against open items"`
}

type CheckShoppingItemsResult struct {
	Checked  []ShoppingItem `json:"checked"`
	NotFound []string       `json:"not_found,omitempty"`
}

type UncheckShoppingItemsArgs struct {
	EntryIDs []int    `json:"entry_ids,omitempty" jsonschema:"description=Entry IDs from get_shopping_list"`
	Names    []string `json:"names,omitempty" jsonschema:"description=Food names matched by substring against checked items"`
}

type RemoveShoppingItemsArgs struct {
	EntryIDs []int    `json:"entry_ids,omitempty" jsonschema:"description=Entry IDs from get_shopping_list"`
	Names    []string `json:"names,omitempty" jsonschema:"description=Food names matched by substring against list items"`
}

type RemoveShoppingItemsResult struct {
	Removed  []ShoppingItem `json:"removed"`
	NotFound []string       `json:"not_found,omitempty"`
}

type ClearShoppingListArgs struct {
	// No arguments; only checked items are cleared.
}

type ClearShoppingListResult struct {
	RemovedItems  []string `json:"removed_items"`
	PantryUpdated []string `json:"pantry_updated"`
}

// ========== Food / Pantry Types ==========

type SearchFoodsArgs struct {
	Query string `json:"query" jsonschema:"required,description=Search text for food names"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Maximum results (default 20, max 100)"`
}

type SearchFoodsResult struct {
	Query string     `json:"query"`
	Foods []FoodInfo `json:"foods"`
}

type FoodInfo struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	OnHand   bool   `json:"on_hand"`
	Category string `json:"category,omitempty"`
}

type CreateFoodArgs struct {
	Name   string `json:"name" jsonschema:"required,description=Food name"`
	OnHand bool   `json:"on_hand,omitempty" jsonschema:"description=Mark the food as on hand immediately"`
}

type CreateFoodResult struct {
	Food FoodInfo `json:"food"`
}

type UpdatePantryArgs struct {
	Foods  []string `json:"foods" jsonschema:"required,description=Food names (fuzzy matched)"`
	OnHand bool     `json:"on_hand" jsonschema:"required,description=Whether the foods are on hand"`
}

type UpdatePantryResult struct {
	Updated  []FoodInfo `json:"updated"`
	NotFound []string   `json:"not_found,omitempty"`
}

type ListPantryArgs struct {
	// No arguments; lists all on-hand foods.
}

type ListPantryResult struct {
	Count int        `json:"count"`
	Foods []FoodInfo `json:"foods"`
}

// ========== Meal Plan Types ==========

type GetMealPlansArgs struct {
	FromDate string `json:"from_date,omitempty" jsonschema:"description=Window start (YYYY-MM-DD, default today)"`
	ToDate   string `json:"to_date,omitempty" jsonschema:"description=Window end (YYYY-MM-DD, default 7 days out)"`
}

type GetMealPlansResult struct {
	FromDate string         `json:"from_date"`
	ToDate   string         `json:"to_date"`
	Plans    []MealPlanInfo `json:"plans"`
}

type MealPlanInfo struct {
	ID         int     `json:"id"`
	Date       string  `json:"date"`
	MealType   string  `json:"meal_type"`
	RecipeID   int     `json:"recipe_id,omitempty"`
	RecipeName string  `json:"recipe_name,omitempty"`
	Title      string  `json:"title,omitempty"`
	Servings   float64 `json:"servings"`
	Note       string  `json:"note,omitempty"`
}

type CreateMealPlanArgs struct {
	Date     string  `json:"date" jsonschema:"required,description=Date to plan for (YYYY-MM-DD)"`
	MealType string  `json:"meal_type" jsonschema:"required,description=Meal type name (fuzzy matched, e.g. 'dinner')"`
	RecipeID int     `json:"recipe_id,omitempty" jsonschema:"description=Recipe to plan; omit for a free-text entry"`
	Title    string  `json:"title,omitempty" jsonschema:"description=Title for free-text entries"`
	Servings float64 `json:"servings,omitempty" jsonschema:"description=Servings (default 1)"`
	Note     string  `json:"note,omitempty" jsonschema:"description=Optional note"`
}

type CreateMealPlanResult struct {
	Plan MealPlanInfo `json:"plan"`
}

type DeleteMealPlanArgs struct {
	PlanID int `json:"plan_id" jsonschema:"required,description=Meal plan entry ID from get_meal_plans"`
}

type DeleteMealPlanResult struct {
	Deleted bool `json:"deleted"`
	PlanID  int  `json:"plan_id"`
}

type GetMealTypesArgs struct {
	// No arguments.
}

type GetMealTypesResult struct {
	MealTypes []MealTypeInfo `json:"meal_types"`
}

type MealTypeInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ========== Cooking History Types ==========

type GetCookLogArgs struct {
	DaysBack int `json:"days_back,omitempty" jsonschema:"description=How many days of history to return (default 30)"`
	RecipeID int `json:"recipe_id,omitempty" jsonschema:"description=Filter by recipe"`
}

type GetCookLogResult struct {
	DaysBack int           `json:"days_back"`
	Entries  []CookLogInfo `json:"entries"`
}

type CookLogInfo struct {
	ID       int      `json:"id"`
	RecipeID int      `json:"recipe_id"`
	CookedAt string   `json:"cooked_at,omitempty"`
	Servings int      `json:"servings,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	Comment  string   `json:"comment,omitempty"`
}

type LogCookedRecipeArgs struct {
	RecipeID int     `json:"recipe_id" jsonschema:"required,description=Recipe that was cooked"`
	Servings int     `json:"servings,omitempty" jsonschema:"description=Servings actually cooked"`
	Rating   float64 `json:"rating,omitempty" jsonschema:"description=Rating from 0 to 5"`
	Comment  string  `json:"comment,omitempty" jsonschema:"description=Notes about this cook"`
}

type LogCookedRecipeResult struct {
	Entry CookLogInfo `json:"entry"`
}

// ========== Reference Types ==========

type GetKeywordsArgs struct {
	Query string `json:"query,omitempty" jsonschema:"description=Filter keywords by search text"`
}

type GetKeywordsResult struct {
	Keywords []KeywordInfo `json:"keywords"`
}

type KeywordInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type GetUnitsArgs struct {
	Query string `json:"query,omitempty" jsonschema:"description=Filter units by search text"`
}

type GetUnitsResult struct {
	Units []UnitInfo `json:"units"`
}

type UnitInfo struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	PluralName string `json:"plural_name,omitempty"`
}

type ConvertUnitArgs struct {
	Food     string  `json:"food" jsonschema:"required,description=Food the conversion applies to (fuzzy matched)"`
	Amount   float64 `json:"amount" jsonschema:"required,description=Amount to convert"`
	FromUnit string  `json:"from_unit" jsonschema:"required,description=Source unit name"`
	ToUnit   string  `json:"to_unit" jsonschema:"required,description=Target unit name"`
}

type ConvertUnitResult struct {
	Food       string  `json:"food"`
	FromAmount float64 `json:"from_amount"`
	FromUnit   string  `json:"from_unit"`
	ToAmount   float64 `json:"to_amount"`
	ToUnit     string  `json:"to_unit"`
}

type GetRecipeBooksArgs struct {
	// No arguments.
}

type GetRecipeBooksResult struct {
	Books []RecipeBookInfo `json:"books"`
}

type RecipeBookInfo struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type CreateRecipeBookArgs struct {
	Name        string `json:"name" jsonschema:"required,description=Book name"`
	Description string `json:"description,omitempty" jsonschema:"description=Optional description"`
}

type CreateRecipeBookResult struct {
	Book RecipeBookInfo `json:"book"`
}

type AddRecipeToBookArgs struct {
	RecipeID int    `json:"recipe_id" jsonschema:"required,description=Recipe to add"`
	Book     string `json:"book" jsonschema:"required,description=Book name (fuzzy matched; created when missing)"`
}

type AddRecipeToBookResult struct {
	BookID      int    `json:"book_id"`
	BookName    string `json:"book_name"`
	RecipeID    int    `json:"recipe_id"`
	EntryID     int    `json:"entry_id"`
	BookCreated bool   `json:"book_created,omitempty"`
}
