package tools

// AllTools contains all tool specifications for the Tandoor MCP server.
// Tools are organized by category for easier maintenance.
// Tool descriptions follow a structured format for optimal LLM tool selection:
// - USE WHEN: Natural language triggers
// - NOT FOR: Disambiguation from similar tools
// - PARAMETERS: Key arguments with defaults
// - RETURNS: What the tool returns
var AllTools = []ToolSpec{
	// ==========================================================================
	// RECIPE TOOLS
	// ==========================================================================
	{
		Name:     "tandoor_search_recipes",
		Method:   "SearchRecipes",
		Title:    "Search Recipes",
		Category: "recipes",
		Description: `Search recipes by name and keyword text.

USE WHEN: User asks "find recipes with X", "do I have a recipe for X", "list my pasta recipes".

NOT FOR: Full ingredients and instructions (use tandoor_get_recipe_details). Not for suggestions based on the pantry (use tandoor_suggest_from_inventory).

PARAMETERS:
- query: Search text (optional, empty lists everything)
- limit: Max results (default 20, max 100)
- page: Result page (default 1)

RETURNS: Recipe summaries with ID, keywords, rating, total time, and servings.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "tandoor_get_recipe_details",
		Method:   "GetRecipeDetails",
		Title:    "Get Recipe Details",
		Category: "recipes",
		Description: `Retrieve one recipe with full steps and ingredients, optionally scaled to a serving count.

USE WHEN: User says "show me the carbonara recipe", "how do I make X", "scale X to 6 servings".

NOT FOR: Finding recipes by topic (use tandoor_search_recipes).

PARAMETERS:
- recipe_id: Recipe ID from tandoor_search_recipes (required)
- servings: Scale ingredient amounts to this serving count (optional)

RETURNS: Steps, ingredients with amounts and on-hand flags, times, and source URL.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "tandoor_create_recipe",
		Method:   "CreateRecipe",
		Title:    "Create Recipe",
		Category: "recipes",
		Description: `Create a recipe with steps and ingredients. Food and keyword names are fuzzy matched against existing entries and created when missing.

USE WHEN: User dictates or pastes a recipe to save, "add this recipe", "save my grandmother's stew".

NOT FOR: Importing from a website (use tandoor_import_recipe_from_url). Not for editing an existing recipe (use tandoor_update_recipe).

PARAMETERS:
- name: Recipe name (required)
- steps: Instruction steps with ingredients (required)
- servings, working_time, waiting_time, keywords, description (optional)

RETURNS: The new recipe ID plus notes about fuzzy matches and created entities.`,
		OpenWorld: true,
	},
	{
		Name:     "tandoor_update_recipe",
		Method:   "UpdateRecipe",
		Title:    "Update Recipe",
		Category: "recipes",
		Description: `Update recipe metadata: name, description, servings, times, keywords.

USE WHEN: User says "rename recipe X", "change servings to 4", "tag X as vegetarian".

NOT FOR: Editing steps or ingredients (not supported). Not for rating (use tandoor_rate_recipe).

PARAMETERS:
- recipe_id: Recipe to update (required)
- name, description, servings, working_time, waiting_time, add_keywords (at least one)

RETURNS: The updated recipe and the list of changed fields.`,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "tandoor_rate_recipe",
		Method:   "RateRecipe",
		Title:    "Rate Recipe",
		Category: "recipes",
		Description: `Rate a recipe from 0 to 5. The rating is stored as a cook log entry, which is how Tandoor computes recipe ratings.

USE WHEN: User says "rate X five stars", "that was a 3 out of 5".

NOT FOR: Recording that a recipe was cooked with servings (use tandoor_log_cooked_recipe, which also accepts a rating).

PARAMETERS:
- recipe_id: Recipe to rate (required)
- rating: 0 to 5 (required)
- comment: Optional note

RETURNS: The recorded rating and log entry ID.`,
		OpenWorld: true,
	},
	{
		Name:     "tandoor_import_recipe_from_url",
		Method:   "ImportRecipeFromURL",
		Title:    "Import Recipe from URL",
		Category: "recipes",
		Description: `Import a recipe from a public website via the Tandoor scraper.

USE WHEN: User pastes a recipe URL, "import this recipe", "save the recipe from this link".

NOT FOR: Recipes the user types out (use tandoor_create_recipe).

PARAMETERS:
- url: Full http(s) URL (required)

RETURNS: The imported recipe ID and name, or the scraper's message when the page could not be parsed.`,
		OpenWorld: true,
	},
	{
		Name:     "tandoor_suggest_from_inventory",
		Method:   "SuggestFromInventory",
		Title:    "Suggest Recipes",
		Category: "recipes",
		Description: `Suggest recipes ranked by how much of their ingredient list is already on hand. Recently cooked recipes are excluded.

USE WHEN: User asks "what can I cook tonight", "what should I make with what I have", "use up my pantry".

NOT FOR: Searching by name or keyword (use tandoor_search_recipes).

PARAMETERS:
- mode: "default" (>=60% on hand), "maximum-use" (>=50%), or "expiring" (>=30% and at most 3 missing)
- exclude_recent_days: Skip recipes cooked within this window (default 7, 0 disables)
- query: Optional text filter on candidates

RETURNS: Up to 10 recipes with match scores and missing ingredients, best match first.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},

	// ==========================================================================
	// SHOPPING LIST TOOLS
	// ==========================================================================
	{
		Name:     "tandoor_add_to_shopping_list",
		Method:   "AddToShoppingList",
		Title:    "Add to Shopping List",
		Category: "shopping",
		Description: `Add items to the shopping list. Items whose food is already on hand are skipped; items matching an existing open entry are consolidated into it, converting units when a conversion is defined.

USE WHEN: User says "add milk and eggs to the list", "put 500g flour on the shopping list".

NOT FOR: Viewing the list (use tandoor_get_shopping_list).

PARAMETERS:
- items: List of {food, amount, unit} (required; amount defaults to 1)
- ignore_onhand: Add even when the food is on hand (default false)
- skip_missing: Fail on unknown foods instead of creating them (default false)

RETURNS: The added/skipped/consolidated partition with entry IDs. Any failed step fails the call with the completed and failed steps listed; completed steps are never rolled back.`,
		OpenWorld: true,
	},
	{
		Name:     "tandoor_get_shopping_list",
		Method:   "GetShoppingList",
		Title:    "Get Shopping List",
		Category: "shopping",
		Description: `Show the shopping list grouped by supermarket category.

USE WHEN: User asks "what's on my shopping list", "show the list".

NOT FOR: Modifying the list (use the add/check/remove tools).

PARAMETERS:
- include_checked: Also show checked-off items (default false)

RETURNS: Items with entry IDs, amounts, and units, grouped by category.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "tandoor_check_shopping_items",
		Method:   "CheckShoppingItems",
		Title:    "Check Shopping Items",
		Category: "shopping",
		Description: `Mark shopping list items as checked (bought).

USE WHEN: User says "I got the milk", "check off eggs and butter".

NOT FOR: Removing items entirely (use tandoor_remove_shopping_items). Not for finishing a shopping trip (use tandoor_clear_shopping_list).

PARAMETERS:
- entry_ids: Entry IDs from tandoor_get_shopping_list (optional)
- names: Food names matched by substring (optional; one of the two is required)

RETURNS: The checked items and any selectors that matched nothing.`,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "tandoor_uncheck_shopping_items",
		Method:   "UncheckShoppingItems",
		Title:    "Uncheck Shopping Items",
		Category: "shopping",
		Description: `Put checked items back on the open shopping list.

USE WHEN: User says "actually I didn't get the milk", "uncheck the eggs".

NOT FOR: Adding new items (use tandoor_add_to_shopping_list).

PARAMETERS:
- entry_ids: Entry IDs (optional)
- names: Food names matched by substring (optional; one of the two is required)

RETURNS: The unchecked items and any selectors that matched nothing.`,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "tandoor_remove_shopping_items",
		Method:   "RemoveShoppingItems",
		Title:    "Remove Shopping Items",
		Category: "shopping",
		Description: `Delete items from the shopping list entirely.

USE WHEN: User says "remove the anchovies from the list", "I don't need the flour anymore".

NOT FOR: Marking items as bought (use tandoor_check_shopping_items).

PARAMETERS:
- entry_ids: Entry IDs (optional)
- names: Food names matched by substring (optional; one of the two is required)

RETURNS: The removed items and selectors that matched nothing. Failed deletes fail the call; completed deletes stay done.`,
		Destructive: true,
		OpenWorld:   true,
	},
	{
		Name:     "tandoor_clear_shopping_list",
		Method:   "ClearShoppingList",
		Title:    "Clear Shopping List",
		Category: "shopping",
		Description: `Finish a shopping trip: remove all checked items and mark their foods as on hand in the pantry.

USE WHEN: User says "I'm done shopping", "clear the bought items", "put away the groceries".

NOT FOR: Deleting unbought items (use tandoor_remove_shopping_items).

PARAMETERS: None. Only checked items are affected.

RETURNS: Removed items and pantry updates. Each item is removed before its pantry update; any failed step fails the call and completed steps stay done.`,
		Destructive: true,
		OpenWorld:   true,
	},

	// ==========================================================================
	// FOOD AND PANTRY TOOLS
	// ==========================================================================
	{
		Name:     "tandoor_search_foods",
		Method:   "SearchFoods",
		Title:    "Search Foods",
		Category: "pantry",
		Description: `Search the food database by name.

USE WHEN: User asks "do I have tomatoes in the database", "what foods match X".

NOT FOR: Listing what's on hand (use tandoor_list_pantry).

PARAMETERS:
- query: Search text (required)
- limit: Max results (default 20, max 100)

RETURNS: Foods with ID, on-hand flag, and supermarket category.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "tandoor_create_food",
		Method:   "CreateFood",
		Title:    "Create Food",
		Category: "pantry",
		Description: `Create a food entry directly.

USE WHEN: User says "add quinoa to my foods", and the food genuinely doesn't exist yet.

NOT FOR: Adding to the shopping list (tandoor_add_to_shopping_list creates missing foods itself).

PARAMETERS:
- name: Food name (required)
- on_hand: Mark as on hand immediately (default false)

RETURNS: The created food.`,
		OpenWorld: true,
	},
	{
		Name:     "tandoor_update_pantry",
		Method:   "UpdatePantry",
		Title:    "Update Pantry",
		Category: "pantry",
		Description: `Mark foods as on hand or used up. Names are fuzzy matched.

USE WHEN: User says "I have eggs and milk at home", "we're out of butter", "used up the flour".

NOT FOR: Creating new foods (use tandoor_create_food).

PARAMETERS:
- foods: Food names (required)
- on_hand: true for stocked, false for used up (required)

RETURNS: Updated foods and names that matched nothing.`,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "tandoor_list_pantry",
		Method:   "ListPantry",
		Title:    "List Pantry",
		Category: "pantry",
		Description: `List everything currently marked on hand.

USE WHEN: User asks "what do I have at home", "what's in my pantry".

NOT FOR: Searching all foods (use tandoor_search_foods).

PARAMETERS: None.

RETURNS: On-hand foods sorted by name.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},

	// ==========================================================================
	// MEAL PLAN TOOLS
	// ==========================================================================
	{
		Name:     "tandoor_get_meal_plans",
		Method:   "GetMealPlans",
		Title:    "Get Meal Plans",
		Category: "mealplan",
		Description: `List planned meals in a date window.

USE WHEN: User asks "what's for dinner this week", "show my meal plan".

NOT FOR: Cooking history (use tandoor_get_cook_log).

PARAMETERS:
- from_date: Window start, YYYY-MM-DD (default today)
- to_date: Window end (default 7 days out)

RETURNS: Plans sorted by date with recipe, meal type, and servings.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "tandoor_create_meal_plan",
		Method:   "CreateMealPlan",
		Title:    "Create Meal Plan",
		Category: "mealplan",
		Description: `Schedule a recipe or free-text entry for a date. The meal type name is fuzzy matched against the configured meal types.

USE WHEN: User says "plan carbonara for Friday dinner", "put leftovers on Tuesday lunch".

NOT FOR: Recording meals already cooked (use tandoor_log_cooked_recipe).

PARAMETERS:
- date: YYYY-MM-DD (required)
- meal_type: e.g. "dinner" (required)
- recipe_id: Recipe to plan, or title: free text (one of the two is required)
- servings, note (optional)

RETURNS: The created plan entry.`,
		OpenWorld: true,
	},
	{
		Name:     "tandoor_delete_meal_plan",
		Method:   "DeleteMealPlan",
		Title:    "Delete Meal Plan",
		Category: "mealplan",
		Description: `Remove a meal plan entry.

USE WHEN: User says "cancel Friday's dinner plan", "remove that from the plan".

NOT FOR: Removing shopping items or recipes.

PARAMETERS:
- plan_id: Entry ID from tandoor_get_meal_plans (required)

RETURNS: Deletion confirmation.`,
		Destructive: true,
		Idempotent:  true,
		OpenWorld:   true,
	},
	{
		Name:     "tandoor_get_meal_types",
		Method:   "GetMealTypes",
		Title:    "Get Meal Types",
		Category: "mealplan",
		Description: `List the configured meal types (breakfast, lunch, dinner, ...).

USE WHEN: Meal planning fails because a meal type name didn't match, or the user asks what meal slots exist.

NOT FOR: Listing meals that are planned (use tandoor_get_meal_plans).

PARAMETERS: None.

RETURNS: Meal types with IDs.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},

	// ==========================================================================
	// COOKING HISTORY TOOLS
	// ==========================================================================
	{
		Name:     "tandoor_get_cook_log",
		Method:   "GetCookLog",
		Title:    "Get Cook Log",
		Category: "history",
		Description: `List recent cooking history, newest first.

USE WHEN: User asks "what did I cook last week", "when did I last make X".

NOT FOR: Planned future meals (use tandoor_get_meal_plans).

PARAMETERS:
- days_back: History window (default 30)
- recipe_id: Filter by recipe (optional)

RETURNS: Cook log entries with dates, servings, ratings, and comments.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "tandoor_log_cooked_recipe",
		Method:   "LogCookedRecipe",
		Title:    "Log Cooked Recipe",
		Category: "history",
		Description: `Record that a recipe was cooked, with optional rating and comment. Logged cooks are excluded from suggestions for a while.

USE WHEN: User says "I made the carbonara tonight", "cooked X for 4 people, it was great".

NOT FOR: Just rating without cooking context (use tandoor_rate_recipe).

PARAMETERS:
- recipe_id: Recipe that was cooked (required)
- servings, rating (0-5), comment (optional)

RETURNS: The created cook log entry.`,
		OpenWorld: true,
	},

	// ==========================================================================
	// REFERENCE TOOLS
	// ==========================================================================
	{
		Name:     "tandoor_get_keywords",
		Method:   "GetKeywords",
		Title:    "Get Keywords",
		Category: "reference",
		Description: `List recipe keywords (tags).

USE WHEN: User asks "what tags do I use", or before tagging recipes consistently.

NOT FOR: Searching recipes by keyword (use tandoor_search_recipes).

PARAMETERS:
- query: Filter text (optional)

RETURNS: Keywords with IDs.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "tandoor_get_units",
		Method:   "GetUnits",
		Title:    "Get Units",
		Category: "reference",
		Description: `List measurement units.

USE WHEN: A unit name failed to resolve, or the user asks which units exist.

NOT FOR: Converting between units (use tandoor_convert_units).

PARAMETERS:
- query: Filter text (optional)

RETURNS: Units with IDs and plural names.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "tandoor_convert_units",
		Method:   "ConvertUnit",
		Title:    "Convert Units",
		Category: "reference",
		Description: `Convert an amount between units for a food, using the conversions defined in Tandoor.

USE WHEN: User asks "how many cups is 250g of flour" and the conversion is configured.

NOT FOR: Generic unit math with no food context; only configured conversions are available.

PARAMETERS:
- food: Food name (required)
- amount: Amount to convert (required)
- from_unit, to_unit: Unit names (required)

RETURNS: The converted amount, or NotFound when no conversion is defined.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "tandoor_get_recipe_books",
		Method:   "GetRecipeBooks",
		Title:    "Get Recipe Books",
		Category: "reference",
		Description: `List recipe books (collections).

USE WHEN: User asks "what recipe books do I have", before filing recipes.

NOT FOR: Listing recipes (use tandoor_search_recipes).

PARAMETERS: None.

RETURNS: Books with IDs and descriptions.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "tandoor_create_recipe_book",
		Method:   "CreateRecipeBook",
		Title:    "Create Recipe Book",
		Category: "reference",
		Description: `Create an empty recipe book (collection).

USE WHEN: User says "make a new book called X", "start a collection for holiday baking".

NOT FOR: Filing a recipe into a book (tandoor_add_recipe_to_book creates the book when missing).

PARAMETERS:
- name: Book name (required)
- description: Optional description

RETURNS: The created book with its ID.`,
		OpenWorld: true,
	},
	{
		Name:     "tandoor_add_recipe_to_book",
		Method:   "AddRecipeToBook",
		Title:    "Add Recipe to Book",
		Category: "reference",
		Description: `File a recipe into a recipe book, creating the book when no existing one matches.

USE WHEN: User says "add this to my favorites book", "put X in the weeknight dinners collection".

NOT FOR: Tagging with keywords (use tandoor_update_recipe with add_keywords).

PARAMETERS:
- recipe_id: Recipe to file (required)
- book: Book name, fuzzy matched (required)

RETURNS: The book and entry IDs, and whether the book was created.`,
		OpenWorld: true,
	},
}
