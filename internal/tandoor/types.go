package tandoor

import "encoding/json"

// Wire types for the Tandoor REST API. Field names follow the Django
// serializers; zero values are omitted on write where the API treats
// absence and null differently.

// paginated is the Django REST framework page envelope.
type paginated[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// SupermarketCategory groups foods on the shopping list
type SupermarketCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Food is a purchasable ingredient
type Food struct {
	ID                  int                  `json:"id"`
	Name                string               `json:"name"`
	PluralName          string               `json:"plural_name,omitempty"`
	Description         string               `json:"description,omitempty"`
	OnHand              bool                 `json:"food_onhand"`
	SupermarketCategory *SupermarketCategory `json:"supermarket_category,omitempty"`
}

// Unit is a measurement unit
type Unit struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	PluralName  string `json:"plural_name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Keyword is a recipe tag. Some Tandoor versions serialize the display
// name as "name", others as "label"; UnmarshalJSON accepts both.
type Keyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (k *Keyword) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    int    `json:"id"`
		Name  string `json:"name"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	k.ID = raw.ID
	k.Name = raw.Name
	if k.Name == "" {
		k.Name = raw.Label
	}
	return nil
}

// Ingredient is one line of a recipe step
type Ingredient struct {
	ID       int     `json:"id,omitempty"`
	Food     *Food   `json:"food"`
	Unit     *Unit   `json:"unit"`
	Amount   float64 `json:"amount"`
	Note     string  `json:"note,omitempty"`
	IsHeader bool    `json:"is_header,omitempty"`
	NoAmount bool    `json:"no_amount,omitempty"`
}

// Step is a recipe instruction block with its ingredients
type Step struct {
	ID          int          `json:"id,omitempty"`
	Name        string       `json:"name,omitempty"`
	Instruction string       `json:"instruction"`
	Ingredients []Ingredient `json:"ingredients"`
	Time        int          `json:"time,omitempty"`
}

// RecipeOverview is the list representation of a recipe
type RecipeOverview struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Keywords    []Keyword `json:"keywords,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	WorkingTime int       `json:"working_time"`
	WaitingTime int       `json:"waiting_time"`
	Servings    int       `json:"servings"`
}

// Recipe is the full detail representation including steps
type Recipe struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Keywords     []Keyword `json:"keywords,omitempty"`
	Steps        []Step    `json:"steps"`
	Rating       *float64  `json:"rating,omitempty"`
	WorkingTime  int       `json:"working_time"`
	WaitingTime  int       `json:"waiting_time"`
	Servings     int       `json:"servings"`
	ServingsText string    `json:"servings_text,omitempty"`
	SourceURL    string    `json:"source_url,omitempty"`
}

// TotalTime is working plus waiting time in minutes
func (r *Recipe) TotalTime() int {
	return r.WorkingTime + r.WaitingTime
}

// TotalTime is working plus waiting time in minutes
func (r *RecipeOverview) TotalTime() int {
	return r.WorkingTime + r.WaitingTime
}

// ShoppingListEntry is one item on the shopping list
type ShoppingListEntry struct {
	ID      int     `json:"id"`
	Food    *Food   `json:"food"`
	Unit    *Unit   `json:"unit"`
	Amount  float64 `json:"amount"`
	Checked bool    `json:"checked"`
	Order   int     `json:"order,omitempty"`
}

// MealType categorizes meal plan entries (breakfast, dinner, ...)
type MealType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MealPlanEntry schedules a recipe (or free-text title) on a date
type MealPlanEntry struct {
	ID       int             `json:"id"`
	Title    string          `json:"title,omitempty"`
	Recipe   *RecipeOverview `json:"recipe,omitempty"`
	Servings float64         `json:"servings"`
	Note     string          `json:"note,omitempty"`
	FromDate string          `json:"from_date"`
	ToDate   string          `json:"to_date,omitempty"`
	MealType MealType        `json:"meal_type"`
}

// CookLogEntry records that a recipe was cooked
type CookLogEntry struct {
	ID        int      `json:"id"`
	Recipe    int      `json:"recipe"`
	Servings  int      `json:"servings,omitempty"`
	Rating    *float64 `json:"rating,omitempty"`
	Comment   string   `json:"comment,omitempty"`
	CreatedAt string   `json:"created_at,omitempty"`
}

// RecipeBook is a user-curated recipe collection
type RecipeBook struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// RecipeBookEntry links a recipe into a book
type RecipeBookEntry struct {
	ID     int `json:"id"`
	Book   int `json:"book"`
	Recipe int `json:"recipe"`
}

// UnitConversion defines a ratio between two units, optionally scoped to a food
type UnitConversion struct {
	ID              int     `json:"id"`
	BaseAmount      float64 `json:"base_amount"`
	BaseUnit        Unit    `json:"base_unit"`
	ConvertedAmount float64 `json:"converted_amount"`
	ConvertedUnit   Unit    `json:"converted_unit"`
	Food            *Food   `json:"food,omitempty"`
}

// ========== Request payloads ==========

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type createFoodRequest struct {
	Name   string `json:"name"`
	OnHand bool   `json:"food_onhand"`
}

type updateFoodRequest struct {
	OnHand bool `json:"food_onhand"`
}

type entityRef struct {
	ID int `json:"id"`
}

type createShoppingEntryRequest struct {
	Food   entityRef  `json:"food"`
	Unit   *entityRef `json:"unit,omitempty"`
	Amount float64    `json:"amount"`
}

type bulkCheckRequest struct {
	IDs     []int `json:"ids"`
	Checked bool  `json:"checked"`
}

type updateShoppingEntryRequest struct {
	Checked *bool    `json:"checked,omitempty"`
	Amount  *float64 `json:"amount,omitempty"`
}

type createMealPlanRequest struct {
	Title    string     `json:"title,omitempty"`
	Recipe   *entityRef `json:"recipe,omitempty"`
	Servings float64    `json:"servings"`
	Note     string     `json:"note,omitempty"`
	FromDate string     `json:"from_date"`
	ToDate   string     `json:"to_date"`
	MealType entityRef  `json:"meal_type"`
}

type createCookLogRequest struct {
	Recipe   int      `json:"recipe"`
	Servings int      `json:"servings,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	Comment  string   `json:"comment,omitempty"`
}

type createBookEntryRequest struct {
	Book   int `json:"book"`
	Recipe int `json:"recipe"`
}

type createBookRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type importRecipeRequest struct {
	URL string `json:"url"`
}

// importRecipeResponse is loosely typed: Tandoor versions differ in what
// recipe-from-source returns.
type importRecipeResponse struct {
	Recipe *Recipe `json:"recipe,omitempty"`
	Link   string  `json:"link,omitempty"`
	Error  string  `json:"error,omitempty"`
	Msg    string  `json:"msg,omitempty"`
}
