package tandoor

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// GetKeywords lists recipe keywords, optionally filtered
func (c *Client) GetKeywords(ctx context.Context, args GetKeywordsArgs) (*GetKeywordsResult, error) {
	keywords, err := c.fetchKeywords(ctx, args.Query)
	if err != nil {
		return nil, err
	}
	result := &GetKeywordsResult{Keywords: make([]KeywordInfo, 0, len(keywords))}
	for _, kw := range keywords {
		result.Keywords = append(result.Keywords, KeywordInfo{ID: kw.ID, Name: kw.Name})
	}
	return result, nil
}

// GetUnits lists measurement units, optionally filtered
func (c *Client) GetUnits(ctx context.Context, args GetUnitsArgs) (*GetUnitsResult, error) {
	units, err := c.fetchUnits(ctx, args.Query)
	if err != nil {
		return nil, err
	}
	result := &GetUnitsResult{Units: make([]UnitInfo, 0, len(units))}
	for _, u := range units {
		result.Units = append(result.Units, UnitInfo{ID: u.ID, Name: u.Name, PluralName: u.PluralName})
	}
	return result, nil
}

// ConvertUnit converts an amount between units for a food, using the
// instance's configured unit conversions.
func (c *Client) ConvertUnit(ctx context.Context, args ConvertUnitArgs) (*ConvertUnitResult, error) {
	if args.Amount <= 0 {
		return nil, &ValidationError{Field: "amount", Value: fmt.Sprintf("%g", args.Amount),
			Message: "amount must be positive"}
	}
	if strings.TrimSpace(args.FromUnit) == "" || strings.TrimSpace(args.ToUnit) == "" {
		return nil, &ValidationError{Field: "from_unit", Message: "both from_unit and to_unit are required"}
	}

	cat, err := c.loadCatalog(ctx, catalogNeeds{foods: true, units: true})
	if err != nil {
		return nil, err
	}

	food, _, err := c.resolveFood(ctx, cat, args.Food, false)
	if err != nil {
		return nil, err
	}
	fromUnit, _, err := cat.resolveUnit(args.FromUnit)
	if err != nil {
		return nil, err
	}
	toUnit, _, err := cat.resolveUnit(args.ToUnit)
	if err != nil {
		return nil, err
	}
	if fromUnit == nil || toUnit == nil {
		return nil, &ValidationError{Field: "from_unit", Message: "unit names cannot be blank"}
	}

	conversions, err := c.fetchConversions(ctx)
	if err != nil {
		return nil, err
	}
	idx := newConversionIndex(conversions)
	converted, ok := idx.convert(food.ID, fromUnit, toUnit, args.Amount)
	if !ok {
		return nil, &NotFoundError{
			Kind: "unit conversion",
			Ref:  fmt.Sprintf("%s -> %s for %s", fromUnit.Name, toUnit.Name, food.Name),
			Suggestion: "Define the conversion in Tandoor under the food's properties, " +
				"or use get_units to check the available units.",
		}
	}

	return &ConvertUnitResult{
		Food:       food.Name,
		FromAmount: args.Amount,
		FromUnit:   fromUnit.Name,
		ToAmount:   roundAmount(converted),
		ToUnit:     toUnit.Name,
	}, nil
}

// GetRecipeBooks lists recipe books
func (c *Client) GetRecipeBooks(ctx context.Context, _ GetRecipeBooksArgs) (*GetRecipeBooksResult, error) {
	books, err := c.fetchRecipeBooks(ctx)
	if err != nil {
		return nil, err
	}
	result := &GetRecipeBooksResult{Books: make([]RecipeBookInfo, 0, len(books))}
	for _, b := range books {
		result.Books = append(result.Books, RecipeBookInfo{ID: b.ID, Name: b.Name, Description: b.Description})
	}
	return result, nil
}

// CreateRecipeBook creates an empty recipe book
func (c *Client) CreateRecipeBook(ctx context.Context, args CreateRecipeBookArgs) (*CreateRecipeBookResult, error) {
	name := strings.TrimSpace(args.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "a book name is required"}
	}

	book, err := c.createRecipeBook(ctx, name, strings.TrimSpace(args.Description))
	if err != nil {
		return nil, err
	}
	c.logger.Info("Recipe book created", "id", book.ID, "name", book.Name)
	return &CreateRecipeBookResult{
		Book: RecipeBookInfo{ID: book.ID, Name: book.Name, Description: book.Description},
	}, nil
}

// AddRecipeToBook files a recipe into a book, creating the book when no
// existing one matches the name.
func (c *Client) AddRecipeToBook(ctx context.Context, args AddRecipeToBookArgs) (*AddRecipeToBookResult, error) {
	if args.RecipeID <= 0 {
		return nil, &ValidationError{Field: "recipe_id", Message: "a positive recipe ID is required"}
	}
	if strings.TrimSpace(args.Book) == "" {
		return nil, &ValidationError{Field: "book", Message: "a book name is required"}
	}

	if _, err := c.getRecipe(ctx, args.RecipeID); err != nil {
		return nil, err
	}

	books, err := c.fetchRecipeBooks(ctx)
	if err != nil {
		return nil, err
	}
	table := newLookupTable("recipe book")
	byID := make(map[int]RecipeBook, len(books))
	for _, b := range books {
		table.add(b.ID, b.Name, "")
		byID[b.ID] = b
	}

	var book RecipeBook
	created := false
	res := table.resolve(args.Book)
	switch res.Status {
	case ResolutionMatched:
		book = byID[res.ID]
	case ResolutionAmbiguous:
		return nil, &AmbiguousMatchError{Kind: "recipe book", Query: args.Book, Candidates: res.Candidates}
	default:
		book, err = c.createRecipeBook(ctx, strings.TrimSpace(args.Book), "")
		if err != nil {
			return nil, err
		}
		created = true
	}

	body, err := c.doRequest(ctx, "add recipe to book", "recipe-book-entry", http.MethodPost,
		"/api/recipe-book-entry/", nil, createBookEntryRequest{Book: book.ID, Recipe: args.RecipeID})
	if err != nil {
		return nil, err
	}
	var entry RecipeBookEntry
	if err := decodeInto("add recipe to book", body, &entry); err != nil {
		return nil, err
	}

	return &AddRecipeToBookResult{
		BookID:      book.ID,
		BookName:    book.Name,
		RecipeID:    args.RecipeID,
		EntryID:     entry.ID,
		BookCreated: created,
	}, nil
}

func (c *Client) fetchRecipeBooks(ctx context.Context) ([]RecipeBook, error) {
	return getAll[RecipeBook](ctx, c, "list recipe books", "recipe-book", "/api/recipe-book/", nil)
}

func (c *Client) createRecipeBook(ctx context.Context, name, description string) (RecipeBook, error) {
	body, err := c.doRequest(ctx, "create recipe book", "recipe-book", http.MethodPost,
		"/api/recipe-book/", nil, createBookRequest{Name: name, Description: description})
	if err != nil {
		return RecipeBook{}, err
	}
	var book RecipeBook
	if err := decodeInto("create recipe book", body, &book); err != nil {
		return RecipeBook{}, err
	}
	return book, nil
}
