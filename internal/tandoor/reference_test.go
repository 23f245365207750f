package tandoor

import (
	"context"
	"errors"
	"testing"
)

func TestGetKeywords(t *testing.T) {
	mock := newMockTandoor()
	mock.keywords = []Keyword{{ID: 1, Name: "Dinner"}, {ID: 2, Name: "Quick"}}
	client := createTestClient(t, mock.handler())

	result, err := client.GetKeywords(context.Background(), GetKeywordsArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Keywords) != 2 {
		t.Errorf("Keywords = %+v, want 2", result.Keywords)
	}
}

func TestGetUnits(t *testing.T) {
	mock := newMockTandoor()
	mock.units = []Unit{{ID: 1, Name: "g"}, {ID: 2, Name: "Loaf", PluralName: "Loaves"}}
	client := createTestClient(t, mock.handler())

	result, err := client.GetUnits(context.Background(), GetUnitsArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Units) != 2 {
		t.Fatalf("Units = %+v, want 2", result.Units)
	}
	if result.Units[1].PluralName != "Loaves" {
		t.Errorf("PluralName = %q, want Loaves", result.Units[1].PluralName)
	}
}

func TestConvertUnit(t *testing.T) {
	g := Unit{ID: 1, Name: "g"}
	cup := Unit{ID: 2, Name: "cup"}
	flour := Food{ID: 9, Name: "Flour"}

	mock := newMockTandoor()
	mock.foods = []Food{flour}
	mock.units = []Unit{g, cup}
	mock.conversions = []UnitConversion{
		{BaseAmount: 1, BaseUnit: cup, ConvertedAmount: 120, ConvertedUnit: g, Food: &flour},
	}
	client := createTestClient(t, mock.handler())

	result, err := client.ConvertUnit(context.Background(), ConvertUnitArgs{
		Food: "flour", Amount: 2, FromUnit: "cups", ToUnit: "g",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ToAmount != 240 {
		t.Errorf("ToAmount = %v, want 240", result.ToAmount)
	}
	if result.FromUnit != "cup" || result.ToUnit != "g" {
		t.Errorf("units = %s/%s, want cup/g (resolved names)", result.FromUnit, result.ToUnit)
	}
}

func TestConvertUnit_NoConversionDefined(t *testing.T) {
	mock := newMockTandoor()
	mock.foods = []Food{{ID: 1, Name: "Milk"}}
	mock.units = []Unit{{ID: 1, Name: "g"}, {ID: 2, Name: "piece"}}
	client := createTestClient(t, mock.handler())

	_, err := client.ConvertUnit(context.Background(), ConvertUnitArgs{
		Food: "milk", Amount: 1, FromUnit: "g", ToUnit: "piece",
	})
	nf := &NotFoundError{}
	if !errors.As(err, &nf) {
		t.Fatalf("got %T, want *NotFoundError", err)
	}
	if nf.Kind != "unit conversion" {
		t.Errorf("Kind = %q, want unit conversion", nf.Kind)
	}
}

func TestConvertUnit_Validation(t *testing.T) {
	client := createTestClient(t, newMockTandoor().handler())

	tests := []struct {
		name string
		args ConvertUnitArgs
	}{
		{"zero amount", ConvertUnitArgs{Food: "flour", FromUnit: "g", ToUnit: "kg"}},
		{"missing units", ConvertUnitArgs{Food: "flour", Amount: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.ConvertUnit(context.Background(), tt.args)
			ve := &ValidationError{}
			if !errors.As(err, &ve) {
				t.Errorf("got %T, want *ValidationError", err)
			}
		})
	}
}

func TestGetRecipeBooks(t *testing.T) {
	mock := newMockTandoor()
	mock.books = []RecipeBook{{ID: 1, Name: "Weeknight", Description: "fast"}}
	client := createTestClient(t, mock.handler())

	result, err := client.GetRecipeBooks(context.Background(), GetRecipeBooksArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Books) != 1 || result.Books[0].Name != "Weeknight" {
		t.Errorf("Books = %+v, want Weeknight", result.Books)
	}
}

func TestCreateRecipeBook(t *testing.T) {
	mock := newMockTandoor()
	client := createTestClient(t, mock.handler())

	result, err := client.CreateRecipeBook(context.Background(), CreateRecipeBookArgs{
		Name: " Winter Favorites ", Description: "stews and bakes",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Book.Name != "Winter Favorites" {
		t.Errorf("Name = %q, want trimmed Winter Favorites", result.Book.Name)
	}
	if result.Book.ID == 0 {
		t.Error("ID should be set from the created book")
	}
	if len(mock.books) != 1 {
		t.Errorf("books = %+v, want the created one", mock.books)
	}
}

func TestCreateRecipeBook_BlankName(t *testing.T) {
	client := createTestClient(t, newMockTandoor().handler())

	_, err := client.CreateRecipeBook(context.Background(), CreateRecipeBookArgs{Name: "  "})
	ve := &ValidationError{}
	if !errors.As(err, &ve) {
		t.Errorf("got %T, want *ValidationError", err)
	}
}

func TestAddRecipeToBook_ExistingBook(t *testing.T) {
	mock := newMockTandoor()
	mock.recipes[7] = &Recipe{ID: 7, Name: "Stew"}
	mock.books = []RecipeBook{{ID: 1, Name: "Weeknight"}}
	client := createTestClient(t, mock.handler())

	result, err := client.AddRecipeToBook(context.Background(), AddRecipeToBookArgs{
		RecipeID: 7, Book: "weeknight",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.BookCreated {
		t.Error("existing book should not be recreated")
	}
	if result.BookID != 1 || result.RecipeID != 7 {
		t.Errorf("result = %+v, want recipe 7 in book 1", result)
	}
	if result.EntryID == 0 {
		t.Error("EntryID should be set from the created link")
	}
}

func TestAddRecipeToBook_CreatesBook(t *testing.T) {
	mock := newMockTandoor()
	mock.recipes[7] = &Recipe{ID: 7, Name: "Stew"}
	client := createTestClient(t, mock.handler())

	result, err := client.AddRecipeToBook(context.Background(), AddRecipeToBookArgs{
		RecipeID: 7, Book: "Winter Favorites",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.BookCreated {
		t.Error("BookCreated should be true for a new book")
	}
	if result.BookName != "Winter Favorites" {
		t.Errorf("BookName = %q, want Winter Favorites", result.BookName)
	}
	if len(mock.books) != 1 {
		t.Errorf("books = %+v, want the created one", mock.books)
	}
}

func TestAddRecipeToBook_UnknownRecipe(t *testing.T) {
	client := createTestClient(t, newMockTandoor().handler())

	_, err := client.AddRecipeToBook(context.Background(), AddRecipeToBookArgs{
		RecipeID: 99, Book: "Anything",
	})
	nf := &NotFoundError{}
	if !errors.As(err, &nf) {
		t.Fatalf("got %T, want *NotFoundError", err)
	}
}
