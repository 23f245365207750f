package tandoor

import (
	"context"
	"errors"
	"testing"
)

func TestSearchFoods(t *testing.T) {
	mock := newMockTandoor()
	mock.foods = []Food{
		{ID: 1, Name: "Tomato"},
		{ID: 2, Name: "Tomatillo"},
	}
	client := createTestClient(t, mock.handler())

	result, err := client.SearchFoods(context.Background(), SearchFoodsArgs{Query: "tomato"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Query != "tomato" || len(result.Foods) != 2 {
		t.Errorf("result = %+v, want both tomato-ish foods", result)
	}
}

func TestSearchFoods_LimitApplied(t *testing.T) {
	mock := newMockTandoor()
	for i := 1; i <= 5; i++ {
		mock.foods = append(mock.foods, Food{ID: i, Name: "Food"})
	}
	client := createTestClient(t, mock.handler())

	result, err := client.SearchFoods(context.Background(), SearchFoodsArgs{Query: "food", Limit: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Foods) != 3 {
		t.Errorf("foods = %d, want 3", len(result.Foods))
	}
}

func TestSearchFoods_EmptyQuery(t *testing.T) {
	client := createTestClient(t, newMockTandoor().handler())

	_, err := client.SearchFoods(context.Background(), SearchFoodsArgs{Query: "  "})
	ve := &ValidationError{}
	if !errors.As(err, &ve) {
		t.Errorf("got %T, want *ValidationError", err)
	}
}

func TestCreateFood(t *testing.T) {
	mock := newMockTandoor()
	client := createTestClient(t, mock.handler())

	result, err := client.CreateFood(context.Background(), CreateFoodArgs{Name: " Saffron ", OnHand: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Food.Name != "Saffron" || !result.Food.OnHand {
		t.Errorf("Food = %+v, want trimmed Saffron on hand", result.Food)
	}
	if len(mock.createdFoods) != 1 {
		t.Errorf("createdFoods = %v, want one", mock.createdFoods)
	}
}

func TestUpdatePantry(t *testing.T) {
	mock := newMockTandoor()
	mock.foods = []Food{
		{ID: 1, Name: "Milk"},
		{ID: 2, Name: "Eggs", OnHand: true},
	}
	client := createTestClient(t, mock.handler())

	result, err := client.UpdatePantry(context.Background(), UpdatePantryArgs{
		Foods:  []string{"milk", "eggs", "unobtainium"},
		OnHand: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Updated) != 2 {
		t.Errorf("Updated = %+v, want milk and eggs", result.Updated)
	}
	if len(result.NotFound) != 1 || result.NotFound[0] != "unobtainium" {
		t.Errorf("NotFound = %v, want [unobtainium]", result.NotFound)
	}
	// Only milk actually changes state; eggs were already on hand
	if !mock.foodOnHand[1] {
		t.Error("milk should be patched on hand")
	}
	if _, touched := mock.foodOnHand[2]; touched {
		t.Error("eggs were already on hand and must not be patched")
	}
}

func TestUpdatePantry_AmbiguousFails(t *testing.T) {
	// "cremo" is one edit from both spellings, so neither wins
	mock := newMockTandoor()
	mock.foods = []Food{
		{ID: 1, Name: "Crema"},
		{ID: 2, Name: "Creme"},
	}
	client := createTestClient(t, mock.handler())

	_, err := client.UpdatePantry(context.Background(), UpdatePantryArgs{
		Foods: []string{"cremo"}, OnHand: true,
	})
	ae := &AmbiguousMatchError{}
	if !errors.As(err, &ae) {
		t.Errorf("got %T, want *AmbiguousMatchError", err)
	}
}

func TestUpdatePantry_PartialFailure(t *testing.T) {
	// One patch succeeds, one fails; the mixed outcome is a partial failure
	mock := newMockTandoor()
	mock.foods = []Food{
		{ID: 1, Name: "Milk"},
		{ID: 2, Name: "Butter"},
	}
	mock.failFoodPatchID = 2
	client := createTestClient(t, mock.handler())

	_, err := client.UpdatePantry(context.Background(), UpdatePantryArgs{
		Foods: []string{"milk", "butter"}, OnHand: true,
	})
	pf := &PartialFailure{}
	if !errors.As(err, &pf) {
		t.Fatalf("got %T (%v), want *PartialFailure", err, err)
	}
	if len(pf.Completed) != 1 || pf.Completed[0].Target != "Milk" {
		t.Errorf("Completed = %+v, want the Milk update", pf.Completed)
	}
	if len(pf.Failed) != 1 || pf.Failed[0].Target != "Butter" {
		t.Errorf("Failed = %+v, want the Butter update", pf.Failed)
	}
	if !mock.foodOnHand[1] {
		t.Error("the completed Milk update must stay done")
	}
}

func TestUpdatePantry_NoFoods(t *testing.T) {
	client := createTestClient(t, newMockTandoor().handler())

	_, err := client.UpdatePantry(context.Background(), UpdatePantryArgs{OnHand: true})
	ve := &ValidationError{}
	if !errors.As(err, &ve) {
		t.Errorf("got %T, want *ValidationError", err)
	}
}

func TestListPantry(t *testing.T) {
	mock := newMockTandoor()
	mock.foods = []Food{
		{ID: 1, Name: "Zucchini", OnHand: true},
		{ID: 2, Name: "Milk"},
		{ID: 3, Name: "Apples", OnHand: true,
			SupermarketCategory: &SupermarketCategory{ID: 1, Name: "Produce"}},
	}
	client := createTestClient(t, mock.handler())

	result, err := client.ListPantry(context.Background(), ListPantryArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count != 2 {
		t.Fatalf("Count = %d, want 2", result.Count)
	}
	// Sorted by name
	if result.Foods[0].Name != "Apples" || result.Foods[1].Name != "Zucchini" {
		t.Errorf("Foods = %+v, want [Apples Zucchini]", result.Foods)
	}
	if result.Foods[0].Category != "Produce" {
		t.Errorf("Category = %q, want Produce", result.Foods[0].Category)
	}
}
