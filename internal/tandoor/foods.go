package tandoor

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// SearchFoods searches the food database by name
func (c *Client) SearchFoods(ctx context.Context, args SearchFoodsArgs) (*SearchFoodsResult, error) {
	if strings.TrimSpace(args.Query) == "" {
		return nil, &ValidationError{Field: "query", Message: "a search query is required"}
	}
	limit := normalizeLimit(args.Limit, DefaultSearchLimit, MaxSearchLimit)

	foods, err := c.fetchFoods(ctx, args.Query)
	if err != nil {
		return nil, err
	}
	if len(foods) > limit {
		foods = foods[:limit]
	}

	result := &SearchFoodsResult{Query: args.Query, Foods: make([]FoodInfo, 0, len(foods))}
	for _, f := range foods {
		result.Foods = append(result.Foods, foodInfo(f))
	}
	return result, nil
}

// CreateFood creates a food entry directly
func (c *Client) CreateFood(ctx context.Context, args CreateFoodArgs) (*CreateFoodResult, error) {
	name := strings.TrimSpace(args.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "a food name is required"}
	}

	food, err := c.createFood(ctx, name, args.OnHand)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Food created", "id", food.ID, "name", food.Name, "on_hand", food.OnHand)
	return &CreateFoodResult{Food: foodInfo(food)}, nil
}

// UpdatePantry marks foods as on hand or not, resolving names fuzzily.
// Foods that cannot be resolved are reported without failing the rest.
func (c *Client) UpdatePantry(ctx context.Context, args UpdatePantryArgs) (*UpdatePantryResult, error) {
	if len(args.Foods) == 0 {
		return nil, &ValidationError{Field: "foods", Message: "at least one food name is required"}
	}

	cat, err := c.loadCatalog(ctx, catalogNeeds{foods: true})
	if err != nil {
		return nil, err
	}

	result := &UpdatePantryResult{Updated: []FoodInfo{}}
	var completed, failed []StepResult
	for _, name := range args.Foods {
		food, res, err := c.resolveFood(ctx, cat, name, false)
		if err != nil {
			if res.Status == ResolutionAmbiguous {
				return nil, err
			}
			result.NotFound = append(result.NotFound, name)
			continue
		}

		stepName := fmt.Sprintf("update %s", food.Name)
		if food.OnHand == args.OnHand {
			// Already in the requested state
			completed = append(completed, StepResult{Step: stepName, Target: food.Name})
			result.Updated = append(result.Updated, foodInfo(food))
			continue
		}
		if err := c.updateFoodOnHand(ctx, food.ID, args.OnHand); err != nil {
			failed = append(failed, StepResult{Step: stepName, Target: food.Name, Error: err.Error()})
			continue
		}
		completed = append(completed, StepResult{Step: stepName, Target: food.Name})
		food.OnHand = args.OnHand
		result.Updated = append(result.Updated, foodInfo(food))
	}

	if len(failed) > 0 {
		return nil, &PartialFailure{Operation: "update_pantry", Completed: completed, Failed: failed}
	}
	return result, nil
}

// ListPantry lists all foods currently marked on hand
func (c *Client) ListPantry(ctx context.Context, _ ListPantryArgs) (*ListPantryResult, error) {
	foods, err := c.fetchFoods(ctx, "")
	if err != nil {
		return nil, err
	}

	result := &ListPantryResult{Foods: []FoodInfo{}}
	for _, f := range foods {
		if f.OnHand {
			result.Foods = append(result.Foods, foodInfo(f))
		}
	}
	sort.Slice(result.Foods, func(i, j int) bool { return result.Foods[i].Name < result.Foods[j].Name })
	result.Count = len(result.Foods)
	return result, nil
}

func foodInfo(f Food) FoodInfo {
	info := FoodInfo{ID: f.ID, Name: f.Name, OnHand: f.OnHand}
	if f.SupermarketCategory != nil {
		info.Category = f.SupermarketCategory.Name
	}
	return info
}
