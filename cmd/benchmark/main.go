package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/olgasafonova/tandoor-mcp-server/internal/tandoor"
)

// measureReadLatency times the common read operations against a live instance
func measureReadLatency() {
	config, err := tandoor.LoadConfig()
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
		return
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	client := tandoor.NewClient(config, logger)
	ctx := context.Background()

	fmt.Println("=== Read Latency ===")
	fmt.Println()

	fmt.Println("1. Recipe search:")
	start := time.Now()
	recipes, err := client.SearchRecipes(ctx, tandoor.SearchRecipesArgs{Limit: 10})
	if err != nil {
		fmt.Printf("   Error: %v\n", err)
		return
	}
	fmt.Printf("   Search time: %v (%d recipes)\n", time.Since(start), len(recipes.Recipes))
	fmt.Println()

	fmt.Println("2. Shopping list (catalog + entries fetched concurrently):")
	start = time.Now()
	list, err := client.GetShoppingList(ctx, tandoor.GetShoppingListArgs{})
	if err != nil {
		fmt.Printf("   Error: %v\n", err)
		return
	}
	fmt.Printf("   Fetch time: %v (%d items in %d groups)\n",
		time.Since(start), list.TotalItems, len(list.Groups))
	fmt.Println()

	fmt.Println("3. Pantry listing:")
	start = time.Now()
	pantry, err := client.ListPantry(ctx, tandoor.ListPantryArgs{})
	if err != nil {
		fmt.Printf("   Error: %v\n", err)
		return
	}
	fmt.Printf("   Fetch time: %v (%d foods on hand)\n", time.Since(start), pantry.Count)
	fmt.Println()
}

// measureSuggestionLatency times the inventory matcher, the heaviest read path
func measureSuggestionLatency() {
	config, err := tandoor.LoadConfig()
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
		return
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	client := tandoor.NewClient(config, logger)
	ctx := context.Background()

	fmt.Println("=== Suggestion Engine ===")
	fmt.Println()

	for _, mode := range []string{"default", "maximum-use", "expiring"} {
		fmt.Printf("4. Suggest (%s mode):\n", mode)
		start := time.Now()
		result, err := client.SuggestFromInventory(ctx, tandoor.SuggestArgs{Mode: mode})
		if err != nil {
			fmt.Printf("   Error: %v\n", err)
			return
		}
		fmt.Printf("   Time: %v (considered %d recipes, suggested %d)\n",
			time.Since(start), result.Considered, len(result.Suggestions))
	}
	fmt.Println()
}

// showAPICallShape documents where the server saves round trips
func showAPICallShape() {
	fmt.Println("=== API Call Shape ===")
	fmt.Println()

	fmt.Println("5. Consolidation on add_to_shopping_list:")
	fmt.Println("   Duplicate open entries are merged into one PATCH instead of")
	fmt.Println("   stacking new POST entries, so the list stays deduplicated.")
	fmt.Println()

	fmt.Println("6. Bulk check endpoint:")
	fmt.Println("   - Checking 10 items by name: 10 calls → 1 bulk call")
	fmt.Println("   - Unchecking a whole trip:   N calls → 1 bulk call")
	fmt.Println()

	fmt.Println("7. Catalog loading:")
	fmt.Println("   Foods, units and conversions are fetched concurrently per")
	fmt.Println("   operation, trading one round trip of latency for freshness.")
	fmt.Println()
}

func main() {
	fmt.Println("Tandoor MCP Server - Performance Measurements")
	fmt.Println("=============================================")
	fmt.Println()

	measureReadLatency()
	measureSuggestionLatency()
	showAPICallShape()

	fmt.Println("=== Summary ===")
	fmt.Println()
	fmt.Println("Key characteristics:")
	fmt.Println("• Bulk endpoints: checking/unchecking N entries is a single API call")
	fmt.Println("• Consolidation: duplicate shopping entries merge via PATCH, not POST")
	fmt.Println("• Concurrent catalog fetch: foods/units/conversions load in parallel")
	fmt.Println("• Connection reuse: HTTP keep-alive and retries on idempotent reads")
}
