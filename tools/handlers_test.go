package tools

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/olgasafonova/tandoor-mcp-server/internal/tandoor"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewHandlerRegistry(t *testing.T) {
	logger := testLogger()
	registry := NewHandlerRegistry(nil, logger)
	if registry == nil {
		t.Fatal("Expected non-nil registry")
	}
	if registry.logger != logger {
		t.Error("Registry should hold the logger reference")
	}
}

func TestBuildTool(t *testing.T) {
	registry := NewHandlerRegistry(nil, testLogger())

	tests := []struct {
		name      string
		spec      ToolSpec
		wantDestr bool
		wantOpen  bool
	}{
		{
			name: "read-only tool",
			spec: ToolSpec{Name: "tandoor_get_shopping_list", Title: "Get Shopping List",
				Description: "Lists items", ReadOnly: true, Idempotent: true, OpenWorld: true},
			wantOpen: true,
		},
		{
			name: "destructive tool",
			spec: ToolSpec{Name: "tandoor_remove_shopping_items", Title: "Remove Items",
				Description: "Deletes items", Destructive: true, OpenWorld: true},
			wantDestr: true,
			wantOpen:  true,
		},
		{
			name: "local-only tool",
			spec: ToolSpec{Name: "local", Title: "Local", Description: "d"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := registry.buildTool(tt.spec)

			if tool.Name != tt.spec.Name {
				t.Errorf("Name = %q, want %q", tool.Name, tt.spec.Name)
			}
			if tool.Description != tt.spec.Description {
				t.Errorf("Description = %q, want %q", tool.Description, tt.spec.Description)
			}
			if tool.Annotations.Title != tt.spec.Title {
				t.Errorf("Title = %q, want %q", tool.Annotations.Title, tt.spec.Title)
			}
			if tool.Annotations.ReadOnlyHint != tt.spec.ReadOnly {
				t.Errorf("ReadOnlyHint = %v, want %v", tool.Annotations.ReadOnlyHint, tt.spec.ReadOnly)
			}
			if tool.Annotations.IdempotentHint != tt.spec.Idempotent {
				t.Errorf("IdempotentHint = %v, want %v", tool.Annotations.IdempotentHint, tt.spec.Idempotent)
			}

			gotDestr := tool.Annotations.DestructiveHint != nil && *tool.Annotations.DestructiveHint
			if gotDestr != tt.wantDestr {
				t.Errorf("DestructiveHint = %v, want %v", gotDestr, tt.wantDestr)
			}
			gotOpen := tool.Annotations.OpenWorldHint != nil && *tool.Annotations.OpenWorldHint
			if gotOpen != tt.wantOpen {
				t.Errorf("OpenWorldHint = %v, want %v", gotOpen, tt.wantOpen)
			}
		})
	}
}

func TestAllToolsWellFormed(t *testing.T) {
	if len(AllTools) == 0 {
		t.Fatal("AllTools should not be empty")
	}

	seen := make(map[string]bool)
	for _, spec := range AllTools {
		if spec.Name == "" || spec.Method == "" || spec.Title == "" || spec.Category == "" {
			t.Errorf("incomplete spec: %+v", spec)
		}
		if !strings.HasPrefix(spec.Name, "tandoor_") {
			t.Errorf("tool %q should carry the tandoor_ prefix", spec.Name)
		}
		if seen[spec.Name] {
			t.Errorf("duplicate tool name %q", spec.Name)
		}
		seen[spec.Name] = true

		if spec.ReadOnly && spec.Destructive {
			t.Errorf("tool %q cannot be both read-only and destructive", spec.Name)
		}
		if !spec.OpenWorld {
			t.Errorf("tool %q talks to the Tandoor API and should be open-world", spec.Name)
		}
	}
}

func TestAllToolsDescriptionFormat(t *testing.T) {
	for _, spec := range AllTools {
		for _, marker := range []string{"USE WHEN:", "PARAMETERS:", "RETURNS:"} {
			if !strings.Contains(spec.Description, marker) {
				t.Errorf("tool %q description is missing %q", spec.Name, marker)
			}
		}
	}
}

func TestAllToolsMethodsKnown(t *testing.T) {
	// Must match the registerByName dispatch switch
	known := map[string]bool{
		"SearchRecipes": true, "GetRecipeDetails": true, "CreateRecipe": true,
		"UpdateRecipe": true, "RateRecipe": true, "ImportRecipeFromURL": true,
		"SuggestFromInventory": true,
		"AddToShoppingList":    true, "GetShoppingList": true,
		"CheckShoppingItems": true, "UncheckShoppingItems": true,
		"RemoveShoppingItems": true, "ClearShoppingList": true,
		"SearchFoods": true, "CreateFood": true, "UpdatePantry": true, "ListPantry": true,
		"GetMealPlans": true, "CreateMealPlan": true, "DeleteMealPlan": true, "GetMealTypes": true,
		"GetCookLog": true, "LogCookedRecipe": true,
		"GetKeywords": true, "GetUnits": true, "ConvertUnit": true,
		"GetRecipeBooks": true, "CreateRecipeBook": true, "AddRecipeToBook": true,
	}

	for _, spec := range AllTools {
		if !known[spec.Method] {
			t.Errorf("tool %q references unknown method %q", spec.Name, spec.Method)
		}
	}
	if len(AllTools) != len(known) {
		t.Errorf("AllTools has %d specs, dispatch switch handles %d", len(AllTools), len(known))
	}
}

func TestToolsByCategory(t *testing.T) {
	total := 0
	for _, cat := range []string{"recipes", "shopping", "pantry", "mealplan", "history", "reference"} {
		specs := ToolsByCategory(cat)
		if len(specs) == 0 {
			t.Errorf("category %q has no tools", cat)
		}
		for _, spec := range specs {
			if spec.Category != cat {
				t.Errorf("ToolsByCategory(%q) returned %q tool %q", cat, spec.Category, spec.Name)
			}
		}
		total += len(specs)
	}
	if total != len(AllTools) {
		t.Errorf("categories cover %d tools, want all %d", total, len(AllTools))
	}

	if got := ToolsByCategory("unknown"); len(got) != 0 {
		t.Errorf("unknown category should be empty, got %d", len(got))
	}
}

func TestCallResult(t *testing.T) {
	res := callResult(&tandoor.ClearShoppingListResult{
		RemovedItems:  []string{"Milk", "Bread"},
		PantryUpdated: []string{"Milk"},
	})
	if res == nil || len(res.Content) != 1 {
		t.Fatalf("callResult = %+v, want one content block", res)
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("Content[0] = %T, want *mcp.TextContent", res.Content[0])
	}
	want := "Removed 2 checked item(s), marked 1 food(s) on hand"
	if text.Text != want {
		t.Errorf("Text = %q, want %q", text.Text, want)
	}

	// Read-only results have no summary; the SDK fills in the default content.
	if got := callResult(&tandoor.GetShoppingListResult{}); got != nil {
		t.Errorf("read-only result should produce nil, got %+v", got)
	}
}

func TestRecoverPanic(t *testing.T) {
	registry := NewHandlerRegistry(nil, testLogger())

	func() {
		defer registry.recoverPanic("tandoor_search_recipes")
		panic("boom")
	}()
	// Reaching this point means the panic was swallowed
}
