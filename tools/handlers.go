package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/olgasafonova/tandoor-mcp-server/internal/tandoor"
	"github.com/olgasafonova/tandoor-mcp-server/metrics"
	"github.com/olgasafonova/tandoor-mcp-server/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// HandlerRegistry provides type-safe tool registration by mapping
// tool names to their concrete handler implementations.
type HandlerRegistry struct {
	client *tandoor.Client
	logger *slog.Logger
}

// NewHandlerRegistry creates a new handler registry.
func NewHandlerRegistry(client *tandoor.Client, logger *slog.Logger) *HandlerRegistry {
	return &HandlerRegistry{client: client, logger: logger}
}

// RegisterAll registers all tools with the MCP server.
func (h *HandlerRegistry) RegisterAll(server *mcp.Server) {
	for _, spec := range AllTools {
		h.registerByName(server, spec)
	}
	h.logger.Info("Registered all tools", "count", len(AllTools))
}

// registerByName dispatches to the correct typed registration function.
func (h *HandlerRegistry) registerByName(server *mcp.Server, spec ToolSpec) {
	tool := h.buildTool(spec)

	switch spec.Method {
	// Recipe tools
	case "SearchRecipes":
		register(h, server, tool, spec, h.client.SearchRecipes)
	case "GetRecipeDetails":
		register(h, server, tool, spec, h.client.GetRecipeDetails)
	case "CreateRecipe":
		register(h, server, tool, spec, h.client.CreateRecipe)
	case "UpdateRecipe":
		register(h, server, tool, spec, h.client.UpdateRecipe)
	case "RateRecipe":
		register(h, server, tool, spec, h.client.RateRecipe)
	case "ImportRecipeFromURL":
		register(h, server, tool, spec, h.client.ImportRecipeFromURL)
	case "SuggestFromInventory":
		register(h, server, tool, spec, h.client.SuggestFromInventory)

	// Shopping list tools
	case "AddToShoppingList":
		register(h, server, tool, spec, h.client.AddToShoppingList)
	case "GetShoppingList":
		register(h, server, tool, spec, h.client.GetShoppingList)
	case "CheckShoppingItems":
		register(h, server, tool, spec, h.client.CheckShoppingItems)
	case "UncheckShoppingItems":
		register(h, server, tool, spec, h.client.UncheckShoppingItems)
	case "RemoveShoppingItems":
		register(h, server, tool, spec, h.client.RemoveShoppingItems)
	case "ClearShoppingList":
		register(h, server, tool, spec, h.client.ClearShoppingList)

	// Food and pantry tools
	case "SearchFoods":
		register(h, server, tool, spec, h.client.SearchFoods)
	case "CreateFood":
		register(h, server, tool, spec, h.client.CreateFood)
	case "UpdatePantry":
		register(h, server, tool, spec, h.client.UpdatePantry)
	case "ListPantry":
		register(h, server, tool, spec, h.client.ListPantry)

	// Meal plan tools
	case "GetMealPlans":
		register(h, server, tool, spec, h.client.GetMealPlans)
	case "CreateMealPlan":
		register(h, server, tool, spec, h.client.CreateMealPlan)
	case "DeleteMealPlan":
		register(h, server, tool, spec, h.client.DeleteMealPlan)
	case "GetMealTypes":
		register(h, server, tool, spec, h.client.GetMealTypes)

	// Cooking history tools
	case "GetCookLog":
		register(h, server, tool, spec, h.client.GetCookLog)
	case "LogCookedRecipe":
		register(h, server, tool, spec, h.client.LogCookedRecipe)

	// Reference tools
	case "GetKeywords":
		register(h, server, tool, spec, h.client.GetKeywords)
	case "GetUnits":
		register(h, server, tool, spec, h.client.GetUnits)
	case "ConvertUnit":
		register(h, server, tool, spec, h.client.ConvertUnit)
	case "GetRecipeBooks":
		register(h, server, tool, spec, h.client.GetRecipeBooks)
	case "CreateRecipeBook":
		register(h, server, tool, spec, h.client.CreateRecipeBook)
	case "AddRecipeToBook":
		register(h, server, tool, spec, h.client.AddRecipeToBook)

	default:
		h.logger.Error("Unknown method, tool not registered", "method", spec.Method, "tool", spec.Name)
	}
}

// buildTool creates an mcp.Tool from a ToolSpec.
func (h *HandlerRegistry) buildTool(spec ToolSpec) *mcp.Tool {
	annotations := &mcp.ToolAnnotations{
		Title:          spec.Title,
		ReadOnlyHint:   spec.ReadOnly,
		IdempotentHint: spec.Idempotent,
	}
	if spec.Destructive {
		annotations.DestructiveHint = ptr(true)
	}
	if spec.OpenWorld {
		annotations.OpenWorldHint = ptr(true)
	}

	return &mcp.Tool{
		Name:        spec.Name,
		Description: spec.Description,
		Annotations: annotations,
	}
}

// register is a generic helper that registers a tool with the MCP server.
// It wraps the client method with panic recovery, metrics, tracing, and logging.
func register[Args, Result any](
	h *HandlerRegistry,
	server *mcp.Server,
	tool *mcp.Tool,
	spec ToolSpec,
	method func(context.Context, Args) (*Result, error),
) {
	mcp.AddTool(server, tool, func(ctx context.Context, req *mcp.CallToolRequest, args Args) (*mcp.CallToolResult, *Result, error) {
		defer h.recoverPanic(spec.Name)

		// Start trace span
		ctx, span := tracing.StartSpan(ctx, "mcp.tool."+spec.Name)
		defer span.End()

		span.SetAttributes(
			attribute.String("mcp.tool.name", spec.Name),
			attribute.String("mcp.tool.category", spec.Category),
			attribute.Bool("mcp.tool.readonly", spec.ReadOnly),
		)

		// Track in-flight requests
		metrics.RequestInFlight.WithLabelValues(spec.Name).Inc()
		defer metrics.RequestInFlight.WithLabelValues(spec.Name).Dec()

		start := time.Now()
		result, err := method(ctx, args)
		duration := time.Since(start).Seconds()

		span.SetAttributes(attribute.Float64("mcp.tool.duration_seconds", duration))

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			metrics.RecordRequest(spec.Name, duration, false)
			return nil, nil, fmt.Errorf("%s failed: %w", spec.Name, err)
		}

		span.SetStatus(codes.Ok, "")
		metrics.RecordRequest(spec.Name, duration, true)
		h.logExecution(spec, args, result)
		return callResult(result), result, nil
	})
}

// summarizer is implemented by mutating results that can state what changed
// in one line.
type summarizer interface {
	Summary() string
}

// callResult builds the text content of a tool response. Mutating results
// carry a one-line summary alongside the structured payload; read-only
// results rely on the structured payload alone.
func callResult(result any) *mcp.CallToolResult {
	s, ok := result.(summarizer)
	if !ok {
		return nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: s.Summary()}},
	}
}

// recoverPanic recovers from panics in tool handlers.
func (h *HandlerRegistry) recoverPanic(toolName string) {
	if rec := recover(); rec != nil {
		metrics.PanicsRecovered.WithLabelValues(toolName).Inc()
		h.logger.Error("Panic recovered",
			"tool", toolName,
			"panic", rec,
			"stack", string(debug.Stack()))
	}
}

// logExecution logs tool execution details.
func (h *HandlerRegistry) logExecution(spec ToolSpec, args, result any) {
	attrs := []any{"tool", spec.Name, "category", spec.Category}

	// Add extractable fields from args using type assertions
	switch a := args.(type) {
	case tandoor.SearchRecipesArgs:
		attrs = append(attrs, "query", a.Query)
	case tandoor.GetRecipeDetailsArgs:
		attrs = append(attrs, "recipe_id", a.RecipeID)
	case tandoor.CreateRecipeArgs:
		attrs = append(attrs, "name", a.Name, "steps", len(a.Steps))
	case tandoor.UpdateRecipeArgs:
		attrs = append(attrs, "recipe_id", a.RecipeID)
	case tandoor.RateRecipeArgs:
		attrs = append(attrs, "recipe_id", a.RecipeID, "rating", a.Rating)
	case tandoor.ImportRecipeArgs:
		attrs = append(attrs, "url", a.URL)
	case tandoor.SuggestArgs:
		attrs = append(attrs, "mode", a.Mode)
	case tandoor.AddToShoppingListArgs:
		attrs = append(attrs, "items", len(a.Items))
	case tandoor.CheckShoppingItemsArgs:
		attrs = append(attrs, "entry_ids", len(a.EntryIDs), "names", len(a.Names))
	case tandoor.UncheckShoppingItemsArgs:
		attrs = append(attrs, "entry_ids", len(a.EntryIDs), "names", len(a.Names))
	case tandoor.RemoveShoppingItemsArgs:
		attrs = append(attrs, "entry_ids", len(a.EntryIDs), "names", len(a.Names))
	case tandoor.SearchFoodsArgs:
		attrs = append(attrs, "query", a.Query)
	case tandoor.UpdatePantryArgs:
		attrs = append(attrs, "foods", len(a.Foods), "on_hand", a.OnHand)
	case tandoor.GetMealPlansArgs:
		attrs = append(attrs, "from_date", a.FromDate, "to_date", a.ToDate)
	case tandoor.CreateMealPlanArgs:
		attrs = append(attrs, "date", a.Date, "meal_type", a.MealType)
	case tandoor.DeleteMealPlanArgs:
		attrs = append(attrs, "plan_id", a.PlanID)
	case tandoor.GetCookLogArgs:
		attrs = append(attrs, "days_back", a.DaysBack)
	case tandoor.LogCookedRecipeArgs:
		attrs = append(attrs, "recipe_id", a.RecipeID)
	case tandoor.ConvertUnitArgs:
		attrs = append(attrs, "food", a.Food, "from_unit", a.FromUnit, "to_unit", a.ToUnit)
	case tandoor.CreateRecipeBookArgs:
		attrs = append(attrs, "name", a.Name)
	case tandoor.AddRecipeToBookArgs:
		attrs = append(attrs, "recipe_id", a.RecipeID, "book", a.Book)
	}

	// Add extractable fields from result
	switch r := result.(type) {
	case *tandoor.SearchRecipesResult:
		attrs = append(attrs, "results_count", len(r.Recipes), "total_results", r.Total)
	case *tandoor.SuggestResult:
		attrs = append(attrs, "suggestions", len(r.Suggestions), "considered", r.Considered)
	case *tandoor.AddToShoppingListResult:
		attrs = append(attrs, "added", len(r.Added), "skipped", len(r.Skipped),
			"consolidated", len(r.Consolidated))
	case *tandoor.GetShoppingListResult:
		attrs = append(attrs, "total_items", r.TotalItems, "groups", len(r.Groups))
	case *tandoor.CheckShoppingItemsResult:
		attrs = append(attrs, "changed", len(r.Checked), "not_found", len(r.NotFound))
	case *tandoor.RemoveShoppingItemsResult:
		attrs = append(attrs, "removed", len(r.Removed))
	case *tandoor.ClearShoppingListResult:
		attrs = append(attrs, "removed", len(r.RemovedItems), "pantry_updated", len(r.PantryUpdated))
	case *tandoor.SearchFoodsResult:
		attrs = append(attrs, "results_count", len(r.Foods))
	case *tandoor.UpdatePantryResult:
		attrs = append(attrs, "updated", len(r.Updated), "not_found", len(r.NotFound))
	case *tandoor.ListPantryResult:
		attrs = append(attrs, "count", r.Count)
	case *tandoor.GetMealPlansResult:
		attrs = append(attrs, "plans", len(r.Plans))
	case *tandoor.GetCookLogResult:
		attrs = append(attrs, "entries", len(r.Entries))
	case *tandoor.GetKeywordsResult:
		attrs = append(attrs, "keywords", len(r.Keywords))
	case *tandoor.GetUnitsResult:
		attrs = append(attrs, "units", len(r.Units))
	}

	h.logger.Info("Tool executed", attrs...)
}
