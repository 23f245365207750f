// Package evals provides an evaluation harness for measuring how reliably
// an LLM picks the right Tandoor tool and extracts correct arguments from
// natural language requests like "add 2 cups of flour to my shopping list".
package evals

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
)

// ToolSelectionTest is a single natural-language input with the tool the
// model is expected to pick for it.
type ToolSelectionTest struct {
	ID           string                 `json:"id"`
	Category     string                 `json:"category"`
	Input        string                 `json:"input"`
	ExpectedTool string                 `json:"expected_tool"`
	ExpectedArgs map[string]interface{} `json:"expected_args"`
	NotTools     []string               `json:"not_tools"`
}

// ToolSelectionSuite groups tool selection tests loaded from JSON.
type ToolSelectionSuite struct {
	Name        string              `json:"name"`
	Version     string              `json:"version"`
	Description string              `json:"description"`
	Tests       []ToolSelectionTest `json:"tests"`
}

// ConfusionPairTest is one disambiguation probe within a confusion pair.
type ConfusionPairTest struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
	Reason   string `json:"reason"`
}

// ConfusionPair names two or more tools that models commonly mix up,
// such as tandoor_search_recipes vs tandoor_suggest_from_inventory.
type ConfusionPair struct {
	ID             string              `json:"id"`
	Tools          []string            `json:"tools"`
	Disambiguation string              `json:"disambiguation"`
	Tests          []ConfusionPairTest `json:"tests"`
}

// ConfusionPairSuite groups confusion pairs loaded from JSON.
type ConfusionPairSuite struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Pairs       []ConfusionPair `json:"pairs"`
}

// ArgumentTest checks that a known tool call carries the right arguments.
type ArgumentTest struct {
	ID            string                 `json:"id"`
	Tool          string                 `json:"tool"`
	Input         string                 `json:"input"`
	RequiredArgs  []string               `json:"required_args"`
	ExpectedArgs  map[string]interface{} `json:"expected_args"`
	ForbiddenArgs []string               `json:"forbidden_args"`
	ArgNotes      string                 `json:"arg_notes,omitempty"`
}

// ValidationRules documents suite-wide argument conventions so eval authors
// keep test data consistent with what the tools actually accept.
type ValidationRules struct {
	FoodHandling   string `json:"food_handling"`
	AmountHandling string `json:"amount_handling"`
	UnitHandling   string `json:"unit_handling"`
	DateFormat     string `json:"date_format"`
	ArrayHandling  string `json:"array_handling"`
}

// ArgumentSuite groups argument correctness tests loaded from JSON.
type ArgumentSuite struct {
	Name            string          `json:"name"`
	Version         string          `json:"version"`
	Description     string          `json:"description"`
	Tests           []ArgumentTest  `json:"tests"`
	ValidationRules ValidationRules `json:"validation_rules"`
}

// ToolSelectionResult records the outcome of one tool selection test.
type ToolSelectionResult struct {
	TestID       string
	Input        string
	ExpectedTool string
	ActualTool   string
	Passed       bool
	Errors       []string
}

// ConfusionPairResult records the outcome of one disambiguation probe.
type ConfusionPairResult struct {
	PairID       string
	TestInput    string
	ExpectedTool string
	ActualTool   string
	Reason       string
	Passed       bool
}

// ArgumentResult records the outcome of one argument correctness test.
type ArgumentResult struct {
	TestID       string
	Tool         string
	Input        string
	Passed       bool
	MissingArgs  []string
	WrongArgs    map[string]string // arg -> "expected X, got Y"
	ForbiddenHit []string
}

// EvalMetrics aggregates results across a whole suite run.
type EvalMetrics struct {
	TotalTests    int
	PassedTests   int
	FailedTests   int
	Accuracy      float64
	ByCategory    map[string]*CategoryMetrics
	ByTool        map[string]*ToolMetrics
	FailedDetails []string
}

// CategoryMetrics breaks results down per test category.
type CategoryMetrics struct {
	Total  int
	Passed int
	Failed int
}

// ToolMetrics tracks selection behavior per tool.
type ToolMetrics struct {
	ExpectedCount  int
	SelectedCount  int
	CorrectCount   int
	FalsePositives int
	FalseNegatives int
}

func loadSuite[T any](path string) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	var suite T
	if err := json.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return &suite, nil
}

// LoadToolSelectionSuite loads tool selection tests from a JSON file.
func LoadToolSelectionSuite(path string) (*ToolSelectionSuite, error) {
	return loadSuite[ToolSelectionSuite](path)
}

// LoadConfusionPairSuite loads confusion pair tests from a JSON file.
func LoadConfusionPairSuite(path string) (*ConfusionPairSuite, error) {
	return loadSuite[ConfusionPairSuite](path)
}

// LoadArgumentSuite loads argument correctness tests from a JSON file.
func LoadArgumentSuite(path string) (*ArgumentSuite, error) {
	return loadSuite[ArgumentSuite](path)
}

// ToolSelector is implemented by an LLM harness or a mock under test.
type ToolSelector interface {
	// SelectTool returns the tool name and arguments for a natural language input.
	SelectTool(input string) (toolName string, args map[string]interface{}, err error)
}

func newMetrics() *EvalMetrics {
	return &EvalMetrics{
		ByCategory: make(map[string]*CategoryMetrics),
		ByTool:     make(map[string]*ToolMetrics),
	}
}

func (m *EvalMetrics) category(name string) *CategoryMetrics {
	if m.ByCategory[name] == nil {
		m.ByCategory[name] = &CategoryMetrics{}
	}
	return m.ByCategory[name]
}

func (m *EvalMetrics) tool(name string) *ToolMetrics {
	if m.ByTool[name] == nil {
		m.ByTool[name] = &ToolMetrics{}
	}
	return m.ByTool[name]
}

func (m *EvalMetrics) finalize() {
	if m.TotalTests > 0 {
		m.Accuracy = float64(m.PassedTests) / float64(m.TotalTests)
	}
}

// EvaluateToolSelection runs every tool selection test against the selector.
func EvaluateToolSelection(suite *ToolSelectionSuite, selector ToolSelector) (*EvalMetrics, []ToolSelectionResult) {
	metrics := newMetrics()
	var results []ToolSelectionResult

	for _, test := range suite.Tests {
		metrics.TotalTests++
		metrics.category(test.Category).Total++
		metrics.tool(test.ExpectedTool).ExpectedCount++

		actualTool, actualArgs, err := selector.SelectTool(test.Input)

		result := ToolSelectionResult{
			TestID:       test.ID,
			Input:        test.Input,
			ExpectedTool: test.ExpectedTool,
			ActualTool:   actualTool,
			Passed:       true,
		}

		if err != nil {
			result.Passed = false
			result.Errors = append(result.Errors, fmt.Sprintf("selector error: %v", err))
		}

		if actualTool != test.ExpectedTool {
			result.Passed = false
			result.Errors = append(result.Errors,
				fmt.Sprintf("wrong tool: expected %s, got %s", test.ExpectedTool, actualTool))
			metrics.tool(test.ExpectedTool).FalseNegatives++
			metrics.tool(actualTool).FalsePositives++
		} else {
			metrics.tool(test.ExpectedTool).CorrectCount++
		}
		metrics.tool(actualTool).SelectedCount++

		for _, forbidden := range test.NotTools {
			if actualTool == forbidden {
				result.Passed = false
				result.Errors = append(result.Errors,
					fmt.Sprintf("selected forbidden tool: %s", forbidden))
			}
		}

		for key, expected := range test.ExpectedArgs {
			actual, exists := actualArgs[key]
			if !exists {
				result.Passed = false
				result.Errors = append(result.Errors,
					fmt.Sprintf("missing arg %s (expected %v)", key, expected))
			} else if !compareValues(expected, actual) {
				result.Passed = false
				result.Errors = append(result.Errors,
					fmt.Sprintf("wrong arg %s: expected %v, got %v", key, expected, actual))
			}
		}

		if result.Passed {
			metrics.PassedTests++
			metrics.category(test.Category).Passed++
		} else {
			metrics.FailedTests++
			metrics.category(test.Category).Failed++
			metrics.FailedDetails = append(metrics.FailedDetails,
				fmt.Sprintf("[%s] %s: %s", test.ID, test.Input, strings.Join(result.Errors, "; ")))
		}

		results = append(results, result)
	}

	metrics.finalize()
	return metrics, results
}

// EvaluateConfusionPairs runs every disambiguation probe against the selector.
// The pair ID doubles as the category in the returned metrics.
func EvaluateConfusionPairs(suite *ConfusionPairSuite, selector ToolSelector) (*EvalMetrics, []ConfusionPairResult) {
	metrics := newMetrics()
	var results []ConfusionPairResult

	for _, pair := range suite.Pairs {
		for _, test := range pair.Tests {
			metrics.TotalTests++
			metrics.category(pair.ID).Total++
			metrics.tool(test.Expected).ExpectedCount++

			actualTool, _, err := selector.SelectTool(test.Input)

			result := ConfusionPairResult{
				PairID:       pair.ID,
				TestInput:    test.Input,
				ExpectedTool: test.Expected,
				ActualTool:   actualTool,
				Reason:       test.Reason,
				Passed:       err == nil && actualTool == test.Expected,
			}
			metrics.tool(actualTool).SelectedCount++

			if result.Passed {
				metrics.PassedTests++
				metrics.category(pair.ID).Passed++
				metrics.tool(test.Expected).CorrectCount++
			} else {
				metrics.FailedTests++
				metrics.category(pair.ID).Failed++
				metrics.tool(test.Expected).FalseNegatives++
				metrics.tool(actualTool).FalsePositives++
				metrics.FailedDetails = append(metrics.FailedDetails,
					fmt.Sprintf("[%s] %s: expected %s, got %s (%s)",
						pair.ID, test.Input, test.Expected, actualTool, test.Reason))
			}

			results = append(results, result)
		}
	}

	metrics.finalize()
	return metrics, results
}

// EvaluateArguments runs every argument correctness test against the selector.
// The tool name doubles as the category in the returned metrics.
func EvaluateArguments(suite *ArgumentSuite, selector ToolSelector) (*EvalMetrics, []ArgumentResult) {
	metrics := newMetrics()
	var results []ArgumentResult

	for _, test := range suite.Tests {
		metrics.TotalTests++
		metrics.category(test.Tool).Total++

		actualTool, actualArgs, err := selector.SelectTool(test.Input)

		result := ArgumentResult{
			TestID:    test.ID,
			Tool:      test.Tool,
			Input:     test.Input,
			Passed:    true,
			WrongArgs: make(map[string]string),
		}

		if err != nil || actualTool != test.Tool {
			result.Passed = false
		} else {
			for _, reqArg := range test.RequiredArgs {
				if _, exists := actualArgs[reqArg]; !exists {
					result.Passed = false
					result.MissingArgs = append(result.MissingArgs, reqArg)
				}
			}

			for key, expected := range test.ExpectedArgs {
				actual, exists := actualArgs[key]
				if !exists {
					result.Passed = false
					result.MissingArgs = append(result.MissingArgs, key)
				} else if !compareValues(expected, actual) {
					result.Passed = false
					result.WrongArgs[key] = fmt.Sprintf("expected %v, got %v", expected, actual)
				}
			}

			for _, forbidden := range test.ForbiddenArgs {
				if _, exists := actualArgs[forbidden]; exists {
					result.Passed = false
					result.ForbiddenHit = append(result.ForbiddenHit, forbidden)
				}
			}
		}

		if result.Passed {
			metrics.PassedTests++
			metrics.category(test.Tool).Passed++
		} else {
			metrics.FailedTests++
			metrics.category(test.Tool).Failed++

			var details []string
			if len(result.MissingArgs) > 0 {
				details = append(details, fmt.Sprintf("missing: %v", result.MissingArgs))
			}
			for k, v := range result.WrongArgs {
				details = append(details, fmt.Sprintf("%s: %s", k, v))
			}
			if len(result.ForbiddenHit) > 0 {
				details = append(details, fmt.Sprintf("forbidden: %v", result.ForbiddenHit))
			}
			if actualTool != test.Tool {
				details = append(details, fmt.Sprintf("wrong tool: %s", actualTool))
			}
			metrics.FailedDetails = append(metrics.FailedDetails,
				fmt.Sprintf("[%s] %s: %s", test.ID, test.Input, strings.Join(details, "; ")))
		}

		results = append(results, result)
	}

	metrics.finalize()
	return metrics, results
}

// compareValues compares expected and actual argument values, tolerating the
// numeric widening JSON decoding introduces (every number becomes float64).
func compareValues(expected, actual interface{}) bool {
	if expected == nil && actual == nil {
		return true
	}
	if expected == nil || actual == nil {
		return false
	}

	ev := reflect.ValueOf(expected)
	av := reflect.ValueOf(actual)

	switch ev.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if av.Kind() == reflect.Float64 {
			return float64(ev.Int()) == av.Float()
		}
	case reflect.Float32, reflect.Float64:
		if av.Kind() == reflect.Float64 {
			return ev.Float() == av.Float()
		}
	}

	if ev.Kind() == reflect.Slice && av.Kind() == reflect.Slice {
		if ev.Len() != av.Len() {
			return false
		}
		for i := 0; i < ev.Len(); i++ {
			if !compareValues(ev.Index(i).Interface(), av.Index(i).Interface()) {
				return false
			}
		}
		return true
	}

	return reflect.DeepEqual(expected, actual)
}

// FormatMetrics returns a human-readable summary of an evaluation run.
func FormatMetrics(metrics *EvalMetrics, suiteName string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("\n=== %s ===\n", suiteName))
	b.WriteString(fmt.Sprintf("Total: %d tests\n", metrics.TotalTests))
	b.WriteString(fmt.Sprintf("Passed: %d (%.1f%%)\n", metrics.PassedTests, metrics.Accuracy*100))
	b.WriteString(fmt.Sprintf("Failed: %d\n", metrics.FailedTests))

	if len(metrics.ByCategory) > 0 {
		b.WriteString("\nBy Category:\n")
		for cat, m := range metrics.ByCategory {
			if m.Total > 0 {
				acc := float64(m.Passed) / float64(m.Total) * 100
				b.WriteString(fmt.Sprintf("  %-25s: %d/%d (%.0f%%)\n", cat, m.Passed, m.Total, acc))
			}
		}
	}

	const maxShown = 10
	if n := len(metrics.FailedDetails); n > 0 {
		if n <= maxShown {
			b.WriteString("\nFailed Tests:\n")
		} else {
			b.WriteString(fmt.Sprintf("\nFailed Tests (showing first %d of %d):\n", maxShown, n))
		}
		for i, detail := range metrics.FailedDetails {
			if i == maxShown {
				break
			}
			b.WriteString(fmt.Sprintf("  - %s\n", detail))
		}
	}

	return b.String()
}

// LoadAllEvals loads the three standard suites from a directory.
func LoadAllEvals(dir string) (*ToolSelectionSuite, *ConfusionPairSuite, *ArgumentSuite, error) {
	toolSelection, err := LoadToolSelectionSuite(filepath.Join(dir, "tool_selection.json"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading tool selection: %w", err)
	}

	confusionPairs, err := LoadConfusionPairSuite(filepath.Join(dir, "confusion_pairs.json"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading confusion pairs: %w", err)
	}

	arguments, err := LoadArgumentSuite(filepath.Join(dir, "argument_correctness.json"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading arguments: %w", err)
	}

	return toolSelection, confusionPairs, arguments, nil
}
