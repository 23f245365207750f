package tandoor

import (
	"sort"
	"strings"
)

// The recipe scorer ranks recipes by how much of their ingredient list is
// already on hand. Scoring is pure; the gateway supplies the on-hand set
// and the recently-cooked set.

// Suggestion modes tune the acceptance thresholds.
const (
	// ModeDefault suggests recipes that are mostly cookable
	ModeDefault = "default"
	// ModeMaximumUse favors using up as much of the pantry as possible
	ModeMaximumUse = "maximum-use"
	// ModeExpiring tolerates lower matches but few missing items,
	// for working down soon-to-expire stock
	ModeExpiring = "expiring"
)

// DefaultExcludeRecentDays is the recency exclusion window for suggestions
const DefaultExcludeRecentDays = 7

// maxSuggestions caps the suggestion list
const maxSuggestions = 10

// RecipeScore is the scored form of one recipe
type RecipeScore struct {
	Recipe             RecipeOverview `json:"recipe"`
	MatchScore         float64        `json:"match_score"` // on-hand / total counted ingredients
	TotalIngredients   int            `json:"total_ingredients"`
	OnHandIngredients  int            `json:"onhand_ingredients"`
	MissingIngredients []string       `json:"missing_ingredients"`
	TotalTime          int            `json:"total_time_minutes"`
}

// countedIngredient reports whether an ingredient participates in scoring.
// Section headers and amount-less lines ("salt to taste") are skipped.
func countedIngredient(ing Ingredient) bool {
	if ing.IsHeader {
		return false
	}
	if ing.Food == nil {
		return false
	}
	if ing.NoAmount && ing.Amount == 0 {
		return false
	}
	return true
}

// scoreRecipe computes the match score for one recipe detail against the
// on-hand food set. Foods are matched by ID, falling back to normalized
// name for instances where list and detail serializers disagree.
func scoreRecipe(rec *Recipe, onHandIDs map[int]bool, onHandNames map[string]bool) RecipeScore {
	score := RecipeScore{
		Recipe: RecipeOverview{
			ID:          rec.ID,
			Name:        rec.Name,
			Description: rec.Description,
			Keywords:    rec.Keywords,
			Rating:      rec.Rating,
			WorkingTime: rec.WorkingTime,
			WaitingTime: rec.WaitingTime,
			Servings:    rec.Servings,
		},
		TotalTime: rec.TotalTime(),
	}

	seen := make(map[int]bool)
	for _, step := range rec.Steps {
		for _, ing := range step.Ingredients {
			if !countedIngredient(ing) {
				continue
			}
			if seen[ing.Food.ID] {
				continue
			}
			seen[ing.Food.ID] = true

			score.TotalIngredients++
			if onHandIDs[ing.Food.ID] || onHandNames[normalizeName(ing.Food.Name)] {
				score.OnHandIngredients++
			} else {
				score.MissingIngredients = append(score.MissingIngredients, ing.Food.Name)
			}
		}
	}

	if score.TotalIngredients > 0 {
		score.MatchScore = float64(score.OnHandIngredients) / float64(score.TotalIngredients)
	}
	return score
}

// modeThresholds returns the acceptance rules per suggestion mode
func modeThresholds(mode string) (minScore float64, maxMissing int) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeMaximumUse:
		return 0.5, -1
	case ModeExpiring:
		return 0.3, 3
	default:
		return 0.6, -1
	}
}

// acceptScore applies the mode thresholds to one scored recipe
func acceptScore(s RecipeScore, minScore float64, maxMissing int) bool {
	if s.TotalIngredients == 0 {
		return false
	}
	if s.MatchScore < minScore {
		return false
	}
	if maxMissing >= 0 && len(s.MissingIngredients) > maxMissing {
		return false
	}
	return true
}

// sortScores orders suggestions: match score descending, then total time
// ascending, then recipe id ascending. The ordering is total, so output is
// deterministic for a fixed input.
func sortScores(scores []RecipeScore) {
	sort.Slice(scores, func(i, j int) bool {
		a, b := scores[i], scores[j]
		if a.MatchScore != b.MatchScore {
			return a.MatchScore > b.MatchScore
		}
		if a.TotalTime != b.TotalTime {
			return a.TotalTime < b.TotalTime
		}
		return a.Recipe.ID < b.Recipe.ID
	})
}
