package tandoor

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/olgasafonova/tandoor-mcp-server/metrics"
)

// Name resolution thresholds. Exact and prefix matches always win; the
// similarity and edit-distance rules only apply when the stricter rules
// found nothing.
const (
	// jaccardThreshold is the minimum token-set similarity for rule 3
	jaccardThreshold = 0.8

	// editDistanceShort / editDistanceLong bound rule 4 by query length
	editDistanceShort    = 2 // queries of editDistanceShortLen runes or fewer
	editDistanceLong     = 3
	editDistanceShortLen = 8
)

// EntityKind names a resolvable entity table
type EntityKind string

const (
	KindFood    EntityKind = "food"
	KindUnit    EntityKind = "unit"
	KindKeyword EntityKind = "keyword"
)

// ResolutionStatus is the outcome of a name resolution
type ResolutionStatus string

const (
	ResolutionMatched   ResolutionStatus = "matched"
	ResolutionCreated   ResolutionStatus = "created"
	ResolutionAmbiguous ResolutionStatus = "ambiguous"
	ResolutionNotFound  ResolutionStatus = "not_found"
)

// Resolution reports how a name resolved against an entity table
type Resolution struct {
	Kind       EntityKind       `json:"kind"`
	Query      string           `json:"query"`
	Status     ResolutionStatus `json:"status"`
	ID         int              `json:"id,omitempty"`
	Name       string           `json:"name,omitempty"`
	Rule       string           `json:"rule,omitempty"` // exact, prefix, similarity, edit_distance
	Candidates []string         `json:"candidates,omitempty"`
}

// candidate is one entry of a lookup table with precomputed normal forms
type candidate struct {
	id         int
	name       string
	norm       string
	pluralNorm string
}

// lookupTable indexes one entity table for resolution. Tables are built per
// tool invocation and never reused across calls, so resolution always sees
// the backend's current state.
type lookupTable struct {
	kind    EntityKind
	ordered []candidate
	byNorm  map[string][]int // normalized name -> indexes into ordered
}

func newLookupTable(kind EntityKind) *lookupTable {
	return &lookupTable{
		kind:   kind,
		byNorm: make(map[string][]int),
	}
}

func (t *lookupTable) add(id int, name, plural string) {
	c := candidate{
		id:         id,
		name:       name,
		norm:       normalizeName(name),
		pluralNorm: normalizeName(plural),
	}
	idx := len(t.ordered)
	t.ordered = append(t.ordered, c)
	if c.norm != "" {
		t.byNorm[c.norm] = append(t.byNorm[c.norm], idx)
	}
	if c.pluralNorm != "" && c.pluralNorm != c.norm {
		t.byNorm[c.pluralNorm] = append(t.byNorm[c.pluralNorm], idx)
	}
}

// normalizeName lowercases, trims, and collapses internal whitespace
func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(s), " ")
}

// lookupForms returns the normal forms to try for a query: the query itself
// and, when a trailing "s" hides a known singular, the stripped form.
func (t *lookupTable) lookupForms(qnorm string) []string {
	forms := []string{qnorm}
	if strings.HasSuffix(qnorm, "s") && len(qnorm) > 1 {
		stripped := qnorm[:len(qnorm)-1]
		if _, ok := t.byNorm[stripped]; ok {
			forms = append(forms, stripped)
		}
	}
	return forms
}

// resolve applies the resolution rules in strict precedence order:
// exact match, unique prefix, token-set similarity, bounded edit distance.
// Ties within a rule are ambiguous rather than silently picking a winner.
// For a fixed table the result is deterministic.
func (t *lookupTable) resolve(query string) Resolution {
	res := Resolution{Kind: t.kind, Query: query, Status: ResolutionNotFound}
	qnorm := normalizeName(query)
	if qnorm == "" {
		return res
	}

	// Rule 1: exact normalized equality (singular or plural form)
	for _, form := range t.lookupForms(qnorm) {
		if idxs, ok := t.byNorm[form]; ok {
			uniq := dedupeIndexes(idxs)
			if len(uniq) == 1 {
				c := t.ordered[uniq[0]]
				return Resolution{Kind: t.kind, Query: query, Status: ResolutionMatched,
					ID: c.id, Name: c.name, Rule: "exact"}
			}
			return t.ambiguous(query, uniq)
		}
	}

	// Rule 2: unique prefix, in either direction. "zucc" matches "Zucchini",
	// and "tomato fresh ripe" matches "Tomato".
	var prefixHits []int
	for i, c := range t.ordered {
		hit := strings.HasPrefix(c.norm, qnorm) || strings.HasPrefix(qnorm, c.norm)
		if !hit && c.pluralNorm != "" {
			hit = strings.HasPrefix(c.pluralNorm, qnorm) || strings.HasPrefix(qnorm, c.pluralNorm)
		}
		if hit {
			prefixHits = append(prefixHits, i)
		}
	}
	if len(prefixHits) == 1 {
		c := t.ordered[prefixHits[0]]
		return Resolution{Kind: t.kind, Query: query, Status: ResolutionMatched,
			ID: c.id, Name: c.name, Rule: "prefix"}
	}
	// Multiple prefix hits are not ambiguous yet; the looser rules below
	// only run if nothing clears their own thresholds.

	// Rule 3: token-set similarity
	qTokens := strings.Fields(qnorm)
	best := -1.0
	var simHits []int
	for i, c := range t.ordered {
		sim := jaccardSimilarity(qTokens, strings.Fields(c.norm))
		if sim < jaccardThreshold {
			continue
		}
		switch {
		case sim > best:
			best = sim
			simHits = []int{i}
		case sim == best:
			simHits = append(simHits, i)
		}
	}
	if len(simHits) == 1 {
		c := t.ordered[simHits[0]]
		return Resolution{Kind: t.kind, Query: query, Status: ResolutionMatched,
			ID: c.id, Name: c.name, Rule: "similarity"}
	}
	if len(simHits) > 1 {
		return t.ambiguous(query, simHits)
	}

	// Rule 4: bounded edit distance
	maxDist := editDistanceLong
	if utf8.RuneCountInString(qnorm) <= editDistanceShortLen {
		maxDist = editDistanceShort
	}
	bestDist := maxDist + 1
	var distHits []int
	for i, c := range t.ordered {
		d := levenshtein(qnorm, c.norm, maxDist)
		if d < 0 || d > maxDist {
			continue
		}
		switch {
		case d < bestDist:
			bestDist = d
			distHits = []int{i}
		case d == bestDist:
			distHits = append(distHits, i)
		}
	}
	if len(distHits) == 1 {
		c := t.ordered[distHits[0]]
		return Resolution{Kind: t.kind, Query: query, Status: ResolutionMatched,
			ID: c.id, Name: c.name, Rule: "edit_distance"}
	}
	if len(distHits) > 1 {
		return t.ambiguous(query, distHits)
	}

	return res
}

func (t *lookupTable) ambiguous(query string, idxs []int) Resolution {
	names := make([]string, 0, len(idxs))
	seen := make(map[string]bool)
	for _, i := range idxs {
		name := t.ordered[i].name
		if !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	sort.Strings(names)
	return Resolution{Kind: t.kind, Query: query, Status: ResolutionAmbiguous, Candidates: names}
}

func dedupeIndexes(idxs []int) []int {
	seen := make(map[int]bool)
	out := idxs[:0:0]
	for _, i := range idxs {
		if !seen[i] {
			out = append(out, i)
			seen[i] = true
		}
	}
	return out
}

// jaccardSimilarity computes set similarity between two token slices
func jaccardSimilarity(tokensA, tokensB []string) float64 {
	if len(tokensA) == 0 && len(tokensB) == 0 {
		return 0
	}

	setA := make(map[string]bool)
	for _, tok := range tokensA {
		setA[tok] = true
	}
	setB := make(map[string]bool)
	for _, tok := range tokensB {
		setB[tok] = true
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}

	union := len(setA)
	for tok := range setB {
		if !setA[tok] {
			union++
		}
	}

	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// levenshtein computes edit distance with a cutoff. Returns -1 when the
// distance provably exceeds maxDist, which keeps the scan cheap on large
// tables.
func levenshtein(a, b string, maxDist int) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)

	if la-lb > maxDist || lb-la > maxDist {
		return -1
	}
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}
		if rowMin > maxDist {
			return -1
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// ========== Per-call entity catalog ==========

// catalogNeeds selects which tables a tool invocation requires
type catalogNeeds struct {
	foods    bool
	units    bool
	keywords bool
}

// catalog holds the entity tables for one tool invocation. It is built
// fresh per call; entity existence is never cached across calls.
type catalog struct {
	foods    *lookupTable
	units    *lookupTable
	keywords *lookupTable

	foodsByID map[int]Food
	unitsByID map[int]Unit
}

// loadCatalog fetches the requested tables, running independent fetches
// concurrently.
func (c *Client) loadCatalog(ctx context.Context, needs catalogNeeds) (*catalog, error) {
	cat := &catalog{}

	var wg sync.WaitGroup
	var foodsErr, unitsErr, keywordsErr error

	if needs.foods {
		wg.Add(1)
		go func() {
			defer wg.Done()
			foods, err := c.fetchFoods(ctx, "")
			if err != nil {
				foodsErr = err
				return
			}
			cat.setFoods(foods)
		}()
	}
	if needs.units {
		wg.Add(1)
		go func() {
			defer wg.Done()
			units, err := c.fetchUnits(ctx, "")
			if err != nil {
				unitsErr = err
				return
			}
			cat.setUnits(units)
		}()
	}
	if needs.keywords {
		wg.Add(1)
		go func() {
			defer wg.Done()
			keywords, err := c.fetchKeywords(ctx, "")
			if err != nil {
				keywordsErr = err
				return
			}
			cat.setKeywords(keywords)
		}()
	}
	wg.Wait()

	for _, err := range []error{foodsErr, unitsErr, keywordsErr} {
		if err != nil {
			return nil, err
		}
	}
	return cat, nil
}

func (cat *catalog) setFoods(foods []Food) {
	cat.foods = newLookupTable(KindFood)
	cat.foodsByID = make(map[int]Food, len(foods))
	for _, f := range foods {
		cat.foods.add(f.ID, f.Name, f.PluralName)
		cat.foodsByID[f.ID] = f
	}
	metrics.CatalogLoads.WithLabelValues(string(KindFood)).Inc()
}

func (cat *catalog) setUnits(units []Unit) {
	cat.units = newLookupTable(KindUnit)
	cat.unitsByID = make(map[int]Unit, len(units))
	for _, u := range units {
		cat.units.add(u.ID, u.Name, u.PluralName)
		cat.unitsByID[u.ID] = u
	}
	metrics.CatalogLoads.WithLabelValues(string(KindUnit)).Inc()
}

func (cat *catalog) setKeywords(keywords []Keyword) {
	cat.keywords = newLookupTable(KindKeyword)
	for _, k := range keywords {
		cat.keywords.add(k.ID, k.Name, "")
	}
	metrics.CatalogLoads.WithLabelValues(string(KindKeyword)).Inc()
}

// addFood registers a newly created food so later resolutions in the same
// call see it.
func (cat *catalog) addFood(f Food) {
	cat.foods.add(f.ID, f.Name, f.PluralName)
	cat.foodsByID[f.ID] = f
}

// resolveFood resolves a food name, optionally creating it when missing.
// Ambiguity is an error the caller reports back to the user.
func (c *Client) resolveFood(ctx context.Context, cat *catalog, name string, createMissing bool) (Food, Resolution, error) {
	res := cat.foods.resolve(name)
	metrics.RecordResolution(string(KindFood), string(res.Status))
	switch res.Status {
	case ResolutionMatched:
		return cat.foodsByID[res.ID], res, nil
	case ResolutionAmbiguous:
		return Food{}, res, &AmbiguousMatchError{Kind: string(KindFood), Query: name, Candidates: res.Candidates}
	}

	if !createMissing {
		return Food{}, res, &NotFoundError{Kind: string(KindFood), Ref: name}
	}

	food, err := c.createFood(ctx, strings.TrimSpace(name), false)
	if err != nil {
		return Food{}, res, err
	}
	cat.addFood(food)
	res.Status = ResolutionCreated
	res.ID = food.ID
	res.Name = food.Name
	metrics.RecordResolution(string(KindFood), string(ResolutionCreated))
	return food, res, nil
}

// resolveUnit resolves a unit name. Units are never auto-created; an
// unknown unit comes back as NotFound for the caller to surface.
func (cat *catalog) resolveUnit(name string) (*Unit, Resolution, error) {
	if strings.TrimSpace(name) == "" {
		return nil, Resolution{Kind: KindUnit, Status: ResolutionMatched}, nil
	}
	res := cat.units.resolve(name)
	metrics.RecordResolution(string(KindUnit), string(res.Status))
	switch res.Status {
	case ResolutionMatched:
		u := cat.unitsByID[res.ID]
		return &u, res, nil
	case ResolutionAmbiguous:
		return nil, res, &AmbiguousMatchError{Kind: string(KindUnit), Query: name, Candidates: res.Candidates}
	}
	return nil, res, &NotFoundError{Kind: string(KindUnit), Ref: name}
}

// fetchFoods lists foods, optionally filtered by a server-side query
func (c *Client) fetchFoods(ctx context.Context, query string) ([]Food, error) {
	params := url.Values{}
	if query != "" {
		params.Set("query", query)
	}
	return getAll[Food](ctx, c, "list foods", "food", "/api/food/", params)
}

// fetchUnits lists measurement units
func (c *Client) fetchUnits(ctx context.Context, query string) ([]Unit, error) {
	params := url.Values{}
	if query != "" {
		params.Set("query", query)
	}
	return getAll[Unit](ctx, c, "list units", "unit", "/api/unit/", params)
}

// fetchKeywords lists recipe keywords
func (c *Client) fetchKeywords(ctx context.Context, query string) ([]Keyword, error) {
	params := url.Values{}
	if query != "" {
		params.Set("query", query)
	}
	return getAll[Keyword](ctx, c, "list keywords", "keyword", "/api/keyword/", params)
}

// createFood creates a new food entry
func (c *Client) createFood(ctx context.Context, name string, onHand bool) (Food, error) {
	body, err := c.doRequest(ctx, "create food", "food", http.MethodPost, "/api/food/", nil,
		createFoodRequest{Name: name, OnHand: onHand})
	if err != nil {
		return Food{}, err
	}
	var food Food
	if err := decodeInto("create food", body, &food); err != nil {
		return Food{}, err
	}
	return food, nil
}
