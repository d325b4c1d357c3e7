// Package categorize maps free text to category ids using learned rules,
// live category labels, and a built-in keyword table, in that order.
package categorize

import (
	"sort"
	"strings"
	"time"

	"github.com/gravityplanner/gravity/internal/constants"
	"github.com/gravityplanner/gravity/internal/models"
)

// keywords is the built-in last-resort mapping.
var keywords = map[string]string{
	"coding":      "deep_work",
	"code":        "deep_work",
	"development": "deep_work",
	"design":      "deep_work",
	"writing":     "deep_work",
	"work":        "deep_work",

	"bank":    "logistics",
	"printer": "logistics",
	"admin":   "logistics",
	"email":   "logistics",
	"bill":    "logistics",
	"meeting": "logistics",

	"driving":    "physical",
	"motorcycle": "physical",
	"gym":        "physical",
	"walking":    "physical",
	"exercise":   "physical",

	"breakfast": "personal",
	"lunch":     "personal",
	"dinner":    "personal",
	"coffee":    "personal",
	"rest":      "personal",
	"smoking":   "personal",
	"sleep":     "personal",
}

// autoStopLimits caps how long a live activity of a category may run before
// it should be auto-terminated.
var autoStopLimits = map[string]time.Duration{
	"deep_work": 105 * time.Minute,
	"logistics": 30 * time.Minute,
	"physical":  60 * time.Minute,
	"personal":  20 * time.Minute,
}

// Categorize returns the category id for the given text, or "" when nothing
// matches (the caller keeps its default). Priority: user rules, then live
// category labels, then the built-in table. First match wins.
func Categorize(text string, userRules map[string]string, categories map[string]models.Category) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return ""
	}

	// Map iteration order is randomized, so each tier walks its keys in
	// sorted order to keep matches deterministic.
	for _, keyword := range sortedKeys(userRules) {
		if keyword != "" && strings.Contains(lower, strings.ToLower(keyword)) {
			return userRules[keyword]
		}
	}

	// A user's own category name doubles as a keyword. Labels of length <= 2
	// are skipped to avoid trivial matches, as are the reserved ids.
	for _, id := range sortedCategoryIDs(categories) {
		if id == constants.CategoryNothing || id == constants.CategoryNote || id == constants.CategoryReminder {
			continue
		}
		label := strings.ToLower(categories[id].Label)
		if len(label) > 2 && strings.Contains(lower, label) {
			return id
		}
	}

	for _, keyword := range sortedKeys(keywords) {
		if strings.Contains(lower, keyword) {
			return keywords[keyword]
		}
	}
	return ""
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedCategoryIDs(m map[string]models.Category) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AutoStopLimit returns the duration cap past which a live activity should
// auto-terminate, or 0 when no cap applies. A "smoking" title overrides the
// category default.
func AutoStopLimit(category, title string) time.Duration {
	if category == "" {
		return 0
	}
	if strings.Contains(strings.ToLower(title), "smoking") {
		return 8 * time.Minute
	}
	return autoStopLimits[category]
}
