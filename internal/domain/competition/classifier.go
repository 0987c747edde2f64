// Package competition classifies league labels into competition categories
// so league tables and cup runs can be treated differently downstream.
package competition

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Category string

const (
	CategoryInternational      Category = "international"
	CategoryContinentalClubs   Category = "continental_clubs"
	CategoryContinentalNations Category = "continental_nations"
	CategoryNational           Category = "national"
	CategoryOther              Category = "other"
)

// CategoryOrder ranks categories by prestige for display sorting.
var CategoryOrder = []Category{
	CategoryInternational,
	CategoryContinentalNations,
	CategoryContinentalClubs,
	CategoryNational,
	CategoryOther,
}

// Rule maps normalized keywords to a category. Rules are evaluated in order
// and the first match wins, so more specific entries must come first.
type Rule struct {
	Keywords []string `json:"keywords"`
	Category Category `json:"category"`
}

var DefaultRules = []Rule{
	{Keywords: []string{"world cup", "coupe du monde"}, Category: CategoryInternational},
	{Keywords: []string{"champions league"}, Category: CategoryContinentalClubs},
	{Keywords: []string{"europa league"}, Category: CategoryContinentalClubs},
	{Keywords: []string{"conference league"}, Category: CategoryContinentalClubs},
	{Keywords: []string{"libertadores"}, Category: CategoryContinentalClubs},
	{Keywords: []string{"sudamericana"}, Category: CategoryContinentalClubs},
	{Keywords: []string{"caf champions"}, Category: CategoryContinentalClubs},
	{Keywords: []string{"confederation cup"}, Category: CategoryContinentalClubs},
	{Keywords: []string{"afc champions"}, Category: CategoryContinentalClubs},
	{Keywords: []string{"concacaf champions"}, Category: CategoryContinentalClubs},
	{Keywords: []string{"club world cup"}, Category: CategoryInternational},
	{Keywords: []string{"euro"}, Category: CategoryContinentalNations},
	{Keywords: []string{"copa america"}, Category: CategoryContinentalNations},
	{Keywords: []string{"africa cup", "african cup", "can", "coupe d'afrique"}, Category: CategoryContinentalNations},
	{Keywords: []string{"asian cup"}, Category: CategoryContinentalNations},
	{Keywords: []string{"gold cup"}, Category: CategoryContinentalNations},
	{Keywords: []string{"arab cup"}, Category: CategoryContinentalNations},
	{Keywords: []string{"nations league"}, Category: CategoryInternational},
	{Keywords: []string{"dfb pokal", "dfb-pokal"}, Category: CategoryNational},
	{Keywords: []string{"fa cup"}, Category: CategoryNational},
	{Keywords: []string{"coupe de france"}, Category: CategoryNational},
	{Keywords: []string{"copa del rey"}, Category: CategoryNational},
	{Keywords: []string{"coppa italia"}, Category: CategoryNational},
}

// genericCupKeywords catch domestic cups no explicit rule names.
var genericCupKeywords = []string{"cup", "copa", "coupe", "coppa", "pokal", "taca"}

// Classifier applies an ordered rule table to league labels.
type Classifier struct {
	rules       []Rule
	cupKeywords []string
}

func NewClassifier(rules []Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}

	keywords := make([]string, 0, len(rules)*2+len(genericCupKeywords))
	for _, rule := range rules {
		keywords = append(keywords, rule.Keywords...)
	}
	keywords = append(keywords, genericCupKeywords...)

	return &Classifier{rules: rules, cupKeywords: keywords}
}

// Rules returns the rule table in evaluation order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Classify categorizes a league label such as "SPAIN: Copa del Rey".
// Only the league-name part after the country prefix is matched.
func (c *Classifier) Classify(leagueLabel string) Category {
	_, name := splitLabel(leagueLabel)

	for _, rule := range c.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(name, keyword) {
				return rule.Category
			}
		}
	}

	for _, keyword := range genericCupKeywords {
		if strings.Contains(name, keyword) {
			return CategoryNational
		}
	}

	return CategoryOther
}

// IsCup reports whether a league label looks like a knockout competition
// rather than a regular league.
func (c *Classifier) IsCup(leagueLabel string) bool {
	_, name := splitLabel(leagueLabel)
	for _, keyword := range c.cupKeywords {
		if strings.Contains(name, keyword) {
			return true
		}
	}
	return false
}

// Priority is a sort rank for cups: lower is more prestigious. Explicit
// rules rank by table position, everything else by category order.
func (c *Classifier) Priority(leagueLabel string) int {
	_, name := splitLabel(leagueLabel)

	for idx, rule := range c.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(name, keyword) {
				return idx
			}
		}
	}

	category := c.Classify(leagueLabel)
	for rank, cat := range CategoryOrder {
		if cat == category {
			return len(c.rules) + rank
		}
	}
	return len(c.rules) + len(CategoryOrder)
}

func splitLabel(leagueLabel string) (country, name string) {
	country, name = SplitCountry(leagueLabel)
	return Normalize(country), Normalize(name)
}

// SplitCountry parses "COUNTRY: League Name" labels. Labels without the
// country prefix come back with an empty country.
func SplitCountry(label string) (country, name string) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", ""
	}
	if idx := strings.Index(label, ":"); idx > 0 {
		return strings.TrimSpace(label[:idx]), strings.TrimSpace(label[idx+1:])
	}
	return "", label
}

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowers a label to its accent-free, case-folded, space-collapsed
// form so keyword matching survives diacritics and odd whitespace.
func Normalize(label string) string {
	if label == "" {
		return ""
	}
	stripped, _, err := transform.String(stripMarks, label)
	if err != nil {
		stripped = label
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}
