package domain

import "fmt"

// Category is one scoring dimension of the voting form. The set is closed and
// fixed at build time.
type Category string

const (
	CategoryTeamUpToWin   Category = "points_team_up_to_win"
	CategoryActToDeliver  Category = "points_act_to_deliver"
	CategoryDisruptToGrow Category = "points_disrupt_to_grow"
)

// Categories lists every category in form order.
var Categories = []Category{
	CategoryTeamUpToWin,
	CategoryActToDeliver,
	CategoryDisruptToGrow,
}

var categoryLabels = map[Category]string{
	CategoryTeamUpToWin:   "Team up to win",
	CategoryActToDeliver:  "Act to deliver",
	CategoryDisruptToGrow: "Disrupt to grow",
}

const (
	// MaxCategoryPoints is the highest value a single category can receive.
	MaxCategoryPoints = 3
	// PointBudget is the exact number of points one submission hands out.
	PointBudget = 3
)

func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Points maps a category to a point value. A missing category counts as 0.
type Points map[Category]int

// NewPoints returns a mapping with every category set to 0.
func NewPoints() Points {
	p := make(Points, len(Categories))
	for _, c := range Categories {
		p[c] = 0
	}
	return p
}

func (p Points) Total() int {
	total := 0
	for _, v := range p {
		total += v
	}
	return total
}

// Normalized returns a copy holding every category, zero-filled.
func (p Points) Normalized() Points {
	out := NewPoints()
	for c, v := range p {
		out[c] = v
	}
	return out
}

// Add sums other into p in place.
func (p Points) Add(other Points) {
	for c, v := range other {
		p[c] += v
	}
}

// Validate checks a submission: known categories, a total of exactly
// PointBudget, and each value within [0, MaxCategoryPoints].
func (p Points) Validate() error {
	for c := range p {
		if !c.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
		}
	}
	if p.Total() != PointBudget {
		return ErrPointBudget
	}
	for _, v := range p {
		if v < 0 || v > MaxCategoryPoints {
			return ErrPointsOutOfRange
		}
	}
	return nil
}
