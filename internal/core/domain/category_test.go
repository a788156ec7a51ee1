package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointsValidate(t *testing.T) {
	tests := []struct {
		name   string
		points Points
		err    error
	}{
		{"all in one category", Points{CategoryTeamUpToWin: 3}, nil},
		{"spread", Points{CategoryTeamUpToWin: 1, CategoryActToDeliver: 1, CategoryDisruptToGrow: 1}, nil},
		{"zeros are allowed", Points{CategoryTeamUpToWin: 0, CategoryActToDeliver: 2, CategoryDisruptToGrow: 1}, nil},
		{"over budget", Points{CategoryTeamUpToWin: 2, CategoryActToDeliver: 2}, ErrPointBudget},
		{"under budget", Points{CategoryTeamUpToWin: 1}, ErrPointBudget},
		{"empty", Points{}, ErrPointBudget},
		{"negative value", Points{CategoryTeamUpToWin: 4, CategoryActToDeliver: -1}, ErrPointsOutOfRange},
		{"unknown category", Points{Category("points_sleep"): 3}, ErrUnknownCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.points.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestPointsHelpers(t *testing.T) {
	p := Points{CategoryActToDeliver: 2}
	n := p.Normalized()
	assert.Len(t, n, len(Categories))
	assert.Equal(t, 0, n[CategoryTeamUpToWin])
	assert.Equal(t, 2, n[CategoryActToDeliver])
	assert.Len(t, p, 1)

	n.Add(Points{CategoryActToDeliver: 1, CategoryDisruptToGrow: 3})
	assert.Equal(t, 6, n.Total())
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("points_disrupt_to_grow")
	require.NoError(t, err)
	assert.Equal(t, CategoryDisruptToGrow, c)
	assert.Equal(t, "Disrupt to grow", c.Label())

	_, err = ParseCategory("points_other")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError(FieldSelectUser, ErrSelfVote)
	assert.Equal(t, "You cannot vote for yourself!", err.Message())
	assert.ErrorIs(t, err, ErrSelfVote)
	assert.Contains(t, err.Error(), FieldSelectUser)
}
