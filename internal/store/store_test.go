package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterWhereClause(t *testing.T) {
	tests := []struct {
		name     string
		filter   *Filter
		expected string
		args     []any
	}{
		{
			name:     "nil filter is full scan",
			filter:   nil,
			expected: "",
			args:     nil,
		},
		{
			name:     "empty filter is full scan",
			filter:   NewFilter(),
			expected: "",
			args:     nil,
		},
		{
			name:     "single equality",
			filter:   NewFilter().Eq("mint", "Лениградский монетный двор"),
			expected: " WHERE mint = $1",
			args:     []any{"Лениградский монетный двор"},
		},
		{
			name:     "like pattern",
			filter:   NewFilter().Like("title", "%тираж%"),
			expected: " WHERE title LIKE $1",
			args:     []any{"%тираж%"},
		},
		{
			name:     "non-blank has no arg",
			filter:   NewFilter().NonBlank("catalog_number"),
			expected: " WHERE (catalog_number IS NOT NULL AND catalog_number <> '')",
			args:     nil,
		},
		{
			name: "combined conditions keep arg numbering",
			filter: NewFilter().
				Eq("face_value", "3 рубля").
				Like("image_obverse", "%5216-0060%").
				NonBlank("metal"),
			expected: " WHERE face_value = $1 AND image_obverse LIKE $2 AND (metal IS NOT NULL AND metal <> '')",
			args:     []any{"3 рубля", "%5216-0060%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.whereClause(1)
			assert.Equal(t, tt.expected, where)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestFilterWhereClause_StartArg(t *testing.T) {
	f := NewFilter().Eq("mint", "ММД").Like("title", "%Победоносец%")
	where, args := f.whereClause(3)
	assert.Equal(t, " WHERE mint = $3 AND title LIKE $4", where)
	assert.Len(t, args, 2)
}

func TestUpdateCoin_RejectsUnknownColumn(t *testing.T) {
	s := &PGStore{}
	_, err := s.UpdateCoin(context.Background(), 1, map[string]any{"id": 99})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not updatable")

	_, err = s.UpdateCoin(context.Background(), 1, map[string]any{"catalog_number": "x"})
	require.Error(t, err)
}

func TestUpdateCoin_EmptyDeltasIsNoOp(t *testing.T) {
	s := &PGStore{}
	n, err := s.UpdateCoin(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRescalePrices_RequiresCeilings(t *testing.T) {
	s := &PGStore{}
	_, err := s.RescalePrices(context.Background(), decimal.NewFromFloat(31.1035), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no gram ceiling")
}
