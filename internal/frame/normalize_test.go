package frame

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ecbHeaderTable(t *testing.T) *Table {
	t.Helper()
	table, err := New(
		TextColumn(`Period\Unit:`, []string{"2021-01-08", "2021-01-07"}),
		TextColumn("[US dollar ]", []string{"1.2250", "-"}),
		TextColumn("[Brazilian real ]", []string{"6.6074", "6.5736"}),
	)
	require.NoError(t, err)
	return table
}

func TestFormatColumns(t *testing.T) {
	table := ecbHeaderTable(t)
	before := table.Records()

	FormatColumns(table, DefaultRenameMap())

	assert.Equal(t, []string{`Period\Unit:`, "US_dollar", "Brazilian_real"}, table.Names())
	assert.Equal(t, before, table.Records())
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, 3, table.Width())
}

func TestFormatColumns_OldNamesMiss(t *testing.T) {
	table := ecbHeaderTable(t)

	FormatColumns(table, DefaultRenameMap())

	_, err := table.Column("[US dollar ]")
	assert.True(t, errors.Is(err, ErrColumnNotFound))
	_, err = table.Column("US_dollar")
	assert.NoError(t, err)
}

func TestFormatColumns_Collision(t *testing.T) {
	table, err := New(
		TextColumn("[US dollar ]", []string{"1.2250"}),
		TextColumn("US dollar", []string{"1.2276"}),
		TextColumn("[Brazilian real ]", []string{"6.6074"}),
	)
	require.NoError(t, err)
	assert.Empty(t, table.Duplicates())

	FormatColumns(table, DefaultRenameMap())

	assert.Equal(t, []string{"US_dollar", "US_dollar", "Brazilian_real"}, table.Names())
	assert.Equal(t, []string{"US_dollar"}, table.Duplicates())

	col, err := table.Column("US_dollar")
	require.NoError(t, err)
	texts, err := col.Texts()
	require.NoError(t, err)
	assert.Equal(t, []string{"1.2250"}, texts, "leftmost column wins")
}

func TestFormatColumns_EmptyMap(t *testing.T) {
	table := ecbHeaderTable(t)
	names := table.Names()

	FormatColumns(table, nil)
	FormatColumns(table, RenameMap{})

	assert.Equal(t, names, table.Names())
}

func TestRenameMap_Apply(t *testing.T) {
	tests := []struct {
		name    string
		mapping RenameMap
		input   string
		want    string
	}{
		{
			name:    "default map",
			mapping: DefaultRenameMap(),
			input:   "[South African rand ]",
			want:    "South_African_rand",
		},
		{
			name:    "absent match leaves name",
			mapping: RenameMap{{Match: "#", Replace: ""}},
			input:   "Time",
			want:    "Time",
		},
		{
			name: "sequential, not parallel",
			mapping: RenameMap{
				{Match: "a", Replace: "b"},
				{Match: "b", Replace: "c"},
			},
			input: "ab",
			want:  "cc",
		},
		{
			name: "order changes the result",
			mapping: RenameMap{
				{Match: " ", Replace: "_"},
				{Match: " ]", Replace: ""},
			},
			input: "[US dollar ]",
			want:  "[US_dollar_]",
		},
		{
			name:    "all non-overlapping occurrences",
			mapping: RenameMap{{Match: "aa", Replace: "x"}},
			input:   "aaaaa",
			want:    "xxa",
		},
		{
			name:    "empty match is skipped",
			mapping: RenameMap{{Match: "", Replace: "_"}},
			input:   "abc",
			want:    "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mapping.Apply(tt.input))
		})
	}
}

func TestRenameMap_Conflicts(t *testing.T) {
	assert.Empty(t, DefaultRenameMap().Conflicts())

	chained := RenameMap{
		{Match: "a", Replace: "b"},
		{Match: "x", Replace: "y"},
		{Match: "b", Replace: "c"},
	}
	assert.Equal(t, []Conflict{{Earlier: 0, Later: 2}}, chained.Conflicts())
}

func TestFormatColumns_Idempotence(t *testing.T) {
	t.Run("no conflicts: applying twice equals once", func(t *testing.T) {
		once := ecbHeaderTable(t)
		twice := ecbHeaderTable(t)

		FormatColumns(once, DefaultRenameMap())
		FormatColumns(twice, DefaultRenameMap())
		FormatColumns(twice, DefaultRenameMap())

		assert.Equal(t, once.Names(), twice.Names())
	})

	t.Run("conflicting map keeps rewriting", func(t *testing.T) {
		mapping := RenameMap{
			{Match: "x", Replace: "xy"},
			{Match: "y", Replace: "x"},
		}
		require.NotEmpty(t, mapping.Conflicts())

		table, err := New(TextColumn("x", []string{"1"}))
		require.NoError(t, err)

		FormatColumns(table, mapping)
		first := table.Names()[0]
		FormatColumns(table, mapping)

		assert.Equal(t, "xx", first)
		assert.Equal(t, "xxxx", table.Names()[0])
	})
}
