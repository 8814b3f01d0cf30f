package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/csvtable/internal/types"
)

func TestSplitSegments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple", "a; b;c", []string{"a", "b", "c"}},
		{"brackets protect semicolons", "a: x [p:1; q:2]; b: y", []string{"a: x [p:1; q:2]", "b: y"}},
		{"nested brackets", "a [x [y; z]; w]; b", []string{"a [x [y; z]; w]", "b"}},
		{"empty segments dropped", " ;; a ;  ; ", []string{"a"}},
		{"stray close bracket", "a]; b", []string{"a]", "b"}},
		{"empty input", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSegments(tt.input))
		})
	}
}

func TestParseColumns(t *testing.T) {
	cols := ParseColumns("col1: Region [type:text]; col2: m2r [type:number; decimals:2; locale:fr-CA; format:currency; showColTotal:true; showRowTotal:true]; col3: Asset Name")
	require.Len(t, cols, 3)

	assert.Equal(t, types.ColumnSpec{Key: "col1", SourceHeader: "Region", Type: types.TypeText}, cols[0])
	assert.Equal(t, types.ColumnSpec{
		Key:          "col2",
		SourceHeader: "m2r",
		Type:         types.TypeNumber,
		Decimals:     2,
		Locale:       "fr-CA",
		Format:       "currency",
		ShowColTotal: true,
		ShowRowTotal: true,
	}, cols[1])
	assert.Equal(t, types.ColumnSpec{Key: "col3", SourceHeader: "Asset Name", Type: types.TypeText}, cols[2])
}

func TestParseColumns_Options(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, c types.ColumnSpec)
	}{
		{"non-number type is text", "k: h [type:Number]", func(t *testing.T, c types.ColumnSpec) {
			assert.Equal(t, types.TypeText, c.Type)
		}},
		{"bad decimals default to zero", "k: h [type:number; decimals:abc]", func(t *testing.T, c types.ColumnSpec) {
			assert.Equal(t, 0, c.Decimals)
		}},
		{"decimals leading integer", "k: h [decimals:3px]", func(t *testing.T, c types.ColumnSpec) {
			assert.Equal(t, 3, c.Decimals)
		}},
		{"negative decimals clamp", "k: h [decimals:-2]", func(t *testing.T, c types.ColumnSpec) {
			assert.Equal(t, 0, c.Decimals)
		}},
		{"total flags need literal true", "k: h [showColTotal:TRUE; showRowTotal:yes]", func(t *testing.T, c types.ColumnSpec) {
			assert.False(t, c.ShowColTotal)
			assert.False(t, c.ShowRowTotal)
		}},
		{"unknown keys ignored", "k: h [color:red; type:number]", func(t *testing.T, c types.ColumnSpec) {
			assert.Equal(t, types.TypeNumber, c.Type)
		}},
		{"text after last bracket dropped", "k: h [type:number] tail", func(t *testing.T, c types.ColumnSpec) {
			assert.Equal(t, "h", c.SourceHeader)
			assert.Equal(t, types.TypeNumber, c.Type)
		}},
		{"unclosed bracket is part of header", "k: h [type:number", func(t *testing.T, c types.ColumnSpec) {
			assert.Equal(t, "h [type:number", c.SourceHeader)
			assert.Equal(t, types.TypeText, c.Type)
		}},
		{"header keeps inner colons", "k: a:b", func(t *testing.T, c types.ColumnSpec) {
			assert.Equal(t, "a:b", c.SourceHeader)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := ParseColumns(tt.input)
			require.Len(t, cols, 1)
			tt.check(t, cols[0])
		})
	}
}

func TestParseColumns_SkipsSegmentsWithoutColon(t *testing.T) {
	cols := ParseColumns("garbage; k: h")
	require.Len(t, cols, 1)
	assert.Equal(t, "k", cols[0].Key)
}

func TestParseColumns_Idempotent(t *testing.T) {
	in := "a: A [type:number; decimals:1]; b: B [format:percent]"
	assert.Equal(t, ParseColumns(in), ParseColumns(in))
}

func TestParseStaticFilters(t *testing.T) {
	filters := ParseStaticFilters("Status<>Closed; Name~North; Year=2024; junk; A<>b=c; B~x=y")

	assert.Equal(t, []types.FilterSpec{
		{Column: "Status", Operator: types.OpNeq, Value: "Closed"},
		{Column: "Name", Operator: types.OpContains, Value: "North"},
		{Column: "Year", Operator: types.OpEq, Value: "2024"},
		{Column: "A", Operator: types.OpNeq, Value: "b=c"},
		{Column: "B", Operator: types.OpContains, Value: "x=y"},
	}, filters)
}

func TestParseStaticFilters_Empty(t *testing.T) {
	assert.Empty(t, ParseStaticFilters(""))
}

func TestParseAgg(t *testing.T) {
	specs := ParseAgg("m2r: SUM; AOID: nunique; Price: median; broken")

	assert.Equal(t, []types.AggSpec{
		{Column: "m2r", Func: types.AggSum},
		{Column: "AOID", Func: types.AggNUnique},
		{Column: "Price", Func: types.AggFunc("median")},
	}, specs)
	assert.False(t, specs[2].Func.Known())

	m := types.NewAggMap(specs)
	assert.Equal(t, types.AggSum, m["m2r"])
}
