package main

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSingleColumn(t *testing.T) {
	tests := []struct {
		name     string
		values   []Value
		expected string
	}{
		{"empty listing", nil, "None"},
		{"one value", []Value{StringValue("salesdb")}, "salesdb"},
		{
			name:     "one value per line",
			values:   []Value{StringValue("_statistics_"), StringValue("information_schema"), StringValue("salesdb")},
			expected: "_statistics_\ninformation_schema\nsalesdb",
		},
		{"quotes are not escaped", []Value{StringValue(`COMMENT "orders"`)}, `COMMENT "orders"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatSingleColumn(tc.values))
		})
	}
}

func TestFormatTabular_SelectOne(t *testing.T) {
	out := FormatTabular([]string{"1"}, [][]Value{{IntValue(1)}})
	assert.Equal(t, "1\n1\n\n1 rows in set\n", out)
}

func TestFormatTabular_EmptyResult(t *testing.T) {
	out := FormatTabular([]string{"id", "name"}, [][]Value{})
	assert.Equal(t, "id,name\n\n0 rows in set\n", out)
}

func TestFormatTabular_MixedKinds(t *testing.T) {
	when := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)
	out := FormatTabular(
		[]string{"id", "name", "price", "note", "created"},
		[][]Value{
			{IntValue(1), StringValue("widget"), FloatValue(9.5), NullValue(), TimeValue(when)},
			{IntValue(2), StringValue("gadget, large"), FloatValue(12), StringValue("x"), DateValue(when)},
		},
	)

	expected := "id,name,price,note,created\n" +
		"1,widget,9.5,None,2024-03-09 14:05:00\n" +
		"2,gadget, large,12,x,2024-03-09\n" +
		"\n2 rows in set\n"
	assert.Equal(t, expected, out, "embedded commas are passed through")
}

func TestFormatTabular_LineCountMatchesRows(t *testing.T) {
	for _, n := range []int{0, 1, 7, 50} {
		t.Run(strconv.Itoa(n), func(t *testing.T) {
			rows := make([][]Value, n)
			for i := range rows {
				rows[i] = []Value{IntValue(int64(i)), StringValue("v")}
			}
			out := FormatTabular([]string{"a", "b"}, rows)

			var nonEmpty []string
			for _, line := range strings.Split(out, "\n") {
				if line != "" {
					nonEmpty = append(nonEmpty, line)
				}
			}
			require.Len(t, nonEmpty, n+2)
			assert.Equal(t, strconv.Itoa(n)+" rows in set", nonEmpty[len(nonEmpty)-1])
		})
	}
}

func TestFormatTabular_DoublesQuotes(t *testing.T) {
	original := `say "hi" to "them"`
	out := FormatTabular([]string{`col "q"`}, [][]Value{{StringValue(original)}})

	lines := strings.Split(out, "\n")
	assert.Equal(t, `col ""q""`, lines[0], "header names are escaped too")

	fields := strings.Split(lines[1], ",")
	require.Len(t, fields, 1)
	assert.Equal(t, 2*strings.Count(original, `"`), strings.Count(fields[0], `"`))
	assert.Equal(t, original, strings.ReplaceAll(fields[0], `""`, `"`))
}

func TestFormatTabular_OnlyStringsAreEscaped(t *testing.T) {
	out := FormatTabular([]string{"b"}, [][]Value{{BytesValue([]byte(`a"b`))}})
	assert.Equal(t, "b\na\"b\n\n1 rows in set\n", out)
}

func TestFormatMutation(t *testing.T) {
	pattern := regexp.MustCompile(`^\d+ rows affected \(\d+\.\d{2} sec\)$`)

	tests := []struct {
		affected int64
		elapsed  time.Duration
		expected string
	}{
		{3, 0, "3 rows affected (0.00 sec)"},
		{0, 1234 * time.Millisecond, "0 rows affected (1.23 sec)"},
		{42, 7 * time.Millisecond, "42 rows affected (0.01 sec)"},
		{1, 61 * time.Second, "1 rows affected (61.00 sec)"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			out := FormatMutation(tc.affected, tc.elapsed)
			assert.Equal(t, tc.expected, out)
			assert.Regexp(t, pattern, out)
		})
	}
}
