package main

import (
	"fmt"
	"strings"
	"time"
)

// FormatSingleColumn joins listing values one per line. An empty listing
// renders as "None".
func FormatSingleColumn(values []Value) string {
	if len(values) == 0 {
		return "None"
	}
	lines := make([]string, len(values))
	for i, v := range values {
		lines[i] = v.String()
	}
	return strings.Join(lines, "\n")
}

// FormatTabular renders a CSV-like table: a header line, one line per row
// and a trailing row count. Double quotes inside string fields are doubled;
// commas and newlines are left as they are.
func FormatTabular(columns []string, rows [][]Value) string {
	var b strings.Builder

	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = escapeQuotes(c)
	}
	b.WriteString(strings.Join(header, ","))
	b.WriteByte('\n')

	fields := make([]string, 0, len(columns))
	for _, row := range rows {
		fields = fields[:0]
		for _, v := range row {
			s := v.String()
			if v.Kind() == KindString {
				s = escapeQuotes(s)
			}
			fields = append(fields, s)
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "\n%d rows in set\n", len(rows))
	return b.String()
}

// FormatMutation reports the affected row count and elapsed wall-clock time.
func FormatMutation(affected int64, elapsed time.Duration) string {
	return fmt.Sprintf("%d rows affected (%.2f sec)", affected, elapsed.Seconds())
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}
