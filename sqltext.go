package main

import (
	"strings"
)

// statementKeyword returns the upper-cased leading keyword of a query for
// logging: "SELECT", "INSERT", "SHOW" and so on. Leading #, -- and /* */
// comments are skipped.
func statementKeyword(query string) string {
	rest := skipLeadingComments(query)
	end := strings.IndexFunc(rest, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	})
	if end == -1 {
		end = len(rest)
	}
	return strings.ToUpper(rest[:end])
}

func skipLeadingComments(sql string) string {
	for {
		sql = strings.TrimSpace(sql)
		switch {
		case strings.HasPrefix(sql, "--"), strings.HasPrefix(sql, "#"):
			i := strings.IndexByte(sql, '\n')
			if i == -1 {
				return ""
			}
			sql = sql[i+1:]
		case strings.HasPrefix(sql, "/*"):
			i := strings.Index(sql[2:], "*/")
			if i == -1 {
				return ""
			}
			sql = sql[i+4:]
		default:
			return sql
		}
	}
}
