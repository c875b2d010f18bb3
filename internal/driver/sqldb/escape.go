package sqldb

import "strings"

// escapeBackslash escapes s the way mysql_real_escape_string does.
func escapeBackslash(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/8)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case 0:
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '"':
			b.WriteString(`\"`)
		case '\x1a':
			b.WriteString(`\Z`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// escapeQuotes doubles single quotes, the standard SQL literal escape used by
// PostgreSQL (standard_conforming_strings) and SQLite.
func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
