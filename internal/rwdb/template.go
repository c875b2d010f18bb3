package rwdb

import (
	"fmt"
	"strings"
)

// render substitutes args into tmpl positionally. Supported verbs are %s, %d,
// %f and %v; %% is a literal percent sign. The number of verbs must equal
// len(args).
func render(tmpl string, args []Value, escape func(string) string) (string, error) {
	var b strings.Builder
	b.Grow(len(tmpl) + 16*len(args))

	n := 0
	for i := 0; i < len(tmpl); i++ {
		ch := tmpl[i]
		if ch != '%' {
			b.WriteByte(ch)
			continue
		}
		if i+1 == len(tmpl) {
			return "", fmt.Errorf("template ends with a bare %%")
		}
		i++
		verb := tmpl[i]
		switch verb {
		case '%':
			b.WriteByte('%')
			continue
		case 's', 'd', 'f', 'v':
		default:
			return "", fmt.Errorf("unsupported verb %%%c at offset %d (write %%%% for a literal %%)", verb, i-1)
		}
		if n == len(args) {
			return "", fmt.Errorf("template has more placeholders than the %d argument(s) given", len(args))
		}
		s, err := args[n].render(verb, escape)
		if err != nil {
			return "", fmt.Errorf("argument %d: %w", n+1, err)
		}
		b.WriteString(s)
		n++
	}
	if n != len(args) {
		return "", fmt.Errorf("template has %d placeholder(s) but %d argument(s) were given", n, len(args))
	}
	return b.String(), nil
}
