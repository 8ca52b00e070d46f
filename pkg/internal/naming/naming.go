// Package naming derives class and accessor names from snake_case
// table and column identifiers.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ClassName turns "order_line" into "OrderLine". Words are split on
// underscores and spaces only and just their first letter is changed, so
// PascalCase input comes back unchanged and "order-line" is "Order-line".
func ClassName(name string) string {
	// cases.Caser keeps state between calls, so one per invocation.
	title := cases.Title(language.Und, cases.NoLower)
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		_, size := utf8.DecodeRuneInString(w)
		words[i] = title.String(w[:size]) + w[size:]
	}
	return strings.Join(words, "")
}

// AccessorName turns "order_line" into "orderLine".
func AccessorName(name string) string {
	return lowerFirst(ClassName(name))
}

// MethodName prefixes the class-cased column name: ("get", "user_id") is
// "getUserId".
func MethodName(prefix, name string) string {
	return prefix + ClassName(name)
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
