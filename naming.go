package forge

import (
	"strings"
	"unicode"
)

// exportName derives the VM symbol name from a Go method name by lowering
// it to snake_case. Acronym runs stay together: ReadValue -> read_value,
// OwnerID -> owner_id, HTTPCall -> http_call.
func exportName(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// argsTypeName names the generated argument struct for a method:
// IncrementBy -> incrementByArgs.
func argsTypeName(method string) string {
	return initialLower(method) + "Args"
}

// fieldName names an args struct field for a parameter: delta -> Delta.
// Exported field names keep the generated struct usable by the ABI's
// reflection-free codecs regardless of the source parameter name.
func fieldName(param string) string {
	return initialUpper(param)
}

func initialUpper(s string) string {
	if s == "" {
		return s
	}
	return string(unicode.ToUpper(rune(s[0]))) + s[1:]
}

func initialLower(s string) string {
	if s == "" {
		return s
	}
	return string(unicode.ToLower(rune(s[0]))) + s[1:]
}
