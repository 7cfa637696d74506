package util

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ClassName capitalizes the first character of token and leaves the rest
// unchanged: "user" -> "User", "tariffPlan" -> "TariffPlan".
// token must be non-empty.
func ClassName(token string) string {
	r, size := utf8.DecodeRuneInString(token)
	if size == 0 {
		return token
	}
	return string(unicode.ToUpper(r)) + token[size:]
}

// MemberName returns relationship as a callable member name. Multi-word
// relationships are wrapped in Kotlin backticks so they can still be
// declared and called as one identifier: "register in" -> "`register in`".
func MemberName(relationship string) string {
	if strings.ContainsAny(relationship, " \t") {
		return "`" + relationship + "`"
	}
	return relationship
}

// FieldName is the lower-cased node name, used for fields, parameters and
// local variables.
func FieldName(token string) string {
	return strings.ToLower(token)
}

// FileName strips every space from name, used for scenario test files.
func FileName(name string) string {
	return strings.ReplaceAll(name, " ", "")
}
