package links

import (
	"fmt"
	"strings"
)

const embedClose = "]]"

// Rewrite replaces the first occurrence of old in line with repl.
// It reports false, leaving line untouched, when old is not present.
func Rewrite(line, old, repl string) (string, bool) {
	i := strings.Index(line, old)
	if i < 0 {
		return line, false
	}
	return line[:i] + repl + line[i+len(old):], true
}

// Derivative turns "![[a.tif]]" into "![[a.tif.png]]".
func Derivative(raw string) (string, error) {
	body, ok := strings.CutSuffix(raw, embedClose)
	if !ok {
		return "", fmt.Errorf("malformed embed %q", raw)
	}
	return body + DerivativeSuffix + embedClose, nil
}

// Original turns "![[a.tif.png]]" back into "![[a.tif]]". It drops exactly
// len(DerivativeSuffix) bytes before the closing brackets and nothing else.
func Original(raw string) (string, error) {
	body, ok := strings.CutSuffix(raw, embedClose)
	if !ok || len(body) < len(DerivativeSuffix) ||
		!strings.EqualFold(body[len(body)-len(DerivativeSuffix):], DerivativeSuffix) {
		return "", fmt.Errorf("embed %q does not end in %s", raw, DerivativeSuffix)
	}
	return body[:len(body)-len(DerivativeSuffix)] + embedClose, nil
}

// DerivativePath names the converted copy of a stored source file.
func DerivativePath(p string) string {
	return p + DerivativeSuffix
}
