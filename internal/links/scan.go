// Package links finds embedded image references in note text and rewrites
// them one line at a time.
package links

import (
	"regexp"
	"strings"
)

// DerivativeSuffix is appended to a source path to name its converted copy.
const DerivativeSuffix = ".png"

var (
	// The path token is lazy and may not cross brackets or newlines, so
	// two embeds on the same line are captured separately.
	sourcePattern     = regexp.MustCompile(`(?i)!\[\[([^\[\]\n]*?\.tif{1,2})\]\]`)
	derivativePattern = regexp.MustCompile(`(?i)!\[\[([^\[\]\n]*?\.tif{1,2}` + regexp.QuoteMeta(DerivativeSuffix) + `)\]\]`)
)

// Reference is one embed found in a note.
type Reference struct {
	Raw    string // full token, e.g. "![[img/scan.tif]]"
	Target string // bracketed path, e.g. "img/scan.tif"
	Line   int    // 0-based line index of the match start
}

// ScanSources returns every not-yet-converted TIFF embed in document order.
func ScanSources(text string) []Reference {
	return scan(text, sourcePattern)
}

// ScanDerivatives returns every embed that already points at a converted copy.
func ScanDerivatives(text string) []Reference {
	return scan(text, derivativePattern)
}

func scan(text string, re *regexp.Regexp) []Reference {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}
	refs := make([]Reference, 0, len(matches))
	line, pos := 0, 0
	for _, m := range matches {
		line += strings.Count(text[pos:m[0]], "\n")
		pos = m[0]
		refs = append(refs, Reference{
			Raw:    text[m[0]:m[1]],
			Target: text[m[2]:m[3]],
			Line:   line,
		})
	}
	return refs
}

// IsSourcePath reports whether p names a TIFF file.
func IsSourcePath(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasSuffix(lower, ".tif") || strings.HasSuffix(lower, ".tiff")
}

// IsDerivativePath reports whether p names a converted copy of a TIFF file.
func IsDerivativePath(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasSuffix(lower, ".tif"+DerivativeSuffix) || strings.HasSuffix(lower, ".tiff"+DerivativeSuffix)
}
