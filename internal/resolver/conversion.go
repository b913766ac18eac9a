package resolver

import (
	"path"
	"strings"
	"unicode"
)

// DefaultConverterName returns the mapping function name "<Src>To<Dst>".
// Package tokens disambiguate records that share a simple name.
func DefaultConverterName(srcPkgPath, srcName, dstPkgPath, dstName string) string {
	if srcName != dstName {
		return exportedName(srcName) + "To" + exportedName(dstName)
	}
	return packageToken(srcPkgPath) + exportedName(srcName) + "To" + packageToken(dstPkgPath) + exportedName(dstName)
}

func exportedName(name string) string {
	if name == "" {
		return name
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func packageToken(pkgPath string) string {
	base := path.Base(strings.TrimSpace(pkgPath))
	if base == "" || base == "." || base == "/" {
		return "Pkg"
	}
	return toExportedToken(base)
}

func toExportedToken(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(parts) == 0 {
		return "Pkg"
	}

	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		first := runes[0]
		b.WriteRune(unicode.ToUpper(first))
		if len(runes) > 1 {
			b.WriteString(string(runes[1:]))
		}
	}
	if b.Len() == 0 {
		return "Pkg"
	}
	return b.String()
}
