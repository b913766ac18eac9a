package parser

import (
	"go/ast"
	"reflect"
	"strings"
)

// TagKey is the struct tag key carrying field aliases and options.
const TagKey = "mapper"

const defaultOption = "default"

// directivePrefix returns the doc-comment directive marking a mapping
// source, e.g. "//mapper:target".
func directivePrefix(annotation string) string {
	return "//" + strings.ToLower(annotation) + ":target"
}

// findDirective returns the directive argument from the first comment group
// that carries one.
func findDirective(prefix string, groups ...*ast.CommentGroup) (string, bool) {
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			rest, ok := strings.CutPrefix(c.Text, prefix)
			if !ok {
				continue
			}
			if rest != "" && rest[0] != ' ' && rest[0] != '\t' && rest[0] != '=' {
				continue
			}
			ref := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), "="))
			return ref, true
		}
	}
	return "", false
}

// resolveTargetRef turns a directive argument into a qualified name. A bare
// type name refers to the annotated record's own package.
func resolveTargetRef(ref, pkgPath string) string {
	if ref == "" {
		return ""
	}
	if !strings.Contains(ref, ".") {
		return qualify(pkgPath, ref)
	}
	return ref
}

// splitQualified splits "<package path>.<name>".
func splitQualified(qualified string) (pkgPath string, name string) {
	idx := strings.LastIndex(qualified, ".")
	if idx < 0 {
		return "", qualified
	}
	if slash := strings.LastIndex(qualified, "/"); slash > idx {
		return "", qualified
	}
	return qualified[:idx], qualified[idx+1:]
}

// parseFieldTag reads the alias and options of a `mapper:"alias,default"`
// struct tag.
func parseFieldTag(tag string) (alias string, hasDefault bool) {
	value, ok := reflect.StructTag(tag).Lookup(TagKey)
	if !ok {
		return "", false
	}
	parts := strings.Split(value, ",")
	alias = strings.TrimSpace(parts[0])
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == defaultOption {
			hasDefault = true
		}
	}
	return alias, hasDefault
}
