package generator

import (
	"path"
	"strconv"
	"strings"

	"github.com/seitarof/gen-mapper/internal/parser"
)

const (
	// wildcardToken is the Go spelling of an unconstrained argument.
	wildcardToken  = "any"
	nullableMarker = "*"
)

// RenderType returns the Go spelling of t as referenced from another
// package: nested generic arguments are rendered depth first, left to
// right, and a nullable type carries the pointer marker.
func RenderType(t parser.TypeDescriptor) string {
	if t.Nullable {
		return nullableMarker + renderBase(t)
	}
	return renderBase(t)
}

func renderBase(t parser.TypeDescriptor) string {
	switch t.Kind {
	case parser.KindSlice:
		return "[]" + renderArgument(t, 0)
	case parser.KindArray:
		return "[" + strconv.FormatInt(t.Len, 10) + "]" + renderArgument(t, 0)
	case parser.KindMap:
		return "map[" + renderArgument(t, 0) + "]" + renderArgument(t, 1)
	case parser.KindTypeParam, parser.KindOther, parser.KindInvalid:
		return t.Name
	}
	return qualifiedIdent(t) + renderArguments(t.Arguments)
}

func renderArguments(args []parser.TypeArgument) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, renderTypeArgument(arg))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func renderArgument(t parser.TypeDescriptor, i int) string {
	if i >= len(t.Arguments) {
		return wildcardToken
	}
	return renderTypeArgument(t.Arguments[i])
}

func renderTypeArgument(arg parser.TypeArgument) string {
	if arg.Wildcard || arg.Type == nil {
		return wildcardToken
	}
	return RenderType(*arg.Type)
}

func qualifiedIdent(t parser.TypeDescriptor) string {
	if t.Package == "" {
		return t.Name
	}
	return packageName(t.Package, t.PackageName) + "." + t.Name
}

func packageName(pkgPath, name string) string {
	if name != "" {
		return name
	}
	return path.Base(pkgPath)
}
