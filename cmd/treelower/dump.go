package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"treelower/internal/ast"
	"treelower/internal/astio"
	"treelower/internal/source"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file.astpack>...",
	Short: "Print the source trees stored in snapshots",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fileSet := source.NewFileSet()
		for _, path := range args {
			files, err := astio.ReadFile(path, fileSet)
			if err != nil {
				return err
			}
			for _, f := range files {
				dumpTree(cmd.OutOrStdout(), f, 0)
			}
		}
		return nil
	},
}

func dumpTree(w io.Writer, e ast.Element, depth int) {
	fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), describe(e))
	for _, c := range ast.Children(e) {
		dumpTree(w, c, depth+1)
	}
}

func describe(e ast.Element) string {
	switch n := e.(type) {
	case *ast.File:
		return fmt.Sprintf("FILE %s package:%s", n.Name, n.Package)
	case *ast.Property:
		kw := "val"
		if n.IsVar {
			kw = "var"
		}
		return fmt.Sprintf("PROPERTY %s %s: %s %s", kw, n.Name, typeText(n.ReturnType), n.Span)
	case *ast.Function:
		return fmt.Sprintf("FUN %s/%d: %s %s", n.Name, len(n.Parameters), typeText(n.ReturnType), n.Span)
	case *ast.ValueParameter:
		return fmt.Sprintf("PARAM %s: %s", n.Name, typeText(n.ReturnType))
	case *ast.DefaultGetter:
		return "GETTER <default>"
	case *ast.DefaultSetter:
		return "SETTER <default>"
	case *ast.PropertyAccessor:
		if n.IsGetter {
			return "GETTER " + typeText(n.ReturnType)
		}
		return "SETTER " + typeText(n.ReturnType)
	case *ast.FunctionCall:
		return fmt.Sprintf("CALL %s/%d: %s", refText(n.Callee), len(n.Arguments), typeText(n.Type))
	case *ast.Annotation:
		return fmt.Sprintf("ANNOTATION @%s", refText(n.Callee))
	case *ast.ConstExpression:
		return fmt.Sprintf("CONST %s %v", n.Kind, n.Value)
	case *ast.QualifiedAccess:
		op := "."
		if n.Safe {
			op = "?."
		}
		return fmt.Sprintf("ACCESS %s%s: %s", op, refText(n.Callee), typeText(n.Type))
	case *ast.Block:
		return fmt.Sprintf("BLOCK %d statements", len(n.Statements))
	case *ast.Return:
		return "RETURN"
	default:
		return fmt.Sprintf("%T", e)
	}
}

func typeText(t ast.TypeRef) string {
	switch v := t.(type) {
	case *ast.ResolvedTypeRef:
		return coneText(v.Type)
	case *ast.ErrorTypeRef:
		return "<error: " + v.Reason + ">"
	case *ast.ImplicitTypeRef:
		return "<implicit>"
	default:
		return "<none>"
	}
}

func coneText(c ast.ConeType) string {
	var sb strings.Builder
	sb.WriteString(c.ClassID)
	if len(c.Args) > 0 {
		sb.WriteByte('<')
		for i, a := range c.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(coneText(a))
		}
		sb.WriteByte('>')
	}
	if c.Nullable {
		sb.WriteByte('?')
	}
	return sb.String()
}

func refText(r ast.Reference) string {
	switch v := r.(type) {
	case *ast.ResolvedReference:
		return v.Callable.String()
	case *ast.NamedReference:
		return v.Name
	case *ast.ErrorReference:
		return v.Name + "<error>"
	default:
		return "<none>"
	}
}
