package ir

import (
	"fmt"
	"io"
	"strings"

	"treelower/internal/types"
)

// Printer renders an Output Tree as indented text.
type Printer struct {
	w        io.Writer
	interner *types.Interner
	indent   int
	err      error
}

// NewPrinter creates a printer. A nil interner prints raw type ids.
func NewPrinter(w io.Writer, interner *types.Interner) *Printer {
	return &Printer{w: w, interner: interner}
}

// Dump writes f to w.
func Dump(w io.Writer, f *File, interner *types.Interner) error {
	p := NewPrinter(w, interner)
	p.PrintElement(f)
	return p.err
}

// DumpElement writes e and its subtree to w.
func DumpElement(w io.Writer, e Element, interner *types.Interner) error {
	p := NewPrinter(w, interner)
	p.PrintElement(e)
	return p.err
}

// PrintElement prints e and its subtree.
func (p *Printer) PrintElement(e Element) {
	p.line(p.header(e))
	p.indent++
	if call, ok := e.(*Call); ok {
		for i, arg := range call.Arguments {
			if arg == nil {
				p.line(fmt.Sprintf("arg%d: <default>", i))
				continue
			}
			p.line(fmt.Sprintf("arg%d:", i))
			p.indent++
			p.PrintElement(arg)
			p.indent--
		}
	} else {
		for _, c := range Children(e) {
			p.PrintElement(c)
		}
	}
	p.indent--
}

func (p *Printer) header(e Element) string {
	switch n := e.(type) {
	case *File:
		pkg := "<none>"
		if n.Package != nil {
			pkg = n.Package.FqName
		}
		return fmt.Sprintf("FILE name:%s package:%s", n.Name, pkg)
	case *Property:
		var flags []string
		if n.IsVar {
			flags = append(flags, "var")
		} else {
			flags = append(flags, "val")
		}
		if n.IsConst {
			flags = append(flags, "const")
		}
		if n.IsLateInit {
			flags = append(flags, "lateinit")
		}
		if n.IsDelegated {
			flags = append(flags, "delegated")
		}
		return fmt.Sprintf("PROPERTY %s name:%s visibility:%s modality:%s [%s] type:%s sym:%d",
			n.Origin, n.Name, n.Visibility, n.Modality, strings.Join(flags, ","), p.typeStr(n.Type), n.Sym)
	case *Field:
		return fmt.Sprintf("FIELD %s name:%s type:%s sym:%d", n.Origin, n.Name, p.typeStr(n.Type), n.Sym)
	case *Function:
		return fmt.Sprintf("FUN %s name:%s visibility:%s modality:%s returnType:%s sym:%d",
			n.Origin, n.Name, n.Visibility, n.Modality, p.typeStr(n.Type), n.Sym)
	case *ValueParameter:
		return fmt.Sprintf("VALUE_PARAMETER name:%s index:%d type:%s sym:%d", n.Name, n.Index, p.typeStr(n.Type), n.Sym)
	case *External:
		return fmt.Sprintf("EXTERNAL name:%s callable:%s arity:%d sym:%d", n.Name, n.Callable, n.Arity, n.Sym)
	case *ExpressionBody:
		return "EXPRESSION_BODY"
	case *Call:
		return fmt.Sprintf("CALL '%s' type:%s sym:%d", n.Name, p.typeStr(n.Type), n.Callee)
	case *ErrorCall:
		return fmt.Sprintf("ERROR_CALL '%s' type:%s", n.Message, p.typeStr(n.Type))
	case *Const:
		return fmt.Sprintf("CONST %s type:%s value:%s", n.Kind, p.typeStr(n.Type), formatConst(n))
	case *QualifiedAccess:
		op := "."
		if n.Safe {
			op = "?."
		}
		return fmt.Sprintf("GET '%s%s' type:%s sym:%d", op, n.Name, p.typeStr(n.Type), n.Target)
	case *Block:
		return fmt.Sprintf("BLOCK type:%s", p.typeStr(n.Type))
	case *Return:
		return fmt.Sprintf("RETURN type:%s from:%d", p.typeStr(n.Type), n.Target)
	default:
		return fmt.Sprintf("<%T>", e)
	}
}

func formatConst(c *Const) string {
	if c.Value == nil {
		return "null"
	}
	if s, ok := c.Value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(c.Value)
}

func (p *Printer) typeStr(id types.TypeID) string {
	if p.interner == nil {
		return fmt.Sprintf("#%d", id)
	}
	return p.interner.Format(id)
}

func (p *Printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", p.indent), s)
}
