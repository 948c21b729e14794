// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package value

import (
	"fmt"
	"strconv"
	"strings"
)

// namedCharacters maps the code points spec.md §6 requires a name for.
var namedCharacters = map[rune]string{
	' ':  "space",
	'\n': "newline",
	'\t': "tab",
	'\r': "return",
	0:    "null",
}

func formatCharacter(c rune) string {
	if name, ok := namedCharacters[c]; ok {
		return "#\\" + name
	}
	if strconv.IsPrint(c) {
		return "#\\" + string(c)
	}
	return fmt.Sprintf("#\\x%x", c)
}

func formatReal(r float64) string {
	s := strconv.FormatFloat(r, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += "."
	}
	return s
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, c := range []byte(s) {
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\n':
			b.WriteString(`\n`)
		default:
			if c < 0x20 || c >= 0x7f {
				fmt.Fprintf(&b, `\x%02x`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// formatPair renders a Pair as a proper or improper list, per spec.md §6.
func formatPair(o *Object) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(o.Car.String())

	cur := o.Cdr
	for {
		if cur == Nil {
			break
		}
		if cur.IsPointer() && cur.AsPointer().Kind == KindPair {
			p := cur.AsPointer()
			b.WriteByte(' ')
			b.WriteString(p.Car.String())
			cur = p.Cdr
			continue
		}
		b.WriteString(" . ")
		b.WriteString(cur.String())
		break
	}
	b.WriteByte(')')
	return b.String()
}
