package directives

import (
	"fmt"
	"strings"
)

const replaceOp = "replace"

// Directives is a decoded directive string. Replace operations become
// groups; any other operation (hueshift, brightness, ...) is kept
// verbatim in Extra together with its position among the groups.
type Directives struct {
	Groups DirectiveSet
	Extra  []Op
}

// Op is a non-replace operation. At is the number of replace groups
// written before it.
type Op struct {
	At   int
	Text string
}

// ParseDirectives decodes a string such as
// "?replace;aabbcc=ddeeff;112233=445566?replace;000000=ffffff".
func ParseDirectives(s string) (Directives, error) {
	var d Directives
	s = strings.TrimSpace(s)
	if s == "" {
		return d, nil
	}
	for _, op := range strings.Split(s, "?") {
		if op == "" {
			continue
		}
		parts := strings.Split(op, ";")
		if parts[0] != replaceOp {
			d.Extra = append(d.Extra, Op{At: len(d.Groups), Text: op})
			continue
		}
		var g DirectiveGroup
		for _, tok := range parts[1:] {
			if tok == "" {
				continue
			}
			from, to, ok := strings.Cut(tok, "=")
			if !ok {
				return Directives{}, fmt.Errorf("bad replace pair %q in %q", tok, s)
			}
			g = append(g, ColorPair{From: ColorHex(from), To: ColorHex(to)})
		}
		if len(g) > 0 {
			d.Groups = append(d.Groups, g)
		}
	}
	return d, nil
}

// Parse decodes only the replace groups of s.
func Parse(s string) (DirectiveSet, error) {
	d, err := ParseDirectives(s)
	if err != nil {
		return nil, err
	}
	return d.Groups, nil
}

// String encodes d back into directive string form, writing each extra
// op before the group at its position. Ops positioned past the last
// group (groups may have been removed since parsing) go at the end.
func (d Directives) String() string {
	var sb strings.Builder
	next := 0
	writeOps := func(upTo int) {
		for ; next < len(d.Extra) && d.Extra[next].At <= upTo; next++ {
			sb.WriteString("?" + d.Extra[next].Text)
		}
	}
	at := 0
	for _, g := range d.Groups {
		if len(g) == 0 {
			continue
		}
		writeOps(at)
		sb.WriteString(Format(DirectiveSet{g}))
		at++
	}
	for ; next < len(d.Extra); next++ {
		sb.WriteString("?" + d.Extra[next].Text)
	}
	return sb.String()
}

// Format encodes a set as "?replace;from=to..." groups. Empty groups are
// skipped.
func Format(set DirectiveSet) string {
	var sb strings.Builder
	for _, g := range set {
		if len(g) == 0 {
			continue
		}
		sb.WriteString("?" + replaceOp)
		for _, p := range g {
			fmt.Fprintf(&sb, ";%s=%s", p.From, p.To)
		}
	}
	return sb.String()
}
