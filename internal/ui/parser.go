package ui

import (
	"strings"
)

// ParseCSS parses a small CSS subset: selectors .class, #id, optionally followed by :hover,
// several selectors per rule separated by commas, and "key: value;" declarations.
// Other selectors and @-blocks are skipped. Later rules override earlier ones.
func ParseCSS(content string) (*Stylesheet, error) {
	sheet := &Stylesheet{}
	rest := stripComments(content)
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			break
		}
		end := matchingBrace(rest, open)
		if end < 0 {
			break
		}
		head := strings.TrimSpace(rest[:open])
		props := parseDeclarations(rest[open+1 : end])
		rest = rest[end+1:]
		for _, part := range strings.Split(head, ",") {
			if sel, ok := parseSelector(part); ok {
				sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Props: props})
			}
		}
	}
	return sheet, nil
}

func parseSelector(s string) (Selector, bool) {
	s = strings.TrimSpace(s)
	var sel Selector
	if name, ok := strings.CutSuffix(s, ":hover"); ok {
		sel.Hover = true
		s = name
	}
	if len(s) < 2 || (s[0] != '.' && s[0] != '#') {
		return Selector{}, false
	}
	sel.ID = s[0] == '#'
	sel.Name = s[1:]
	if strings.ContainsAny(sel.Name, " .#:>+~[") {
		return Selector{}, false
	}
	return sel, true
}

func stripComments(s string) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "/*")
		if start < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:start])
		end := strings.Index(s[start+2:], "*/")
		if end < 0 {
			return b.String()
		}
		s = s[start+2+end+2:]
	}
}

func matchingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func parseDeclarations(body string) map[string]string {
	props := make(map[string]string)
	for _, part := range strings.Split(body, ";") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			props[k] = strings.TrimSpace(v)
		}
	}
	return props
}
