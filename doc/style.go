package doc

import (
	"sort"
	"strings"

	"github.com/gorilla/css/scanner"
)

// ParseStyle parses an inline style declaration list into lower-cased
// property names and trimmed values. Later declarations win.
func ParseStyle(style string) map[string]string {
	out := make(map[string]string)
	s := scanner.New(style)

	var (
		prop    string
		val     strings.Builder
		inValue bool
	)
	flush := func() {
		if prop != "" && inValue {
			if v := strings.TrimSpace(val.String()); v != "" {
				out[prop] = v
			}
		}
		prop = ""
		inValue = false
		val.Reset()
	}

	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF, scanner.TokenError:
			flush()
			return out
		case scanner.TokenComment:
			continue
		case scanner.TokenS:
			if inValue && val.Len() > 0 {
				val.WriteByte(' ')
			}
		case scanner.TokenChar:
			switch {
			case tok.Value == ";":
				flush()
			case tok.Value == ":" && !inValue && prop != "":
				inValue = true
			case inValue:
				val.WriteString(tok.Value)
			}
		case scanner.TokenIdent:
			if !inValue && prop == "" {
				prop = strings.ToLower(tok.Value)
				continue
			}
			if inValue {
				val.WriteString(tok.Value)
			}
		default:
			if inValue {
				val.WriteString(tok.Value)
			}
		}
	}
}

// FormatStyle writes declarations in a stable order: the given order first,
// then any remaining properties sorted by name.
func FormatStyle(decls map[string]string, order ...string) string {
	if len(decls) == 0 {
		return ""
	}
	seen := make(map[string]struct{}, len(decls))
	parts := make([]string, 0, len(decls))
	for _, p := range order {
		v, ok := decls[p]
		if !ok || v == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		parts = append(parts, p+": "+v)
	}
	rest := make([]string, 0, len(decls))
	for p, v := range decls {
		if _, ok := seen[p]; ok || v == "" {
			continue
		}
		rest = append(rest, p)
	}
	sort.Strings(rest)
	for _, p := range rest {
		parts = append(parts, p+": "+decls[p])
	}
	return strings.Join(parts, "; ")
}
