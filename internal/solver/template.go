package solver

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tsolve/internal/diag"
	"tsolve/internal/types"
)

// evalTemplate expands union spans into the cross product of their members.
// Members that are not literal stay as pattern spans. An expansion larger
// than MaxTemplateLiteralExpansion widens to string.
func (s *Session) evalTemplate(id types.TypeID) types.TypeID {
	info, _ := s.in.TemplateInfo(id)
	spans := make([]types.TypeID, len(info.Spans))
	choices := make([][]types.TypeID, len(info.Spans))
	product := 1
	for i, span := range info.Spans {
		spans[i] = s.evaluate(span)
		choices[i] = s.spanChoices(spans[i])
		product *= len(choices[i])
		if product > int(s.opts.MaxTemplateLiteralExpansion) {
			s.degrade(diag.SolverTemplateCardinality, "template %s expands past %d members; widening to string",
				s.Label(id), s.opts.MaxTemplateLiteralExpansion)
			return s.b.String
		}
	}
	combos := [][]types.TypeID{nil}
	for _, ch := range choices {
		next := make([][]types.TypeID, 0, len(combos)*len(ch))
		for _, c := range combos {
			for _, m := range ch {
				combo := make([]types.TypeID, len(c), len(c)+1)
				copy(combo, c)
				next = append(next, append(combo, m))
			}
		}
		combos = next
	}
	out := make([]types.TypeID, 0, len(combos))
	for _, c := range combos {
		out = append(out, s.in.Template(info.Texts, c))
	}
	return s.in.Union(out...)
}

// spanChoices lists the alternatives one span contributes to an expansion.
func (s *Session) spanChoices(span types.TypeID) []types.TypeID {
	var out []types.TypeID
	for _, m := range s.in.Members(span) {
		switch s.in.KindOf(m) {
		case types.KindBoolean:
			out = append(out, s.in.StringLiteral("true"), s.in.StringLiteral("false"))
		case types.KindNull:
			out = append(out, s.in.StringLiteral("null"))
		case types.KindUndefined:
			out = append(out, s.in.StringLiteral("undefined"))
		case types.KindEnumMember:
			out = append(out, s.in.MustLookup(m).Elem)
		default:
			out = append(out, m)
		}
	}
	return out
}

// evalIntrinsic applies Uppercase, Lowercase, Capitalize or Uncapitalize.
// Applied to string it stays as a pattern type.
func (s *Session) evalIntrinsic(kind types.StringIntrinsicKind, arg types.TypeID) types.TypeID {
	a := s.evaluate(arg)
	t := s.in.MustLookup(a)
	switch t.Kind {
	case types.KindAny, types.KindNever:
		return a
	case types.KindUnion:
		return s.mapUnion(a, func(m types.TypeID) types.TypeID { return s.evalIntrinsic(kind, m) })
	case types.KindLiteral:
		if v, _ := s.in.LiteralInfo(a); v.Kind == types.LitString {
			return s.in.StringLiteral(applyIntrinsic(kind, v.Str))
		}
	case types.KindTemplate:
		info, _ := s.in.TemplateInfo(a)
		texts := make([]string, len(info.Texts))
		copy(texts, info.Texts)
		spans := make([]types.TypeID, len(info.Spans))
		copy(spans, info.Spans)
		switch kind {
		case types.IntrinsicUppercase, types.IntrinsicLowercase:
			for i := range texts {
				texts[i] = applyIntrinsic(kind, texts[i])
			}
			for i := range spans {
				spans[i] = s.in.StringIntrinsic(kind, spans[i])
			}
		default:
			if texts[0] != "" {
				texts[0] = applyIntrinsic(kind, texts[0])
			} else {
				spans[0] = s.in.StringIntrinsic(kind, spans[0])
			}
		}
		return s.in.Template(texts, spans)
	}
	return s.in.StringIntrinsic(kind, a)
}

func applyIntrinsic(kind types.StringIntrinsicKind, str string) string {
	switch kind {
	case types.IntrinsicUppercase:
		return cases.Upper(language.Und).String(str)
	case types.IntrinsicLowercase:
		return cases.Lower(language.Und).String(str)
	}
	r, size := utf8.DecodeRuneInString(str)
	if r == utf8.RuneError {
		return str
	}
	head := string(r)
	if kind == types.IntrinsicCapitalize {
		head = cases.Upper(language.Und).String(head)
	} else {
		head = cases.Lower(language.Und).String(head)
	}
	return head + str[size:]
}

// matchTemplate splits text into the parts captured by the spans of info.
// Each span but the last captures up to the first occurrence of the text
// that follows it, or a single character when that text is empty; the last
// span takes the rest.
func matchTemplate(text string, info *types.TemplateInfo) ([]string, bool) {
	first, last := info.Texts[0], info.Texts[len(info.Texts)-1]
	if len(text) < len(first)+len(last) || !strings.HasPrefix(text, first) || !strings.HasSuffix(text, last) {
		return nil, false
	}
	rest := text[len(first) : len(text)-len(last)]
	parts := make([]string, 0, len(info.Spans))
	for i := 1; i < len(info.Spans); i++ {
		delim := info.Texts[i]
		if delim == "" {
			if rest == "" {
				return nil, false
			}
			_, size := utf8.DecodeRuneInString(rest)
			parts = append(parts, rest[:size])
			rest = rest[size:]
			continue
		}
		at := strings.Index(rest, delim)
		if at < 0 {
			return nil, false
		}
		parts = append(parts, rest[:at])
		rest = rest[at+len(delim):]
	}
	return append(parts, rest), true
}

// templateAccepts reports whether text is a member of the template pattern.
func (s *Session) templateAccepts(text string, template types.TypeID) bool {
	info, ok := s.in.TemplateInfo(template)
	if !ok {
		return false
	}
	parts, ok := matchTemplate(text, info)
	if !ok {
		return false
	}
	for i, p := range parts {
		if !s.spanAccepts(p, info.Spans[i]) {
			return false
		}
	}
	return true
}

// spanAccepts reports whether a captured part is a valid value of a span.
func (s *Session) spanAccepts(part string, span types.TypeID) bool {
	t := s.in.MustLookup(span)
	switch t.Kind {
	case types.KindString, types.KindAny, types.KindUnknown:
		return true
	case types.KindNumber:
		return types.IsNumericText(part)
	case types.KindBigInt:
		return isBigIntText(part)
	case types.KindBoolean:
		return part == "true" || part == "false"
	case types.KindNull:
		return part == "null"
	case types.KindUndefined:
		return part == "undefined"
	case types.KindLiteral:
		v, _ := s.in.LiteralInfo(span)
		return v.Text() == part
	case types.KindUnion:
		for _, m := range s.in.Members(span) {
			if s.spanAccepts(part, m) {
				return true
			}
		}
		return false
	case types.KindTemplate:
		return s.templateAccepts(part, span)
	case types.KindStringIntrinsic:
		return applyIntrinsic(types.StringIntrinsicKind(t.Payload), part) == part && s.spanAccepts(part, t.Elem)
	case types.KindTypeParam:
		return true
	}
	return s.related(s.in.StringLiteral(part), span, ModeAssignable)
}

func isBigIntText(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
