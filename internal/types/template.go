package types

import "strings"

// TemplateInfo stores a template literal type. Texts always has exactly one
// more element than Spans: text[0] ${span[0]} text[1] ... text[n].
type TemplateInfo struct {
	Texts []string
	Spans []TypeID
}

// Template interns a template literal type. Literal spans are folded into the
// surrounding text, nested templates are inlined, a template with no spans
// becomes a string literal and `${string}` becomes `string`. A `never` span
// makes the whole template `never`.
func (in *Interner) Template(texts []string, spans []TypeID) TypeID {
	if len(texts) != len(spans)+1 {
		panic("types: template text/span count mismatch")
	}
	var (
		outTexts []string
		outSpans []TypeID
		cur      strings.Builder
	)
	cur.WriteString(texts[0])
	var push func(span TypeID, after string) bool
	push = func(span TypeID, after string) bool {
		tt := in.MustLookup(span)
		switch tt.Kind {
		case KindNever:
			return false
		case KindLiteral:
			cur.WriteString(in.literals[tt.Payload].Text())
		case KindTemplate:
			inner := in.templates[tt.Payload]
			cur.WriteString(inner.Texts[0])
			for i, s := range inner.Spans {
				if !push(s, inner.Texts[i+1]) {
					return false
				}
			}
		default:
			outTexts = append(outTexts, cur.String())
			cur.Reset()
			outSpans = append(outSpans, span)
		}
		cur.WriteString(after)
		return true
	}
	for i, s := range spans {
		if !push(s, texts[i+1]) {
			return in.builtins.Never
		}
	}
	outTexts = append(outTexts, cur.String())

	if len(outSpans) == 0 {
		return in.StringLiteral(outTexts[0])
	}
	if len(outSpans) == 1 && outSpans[0] == in.builtins.String && outTexts[0] == "" && outTexts[1] == "" {
		return in.builtins.String
	}

	var w sigWriter
	w.uint(uint64(len(outTexts)))
	for _, t := range outTexts {
		w.str(t)
	}
	w.ids(outSpans)
	slot := in.shapeSlot(tableTemplate, w.String(), func() int {
		return appendSlot(&in.templates, TemplateInfo{Texts: outTexts, Spans: outSpans})
	})
	return in.Intern(Type{Kind: KindTemplate, Payload: slot})
}

// TemplateInfo returns the spans of a template literal type.
func (in *Interner) TemplateInfo(id TypeID) (*TemplateInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTemplate || int(tt.Payload) >= len(in.templates) {
		return nil, false
	}
	return &in.templates[tt.Payload], true
}
