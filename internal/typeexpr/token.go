package typeexpr

import "fmt"

// TokenKind classifies a token of a type expression.
type TokenKind uint8

const (
	EOF TokenKind = iota
	Ident
	String
	Number
	BigInt
	// Template pieces. A template without substitutions is a single
	// NoSubstTemplate; otherwise TemplateHead, then TemplateMiddle for each
	// inner span, then TemplateTail.
	NoSubstTemplate
	TemplateHead
	TemplateMiddle
	TemplateTail

	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	LAngle
	RAngle
	Comma
	Semi
	Colon
	Question
	Pipe
	Amp
	Arrow
	Ellipsis
	Dot
	Eq
	Plus
	Minus
)

var tokenNames = [...]string{
	EOF:             "end of input",
	Ident:           "identifier",
	String:          "string literal",
	Number:          "number literal",
	BigInt:          "bigint literal",
	NoSubstTemplate: "template literal",
	TemplateHead:    "template literal",
	TemplateMiddle:  "template continuation",
	TemplateTail:    "template end",
	LParen:          "'('",
	RParen:          "')'",
	LBracket:        "'['",
	RBracket:        "']'",
	LBrace:          "'{'",
	RBrace:          "'}'",
	LAngle:          "'<'",
	RAngle:          "'>'",
	Comma:           "','",
	Semi:            "';'",
	Colon:           "':'",
	Question:        "'?'",
	Pipe:            "'|'",
	Amp:             "'&'",
	Arrow:           "'=>'",
	Ellipsis:        "'...'",
	Dot:             "'.'",
	Eq:              "'='",
	Plus:            "'+'",
	Minus:           "'-'",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", k)
}

// Token is one lexeme. Text holds the identifier name, the decoded value of
// string and template pieces, or the source text of numbers.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int // byte offset into the input
}

func (t Token) String() string {
	switch t.Kind {
	case Ident, Number, BigInt:
		return t.Text
	case String:
		return fmt.Sprintf("%q", t.Text)
	}
	return t.Kind.String()
}
