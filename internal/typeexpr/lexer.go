package typeexpr

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/smasher164/xid"

	"tsolve/internal/diag"
)

// lexer turns a type expression into tokens. Template literals are split
// at their substitutions; braceDepth and templ track where a `}` resumes
// template text instead of closing an object type.
type lexer struct {
	src        string
	file       string
	pos        int
	braceDepth int
	templ      []int
	toks       []Token
}

// Lex splits src into tokens, ending with EOF.
func Lex(file, src string) ([]Token, error) {
	lx := &lexer{src: src, file: file}
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		lx.toks = append(lx.toks, tok)
		if tok.Kind == EOF {
			return lx.toks, nil
		}
	}
}

func (lx *lexer) errorf(code diag.Code, at int, format string, args ...any) error {
	return diag.NewError(code, spanAt(lx.file, lx.src, at), fmt.Sprintf(format, args...))
}

func (lx *lexer) peekRune() (rune, int) {
	if lx.pos >= len(lx.src) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(lx.src[lx.pos:])
}

func (lx *lexer) skipSpace() {
	for lx.pos < len(lx.src) {
		switch c := lx.src[lx.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			lx.pos++
		case strings.HasPrefix(lx.src[lx.pos:], "//"):
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.pos++
			}
		case strings.HasPrefix(lx.src[lx.pos:], "/*"):
			end := strings.Index(lx.src[lx.pos+2:], "*/")
			if end < 0 {
				lx.pos = len(lx.src)
				return
			}
			lx.pos += end + 4
		default:
			return
		}
	}
}

var punct = map[byte]TokenKind{
	'(': LParen, ')': RParen, '[': LBracket, ']': RBracket,
	'<': LAngle, '>': RAngle, ',': Comma, ';': Semi, ':': Colon,
	'?': Question, '|': Pipe, '&': Amp, '+': Plus, '-': Minus,
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || xid.Start(r)
}

func isIdentContinue(r rune) bool {
	return r == '$' || xid.Continue(r)
}

func (lx *lexer) next() (Token, error) {
	lx.skipSpace()
	start := lx.pos
	if lx.pos >= len(lx.src) {
		return Token{Kind: EOF, Pos: start}, nil
	}
	r, size := lx.peekRune()
	switch {
	case isIdentStart(r):
		lx.pos += size
		for {
			r, size := lx.peekRune()
			if size == 0 || !isIdentContinue(r) {
				break
			}
			lx.pos += size
		}
		return Token{Kind: Ident, Text: lx.src[start:lx.pos], Pos: start}, nil
	case r >= '0' && r <= '9', r == '.' && lx.digitAt(lx.pos+1):
		return lx.number()
	case r == '"' || r == '\'':
		return lx.str(byte(r))
	case r == '`':
		lx.pos++
		return lx.template(start, true)
	}

	switch c := lx.src[lx.pos]; {
	case strings.HasPrefix(lx.src[lx.pos:], "=>"):
		lx.pos += 2
		return Token{Kind: Arrow, Pos: start}, nil
	case strings.HasPrefix(lx.src[lx.pos:], "..."):
		lx.pos += 3
		return Token{Kind: Ellipsis, Pos: start}, nil
	case c == '.':
		lx.pos++
		return Token{Kind: Dot, Pos: start}, nil
	case c == '=':
		lx.pos++
		return Token{Kind: Eq, Pos: start}, nil
	case c == '{':
		lx.pos++
		lx.braceDepth++
		return Token{Kind: LBrace, Pos: start}, nil
	case c == '}':
		lx.pos++
		if n := len(lx.templ); n > 0 && lx.templ[n-1] == lx.braceDepth {
			lx.templ = lx.templ[:n-1]
			return lx.template(start, false)
		}
		lx.braceDepth--
		return Token{Kind: RBrace, Pos: start}, nil
	default:
		if k, ok := punct[c]; ok {
			lx.pos++
			return Token{Kind: k, Pos: start}, nil
		}
	}
	return Token{}, lx.errorf(diag.LexUnknownChar, start, "unexpected character %q", r)
}

func (lx *lexer) digitAt(i int) bool {
	return i < len(lx.src) && lx.src[i] >= '0' && lx.src[i] <= '9'
}

// number scans decimal, hexadecimal, octal and binary literals with
// optional `_` separators, fractions and exponents. A trailing `n` makes
// a bigint.
func (lx *lexer) number() (Token, error) {
	start := lx.pos
	isDigit := func(c byte) bool { return c >= '0' && c <= '9' || c == '_' }
	if strings.HasPrefix(lx.src[lx.pos:], "0x") || strings.HasPrefix(lx.src[lx.pos:], "0X") ||
		strings.HasPrefix(lx.src[lx.pos:], "0o") || strings.HasPrefix(lx.src[lx.pos:], "0O") ||
		strings.HasPrefix(lx.src[lx.pos:], "0b") || strings.HasPrefix(lx.src[lx.pos:], "0B") {
		lx.pos += 2
		for lx.pos < len(lx.src) && (isHex(lx.src[lx.pos]) || lx.src[lx.pos] == '_') {
			lx.pos++
		}
	} else {
		for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
			lx.pos++
		}
		if lx.pos < len(lx.src) && lx.src[lx.pos] == '.' && !strings.HasPrefix(lx.src[lx.pos:], "...") {
			lx.pos++
			for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
				lx.pos++
			}
		}
		if lx.pos < len(lx.src) && (lx.src[lx.pos] == 'e' || lx.src[lx.pos] == 'E') {
			lx.pos++
			if lx.pos < len(lx.src) && (lx.src[lx.pos] == '+' || lx.src[lx.pos] == '-') {
				lx.pos++
			}
			if !lx.digitAt(lx.pos) {
				return Token{}, lx.errorf(diag.LexBadNumber, start, "missing exponent digits")
			}
			for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
				lx.pos++
			}
		}
	}
	text := lx.src[start:lx.pos]
	if lx.pos < len(lx.src) && lx.src[lx.pos] == 'n' {
		lx.pos++
		if _, ok := parseBigInt(text); !ok {
			return Token{}, lx.errorf(diag.LexBadNumber, start, "malformed bigint literal %s", lx.src[start:lx.pos])
		}
		return Token{Kind: BigInt, Text: text, Pos: start}, nil
	}
	if _, err := parseNumber(text); err != nil {
		return Token{}, lx.errorf(diag.LexBadNumber, start, "malformed number literal %s", text)
	}
	return Token{Kind: Number, Text: text, Pos: start}, nil
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// parseNumber converts a scanned number literal to its value.
func parseNumber(text string) (float64, error) {
	clean := strings.ReplaceAll(text, "_", "")
	if len(clean) > 2 && clean[0] == '0' && strings.ContainsRune("xXoObB", rune(clean[1])) {
		u, err := strconv.ParseUint(clean, 0, 64)
		return float64(u), err
	}
	return strconv.ParseFloat(clean, 64)
}

// parseBigInt returns the decimal digits of an integer literal.
func parseBigInt(text string) (string, bool) {
	clean := strings.ReplaceAll(text, "_", "")
	if strings.ContainsAny(clean, ".eE") && !strings.HasPrefix(clean, "0x") && !strings.HasPrefix(clean, "0X") {
		return "", false
	}
	u, err := strconv.ParseUint(clean, 0, 64)
	if err != nil {
		return "", false
	}
	return strconv.FormatUint(u, 10), true
}

func (lx *lexer) str(quote byte) (Token, error) {
	start := lx.pos
	lx.pos++
	var sb strings.Builder
	for {
		if lx.pos >= len(lx.src) || lx.src[lx.pos] == '\n' {
			return Token{}, lx.errorf(diag.LexUnterminatedString, start, "unterminated string literal")
		}
		if lx.src[lx.pos] == quote {
			lx.pos++
			return Token{Kind: String, Text: sb.String(), Pos: start}, nil
		}
		r, tail, err := lx.char(quote)
		if err != nil {
			return Token{}, lx.errorf(diag.LexUnterminatedString, lx.pos, "invalid escape in string literal")
		}
		sb.WriteRune(r)
		lx.pos = len(lx.src) - len(tail)
	}
}

// char decodes one possibly escaped character at the current position.
func (lx *lexer) char(quote byte) (rune, string, error) {
	rest := lx.src[lx.pos:]
	if len(rest) >= 2 && rest[0] == '\\' && (rest[1] == '`' || rest[1] == '$' || rest[1] == '\'' || rest[1] == '"') {
		return rune(rest[1]), rest[2:], nil
	}
	if quote == '`' {
		quote = 0
	}
	r, _, tail, err := strconv.UnquoteChar(rest, quote)
	return r, tail, err
}

// template scans template text up to the next substitution or the closing
// backtick. head is true right after the opening backtick.
func (lx *lexer) template(start int, head bool) (Token, error) {
	var sb strings.Builder
	for {
		if lx.pos >= len(lx.src) {
			return Token{}, lx.errorf(diag.LexUnterminatedString, start, "unterminated template literal")
		}
		switch {
		case lx.src[lx.pos] == '`':
			lx.pos++
			kind := TemplateTail
			if head {
				kind = NoSubstTemplate
			}
			return Token{Kind: kind, Text: sb.String(), Pos: start}, nil
		case strings.HasPrefix(lx.src[lx.pos:], "${"):
			lx.pos += 2
			lx.templ = append(lx.templ, lx.braceDepth)
			kind := TemplateMiddle
			if head {
				kind = TemplateHead
			}
			return Token{Kind: kind, Text: sb.String(), Pos: start}, nil
		}
		r, tail, err := lx.char('`')
		if err != nil {
			return Token{}, lx.errorf(diag.LexUnterminatedString, lx.pos, "invalid escape in template literal")
		}
		sb.WriteRune(r)
		lx.pos = len(lx.src) - len(tail)
	}
}

// spanAt converts a byte offset into a 1-based line and column.
func spanAt(file, src string, off int) diag.Span {
	off = min(max(off, 0), len(src))
	line, col := 1, 1
	for _, r := range src[:off] {
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return diag.Span{File: file, Line: uint32(line), Col: uint32(col)}
}
