package fuzztests

import (
	"testing"

	"tsolve/internal/typeexpr"
)

const maxFuzzInput = 1 << 12 // 4 KiB

func clampInput(input []byte) string {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return string(input)
}

func FuzzLexTypeExpr(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		src := clampInput(input)
		toks, err := typeexpr.Lex("fuzz.ts", src)
		if err != nil {
			if !typeexpr.IsSyntaxError(err) {
				t.Fatalf("lexer returned a non-syntax error: %v", err)
			}
			return
		}
		if len(toks) == 0 || toks[len(toks)-1].Kind != typeexpr.EOF {
			t.Fatalf("token stream does not end with EOF: %v", toks)
		}
		for i := 1; i < len(toks); i++ {
			if toks[i].Pos < toks[i-1].Pos {
				t.Fatalf("token %d starts before its predecessor: %v", i, toks[i-1:i+1])
			}
		}
	})
}
