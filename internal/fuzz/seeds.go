package fuzztests

import (
	"io/fs"
	"path/filepath"
	"testing"

	"tsolve/internal/config"
	"tsolve/internal/fixture"
)

const (
	maxSeedBytes = 4 << 10 // type expressions are short; 4 KiB is plenty
)

// shapeSeeds cover constructs the fixtures rarely combine.
var shapeSeeds = []string{
	"",
	"string",
	"<T>(x: T) => T",
	"new (...args: any[]) => object",
	"{ [K in keyof { a: 1 } as `get${K & string}`]-?: K }",
	"`a${`b${`c${string}`}`}`",
	"T extends infer U extends string ? U : never",
	"((((((((string))))))))",
	"[a?: string, ...rest: number[]]",
	"readonly [...unknown[]]",
	"{ (x: number): string; new (): {}; readonly [key: string]: unknown }",
	"Partial<Partial<Partial<{ a: { b: { c: 1 } } }>>>",
	"keyof keyof keyof string",
	"0x1F | 1e3 | -2 | 10n",
	"'\\u{1F600}' | \"\\n\"",
	"Exclude<string | number | boolean | null | undefined, null | undefined>",
	"{ a: 1 }['a' | 'b']",
}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, s := range shapeSeeds {
		f.Add(clampSeed([]byte(s)))
	}
}

// addTestdataSeeds adds every type expression found in the fixture files.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata", "fixtures")
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != fixture.Ext {
			return nil
		}
		fx, err := fixture.Load(path, config.Default())
		if err != nil {
			return nil
		}
		for _, src := range expressions(fx) {
			f.Add(clampSeed([]byte(src)))
		}
		return nil
	})
}

func expressions(fx *fixture.Fixture) []string {
	var out []string
	for _, d := range fx.Decls {
		if d.Type != "" {
			out = append(out, d.Type)
		}
	}
	for _, a := range fx.Asserts {
		out = append(out, a.Source, a.Target)
	}
	for _, e := range fx.Evals {
		out = append(out, e.Type, e.Expect)
	}
	for _, inf := range fx.Infers {
		out = append(out, inf.Signature)
		out = append(out, inf.Args...)
	}
	return out
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
