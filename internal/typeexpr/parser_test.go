package typeexpr

import (
	"errors"
	"testing"

	"tsolve/internal/diag"
	"tsolve/internal/types"
)

type names map[types.DefID]string

func (n names) DefName(def types.DefID) string { return n[def] }

const (
	defBox types.DefID = iota + 1
	defPair
	defPoint
	defColor
	defOrigin
)

func testEnv(in *types.Interner) (*MapEnv, names) {
	env := &MapEnv{
		Types: map[string]TypeRef{
			"Box":   {Def: defBox, Params: 1, Required: 1},
			"Pair":  {Def: defPair, Params: 2, Required: 1},
			"Point": {Def: defPoint},
			"Color": {Def: defColor},
		},
		Values: map[string]types.DefID{"origin": defOrigin},
		Members: map[types.DefID]map[string]types.TypeID{
			defColor: {
				"Red":  in.EnumMember(defColor, "Red", in.NumberLiteral(0)),
				"Blue": in.EnumMember(defColor, "Blue", in.NumberLiteral(1)),
			},
		},
	}
	return env, names{defBox: "Box", defPair: "Pair", defPoint: "Point", defColor: "Color", defOrigin: "origin"}
}

func TestReaderLabels(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"string", "string"},
		{"string[]", "string[]"},
		{"Array<string>", "string[]"},
		{"readonly string[]", "readonly string[]"},
		{"ReadonlyArray<number>", "readonly number[]"},
		{"(string | number)[]", "(number | string)[]"},
		{"| 'a' | 'b'", `"a" | "b"`},
		{"-1 | 2.5 | 10n | -3n", "-1 | 2.5 | 10n | -3n"},
		{"[a: string, b?: number, ...rest: boolean[]]", "[a: string, b?: number, ...rest: boolean[]]"},
		{"readonly [string, number?]", "readonly [string, number?]"},
		{"{ b: string; readonly a?: number }", "{ readonly a?: number; b: string }"},
		{"{ readonly [key: string]: number, [i: number]: 1 }", "{ readonly [key: string]: number; [key: number]: 1 }"},
		{"{ (x: string): number; new (): object }", "{ (x: string): number; new (): object }"},
		{"{ m(x: number): void }", "{ m: (x: number) => void }"},
		{"{ 'a-b': 1; 0x10: 2 }", `{ 16: 2; "a-b": 1 }`},
		{"(a: string, b?: number) => void", "(a: string, b?: number) => void"},
		{"(this: string, ...xs: number[]) => void", "(this: string, ...xs: number[]) => void"},
		{"<T extends string = 'x'>(x: T) => T", `<T extends string = "x">(x: T) => T`},
		{"(x: unknown) => x is string", "(x: unknown) => x is string"},
		{"(x: unknown) => asserts x", "(x: unknown) => asserts x"},
		{"(x: unknown) => asserts x is number", "(x: unknown) => asserts x is number"},
		{"`a${string}b`", "`a${string}b`"},
		{"`plain`", `"plain"`},
		{"Uppercase<'a' | 'b'>", `Uppercase<"a" | "b">`},
		{"keyof { a: 1 }", "keyof { a: 1 }"},
		{"{ a: 1 }['a']", `{ a: 1 }["a"]`},
		{"Box<string>", "Box<string>"},
		{"Pair<string>", "Pair<string>"},
		{"Point", "Point"},
		{"Point[]", "Point[]"},
		{"Color.Red", "Color.Red"},
		{"typeof origin", "typeof origin"},
		{"unique symbol", "symbol"},
		{"{ [K in 'a' | 'b']: K }", `{ [K in "a" | "b"]: K }`},
		{"{ readonly [K in 'a' as `x${K}`]?: 1 }", "{ readonly [K in \"a\" as `x${K}`]?: 1 }"},
		{"{ -readonly [K in 'a']-?: 1 }", `{ -readonly [K in "a"]-?: 1 }`},
		{"{ +readonly [K in 'a']+?: 1; }", `{ readonly [K in "a"]?: 1 }`},
		{"string extends infer U extends string ? 1 : never", "string extends infer U extends string ? 1 : never"},
		{"string extends (infer U)[] ? 1 : 0", "string extends infer U[] ? 1 : 0"},
	}
	for _, tt := range tests {
		in := types.NewInterner()
		env, namer := testEnv(in)
		r := NewReader(in, env)
		id, err := r.Type(tt.src)
		if err != nil {
			t.Errorf("Type(%q): %v", tt.src, err)
			continue
		}
		if got := types.LabelWith(in, namer, id); got != tt.want {
			t.Errorf("Type(%q) = %s, want %s", tt.src, got, tt.want)
		}
	}
}

func TestReaderInterns(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	r := NewReader(in, nil)
	tests := []struct {
		src  string
		want types.TypeID
	}{
		{"string | number", in.Union(b.String, b.Number)},
		{"number & string", b.Never},
		{"any | string", b.Any},
		{"object", b.NonPrimitive},
		{"{}", b.EmptyObject},
		{"((string))", b.String},
		{"[string, number]", in.TupleOf(b.String, b.Number)},
		{"Lowercase<string>", in.StringIntrinsic(types.IntrinsicLowercase, b.String)},
		{"'a' | 'a'", in.StringLiteral("a")},
	}
	for _, tt := range tests {
		got, err := r.Type(tt.src)
		if err != nil {
			t.Fatalf("Type(%q): %v", tt.src, err)
		}
		if got != tt.want {
			t.Errorf("Type(%q) = %s, want %s", tt.src, types.Label(in, got), types.Label(in, tt.want))
		}
	}
}

func TestReaderConstructorType(t *testing.T) {
	in := types.NewInterner()
	r := NewReader(in, nil)
	id, err := r.Type("abstract new (...args: any) => object")
	if err != nil {
		t.Fatalf("Type: %v", err)
	}
	fn, ok := in.FnInfo(id)
	if !ok || !fn.Constructor {
		t.Fatalf("expected a constructor type, got %s", types.Label(in, id))
	}
	if len(fn.Params) != 1 || !fn.Params[0].Rest || in.KindOf(fn.Params[0].Type) != types.KindArray {
		t.Fatalf("unexpected params %+v", fn.Params)
	}
}

func TestReaderConditionalScopes(t *testing.T) {
	in := types.NewInterner()
	r := NewReader(in, nil)
	params, err := r.Params(100, []string{"T"})
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	scope := map[string]types.TypeID{"T": params[0]}

	id, err := r.ParseIn("T extends [infer A, infer A] ? A : T extends string ? 1 : 2", scope)
	if err != nil {
		t.Fatalf("ParseIn: %v", err)
	}
	outer, ok := in.ConditionalInfo(id)
	if !ok || !outer.Distributive {
		t.Fatalf("expected a distributive conditional, got %s", types.Label(in, id))
	}
	tuple, _ := in.TupleInfo(outer.Extends)
	if tuple.Elems[0].Type != tuple.Elems[1].Type || tuple.Elems[0].Type != outer.True {
		t.Errorf("infer A must be one variable shared with the true branch")
	}
	if _, ok := in.ConditionalInfo(outer.False); !ok {
		t.Errorf("false branch should be a nested conditional, got %s", types.Label(in, outer.False))
	}

	plain, err := r.ParseIn("[T] extends [string] ? 1 : 2", scope)
	if err != nil {
		t.Fatalf("ParseIn: %v", err)
	}
	if info, _ := in.ConditionalInfo(plain); info.Distributive {
		t.Errorf("a wrapped check type must not distribute")
	}

	// Separate conditionals get separate infer declarations.
	a, _ := r.Type("string extends infer X ? X : never")
	b, _ := r.Type("string extends infer X ? X : never")
	if a == b {
		t.Errorf("infer variables of distinct conditionals must not be shared")
	}

	// `infer U extends X ?` inside brackets starts a nested conditional.
	nested, err := r.ParseIn("T extends [infer U extends string ? 1 : 2] ? U : never", scope)
	if err != nil {
		t.Fatalf("ParseIn nested: %v", err)
	}
	info, _ := in.ConditionalInfo(nested)
	tuple, _ = in.TupleInfo(info.Extends)
	if in.KindOf(tuple.Elems[0].Type) != types.KindConditional {
		t.Errorf("expected a conditional element, got %s", types.Label(in, tuple.Elems[0].Type))
	}
}

func TestReaderParams(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	r := NewReader(in, nil)
	ids, err := r.Params(7, []string{"const T extends U[]", "U = string", "V extends keyof T = keyof T"})
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	t0, _ := in.TypeParamInfo(ids[0])
	u, _ := in.TypeParamInfo(ids[1])
	v, _ := in.TypeParamInfo(ids[2])
	if t0.Name != "T" || !t0.Const || t0.Decl != 7 || t0.Constraint != in.Array(ids[1]) {
		t.Errorf("T = %+v", t0)
	}
	if u.Default != b.String || u.Constraint != types.NoTypeID {
		t.Errorf("U = %+v", u)
	}
	if v.Constraint != in.KeyOf(ids[0]) || v.Default != v.Constraint {
		t.Errorf("V = %+v", v)
	}

	if _, err := r.Params(8, []string{"T", "T"}); err == nil {
		t.Errorf("duplicate parameter names must fail")
	}
}

func TestReaderErrors(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
	}{
		{"", diag.SynExpectType},
		{"Foo", diag.SynUnknownName},
		{"typeof nothing", diag.SynUnknownName},
		{"Color.Green", diag.SynUnknownName},
		{"Array<string, number>", diag.SynTypeArgCount},
		{"Box", diag.SynTypeArgCount},
		{"Box<1, 2, 3>", diag.SynTypeArgCount},
		{"Point<string>", diag.SynTypeArgCount},
		{"string number", diag.SynUnexpectedToken},
		{"[string", diag.SynUnclosedDelim},
		{"{ a: string", diag.SynUnclosedDelim},
		{"infer U", diag.SynUnexpectedToken},
		{"readonly string", diag.SynUnexpectedToken},
		{"{ [k: boolean]: string }", diag.SynExpectType},
		{"(...a?: string[]) => void", diag.SynUnexpectedToken},
		{"(...a: string[], b: number) => void", diag.SynUnexpectedToken},
		{"{ a: string; a: number }", diag.SynUnexpectedToken},
		{"<>() => void", diag.SynExpectIdentifier},
		{"'unterminated", diag.LexUnterminatedString},
	}
	for _, tt := range tests {
		in := types.NewInterner()
		env, _ := testEnv(in)
		r := NewReader(in, env)
		r.SetFile("case.ts")
		_, err := r.Type(tt.src)
		var d diag.Diagnostic
		if !errors.As(err, &d) {
			t.Errorf("Type(%q): expected a diagnostic, got %v", tt.src, err)
			continue
		}
		if d.Code != tt.code {
			t.Errorf("Type(%q): code %v (%s), want %v", tt.src, d.Code, d.Message, tt.code)
		}
		if d.Primary.File != "case.ts" {
			t.Errorf("Type(%q): file %q", tt.src, d.Primary.File)
		}
		if !IsSyntaxError(err) {
			t.Errorf("IsSyntaxError(%v) = false", err)
		}
	}
}

func TestReaderDepthLimit(t *testing.T) {
	in := types.NewInterner()
	r := NewReader(in, nil)
	r.SetMaxDepth(8)
	if _, err := r.Type("((((((((((string))))))))))"); err == nil {
		t.Fatalf("expected a nesting error")
	}
	if _, err := r.Type("((string))"); err != nil {
		t.Fatalf("shallow nesting: %v", err)
	}
}
