package fixture

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"tsolve/internal/config"
	"tsolve/internal/diag"
)

// Decl kinds.
const (
	KindAlias = "alias"
	KindEnum  = "enum"
	KindValue = "value"
)

// Relation modes of an assertion.
const (
	ModeAssignable = "assignable"
	ModeSubtype    = "subtype"
)

// Decl declares a named type, enum or value visible to every expression of
// the fixture.
type Decl struct {
	Name   string   `toml:"name" validate:"required"`
	Params []string `toml:"params"`
	Type   string   `toml:"type" validate:"required_unless=Kind enum"`
	Kind   string   `toml:"kind" validate:"omitempty,oneof=alias enum value"`
	// Members lists enum members as `Name` or `Name = literal`. Members
	// without a value continue numbering from the previous numeric member.
	Members []string `toml:"members" validate:"required_if=Kind enum"`
}

// Assert checks a relation between two types.
type Assert struct {
	Name   string `toml:"name"`
	Source string `toml:"source" validate:"required"`
	Target string `toml:"target" validate:"required"`
	Mode   string `toml:"mode" validate:"omitempty,oneof=assignable subtype"`
	Expect bool   `toml:"expect"`
}

// Eval checks the evaluated form of a type.
type Eval struct {
	Name   string `toml:"name"`
	Type   string `toml:"type" validate:"required"`
	Expect string `toml:"expect" validate:"required"`
}

// Infer checks the substitution inferred for a call of a generic signature
// and optionally the instantiated return type.
type Infer struct {
	Name       string            `toml:"name"`
	Signature  string            `toml:"signature" validate:"required"`
	Args       []string          `toml:"args"`
	Contextual string            `toml:"contextual"`
	Expect     map[string]string `toml:"expect"`
	Return     string            `toml:"return"`
}

// Fixture is one decoded fixture file.
type Fixture struct {
	Path        string         `toml:"-"`
	Description string         `toml:"description"`
	NoPrelude   bool           `toml:"no_prelude"`
	Options     toml.Primitive `toml:"options"`
	Decls       []Decl         `toml:"decl" validate:"dive"`
	Asserts     []Assert       `toml:"assert" validate:"dive"`
	Evals       []Eval         `toml:"eval" validate:"dive"`
	Infers      []Infer        `toml:"infer" validate:"dive"`

	// Config is base with the file's [options] applied.
	Config config.Options `toml:"-" validate:"-"`
}

// Cases reports the number of checks in the fixture.
func (f *Fixture) Cases() int {
	return len(f.Asserts) + len(f.Evals) + len(f.Infers)
}

var validate = validator.New()

// Decode parses a fixture from data. base supplies option values the file
// does not override.
func Decode(path string, data []byte, base config.Options) (*Fixture, error) {
	fx := &Fixture{Path: path}
	meta, err := toml.Decode(string(data), fx)
	if err != nil {
		return nil, diag.NewError(diag.FixDecode, diag.Span{File: path}, err.Error())
	}
	fx.Config = base
	if meta.IsDefined("options") {
		if err := meta.PrimitiveDecode(fx.Options, &fx.Config); err != nil {
			return nil, diag.NewError(diag.FixDecode, diag.Span{File: path}, fmt.Sprintf("options: %v", err))
		}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, diag.NewError(diag.FixDecode, diag.Span{File: path}, fmt.Sprintf("unknown key %q", undecoded[0].String()))
	}
	if err := validate.Struct(fx); err != nil {
		return nil, diag.NewError(diag.FixDecode, diag.Span{File: path}, describe(err))
	}
	if err := config.Validate(&fx.Config); err != nil {
		return nil, diag.NewError(diag.CfgInvalid, diag.Span{File: path}, err.Error())
	}
	for i := range fx.Decls {
		if fx.Decls[i].Kind == "" {
			fx.Decls[i].Kind = KindAlias
		}
	}
	for i := range fx.Asserts {
		if fx.Asserts[i].Mode == "" {
			fx.Asserts[i].Mode = ModeAssignable
		}
	}
	return fx, nil
}

// Load reads and decodes the fixture at path.
func Load(path string, base config.Options) (*Fixture, error) {
	// #nosec G304 -- fixture paths are supplied by the developer
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, diag.NewError(diag.FixRead, diag.Span{File: path}, err.Error())
	}
	return Decode(path, data, base)
}

func describe(err error) string {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err.Error()
	}
	fe := valErrs[0]
	return fmt.Sprintf("%s: failed %q constraint", fe.Namespace(), fe.Tag())
}
