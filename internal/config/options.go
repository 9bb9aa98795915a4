// Package config holds solver session options and the tsolve.toml file
// that carries them.
package config

// Options are fixed when a solver session is constructed and never re-read.
type Options struct {
	StrictNullChecks         bool `toml:"strict_null_checks" schema:"strict_null_checks"`
	StrictFunctionTypes      bool `toml:"strict_function_types" schema:"strict_function_types"`
	NoUncheckedIndexedAccess bool `toml:"no_unchecked_indexed_access" schema:"no_unchecked_indexed_access"`

	MaxSubtypeDepth             uint32 `toml:"max_subtype_depth" schema:"max_subtype_depth" validate:"gte=1,lte=100000"`
	MaxTemplateLiteralExpansion uint32 `toml:"max_template_literal_expansion" schema:"max_template_literal_expansion" validate:"gte=1"`
	MaxEvaluationDepth          uint32 `toml:"max_evaluation_depth" schema:"max_evaluation_depth" validate:"gte=1,lte=100000"`
	MaxInstantiationDepth       uint32 `toml:"max_instantiation_depth" schema:"max_instantiation_depth" validate:"gte=1,lte=100000"`
	MaxIterations               uint32 `toml:"max_iterations" schema:"max_iterations" validate:"gte=1"`
	MaxUnionDistribution        uint32 `toml:"max_union_distribution" schema:"max_union_distribution" validate:"gte=1"`
}

// Default values. The depth limits follow the recursion profiles of the
// reference checker; the template cap matches its literal-expansion limit.
const (
	DefaultMaxSubtypeDepth             = 100
	DefaultMaxTemplateLiteralExpansion = 100_000
	DefaultMaxEvaluationDepth          = 50
	DefaultMaxInstantiationDepth       = 50
	DefaultMaxIterations               = 100_000
	DefaultMaxUnionDistribution        = 10_000
)

// Default returns strict options with the default limits.
func Default() Options {
	return Options{
		StrictNullChecks:            true,
		StrictFunctionTypes:         true,
		NoUncheckedIndexedAccess:    false,
		MaxSubtypeDepth:             DefaultMaxSubtypeDepth,
		MaxTemplateLiteralExpansion: DefaultMaxTemplateLiteralExpansion,
		MaxEvaluationDepth:          DefaultMaxEvaluationDepth,
		MaxInstantiationDepth:       DefaultMaxInstantiationDepth,
		MaxIterations:               DefaultMaxIterations,
		MaxUnionDistribution:        DefaultMaxUnionDistribution,
	}
}
