package solver

import (
	"fmt"

	"tsolve/internal/config"
	"tsolve/internal/diag"
	"tsolve/internal/trace"
	"tsolve/internal/types"
)

// Options configure a session.
type Options struct {
	Config   config.Options
	Resolver Resolver
	Reporter diag.Reporter
	Tracer   trace.Tracer
	// Namer renders declarations in trace output and diagnostics.
	Namer types.DefNamer
}

// Session holds the interner together with every cache keyed by TypeID.
// Because the interner is append-only, caches are never invalidated; they are
// dropped with the session.
type Session struct {
	in       *types.Interner
	b        types.Builtins
	opts     config.Options
	resolver Resolver
	reporter diag.Reporter
	tracer   trace.Tracer
	namer    types.DefNamer

	relations  map[relKey]bool
	evaluated  map[types.TypeID]types.TypeID
	defs       map[types.DefID]types.TypeID
	expansions map[types.TypeID]types.TypeID
	free       map[types.TypeID][]types.TypeID
	unresolved map[types.DefID]struct{}
	apparent   map[types.Kind]types.TypeID

	guard      *relationGuard
	evalActive map[types.TypeID]struct{}
	evalDepth  int
	instDepth  int
	iterations uint32
	queryDepth int
	span       uint64
}

// NewSession creates a session over in. The session installs itself as the
// interner's subtype oracle so union normalization can absorb unit members.
func NewSession(in *types.Interner, opts Options) *Session {
	if opts.Resolver == nil {
		opts.Resolver = NopResolver{}
	}
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	cfg := opts.Config
	if cfg.MaxSubtypeDepth == 0 {
		cfg = config.Default()
	}
	s := &Session{
		in:         in,
		b:          in.Builtins(),
		opts:       cfg,
		resolver:   opts.Resolver,
		reporter:   opts.Reporter,
		tracer:     opts.Tracer,
		namer:      opts.Namer,
		relations:  make(map[relKey]bool, 256),
		evaluated:  make(map[types.TypeID]types.TypeID, 64),
		defs:       make(map[types.DefID]types.TypeID),
		expansions: make(map[types.TypeID]types.TypeID),
		free:       make(map[types.TypeID][]types.TypeID),
		unresolved: make(map[types.DefID]struct{}),
		apparent:   make(map[types.Kind]types.TypeID),
		guard:      newRelationGuard(int(cfg.MaxSubtypeDepth)),
		evalActive: make(map[types.TypeID]struct{}),
	}
	in.SetDistributionLimit(int(cfg.MaxUnionDistribution))
	in.SetOracle(oracle{s: s})
	return s
}

// Interner returns the session's interner.
func (s *Session) Interner() *types.Interner { return s.in }

// Options returns the configuration the session was built with.
func (s *Session) Options() config.Options { return s.opts }

// Label renders id using the session's declaration names.
func (s *Session) Label(id types.TypeID) string {
	return types.LabelWith(s.in, s.namer, id)
}

// oracle adapts the session to types.SubtypeOracle.
type oracle struct{ s *Session }

func (o oracle) IsSubtypeOf(source, target types.TypeID) bool {
	if o.s.queryDepth == 0 {
		o.s.iterations = 0
	}
	return o.s.related(source, target, ModeSubtype)
}

// begin opens a query. Counters reset only for outermost queries so that a
// nested query (an evaluation inside a relation) shares its caller's budget.
func (s *Session) begin(name string, args ...types.TypeID) func(detail string) {
	s.queryDepth++
	if s.queryDepth > 1 {
		return func(string) { s.queryDepth-- }
	}
	s.iterations = 0
	var span *trace.Span
	if s.tracer.Enabled() {
		detail := name
		for _, a := range args {
			detail += " " + s.Label(a)
		}
		span = trace.Begin(s.tracer, trace.ScopeQuery, detail, 0)
		s.span = span.ID()
	}
	return func(detail string) {
		s.queryDepth--
		if span != nil {
			span.End(detail)
			s.span = 0
		}
	}
}

// degrade records a conservative fallback.
func (s *Session) degrade(code diag.Code, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	diag.ReportWarning(s.reporter, code, diag.Span{}, msg).Emit()
	trace.Point(s.tracer, trace.ScopeRelation, code.ID(), msg, s.span)
}

// tick counts one unit of relation or evaluation work and reports whether
// the per-query budget still allows more.
func (s *Session) tick() bool {
	s.iterations++
	if s.iterations == s.opts.MaxIterations+1 {
		s.degrade(diag.SolverIterationLimit, "iteration limit %d reached", s.opts.MaxIterations)
	}
	return s.iterations <= s.opts.MaxIterations
}
