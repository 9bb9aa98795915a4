package fixture

import (
	"tsolve/internal/diag"
	"tsolve/internal/solver"
	"tsolve/internal/trace"
	"tsolve/internal/types"
)

// Program is a fixture's declarations read into a fresh interner, together
// with the solver session that answers queries over them.
//
// Every expression must be parsed before the session is started: the
// session installs itself as the interner's union oracle, and unions built
// while declarations are still being read must not consult it.
type Program struct {
	Fixture  *Fixture
	Interner *types.Interner
	Table    *Table

	session *solver.Session
}

// NewProgram declares the fixture's declarations, after the prelude unless
// the fixture opts out.
func NewProgram(fx *Fixture) (*Program, error) {
	in := types.NewInterner()
	in.SetDistributionLimit(int(fx.Config.MaxUnionDistribution))
	table := NewTable(in, fx.Path)
	decls := fx.Decls
	if !fx.NoPrelude {
		decls = withPrelude(decls)
	}
	if err := table.Declare(decls); err != nil {
		return nil, err
	}
	return &Program{Fixture: fx, Interner: in, Table: table}, nil
}

// Parse reads a type expression against the program's declarations.
func (p *Program) Parse(src string) (types.TypeID, error) {
	return p.Table.Reader().Type(src)
}

// Start creates the program's session. Later calls return the same session
// and ignore their arguments.
func (p *Program) Start(tracer trace.Tracer, reporter diag.Reporter) *solver.Session {
	if p.session == nil {
		p.session = solver.NewSession(p.Interner, solver.Options{
			Config:   p.Fixture.Config,
			Resolver: p.Table,
			Reporter: reporter,
			Tracer:   tracer,
			Namer:    p.Table,
		})
	}
	return p.session
}

// Label renders id with declaration names.
func (p *Program) Label(id types.TypeID) string {
	return types.LabelWith(p.Interner, p.Table, id)
}
