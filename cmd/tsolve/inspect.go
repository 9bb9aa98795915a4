package main

import (
	"fmt"
	"io"

	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"

	"tsolve/internal/config"
	"tsolve/internal/fixture"
	"tsolve/internal/trace"
	"tsolve/internal/types"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] <type expression>",
	Short: "Show how a type expression is interned and evaluated",
	Long: `Read a type expression against the prelude (and the declarations of
--fixture, if given), then print its descriptor and its evaluated form`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().String("fixture", "", "fixture whose declarations and options are in scope")
	inspectCmd.Flags().Bool("raw", false, "dump descriptors without side tables")
}

var descriptorDump = litter.Options{
	StripPackageNames: true,
	HidePrivateFields: true,
	HideZeroValues:    true,
}

func runInspect(cmd *cobra.Command, args []string) error {
	fixturePath, err := cmd.Flags().GetString("fixture")
	if err != nil {
		return fmt.Errorf("failed to get fixture flag: %w", err)
	}
	raw, err := cmd.Flags().GetBool("raw")
	if err != nil {
		return fmt.Errorf("failed to get raw flag: %w", err)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd, cfg.Trace)
	if err != nil {
		return err
	}
	defer cleanup()

	prog, err := openProgram(fixturePath, cfg.Solver)
	if err != nil {
		return err
	}
	id, err := prog.Parse(args[0])
	if err != nil {
		return err
	}
	s := prog.Start(trace.FromContext(cmd.Context()), nil)
	evaluated := s.Evaluate(id)

	out := cmd.OutOrStdout()
	writeDescriptor(out, "type", prog, id, raw)
	if evaluated != id {
		writeDescriptor(out, "evaluated", prog, evaluated, raw)
	}
	return nil
}

// openProgram declares the fixture at path, or only the prelude when path
// is empty.
func openProgram(path string, opts config.Options) (*fixture.Program, error) {
	fx := &fixture.Fixture{Path: "<inspect>", Config: opts}
	if path != "" {
		var err error
		if fx, err = fixture.Load(path, opts); err != nil {
			return nil, err
		}
	}
	return fixture.NewProgram(fx)
}

func writeDescriptor(out io.Writer, title string, prog *fixture.Program, id types.TypeID, raw bool) {
	in := prog.Interner
	t := in.MustLookup(id)
	fmt.Fprintf(out, "%s: %s\n", title, prog.Label(id))
	fmt.Fprintf(out, "  id %d, %s\n", id, t.Kind)
	fmt.Fprintf(out, "  %s\n", descriptorDump.Sdump(t))
	if raw {
		return
	}
	if side := sideTable(in, id); side != nil {
		fmt.Fprintf(out, "  %s\n", descriptorDump.Sdump(side))
	}
}

// sideTable returns the shape stored next to a descriptor, if any.
func sideTable(in *types.Interner, id types.TypeID) any {
	if v, ok := in.ObjectInfo(id); ok {
		return v
	}
	if v, ok := in.FnInfo(id); ok {
		return v
	}
	if v, ok := in.TupleInfo(id); ok {
		return v
	}
	if v, ok := in.MappedInfo(id); ok {
		return v
	}
	if v, ok := in.ConditionalInfo(id); ok {
		return v
	}
	if v, ok := in.TemplateInfo(id); ok {
		return v
	}
	if v, ok := in.TypeParamInfo(id); ok {
		return v
	}
	if v, ok := in.LiteralInfo(id); ok {
		return v
	}
	switch in.KindOf(id) {
	case types.KindUnion, types.KindIntersection:
		return in.Members(id)
	}
	return nil
}
