package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mandelsoft/emodel/pkg/encoding"
	"github.com/mandelsoft/emodel/pkg/metamodel"
	"github.com/mandelsoft/emodel/pkg/model"
	"github.com/mandelsoft/emodel/pkg/sample"
)

type Generate struct {
	cmd *cobra.Command

	mainopts *Options
	seed     int64
	depth    int
	values   int
	ids      bool
}

func NewGenerate(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <class> <output file> <options>",
		Short: "generate a random model instance",
		Long: `
Generate a random object graph below an instance of the given class.
The class is given by its name or as <namespace uri>#<name> and
must be defined by one of the loaded metamodels.
`,
		Args: cobra.ExactArgs(2),
	}
	TweakCommand(cmd)

	c := &Generate{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args) }
	flags := cmd.Flags()
	flags.Int64VarP(&c.seed, "seed", "s", 0, "random seed (default: current time)")
	flags.IntVarP(&c.depth, "depth", "", 3, "maximum containment depth")
	flags.IntVarP(&c.values, "values", "", 3, "maximum number of values of many valued features")
	flags.BoolVarP(&c.ids, "ids", "i", false, "use object identifiers for references")
	return cmd
}

func (c *Generate) Run(args []string) error {
	s, err := c.mainopts.Store()
	if err != nil {
		return err
	}
	cls, err := c.class(s.Registry(), args[0])
	if err != nil {
		return err
	}

	seed := c.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := sample.New(model.NewFactory(s.Registry()), seed)
	g.MaxDepth = c.depth
	g.MaxValues = c.values

	out := c.mainopts.OutputName(args[1])
	res, err := g.Generate(cls, out)
	if err != nil {
		return err
	}
	if err := s.Save(out, res, encoding.Options{UseIDs: c.ids}); err != nil {
		return err
	}
	n := 0
	for range res.AllContents() {
		n++
	}
	fmt.Fprintf(c.cmd.OutOrStdout(), "%d objects written to %s\n", n, out)
	return nil
}

func (c *Generate) class(reg *metamodel.Registry, name string) (*metamodel.Class, error) {
	if uri, n, ok := strings.Cut(name, "#"); ok {
		return reg.ResolveClass(uri, n)
	}
	var found []*metamodel.Class
	for _, p := range c.mainopts.loaded {
		if cls := p.Class(name); cls != nil {
			found = append(found, cls)
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w %q in loaded metamodels", metamodel.ErrUnknownClass, name)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("class name %q is ambiguous, use <namespace uri>#%s", name, name)
	}
}
