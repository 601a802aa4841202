package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/mandelsoft/emodel/pkg/metamodel"
)

type Inspect struct {
	cmd *cobra.Command

	mainopts *Options
	output   string
	nocolor  bool
}

func NewInspect(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect {<metamodel file>} <options>",
		Short: "show the classes and features of metamodels",
		Long: `
Show the metamodels given as arguments. Without arguments the
metamodels loaded with option --metamodel are shown.
`,
	}
	TweakCommand(cmd)

	c := &Inspect{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args) }
	flags := cmd.Flags()
	flags.StringVarP(&c.output, "output", "o", "", "output format (yaml, json)")
	flags.BoolVarP(&c.nocolor, "no-color", "", false, "disable colored output")
	return cmd
}

func (c *Inspect) Run(args []string) error {
	s, err := c.mainopts.Store()
	if err != nil {
		return err
	}

	pkgs := c.mainopts.loaded
	if len(args) > 0 {
		pkgs = nil
		for _, a := range args {
			list, err := s.LoadMetamodel(a)
			if err != nil {
				return err
			}
			pkgs = append(pkgs, list...)
		}
	}
	if len(pkgs) == 0 {
		return fmt.Errorf("no metamodel given")
	}

	w := c.cmd.OutOrStdout()
	switch strings.ToLower(strings.TrimSpace(c.output)) {
	case "":
		for _, p := range pkgs {
			c.print(w, p)
		}
	case "yaml", "json":
		var specs []metamodel.PackageSpecification
		for _, p := range pkgs {
			specs = append(specs, p.Specification())
		}
		data, err := yaml.Marshal(specs)
		if err != nil {
			return err
		}
		if c.output == "json" {
			data, err = yaml.YAMLToJSON(data)
			if err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s\n", string(data))
	default:
		return fmt.Errorf("unknown output format %q", c.output)
	}
	return nil
}

func (c *Inspect) print(w io.Writer, p *metamodel.Package) {
	head := color.New(color.FgCyan, color.Bold)
	class := color.New(color.FgGreen)
	typ := color.New(color.FgYellow)
	if c.nocolor {
		head.DisableColor()
		class.DisableColor()
		typ.DisableColor()
	}

	fmt.Fprintf(w, "%s %s (%s)\n", head.Sprint("package"), p.Name(), p.URI())
	for _, cls := range p.Classes() {
		line := "  " + class.Sprint(cls.Name())
		if cls.IsAbstract() {
			line += " (abstract)"
		}
		if s := cls.Super(); s != nil {
			line += " extends " + s.Name()
		}
		fmt.Fprintln(w, line)
		for _, f := range cls.Features() {
			var t string
			if f.IsAttribute() {
				t = f.DataType().Name()
			} else {
				t = f.Target().Name()
			}
			var flags []string
			if f.IsContainment() {
				flags = append(flags, "containment")
			}
			if f.IsMany() {
				flags = append(flags, "many")
			}
			if f.IsID() {
				flags = append(flags, "id")
			}
			line := fmt.Sprintf("    - %s %s: %s", f.Kind(), f.Name(), typ.Sprint(t))
			if len(flags) > 0 {
				line += " [" + strings.Join(flags, ", ") + "]"
			}
			fmt.Fprintln(w, line)
		}
	}
}
