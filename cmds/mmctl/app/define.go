package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mandelsoft/emodel/pkg/metamodel/hclschema"
)

type Define struct {
	cmd *cobra.Command

	mainopts *Options
}

func NewDefine(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "define <schema" + hclschema.EXTENSION + "> [<metamodel file>]",
		Short: "compile an HCL schema into an Ecore metamodel file",
		Args:  cobra.RangeArgs(1, 2),
	}
	TweakCommand(cmd)

	c := &Define{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args) }
	return cmd
}

func (c *Define) Run(args []string) error {
	s, err := c.mainopts.Store()
	if err != nil {
		return err
	}
	pkgs, err := s.LoadMetamodel(args[0])
	if err != nil {
		return err
	}
	p := pkgs[0]

	out := p.Name() + ".ecore"
	if len(args) > 1 {
		out = args[1]
	}
	if err := s.SaveMetamodel(out, p); err != nil {
		return err
	}
	fmt.Fprintf(c.cmd.OutOrStdout(), "package %s (%s) written to %s\n", p.Name(), p.URI(), out)
	return nil
}
