package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mandelsoft/emodel/pkg/encoding"
)

type Convert struct {
	cmd *cobra.Command

	mainopts *Options
	ids      bool
}

func NewConvert(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input file> <output file>",
		Short: "convert a model instance between serialization formats",
		Args:  cobra.ExactArgs(2),
	}
	TweakCommand(cmd)

	c := &Convert{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args) }
	flags := cmd.Flags()
	flags.BoolVarP(&c.ids, "ids", "i", false, "use object identifiers for references")
	return cmd
}

func (c *Convert) Run(args []string) error {
	s, err := c.mainopts.Store()
	if err != nil {
		return err
	}
	res, err := s.Load(args[0])
	if err != nil {
		return err
	}
	out := c.mainopts.OutputName(args[1])
	if err := s.Save(out, res, encoding.Options{UseIDs: c.ids}); err != nil {
		return err
	}
	fmt.Fprintf(c.cmd.OutOrStdout(), "%s converted to %s\n", args[0], out)
	return nil
}
