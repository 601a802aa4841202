package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mandelsoft/emodel/pkg/encoding"
	"github.com/mandelsoft/emodel/pkg/encoding/formats"
)

type List struct {
	cmd *cobra.Command

	mainopts *Options
}

func NewList(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list the files of the working directory",
		Args:  cobra.NoArgs,
	}
	TweakCommand(cmd)

	c := &List{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args) }
	return cmd
}

func (c *List) Run(args []string) error {
	s, err := c.mainopts.Store()
	if err != nil {
		return err
	}
	list, err := s.List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintf(c.cmd.OutOrStdout(), "no files found\n")
		return nil
	}
	for _, n := range list {
		kind := "schema"
		if f, err := formatFor(n); err == nil {
			kind = f.Name()
		}
		fmt.Fprintf(c.cmd.OutOrStdout(), "%-6s %s\n", kind, n)
	}
	return nil
}

func formatFor(name string) (encoding.Format, error) {
	return formats.Default().ForPath(name)
}
