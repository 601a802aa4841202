package app

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mandelsoft/emodel/pkg/encoding"
	"github.com/mandelsoft/emodel/pkg/model"
	"github.com/mandelsoft/emodel/pkg/store"
)

type Validate struct {
	cmd *cobra.Command

	mainopts *Options
}

func NewValidate(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate {<file>}",
		Short: "check that model instances load and survive a serialization round trip",
		Args:  cobra.MinimumNArgs(1),
	}
	TweakCommand(cmd)

	c := &Validate{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args) }
	return cmd
}

func (c *Validate) Run(args []string) error {
	s, err := c.mainopts.Store()
	if err != nil {
		return err
	}
	failed := 0
	for _, a := range args {
		err := c.validate(s, a)
		if err != nil {
			failed++
			fmt.Fprintf(c.cmd.OutOrStdout(), "%s: %s\n", a, err)
		} else {
			fmt.Fprintf(c.cmd.OutOrStdout(), "%s: ok\n", a)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files invalid", failed, len(args))
	}
	return nil
}

func (c *Validate) validate(s *store.Store, name string) error {
	res, err := s.Load(name)
	if err != nil {
		return err
	}
	f, err := formatFor(name)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := f.Encode(&buf, res, encoding.Options{}); err != nil {
		return err
	}
	again, err := f.Decode(&buf, s.Registry(), name)
	if err != nil {
		return fmt.Errorf("round trip: %w", err)
	}
	return model.Equal(res, again)
}
