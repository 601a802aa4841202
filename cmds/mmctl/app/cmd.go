package app

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/mandelsoft/goutils/general"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/spf13/cobra"

	"github.com/mandelsoft/emodel/pkg/encoding/formats"
	"github.com/mandelsoft/emodel/pkg/metamodel"
	"github.com/mandelsoft/emodel/pkg/metamodel/ecore"
	"github.com/mandelsoft/emodel/pkg/store"
)

type Options struct {
	dir        string
	config     string
	metamodels []string
	fs         vfs.FileSystem

	cfg      *Config
	cfgErr   error
	registry *metamodel.Registry
	store    *store.Store
	loaded   []*metamodel.Package
}

// Store provides the store for the working directory with
// all requested metamodels loaded.
func (o *Options) Store() (*store.Store, error) {
	if o.store != nil {
		return o.store, nil
	}

	if o.cfgErr != nil {
		return nil, o.cfgErr
	}
	cfg := o.cfg
	if o.config != "" {
		add, err := ReadConfig(o.fs, o.config)
		if err != nil {
			return nil, err
		}
		merged := *o.cfg
		merged.Metamodels = slices.Clone(o.cfg.Metamodels)
		MergeConfig(&merged, add)
		cfg = &merged
	}
	dir := o.dir
	if dir == "" && cfg.Dir != nil {
		dir = *cfg.Dir
	}
	if dir == "" {
		dir = "."
	}

	o.registry = ecore.NewRegistry()
	s, err := store.NewSpecification(dir, o.fs).Create(o.registry, formats.New())
	if err != nil {
		return nil, err
	}
	for _, m := range slices.Concat(cfg.Metamodels, o.metamodels) {
		pkgs, err := s.LoadMetamodel(m)
		if err != nil {
			return nil, fmt.Errorf("metamodel %q: %w", m, err)
		}
		o.loaded = append(o.loaded, pkgs...)
	}
	o.store = s
	o.cfg = cfg
	return s, nil
}

// OutputName adds the extension of the configured default format
// to names without extension.
func (o *Options) OutputName(name string) string {
	if filepath.Ext(name) != "" || o.cfg.Format == nil {
		return name
	}
	if f := formats.Default().Get(*o.cfg.Format); f != nil {
		return name + f.Extensions()[0]
	}
	return name
}

func TweakCommand(cmd *cobra.Command) {
	cmd.SilenceUsage = true
	cmd.DisableFlagsInUseLine = true
}

func New(fss ...vfs.FileSystem) *cobra.Command {
	opts := &Options{
		fs: general.OptionalDefaulted(vfs.FileSystem(osfs.OsFs), fss...),
	}
	opts.cfg, opts.cfgErr = GetConfig(opts.fs)

	maincmd := &cobra.Command{
		Use:   "mmctl <options> <cmd> <args>",
		Short: "handle metamodels and model instances",
		Long: `
This command can be used to define metamodels, inspect them and
convert, generate and validate model instances conforming to them.
All file names are relative to the working directory (option --dir).
`,
		Run:              nil,
		TraverseChildren: true,
	}
	TweakCommand(maincmd)

	flags := maincmd.Flags()

	flags.StringVarP(&opts.dir, "dir", "d", "", "working directory")
	flags.StringVarP(&opts.config, "config", "", "", "config file")
	flags.StringArrayVarP(&opts.metamodels, "metamodel", "m", nil, "metamodel file (.ecore or .hcl)")

	maincmd.AddCommand(NewDefine(opts))
	maincmd.AddCommand(NewInspect(opts))
	maincmd.AddCommand(NewConvert(opts))
	maincmd.AddCommand(NewGenerate(opts))
	maincmd.AddCommand(NewValidate(opts))
	maincmd.AddCommand(NewList(opts))
	return maincmd
}
