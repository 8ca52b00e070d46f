package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TechXTT/entitygen/pkg/config"
	"github.com/TechXTT/entitygen/pkg/generator"
	"github.com/TechXTT/entitygen/pkg/internal/introspect"
	"github.com/TechXTT/entitygen/pkg/internal/render"
	"github.com/TechXTT/entitygen/pkg/runtime"
)

type flags struct {
	port        int
	lang        string
	namespace   string
	collections bool
	configFile  string
	envFile     string
}

func (f *flags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVar(&f.port, "port", config.DefaultPort, "MySQL port")
	fs.StringVar(&f.lang, "lang", config.LangPHP, "output language: php or go")
	fs.StringVar(&f.namespace, "namespace", render.DefaultNamespace, "PHP namespace of the entities")
	fs.BoolVar(&f.collections, "collections", false, "declare ArrayCollection placeholders per referenced table")
	fs.StringVar(&f.configFile, "config", "", "YAML configuration file")
	fs.StringVar(&f.envFile, "env-file", "", ".env file to load (default \".env\")")
}

// load resolves the configuration: defaults, YAML file, environment,
// explicitly set flags, then positionals.
func (f flags) load(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.Default()
	if f.configFile != "" {
		if err := cfg.LoadFile(f.configFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.LoadEnv(f.envFile); err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("port") {
		cfg.Port = f.port
	}
	if changed("lang") {
		cfg.Lang = f.lang
	}
	if changed("namespace") {
		cfg.Namespace = f.namespace
	}
	if changed("collections") {
		cfg.Collections = f.collections
	}

	if err := cfg.ApplyArgs(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newRenderer(cfg *config.Config) render.Renderer {
	if cfg.Lang == config.LangGo {
		return render.NewGoRenderer(cfg.OutDir)
	}
	r := render.NewDoctrineRenderer()
	if cfg.Namespace != "" {
		r.Namespace = cfg.Namespace
	}
	if cfg.RepositoryNamespace != "" {
		r.RepositoryNamespace = cfg.RepositoryNamespace
	}
	r.CollectionPlaceholders = cfg.Collections
	return r
}

func generate(cmd *cobra.Command, args []string, f flags, connect Connector) error {
	cfg, err := f.load(cmd, args)
	if err != nil {
		return fmt.Errorf("%w: %v", generator.ErrUsage, err)
	}

	ctx := cmd.Context()
	db, err := connect(ctx, runtime.DriverName, cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = generator.Run(ctx, generator.Options{
		OutDir:       cfg.OutDir,
		Introspector: introspect.New(db, cfg.Database),
		Renderer:     newRenderer(cfg),
		Reporter:     generator.NewConsoleReporter(cmd.OutOrStdout()),
	})
	return err
}
