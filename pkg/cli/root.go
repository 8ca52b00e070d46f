package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/TechXTT/entitygen/pkg/generator"
	"github.com/TechXTT/entitygen/pkg/runtime"
)

// Version is overridden at build time with -ldflags "-X".
var Version = "v0.1.0"

const usageText = `Usage:
  entitygen <host> <dbName> <username> <password> [outputDir] [flags]

Generates one entity file per table of the given MySQL database.
outputDir defaults to ./Entity.

Flags:
      --port int           MySQL port (default 3306)
      --lang string        output language: php or go (default "php")
      --namespace string   PHP namespace of the entities (default "App\Entity")
      --collections        declare ArrayCollection placeholders per referenced table
      --config string      YAML configuration file
      --env-file string    .env file to load (default ".env")
  -h, --help               help for entitygen

Commands:
  version     Print the version number`

// Connector opens and pings the catalog.
type Connector func(ctx context.Context, driver, dsn string) (*sql.DB, error)

// NewVersionCmd builds the `version` command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "entitygen "+Version)
		},
	}
}

// NewRootCmd builds the top-level `entitygen` command.
func NewRootCmd(connect Connector) *cobra.Command {
	var opts flags
	root := &cobra.Command{
		Use:   "entitygen <host> <dbName> <username> <password> [outputDir]",
		Short: "entitygen generates ORM entities from a MySQL schema",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 4 {
				fmt.Fprintln(cmd.OutOrStdout(), usageText)
				return generator.ErrUsage
			}
			return generate(cmd, args, opts, connect)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.register(root)
	root.AddCommand(NewVersionCmd())
	return root
}

// Execute runs the command line and returns the process exit status.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return execute(ctx, args, stdout, stderr, runtime.Connect)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer, connect Connector) int {
	if args == nil {
		// cobra falls back to os.Args for nil.
		args = []string{}
	}
	root := NewRootCmd(connect)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	// The bare usage error means the usage text is already on stdout.
	if err != generator.ErrUsage {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return 1
}
