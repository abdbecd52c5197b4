package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/toyz/lifecycle/internal/cli"
	"github.com/toyz/lifecycle/internal/errors"
	"github.com/toyz/lifecycle/internal/utils"
)

const longDescription = `lifecyclegen scans Go packages for types marked with //lifecycle::participant
and writes one adapter per marked type into a single namespace package, plus a
manifest listing them all.

Each adapter registers itself with lifecycle.DefaultCatalog when its package is
linked in, so a lifecycle.Registry can discover it by name. The manifest's
Register function adds the same adapters through the injection path instead.`

const examples = `  lifecyclegen ./...                          # Scan everything recursively
  lifecyclegen ./internal/...                 # Scan internal directory recursively
  lifecyclegen ./internal/db ./internal/cache # Scan specific directories only
  lifecyclegen --out ./internal/hooks --namespace hooks ./...
  lifecyclegen --module github.com/myorg/myapp ./...
  lifecyclegen --clean                        # Delete every generated file`

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "lifecyclegen [flags] <directory-paths...>",
		Short:         "Generate lifecycle participant adapters",
		Long:          longDescription,
		Example:       examples,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, configPath, args, out, errOut)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "config file (default is ./"+cli.ConfigFileName+".yaml)")
	flags.String("module", "", "custom module path for imports (defaults to the go.mod module)")
	flags.String("out", cli.DefaultOutDir, "directory of the generated namespace package")
	flags.String("namespace", "", "package name of the generated adapters")
	flags.String("prefix", "", "prefix of every adapter type name")
	flags.String("suffix", "", "suffix of every adapter type name")
	flags.BoolP("verbose", "v", false, "enable verbose output and detailed error reporting")
	flags.BoolP("quiet", "q", false, "only show errors")
	flags.Bool("clean", false, "delete every generated file from the output directory")

	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd
}

func run(cmd *cobra.Command, configPath string, args []string, out, errOut io.Writer) error {
	v := cli.NewViper(configPath)
	for _, name := range []string{"module", "out", "namespace", "prefix", "suffix", "verbose", "quiet", "clean"} {
		// only flags given on the command line override env and file values
		if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
			if err := v.BindPFlag(name, flag); err != nil {
				return err
			}
		}
	}

	config, err := cli.LoadConfig(v, configPath, args)
	if err != nil {
		diagnostics := utils.NewDiagnosticSystem(utils.DiagnosticError)
		diagnostics.SetOutput(out, errOut)
		diagnostics.Report(err)
		return err
	}

	diagnostics := newDiagnostics(config)
	diagnostics.SetOutput(out, errOut)

	if config.Clean {
		removed, err := cli.NewCleaner().CleanGeneratedFiles(config)
		if err != nil {
			diagnostics.Report(err)
			return err
		}
		for _, path := range removed {
			diagnostics.Verbose("Removed %s", path)
		}
		diagnostics.Success("Removed %d generated files from %s", len(removed), config.OutDir)
		return nil
	}

	generator := cli.NewGenerator(diagnostics)
	if err := generator.Run(config); err != nil {
		// isolated emission failures were already reported one by one
		if !errors.CodeOf(err).IsFatal() {
			var failures *errors.EmissionErrors
			if errors.As(err, &failures) {
				diagnostics.Error("%d of %d adapters could not be emitted", failures.Count(), generator.Summary().ParticipantsFound)
			}
			return err
		}
		diagnostics.Report(err)
		return fmt.Errorf("generation failed: %w", err)
	}

	return nil
}

func newDiagnostics(config cli.Config) *utils.DiagnosticSystem {
	switch {
	case config.Quiet:
		return utils.NewQuietDiagnostics()
	case config.Verbose:
		return utils.NewVerboseDiagnostics()
	default:
		return utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
}
