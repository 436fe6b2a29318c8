// Package cli implements the acp command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/acp/internal/logging"
	"github.com/mesh-intelligence/acp/internal/paths"
	"github.com/mesh-intelligence/acp/pkg/apkg"
	"github.com/mesh-intelligence/acp/pkg/types"
)

// exitFailure is the process status for any error.
const exitFailure = 1

// errSamePath rejects writing a package over its own input.
var errSamePath = fmt.Errorf("%w: output path is the input path", types.ErrIO)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	input        string
	output       string
	configDir    string
	workspaceDir string
	verbose      bool
}

// app carries the state resolved before a command runs.
type app struct {
	flags     rootFlags
	configDir string
	cfg       types.Config
	logger    *slog.Logger
}

// NewRootCmd creates the top-level "acp" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: logging.NewNop()}

	root := &cobra.Command{
		Use:   "acp",
		Short: "Read and rewrite Anki collection packages",
		Long: "acp opens an .apkg collection package, reports what it holds and\n" +
			"writes it back out, optionally to a new path.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runRoot,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.input, "input", "i", "", "collection package to read")
	pf.StringVarP(&a.flags.output, "output", "o", "", "path to write the package to")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log at debug level")
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.workspaceDir, "workspace-dir", "", "parent directory for extraction workspaces (default: system temp)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newInspectCmd(a))
	root.AddCommand(newDumpCmd(a))

	return root
}

// Execute runs the root command and exits non-zero on failure, printing the
// error kind and message to stderr.
func Execute(ctx context.Context) {
	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "acp: %s: %v\n", types.Kind(err), err)
		os.Exit(exitFailure)
	}
}

// setup resolves the config directory, reads config.yaml and builds the
// logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	dir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("%w: resolve config dir: %w", types.ErrIO, err)
	}
	a.configDir = dir

	cfg, err := loadConfig(dir)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.flags.verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{
		Level:  level,
		Format: cfg.LogFormat,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrMalformedDocument, err)
	}
	a.logger = logging.NewComponentLogger(logger, "cli")
	return nil
}

// openInput opens the package named by --input.
func (a *app) openInput(ctx context.Context) (*apkg.Package, error) {
	if a.flags.input == "" {
		return nil, fmt.Errorf("%w: no input package (use --input)", types.ErrNotFound)
	}
	ws, err := paths.ResolveWorkspaceDir(a.flags.workspaceDir, a.cfg.WorkspaceDir)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve workspace dir: %w", types.ErrIO, err)
	}
	return apkg.Open(ctx, a.flags.input,
		apkg.WithWorkspaceDir(ws),
		apkg.WithLogger(a.logger),
	)
}

func (a *app) runRoot(cmd *cobra.Command, _ []string) error {
	if a.flags.input == "" {
		return cmd.Help()
	}
	if a.flags.output != "" {
		same, err := samePath(a.flags.input, a.flags.output)
		if err != nil {
			return err
		}
		if same {
			return fmt.Errorf("%w: %s", errSamePath, a.flags.output)
		}
	}

	p, err := a.openInput(cmd.Context())
	if err != nil {
		return err
	}
	s := summarize(a.flags.input, p)
	a.logger.Info("package opened",
		logging.String("path", s.Path),
		logging.Int("models", len(s.Models)),
		logging.Int("decks", len(s.Decks)),
		logging.Int("notes", s.Notes),
		logging.Int("cards", s.Cards),
		logging.Int("media", s.Media),
	)
	for _, problem := range s.Problems {
		a.logger.Warn("collection check", logging.String("problem", problem))
	}

	if a.flags.output == "" {
		return p.Close()
	}
	if err := p.Save(cmd.Context(), a.flags.output); err != nil {
		return err
	}
	a.logger.Info("package written", logging.String("path", a.flags.output))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", a.flags.output)
	return nil
}

// samePath reports whether two paths name the same file, either textually
// after cleaning or, when both exist, by identity.
func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, fmt.Errorf("%w: %w", types.ErrIO, err)
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, fmt.Errorf("%w: %w", types.ErrIO, err)
	}
	if absA == absB {
		return true, nil
	}
	infoA, errA := os.Stat(absA)
	infoB, errB := os.Stat(absB)
	if errA != nil || errB != nil {
		if errB != nil && !errors.Is(errB, os.ErrNotExist) {
			return false, fmt.Errorf("%w: stat %s: %w", types.ErrIO, b, errB)
		}
		return false, nil
	}
	return os.SameFile(infoA, infoB), nil
}
