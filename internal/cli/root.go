// Package cli defines the md-math-fixer command tree. The commands are
// thin wrappers: they load configuration, build the ruleset once, and
// hand everything to the editor and watcher packages.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Gongzihang6/md-math-fixer/internal/config"
	"github.com/Gongzihang6/md-math-fixer/internal/logger"
	"github.com/Gongzihang6/md-math-fixer/internal/mathspan"
	"github.com/Gongzihang6/md-math-fixer/internal/types"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// rootOptions holds global CLI flags.
type rootOptions struct {
	configPath string
	logLevel   string
	verbose    bool
}

// cliContext carries the initialized dependencies through the command tree.
type cliContext struct {
	cfg   *types.Config
	rules *mathspan.Ruleset
}

// cliContextKey is the context key for cliContext.
type cliContextKey struct{}

// NewRootCommand creates the root command with global flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "md-math-fixer",
		Short: "Detect and annotate probable math expressions in Markdown",
		Long: "md-math-fixer heuristically detects probable math expressions written as\n" +
			"plain text in Markdown documents, wraps them in $...$ with a ==...==\n" +
			"highlight for human review, and can clean or undo the rewrite.\n" +
			"Code blocks, inline code and existing math spans are never touched.",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file path (default: ~/.config/md-math-fixer/md-math-fixer-config.json)")
	pf.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")

	cmd.AddCommand(
		newTransformCmd(types.ModeHighlight, "add $ delimiters and review highlights to detected math"),
		newTransformCmd(types.ModeClean, "remove review highlights, keep $ delimiters"),
		newTransformCmd(types.ModeUndo, "revert highlighted edits to the original text"),
		newTransformCmd(types.ModeNormalize, "compact interior spacing of inline math spans"),
		newWatchCmd(),
	)

	return cmd
}

// persistentPreRun initializes config, logger and ruleset, then stores
// the cliContext on the command.
func persistentPreRun(cmd *cobra.Command, opts *rootOptions) error {
	level := logger.ParseLevel(opts.logLevel)
	if opts.verbose {
		level = logger.LevelDebug
	}

	mgr, err := config.NewConfigManager(opts.configPath)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}
	if err := mgr.Load(); err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	cfg := mgr.GetConfig()

	logCfg := logger.DefaultConfig()
	logCfg.Level = level
	// The config file level applies only when the flag was not given;
	// an explicit --log-level always wins, even at the default value.
	if !cmd.Flags().Changed("log-level") && !opts.verbose {
		logCfg.Level = logger.ParseLevel(cfg.LogLevel)
	}
	logCfg.LogFilePath = cfg.LogFilePath
	if err := logger.Init(logCfg); err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	rules := mathspan.NewRuleset(mathspan.Options{
		MarkerStart:    cfg.MarkerStart,
		MarkerEnd:      cfg.MarkerEnd,
		ExtraMathVars:  cfg.ExtraMathVars,
		ExtraStopwords: cfg.ExtraStopwords,
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, &cliContext{
		cfg:   cfg,
		rules: rules,
	}))

	return nil
}

// getCLIContext extracts the cliContext from a command's context.
func getCLIContext(cmd *cobra.Command) (*cliContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, types.NewAppError(types.ErrInternal, "command context is nil", nil)
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*cliContext)
	if !ok || cliCtx == nil {
		return nil, types.NewAppError(types.ErrInternal, "CLI context not initialized", nil)
	}
	return cliCtx, nil
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %s\n", err.Error())
		return err
	}

	return nil
}
