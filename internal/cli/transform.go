package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Gongzihang6/md-math-fixer/internal/editor"
	"github.com/Gongzihang6/md-math-fixer/internal/logger"
	"github.com/Gongzihang6/md-math-fixer/internal/types"
)

// transformOptions holds the per-command write-back flags.
type transformOptions struct {
	backup   bool
	stdout   bool
	encoding string
}

// newTransformCmd builds one of the four file-transform subcommands.
// They differ only in the mode handed to the processor.
func newTransformCmd(mode types.Mode, short string) *cobra.Command {
	opts := &transformOptions{}

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s <file>", mode),
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(cmd, args[0], mode, opts)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.backup, "backup", true, "create a backup before overwriting the file")
	f.BoolVar(&opts.stdout, "stdout", false, "print the result instead of writing the file back")
	f.StringVar(&opts.encoding, "encoding", "", "force output encoding (UTF-8, UTF-8-BOM, GBK, UTF-16LE, UTF-16BE)")

	return cmd
}

// runTransform applies one mode to one file and prints its status line.
// A missing input file is a handled condition: reported, no write, no
// non-zero exit.
func runTransform(cmd *cobra.Command, path string, mode types.Mode, opts *transformOptions) error {
	cliCtx, err := getCLIContext(cmd)
	if err != nil {
		return err
	}

	procOpts := editor.ProcessOptions{
		Backup:          opts.backup && cliCtx.cfg.BackupEnabled && !opts.stdout,
		BackupKeepCount: cliCtx.cfg.BackupKeepCount,
		WriteBack:       !opts.stdout,
		ForceEncoding:   opts.encoding,
	}
	processor := editor.NewFileProcessor(cliCtx.rules, procOpts)

	fmt.Fprintf(cmd.OutOrStdout(), "Processing %s... (%s mode)\n", path, mode)

	result, err := processor.ProcessFile(path, mode)
	if err != nil {
		var appErr *types.AppError
		if errors.As(err, &appErr) && appErr.Code == types.ErrFileNotFound {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: file %s does not exist\n", path)
			return nil
		}
		return err
	}

	if opts.stdout {
		fmt.Fprint(cmd.OutOrStdout(), result.Output)
		return nil
	}

	if result.Backup != "" {
		logger.Debug("backup written", logger.String("backup", result.Backup))
	}
	fmt.Fprintln(cmd.OutOrStdout(), editor.StatusLine(mode))

	return nil
}
