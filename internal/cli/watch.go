package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Gongzihang6/md-math-fixer/internal/editor"
	"github.com/Gongzihang6/md-math-fixer/internal/types"
	"github.com/Gongzihang6/md-math-fixer/internal/watcher"
)

// newWatchCmd builds the watch subcommand: keep a file's inline math
// spacing normalized while it is being edited.
func newWatchCmd() *cobra.Command {
	var backup bool

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "re-normalize inline math whenever the file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], backup)
		},
	}

	// Off by default: a backup per keystroke-save would pile up fast.
	cmd.Flags().BoolVar(&backup, "backup", false, "create a backup before each write")

	return cmd
}

func runWatch(cmd *cobra.Command, path string, backup bool) error {
	cliCtx, err := getCLIContext(cmd)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: file %s does not exist\n", path)
		return nil
	}

	processor := editor.NewFileProcessor(cliCtx.rules, editor.ProcessOptions{
		Backup:          backup,
		BackupKeepCount: cliCtx.cfg.BackupKeepCount,
		WriteBack:       true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (normalize mode), Ctrl-C to stop...\n", path)

	w := watcher.New(path, processor)
	if err := w.Run(ctx); err != nil {
		return types.NewAppError(types.ErrWatch, "watch failed", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Watch stopped.")
	return nil
}
