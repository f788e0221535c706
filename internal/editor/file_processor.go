package editor

import (
	"os"

	"github.com/Gongzihang6/md-math-fixer/internal/logger"
	"github.com/Gongzihang6/md-math-fixer/internal/mathspan"
	"github.com/Gongzihang6/md-math-fixer/internal/types"
)

// ProcessOptions controls how a FileProcessor handles write-back.
type ProcessOptions struct {
	// Backup creates a backup copy before overwriting a changed file.
	Backup bool
	// BackupKeepCount caps how many backups per file are retained.
	BackupKeepCount int
	// WriteBack writes the transformed content to the file. When
	// false the result is only returned (stdout mode).
	WriteBack bool
	// ForceEncoding, when non-empty, overrides the detected encoding
	// for write-back.
	ForceEncoding string
}

// DefaultProcessOptions returns the default processing options.
func DefaultProcessOptions() ProcessOptions {
	return ProcessOptions{
		Backup:          true,
		BackupKeepCount: 5,
		WriteBack:       true,
	}
}

// FileProcessor applies one transform mode to a document file. The
// transform itself is pure; the processor owns everything around it:
// encoding detection, backups, and the write-back that happens only
// after the full transform succeeded in memory.
type FileProcessor struct {
	rules   *mathspan.Ruleset
	enc     *EncodingHandler
	backups *BackupManager
	opts    ProcessOptions
}

// NewFileProcessor creates a FileProcessor around the given ruleset.
func NewFileProcessor(rules *mathspan.Ruleset, opts ProcessOptions) *FileProcessor {
	return &FileProcessor{
		rules:   rules,
		enc:     NewEncodingHandler(),
		backups: NewBackupManager(""),
		opts:    opts,
	}
}

// Apply runs the pure transform for a mode over text.
func (p *FileProcessor) Apply(text string, mode types.Mode) (string, error) {
	switch mode {
	case types.ModeHighlight:
		return p.rules.Highlight(text), nil
	case types.ModeClean:
		return p.rules.Clean(text), nil
	case types.ModeUndo:
		return p.rules.Undo(text), nil
	case types.ModeNormalize:
		return p.rules.NormalizeInlineMath(text), nil
	default:
		return "", types.NewAppErrorWithDetails(types.ErrInvalidInput, "unknown mode", string(mode), nil)
	}
}

// ProcessFile reads path, applies mode, and writes the result back in
// the file's original encoding. A missing file is reported as a
// recoverable ErrFileNotFound; the write step is skipped entirely when
// the transform leaves the content unchanged.
func (p *FileProcessor) ProcessFile(path string, mode types.Mode) (*types.ProcessResult, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Warn("input file does not exist", logger.String("path", path))
		return nil, types.NewAppErrorWithDetails(types.ErrFileNotFound, "file does not exist", path, err)
	}

	content, encoding, err := p.enc.ReadFileWithEncoding(path)
	if err != nil {
		return nil, types.NewAppError(types.ErrEncoding, "failed to read input file", err)
	}

	output, err := p.Apply(content, mode)
	if err != nil {
		return nil, err
	}

	result := &types.ProcessResult{
		Path:     path,
		Mode:     mode,
		Changed:  output != content,
		Encoding: encoding,
		Output:   output,
	}

	if !result.Changed || !p.opts.WriteBack {
		logger.Info("no write-back needed",
			logger.String("path", path),
			logger.String("mode", string(mode)),
			logger.Bool("changed", result.Changed),
			logger.Bool("writeBack", p.opts.WriteBack))
		return result, nil
	}

	if p.opts.Backup {
		backup, err := p.backups.CreateBackup(path)
		if err != nil {
			return nil, types.NewAppError(types.ErrBackup, "failed to create backup", err)
		}
		result.Backup = backup
		if p.opts.BackupKeepCount > 0 {
			p.backups.CleanupBackups(path, p.opts.BackupKeepCount)
		}
	}

	writeEncoding := encoding
	if p.opts.ForceEncoding != "" {
		writeEncoding = p.opts.ForceEncoding
	}
	if err := p.enc.WriteFileWithEncoding(path, output, writeEncoding); err != nil {
		return nil, types.NewAppError(types.ErrWrite, "failed to write output file", err)
	}
	result.Written = true

	logger.Info("file processed",
		logger.String("path", path),
		logger.String("mode", string(mode)),
		logger.String("encoding", writeEncoding),
		logger.Int("inputLength", len(content)),
		logger.Int("outputLength", len(output)))

	return result, nil
}

// StatusLine returns the fixed human-readable status line for a mode.
func StatusLine(mode types.Mode) string {
	switch mode {
	case types.ModeHighlight:
		return "Done. Review the highlighted spans (==...==); inline math spacing was normalized."
	case types.ModeClean:
		return "Done. Highlight markers removed; math delimiters kept and compacted."
	case types.ModeUndo:
		return "Done. All highlighted edits reverted to the original text."
	case types.ModeNormalize:
		return "Done. Inline math spacing normalized."
	default:
		return "Done."
	}
}
