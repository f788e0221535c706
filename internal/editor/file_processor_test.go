package editor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Gongzihang6/md-math-fixer/internal/mathspan"
	"github.com/Gongzihang6/md-math-fixer/internal/types"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	return path
}

func TestFileProcessor_Apply(t *testing.T) {
	p := NewFileProcessor(mathspan.DefaultRuleset(), DefaultProcessOptions())

	tests := []struct {
		name   string
		mode   types.Mode
		input  string
		output string
	}{
		{"highlight", types.ModeHighlight, "Then k-1 terms remain.", "Then ==$k-1$== terms remain."},
		{"clean", types.ModeClean, "Then ==$k-1$== terms remain.", "Then $k-1$ terms remain."},
		{"undo", types.ModeUndo, "Then ==$k-1$== terms remain.", "Then k-1 terms remain."},
		{"normalize", types.ModeNormalize, "Let $ x $ be given.", "Let $x$ be given."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Apply(tt.input, tt.mode)
			if err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			if got != tt.output {
				t.Errorf("expected %q, got %q", tt.output, got)
			}
		})
	}

	t.Run("unknown mode", func(t *testing.T) {
		_, err := p.Apply("text", types.Mode("bogus"))
		if err == nil {
			t.Fatal("expected error for unknown mode")
		}
		var appErr *types.AppError
		if !errors.As(err, &appErr) || appErr.Code != types.ErrInvalidInput {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestFileProcessor_ProcessFile_MissingFile(t *testing.T) {
	p := NewFileProcessor(mathspan.DefaultRuleset(), DefaultProcessOptions())

	_, err := p.ProcessFile(filepath.Join(t.TempDir(), "missing.md"), types.ModeHighlight)
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != types.ErrFileNotFound {
		t.Errorf("expected ErrFileNotFound, got %s", appErr.Code)
	}
}

func TestFileProcessor_ProcessFile_WritesChanges(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeTestFile(t, tmpDir, "doc.md", "Then k-1 terms remain.")

	p := NewFileProcessor(mathspan.DefaultRuleset(), ProcessOptions{
		Backup:          true,
		BackupKeepCount: 5,
		WriteBack:       true,
	})

	result, err := p.ProcessFile(path, types.ModeHighlight)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if !result.Changed || !result.Written {
		t.Errorf("expected Changed and Written, got %+v", result)
	}
	if result.Encoding != EncodingUTF8 {
		t.Errorf("expected UTF-8 encoding, got %s", result.Encoding)
	}
	if result.Backup == "" {
		t.Error("expected a backup path")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "Then ==$k-1$== terms remain." {
		t.Errorf("unexpected file content: %q", data)
	}

	backup, err := os.ReadFile(result.Backup)
	if err != nil {
		t.Fatalf("read backup failed: %v", err)
	}
	if string(backup) != "Then k-1 terms remain." {
		t.Errorf("backup should hold the pre-transform content, got %q", backup)
	}
}

func TestFileProcessor_ProcessFile_SkipsUnchanged(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeTestFile(t, tmpDir, "doc.md", "Nothing mathy here at all.\n")

	p := NewFileProcessor(mathspan.DefaultRuleset(), DefaultProcessOptions())

	result, err := p.ProcessFile(path, types.ModeHighlight)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if result.Changed {
		t.Error("expected Changed=false")
	}
	if result.Written {
		t.Error("unchanged file must not be rewritten")
	}
	if result.Backup != "" {
		t.Error("unchanged file must not be backed up")
	}
}

func TestFileProcessor_ProcessFile_StdoutMode(t *testing.T) {
	tmpDir := t.TempDir()
	original := "Then k-1 terms remain."
	path := writeTestFile(t, tmpDir, "doc.md", original)

	p := NewFileProcessor(mathspan.DefaultRuleset(), ProcessOptions{WriteBack: false})

	result, err := p.ProcessFile(path, types.ModeHighlight)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if result.Written {
		t.Error("write-back disabled, file must not be written")
	}
	if result.Output != "Then ==$k-1$== terms remain." {
		t.Errorf("unexpected output: %q", result.Output)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != original {
		t.Errorf("file on disk must stay untouched, got %q", data)
	}
}

func TestFileProcessor_ProcessFile_NoBackup(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeTestFile(t, tmpDir, "doc.md", "Then k-1 terms remain.")

	p := NewFileProcessor(mathspan.DefaultRuleset(), ProcessOptions{
		Backup:    false,
		WriteBack: true,
	})

	result, err := p.ProcessFile(path, types.ModeHighlight)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if result.Backup != "" {
		t.Errorf("expected no backup, got %s", result.Backup)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("readdir failed: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".backup_") {
			t.Errorf("unexpected backup file: %s", e.Name())
		}
	}
}

func TestFileProcessor_ProcessFile_PreservesBOM(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bom.md")
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Let $ x $ be given.")...)
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	p := NewFileProcessor(mathspan.DefaultRuleset(), ProcessOptions{WriteBack: true})

	result, err := p.ProcessFile(path, types.ModeNormalize)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if result.Encoding != EncodingUTF8BOM {
		t.Errorf("expected UTF-8-BOM, got %s", result.Encoding)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	want := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Let $x$ be given.")...)
	if string(data) != string(want) {
		t.Errorf("BOM or content lost: %q", data)
	}
}

func TestFileProcessor_ProcessFile_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	original := "Let $ x $ be given. Then k-1 terms remain. We use slam filtering."
	path := writeTestFile(t, tmpDir, "doc.md", original)

	p := NewFileProcessor(mathspan.DefaultRuleset(), ProcessOptions{WriteBack: true})

	if _, err := p.ProcessFile(path, types.ModeHighlight); err != nil {
		t.Fatalf("highlight failed: %v", err)
	}
	if _, err := p.ProcessFile(path, types.ModeUndo); err != nil {
		t.Fatalf("undo failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	// Undo restores the tokens; the sloppy $ x $ span stays normalized.
	want := "Let $x$ be given. Then k-1 terms remain. We use slam filtering."
	if string(data) != want {
		t.Errorf("expected %q, got %q", want, data)
	}
}

func TestStatusLine(t *testing.T) {
	for _, mode := range []types.Mode{
		types.ModeHighlight, types.ModeClean, types.ModeUndo, types.ModeNormalize,
	} {
		if !strings.HasPrefix(StatusLine(mode), "Done.") {
			t.Errorf("status line for %s should start with Done.", mode)
		}
	}
}
