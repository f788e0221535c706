// Package types defines core data types and enums shared across
// md-math-fixer.
package types

// Config 应用配置
type Config struct {
	// MarkerStart/MarkerEnd bound a review highlight, default "==".
	MarkerStart string `json:"marker_start"`
	MarkerEnd   string `json:"marker_end"`
	// ExtraMathVars extends the math symbol allow-list.
	ExtraMathVars []string `json:"extra_math_vars"`
	// ExtraStopwords extends the English stop-word deny-list.
	ExtraStopwords []string `json:"extra_stopwords"`
	// BackupEnabled controls whether a backup copy is made before
	// writing a transformed file back. 默认开启备份
	BackupEnabled bool `json:"backup_enabled"`
	// BackupKeepCount is how many backups per file to retain.
	BackupKeepCount int `json:"backup_keep_count"`
	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `json:"log_level"`
	// LogFilePath, when non-empty, enables file logging.
	LogFilePath string `json:"log_file_path"`
}

// Mode 转换模式枚举
type Mode string

const (
	// ModeHighlight wraps detected math tokens as ==$token$==.
	ModeHighlight Mode = "highlight"
	// ModeClean strips highlight markers, keeping the $ delimiters.
	ModeClean Mode = "clean"
	// ModeUndo strips both markers and delimiters.
	ModeUndo Mode = "undo"
	// ModeNormalize only compacts interior spacing of inline math.
	ModeNormalize Mode = "normalize"
)

// Valid reports whether m names a known transform mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeHighlight, ModeClean, ModeUndo, ModeNormalize:
		return true
	}
	return false
}

// ProcessResult 处理结果
type ProcessResult struct {
	Path     string `json:"path"`
	Mode     Mode   `json:"mode"`
	Changed  bool   `json:"changed"`
	Written  bool   `json:"written"`
	Backup   string `json:"backup,omitempty"`
	Encoding string `json:"encoding"`
	Output   string `json:"-"`
}

// ErrorCode 错误代码枚举
type ErrorCode string

const (
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrEncoding     ErrorCode = "ENCODING_ERROR"
	ErrBackup       ErrorCode = "BACKUP_ERROR"
	ErrWrite        ErrorCode = "WRITE_ERROR"
	ErrWatch        ErrorCode = "WATCH_ERROR"
	ErrConfig       ErrorCode = "CONFIG_ERROR"
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface for AppError
func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Unwrap returns the underlying cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError with the given code, message, and optional cause
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewAppErrorWithDetails creates a new AppError with details
func NewAppErrorWithDetails(code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}
