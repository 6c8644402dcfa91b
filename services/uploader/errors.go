package uploader

import "fmt"

const (
	codeConfig = "configError"
	codeInput  = "inputError"
	codeWrite  = "writeError"
)

// ConfigError is a missing or invalid credential or setting. It is raised
// before any remote call.
type ConfigError struct {
	Code    string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func NewConfigError(msg string, err error) error {
	return &ConfigError{Code: codeConfig, Message: msg, Err: err}
}

// InputError is a missing or malformed source file. It is raised before any
// remote call.
type InputError struct {
	Code    string
	Path    string
	Message string
	Err     error
}

func (e *InputError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s: %v", e.Code, e.Path, e.Message, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

func newInputError(path, msg string, err error) error {
	return &InputError{Code: codeInput, Path: path, Message: msg, Err: err}
}

// WriteError is the failure of a single document write.
type WriteError struct {
	Code string
	Key  string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Key, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func newWriteError(key string, err error) *WriteError {
	return &WriteError{Code: codeWrite, Key: key, Err: err}
}
