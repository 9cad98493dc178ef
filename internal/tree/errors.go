package tree

import "fmt"

// ConfigurationError reports a malformed layout document. Path is the
// slash-separated location inside the layout (e.g. "backend/config[2]"),
// empty when the problem concerns the whole document.
type ConfigurationError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	if e.Path == "" {
		return "invalid layout: " + msg
	}
	return fmt.Sprintf("invalid layout at %s: %s", e.Path, msg)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func configErr(path, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
