package metadata

import "fmt"

// ExtractionError reports a file whose metadata could not be read or whose
// tag values were malformed. Rebuild skips such files; single-file extraction
// propagates the error to the caller.
type ExtractionError struct {
	Path string
	Tag  string
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("extract %s: tag %s: %v", e.Path, e.Tag, e.Err)
	}
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
