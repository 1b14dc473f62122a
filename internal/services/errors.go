package services

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned before any decode attempt when a document
// carries a format tag the extractor does not recognize.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ExtractionError reports a decoder failure on a recognized format (corrupt
// file, unsupported encoding, encrypted content).
type ExtractionError struct {
	Format DocumentFormat
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s document: %v", e.Format, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// UnknownRoleError reports a claimed role that is not part of the
// classifier's trained label set.
type UnknownRoleError struct {
	Role string
}

func (e *UnknownRoleError) Error() string {
	return fmt.Sprintf("role %q is not known to the classifier", e.Role)
}
