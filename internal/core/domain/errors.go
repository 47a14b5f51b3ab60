package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmptyText         = fmt.Errorf("%w: no news content to analyze", ErrInvalidInput)
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrUploadTooLarge    = errors.New("upload too large")
	ErrExtractionFailed  = errors.New("document extraction failed")
	ErrArtifactMissing   = errors.New("model artifact missing")
	ErrArtifactInvalid   = errors.New("model artifact invalid")
	ErrTemporary         = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
