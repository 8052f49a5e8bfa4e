// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

package vaultconf

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes reported by StructSchema.
const (
	CodeRequired    = "required"
	CodeInvalidType = "invalid_type"
	CodeInvalid     = "invalid"
)

// ErrValidation is matched by every ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// Issue describes a single failed check.
type Issue struct {
	Path     []string
	Code     string
	Expected string
	Received string
	Message  string
}

func (i Issue) String() string {
	if len(i.Path) == 0 {
		return i.Message
	}

	return fmt.Sprintf("%s: %s", strings.Join(i.Path, "."), i.Message)
}

// ValidationError is returned when a value does not satisfy a schema.
type ValidationError struct {
	Issues []Issue
}

// NewValidationError method creates validation error from issues.
func NewValidationError(issues ...Issue) *ValidationError {
	return &ValidationError{Issues: issues}
}

// Name method returns the error discriminator.
func (e *ValidationError) Name() string {
	return "ValidationError"
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))

	for _, issue := range e.Issues {
		msgs = append(msgs, issue.String())
	}

	return fmt.Sprintf("%s: %s: %s", errPref, ErrValidation, strings.Join(msgs, "; "))
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Paths method returns dot-joined paths of all issues.
func (e *ValidationError) Paths() []string {
	paths := make([]string, 0, len(e.Issues))

	for _, issue := range e.Issues {
		paths = append(paths, strings.Join(issue.Path, "."))
	}

	return paths
}
