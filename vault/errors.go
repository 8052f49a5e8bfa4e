// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

package vault

import (
	"errors"
	"fmt"
	"strings"
)

const errorName = "VaultError"

// Reasons of fetch failures.
const (
	ReasonStatus    = "unexpected status"
	ReasonTransport = "transport error"
	ReasonEnvelope  = "malformed envelope"
)

var (
	// ErrBootstrap matches errors returned when no token source succeeded.
	ErrBootstrap = errors.New("vault token not found")

	// ErrFetch matches errors returned when secrets couldn't be fetched.
	ErrFetch = errors.New("failed to fetch secrets")
)

// BootstrapError is returned if no token source produced a token.
type BootstrapError struct {
	// Attempted lists addresses of the token sources in the order they were
	// tried.
	Attempted []string

	// Err is the failure of the last attempted source.
	Err error
}

// Name method returns error discriminator.
func (e *BootstrapError) Name() string {
	return errorName
}

func (e *BootstrapError) Error() string {
	attempted := e.Attempted

	if len(attempted) == 0 {
		attempted = []string{"local vault agent"}
	}

	return fmt.Sprintf("Couldn't find a vault token at %s, is the VaultAgent running?",
		strings.Join(attempted, " or at "))
}

func (e *BootstrapError) Is(target error) bool {
	return target == ErrBootstrap
}

func (e *BootstrapError) Unwrap() error {
	return e.Err
}

// FetchError is returned if the secret store responded with non-success
// status, couldn't be reached, or returned malformed envelope.
type FetchError struct {
	URL        string
	StatusCode int
	Reason     string
	Err        error
}

// Name method returns error discriminator.
func (e *FetchError) Name() string {
	return errorName
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch %s: status %d", e.URL, e.StatusCode)
	}

	if e.Err != nil {
		return fmt.Sprintf("failed to fetch %s: %s: %s", e.URL, e.Reason, e.Err)
	}

	return fmt.Sprintf("failed to fetch %s: %s", e.URL, e.Reason)
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
