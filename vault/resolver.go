// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

package vault

import (
	"context"

	"go.uber.org/zap"
)

// State is a state of token resolution.
type State int

// Resolution states. Resolution starts in StateUnresolved and ends in
// StateResolved or StateFailed.
const (
	StateUnresolved State = iota
	StateTryingFile
	StateTryingAgent
	StateResolved
	StateFailed
)

var stateNames = map[State]string{
	StateUnresolved:  "unresolved",
	StateTryingFile:  "trying-file",
	StateTryingAgent: "trying-agent",
	StateResolved:    "resolved",
	StateFailed:      "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return "unknown"
}

// Terminal method reports whether resolution is over.
func (s State) Terminal() bool {
	return s == StateResolved || s == StateFailed
}

// Resolver resolves vault token from token sources.
type Resolver struct {
	Sources []TokenSource
	Logger  *zap.Logger

	metrics     *metrics
	transitions []State
}

// Resolve method tries sources in order and returns the first token found.
// Source failures are not fatal, the next source is tried. If all sources
// fail, BootstrapError is returned.
func (r *Resolver) Resolve(ctx context.Context) (Credential, error) {
	logger := r.Logger

	if logger == nil {
		logger = zap.NewNop()
	}

	r.transitions = []State{StateUnresolved}
	var attempted []string
	var lastErr error

	for _, src := range r.Sources {
		if src.Address() == "" {
			continue
		}

		method := src.Method()
		r.transitions = append(r.transitions, tryingState(method))
		attempted = append(attempted, src.Address())

		token, err := src.Token(ctx)

		if err != nil {
			logger.Debug("token source failed",
				zap.String("method", string(method)),
				zap.String("address", src.Address()),
				zap.Error(err),
			)

			r.metrics.resolution(method, outcomeFailure)
			lastErr = err

			continue
		}

		logger.Debug("token resolved",
			zap.String("method", string(method)),
			zap.String("address", src.Address()),
		)

		r.metrics.resolution(method, outcomeSuccess)
		r.transitions = append(r.transitions, StateResolved)

		return Credential{Token: token, Method: method}, nil
	}

	r.transitions = append(r.transitions, StateFailed)

	return Credential{}, &BootstrapError{
		Attempted: attempted,
		Err:       lastErr,
	}
}

// Transitions method returns states passed by the last resolution.
func (r *Resolver) Transitions() []State {
	return append([]State(nil), r.transitions...)
}

// State method returns the current state.
func (r *Resolver) State() State {
	if len(r.transitions) == 0 {
		return StateUnresolved
	}

	return r.transitions[len(r.transitions)-1]
}

// tryingState maps method to state. Sources other than the local file are
// remote and reported as StateTryingAgent.
func tryingState(method Method) State {
	if method == MethodLocalFile {
		return StateTryingFile
	}

	return StateTryingAgent
}
