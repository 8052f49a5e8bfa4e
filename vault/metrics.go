// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

package vault

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

type metrics struct {
	resolutions *prometheus.CounterVec
	fetches     *prometheus.CounterVec
}

// newMetrics registers counters in the registerer. Counters already
// registered by another client are reused. A nil registerer disables metrics.
func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		return nil, nil
	}

	resolutions, err := registerCounter(reg,
		prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vaultconf",
				Name:      "token_resolutions_total",
				Help:      "Total token resolution attempts by method and outcome.",
			},
			[]string{"method", "outcome"},
		),
	)

	if err != nil {
		return nil, err
	}

	fetches, err := registerCounter(reg,
		prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vaultconf",
				Name:      "secret_fetches_total",
				Help:      "Total secret fetches by outcome.",
			},
			[]string{"outcome"},
		),
	)

	if err != nil {
		return nil, err
	}

	return &metrics{
		resolutions: resolutions,
		fetches:     fetches,
	}, nil
}

func registerCounter(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	err := reg.Register(c)

	if err == nil {
		return c, nil
	}

	var are prometheus.AlreadyRegisteredError

	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
			return existing, nil
		}
	}

	return nil, err
}

func (m *metrics) resolution(method Method, outcome string) {
	if m == nil {
		return
	}

	m.resolutions.WithLabelValues(string(method), outcome).Inc()
}

func (m *metrics) fetch(outcome string) {
	if m == nil {
		return
	}

	m.fetches.WithLabelValues(outcome).Inc()
}
