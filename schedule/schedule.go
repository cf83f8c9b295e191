// Copyright 2025 The foldingdiff-go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package schedule provides the public API for diffusion noise
// schedules.
//
// A schedule precomputes the per-timestep variance parameters (beta_t,
// the cumulative alpha-bar_t and derived terms) once, then serves them
// read-only to both the forward process and the reverse sampler.
//
// Example:
//
//	sched, err := schedule.New(schedule.Config{
//	    Timesteps: 1000,
//	    Kind:      schedule.Cosine,
//	    BetaMin:   1e-4,
//	    BetaMax:   0.02,
//	})
package schedule

import (
	"github.com/amrhamedp/foldingdiff/internal/schedule"
)

// Kind selects the beta-variance schedule shape.
type Kind = schedule.Kind

// Supported schedule kinds.
const (
	Linear    Kind = schedule.Linear
	Quadratic Kind = schedule.Quadratic
	Cosine    Kind = schedule.Cosine
)

// VarianceType selects the reverse-step posterior variance.
type VarianceType = schedule.VarianceType

// Supported variance types.
const (
	VarianceFixedSmall VarianceType = schedule.VarianceFixedSmall
	VarianceFixedLarge VarianceType = schedule.VarianceFixedLarge
)

// Config describes a noise schedule. Validate once, build once.
type Config = schedule.Config

// Schedule holds the precomputed diffusion parameters, immutable once
// built.
type Schedule = schedule.Schedule

// New builds a schedule, failing with a *ConfigError if the
// configuration is invalid.
func New(cfg Config) (*Schedule, error) { return schedule.New(cfg) }

// ConfigError reports invalid schedule or checkpoint configuration.
type ConfigError = schedule.ConfigError

// RangeError reports a timestep outside [0, Timesteps).
//
//nolint:revive // RangeError is clearer than Error at call sites
type RangeError = schedule.RangeError
