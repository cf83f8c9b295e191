// Package schedule precomputes the per-timestep variance parameters of
// the diffusion process.
//
// A Schedule is built once from a validated Config, is immutable
// afterwards, and is shared read-only by the forward noising process
// and the reverse sampling loop. T is fixed for a model's lifetime;
// inference must rebuild the exact schedule recorded at training time.
package schedule

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Kind selects the beta-variance schedule shape.
type Kind string

// Supported schedule kinds.
const (
	Linear    Kind = "linear"
	Quadratic Kind = "quadratic"
	Cosine    Kind = "cosine"
)

// Valid reports whether the kind is one of the supported schedules.
func (k Kind) Valid() bool {
	switch k {
	case Linear, Quadratic, Cosine:
		return true
	}
	return false
}

// VarianceType selects the reverse-step posterior variance. The DDPM
// fixed-small form uses the closed-form posterior; fixed-large uses
// beta_t itself. Which one a model was trained against is part of its
// configuration, not a sampling-time guess.
type VarianceType string

// Supported variance types.
const (
	VarianceFixedSmall VarianceType = "fixed_small"
	VarianceFixedLarge VarianceType = "fixed_large"
)

// Valid reports whether the variance type is supported.
func (v VarianceType) Valid() bool {
	return v == VarianceFixedSmall || v == VarianceFixedLarge
}

// offset used by the cosine schedule (Nichol & Dhariwal).
const cosineOffset = 8e-3

// Config describes a noise schedule. Validate once, build once.
type Config struct {
	Timesteps int
	Kind      Kind
	BetaMin   float64
	BetaMax   float64
	Variance  VarianceType // empty defaults to VarianceFixedSmall
}

// Validate checks the configuration, returning a *ConfigError on the
// first violation.
func (c Config) Validate() error {
	if c.Timesteps < 1 {
		return &ConfigError{Field: "timesteps", Value: c.Timesteps, Details: "must be >= 1"}
	}
	if !c.Kind.Valid() {
		return &ConfigError{Field: "kind", Value: string(c.Kind), Details: "unknown schedule kind"}
	}
	if c.BetaMin <= 0 || c.BetaMin >= 1 {
		return &ConfigError{Field: "beta_min", Value: c.BetaMin, Details: "must lie in (0, 1)"}
	}
	if c.BetaMax <= 0 || c.BetaMax >= 1 {
		return &ConfigError{Field: "beta_max", Value: c.BetaMax, Details: "must lie in (0, 1)"}
	}
	if c.BetaMin > c.BetaMax {
		return &ConfigError{Field: "beta_min", Value: c.BetaMin, Details: "must not exceed beta_max"}
	}
	if c.Variance != "" && !c.Variance.Valid() {
		return &ConfigError{Field: "variance", Value: string(c.Variance), Details: "unknown variance type"}
	}
	return nil
}

// Schedule holds the precomputed diffusion parameters. All slices have
// length Timesteps and are never mutated after New returns.
type Schedule struct {
	cfg Config

	betas             []float64
	alphas            []float64 // 1 - beta_t
	alphasCumprod     []float64 // prod_{s<=t} alpha_s
	alphasCumprodPrev []float64 // shifted by one, leading 1
	sqrtRecipAlphas   []float64
	sqrtAlphasCumprod []float64
	sqrtOneMinusCum   []float64
	posteriorVariance []float64
}

// New builds a schedule from the configuration. Fails with a
// *ConfigError if the configuration is invalid.
func New(cfg Config) (*Schedule, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Variance == "" {
		cfg.Variance = VarianceFixedSmall
	}

	T := cfg.Timesteps
	betas := make([]float64, T)
	switch cfg.Kind {
	case Linear:
		linspaceInto(betas, cfg.BetaMin, cfg.BetaMax)
	case Quadratic:
		linspaceInto(betas, math.Sqrt(cfg.BetaMin), math.Sqrt(cfg.BetaMax))
		for i, v := range betas {
			betas[i] = v * v
		}
	case Cosine:
		f := func(t float64) float64 {
			v := math.Cos((t/float64(T) + cosineOffset) / (1 + cosineOffset) * math.Pi / 2)
			return v * v
		}
		for t := 0; t < T; t++ {
			betas[t] = 1 - f(float64(t+1))/f(float64(t))
		}
	}
	// Clamp into the configured bounds; the cosine tail in particular
	// runs toward 1 otherwise.
	for i, v := range betas {
		betas[i] = math.Min(math.Max(v, cfg.BetaMin), cfg.BetaMax)
	}

	alphas := make([]float64, T)
	for i, b := range betas {
		alphas[i] = 1 - b
	}
	alphasCumprod := floats.CumProd(make([]float64, T), alphas)
	alphasCumprodPrev := make([]float64, T)
	alphasCumprodPrev[0] = 1
	copy(alphasCumprodPrev[1:], alphasCumprod[:T-1])

	s := &Schedule{
		cfg:               cfg,
		betas:             betas,
		alphas:            alphas,
		alphasCumprod:     alphasCumprod,
		alphasCumprodPrev: alphasCumprodPrev,
		sqrtRecipAlphas:   make([]float64, T),
		sqrtAlphasCumprod: make([]float64, T),
		sqrtOneMinusCum:   make([]float64, T),
		posteriorVariance: make([]float64, T),
	}
	for t := 0; t < T; t++ {
		s.sqrtRecipAlphas[t] = 1 / math.Sqrt(alphas[t])
		s.sqrtAlphasCumprod[t] = math.Sqrt(alphasCumprod[t])
		s.sqrtOneMinusCum[t] = math.Sqrt(1 - alphasCumprod[t])
		switch cfg.Variance {
		case VarianceFixedLarge:
			s.posteriorVariance[t] = betas[t]
		default:
			s.posteriorVariance[t] = betas[t] * (1 - alphasCumprodPrev[t]) / (1 - alphasCumprod[t])
		}
	}
	return s, nil
}

// linspaceInto fills dst with evenly spaced values from start to stop
// inclusive.
func linspaceInto(dst []float64, start, stop float64) {
	if len(dst) == 1 {
		dst[0] = start
		return
	}
	floats.Span(dst, start, stop)
}

// Timesteps returns T.
func (s *Schedule) Timesteps() int { return s.cfg.Timesteps }

// Config returns the configuration the schedule was built from.
func (s *Schedule) Config() Config { return s.cfg }

// CheckTimestep validates 0 <= t < T, returning a *RangeError otherwise.
func (s *Schedule) CheckTimestep(t int) error {
	if t < 0 || t >= s.cfg.Timesteps {
		return &RangeError{Timestep: t, Timesteps: s.cfg.Timesteps}
	}
	return nil
}

// Beta returns beta_t.
func (s *Schedule) Beta(t int) float64 { return s.betas[t] }

// AlphaCumprod returns alpha-bar_t, the cumulative product of (1 - beta).
func (s *Schedule) AlphaCumprod(t int) float64 { return s.alphasCumprod[t] }

// SqrtRecipAlpha returns 1/sqrt(alpha_t).
func (s *Schedule) SqrtRecipAlpha(t int) float64 { return s.sqrtRecipAlphas[t] }

// SqrtAlphaCumprod returns sqrt(alpha-bar_t).
func (s *Schedule) SqrtAlphaCumprod(t int) float64 { return s.sqrtAlphasCumprod[t] }

// SqrtOneMinusAlphaCumprod returns sqrt(1 - alpha-bar_t).
func (s *Schedule) SqrtOneMinusAlphaCumprod(t int) float64 { return s.sqrtOneMinusCum[t] }

// PosteriorVariance returns the reverse-step variance at t, per the
// configured VarianceType.
func (s *Schedule) PosteriorVariance(t int) float64 { return s.posteriorVariance[t] }

// Betas returns a copy of the full beta sequence.
func (s *Schedule) Betas() []float64 {
	out := make([]float64, len(s.betas))
	copy(out, s.betas)
	return out
}
