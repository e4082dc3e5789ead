// Package core orchestrates the crash-pulse analysis: channel selection,
// signal reconstruction, and metric calculation, for single cases and for
// concurrent batch runs.
package core

import (
	"fmt"

	"github.com/crashlab/crashpulse/core/channel"
	"github.com/crashlab/crashpulse/core/dsp"
	"github.com/crashlab/crashpulse/core/metric"
	"github.com/crashlab/crashpulse/internal/contract"
	"github.com/crashlab/crashpulse/schema"
)

// Pipeline runs an ordered list of metric strategies over a reconstructed
// signal. The signal is reconstructed exactly once per case; strategies only
// read it. A failing strategy is recorded under Error_<Name> and never
// aborts the remaining strategies.
type Pipeline struct {
	params     dsp.Params
	strategies []metric.Strategy
}

// NewPipeline assembles the standard strategy chain for cfg. The OLC mode
// decides which of the two occupant-load strategies is appended; both may
// not run in the same pipeline since their outputs answer the same question
// with different definitions.
func NewPipeline(cfg *contract.Config) *Pipeline {
	p := &Pipeline{
		params: dsp.Params{
			CFC:            cfg.CFC,
			BiasWindowMs:   cfg.BiasWindowMs,
			BiasLimitRatio: cfg.BiasLimitRatio,
			AnchorG:        cfg.AnchorG,
			ReleaseG:       cfg.ReleaseG,
		},
	}

	p.strategies = append(p.strategies,
		metric.BasicKinematics{},
		metric.MaxDisplacement{},
		metric.EnergyAnalysis{VehicleMassKg: cfg.VehicleMassKg},
	)
	switch cfg.OLCMode {
	case schema.OLCApproxMode:
		p.strategies = append(p.strategies, metric.OLCApprox{})
	default:
		calc := metric.NewOLCCalculator()
		calc.Targets.S1M = cfg.OLCTargetS1M
		calc.Targets.S2M = cfg.OLCTargetS2M
		p.strategies = append(p.strategies, calc)
	}
	return p
}

// WithStrategies replaces the strategy chain. Used by tests and by callers
// that need a reduced or extended chain.
func (p *Pipeline) WithStrategies(strategies ...metric.Strategy) *Pipeline {
	p.strategies = strategies
	return p
}

// Run reconstructs the signal from the pulse and evaluates every strategy.
// Reconstruction failure fails the whole run; strategy failures are
// collected per strategy.
func (p *Pipeline) Run(pulse *channel.Pulse) (*schema.CrashSignal, map[string]float64, map[string]string, error) {
	params := p.params
	if pulse.ImpactVelocityKph > 0 {
		params.KnownImpactMps = pulse.ImpactVelocityKph / 3.6
		params.HasKnownImpact = true
	}

	sig, err := dsp.Reconstruct(pulse.TimeS, pulse.AccelG, params)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("signal reconstruction: %w", err)
	}

	metrics := make(map[string]float64)
	errs := make(map[string]string)
	for _, s := range p.strategies {
		vals, err := s.Calculate(sig)
		if err != nil {
			errs["Error_"+s.Name()] = err.Error()
			continue
		}
		for k, v := range vals {
			metrics[k] = v
		}
	}
	return sig, metrics, errs, nil
}

// AnalyzeCase runs the full single-case analysis for one recording: channel
// selection, pulse extraction, reconstruction, and metrics. Flag or CSV
// overrides in cfg win over zero-valued metadata; recording metadata wins
// when both exist.
func AnalyzeCase(rec contract.Recording, cfg *contract.Config) (*schema.CaseResult, error) {
	pulse, err := channel.Load(rec, cfg.ChannelName)
	if err != nil {
		return nil, err
	}

	if pulse.ImpactVelocityKph == 0 && cfg.ImpactVelocityKph > 0 {
		pulse.ImpactVelocityKph = cfg.ImpactVelocityKph
	}

	result := &schema.CaseResult{
		Channel:           pulse.Channel,
		ImpactVelocityKph: pulse.ImpactVelocityKph,
		ImpactAngleDeg:    pulse.ImpactAngleDeg,
		VehicleMassKg:     cfg.VehicleMassKg,
	}

	pipeline := NewPipeline(cfg)
	sig, metrics, errs, err := pipeline.Run(pulse)
	if err != nil {
		return nil, err
	}
	result.Signal = sig
	result.Metrics = metrics
	result.Errors = errs
	return result, nil
}
