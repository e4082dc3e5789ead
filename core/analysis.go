package core

import (
	"sync"

	"github.com/crashlab/crashpulse/internal/contract"
	"github.com/crashlab/crashpulse/schema"
)

// RunBatch analyzes every case concurrently with cfg.Workers workers and
// persists the flattened rows through store. Per-case failures are captured
// in the result's Err field; only store failures surface as warnings.
// Result order follows worker completion, not input order; callers sort for
// presentation.
func RunBatch(cases []schema.BatchCase, cfg *contract.Config, opener contract.RecordingOpener, store contract.ResultStore) []schema.CaseResult {
	var runID int64
	if store != nil {
		params := map[string]any{
			"cases":    len(cases),
			"workers":  cfg.Workers,
			"cfc":      cfg.CFC,
			"olc_mode": string(cfg.OLCMode),
		}
		var err error
		runID, err = store.BeginRun(params)
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
			runID = 0
		}
	}

	caseCh := make(chan schema.BatchCase, len(cases))
	resultCh := make(chan schema.CaseResult, len(cases))
	var wg sync.WaitGroup

	for range cfg.Workers {
		wg.Go(func() {
			for c := range caseCh {
				resultCh <- analyzeBatchCase(c, cfg, opener)
			}
		})
	}

	for _, c := range cases {
		caseCh <- c
	}
	close(caseCh)

	wg.Wait()
	close(resultCh)

	results := make([]schema.CaseResult, 0, len(cases))
	for r := range resultCh {
		results = append(results, r)
	}

	if store != nil {
		rows := make([]schema.MetricRow, 0, len(results))
		for i := range results {
			rows = append(rows, schema.RowFromCase(&results[i]))
		}
		if err := store.UpsertMetrics(rows); err != nil {
			contract.LogWarn("Failed to persist metric rows", err)
		}
		if runID > 0 {
			if err := store.EndRun(runID, len(results)); err != nil {
				contract.LogWarn("Failed to finalize run tracking", err)
			}
		}
	}

	return results
}

// analyzeBatchCase runs one case with its per-case overrides applied on a
// cloned config. A failed case still yields a result row so the batch
// output and the store show which tests need rework.
func analyzeBatchCase(c schema.BatchCase, cfg *contract.Config, opener contract.RecordingOpener) schema.CaseResult {
	caseCfg := cfg.Clone()
	if c.ChannelName != "" {
		caseCfg.ChannelName = c.ChannelName
	}
	if c.VehicleMassKg > 0 {
		caseCfg.VehicleMassKg = c.VehicleMassKg
	}
	if c.ImpactKph > 0 {
		caseCfg.ImpactVelocityKph = c.ImpactKph
	}

	rec, err := opener.Open(c.RecordingPath)
	if err != nil {
		return schema.CaseResult{TestNo: c.TestNo, Err: err.Error()}
	}

	result, err := AnalyzeCase(rec, caseCfg)
	if err != nil {
		return schema.CaseResult{TestNo: c.TestNo, Err: err.Error()}
	}
	result.TestNo = c.TestNo
	return *result
}
