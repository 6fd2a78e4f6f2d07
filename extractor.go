package main

import (
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"warboard/pkg/screenshot"
)

// extractor runs the CPU-bound decode+OCR work on a bounded worker pool so a
// slow Tesseract call cannot stall unrelated in-flight requests.
type extractor struct {
	pool *ants.Pool
}

func newExtractor(workers int) (*extractor, error) {
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &extractor{pool: pool}, nil
}

func (e *extractor) Close() {
	e.pool.Release()
}

// extract runs the two screenshot extractions as pool tasks and joins them.
func (e *extractor) extract(war, league []byte) (*screenshot.WarFields, *screenshot.LeagueFields, error) {
	var (
		wg           sync.WaitGroup
		warFields    *screenshot.WarFields
		leagueFields *screenshot.LeagueFields
		warErr       error
		leagueErr    error
	)

	wg.Add(1)
	if err := e.pool.Submit(func() {
		defer wg.Done()
		warFields, warErr = screenshot.ExtractWar(war)
	}); err != nil {
		wg.Done()
		return nil, nil, fmt.Errorf("submit war extraction: %w", err)
	}

	wg.Add(1)
	if err := e.pool.Submit(func() {
		defer wg.Done()
		leagueFields, leagueErr = screenshot.ExtractLeague(league)
	}); err != nil {
		wg.Done()
		leagueErr = fmt.Errorf("submit league extraction: %w", err)
	}

	wg.Wait()
	if warErr != nil {
		return nil, nil, fmt.Errorf("war screenshot: %w", warErr)
	}
	if leagueErr != nil {
		return nil, nil, fmt.Errorf("league screenshot: %w", leagueErr)
	}
	return warFields, leagueFields, nil
}
