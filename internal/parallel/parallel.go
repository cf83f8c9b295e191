// Package parallel provides the worker helpers used for data-parallel
// batch computation.
//
// Sequences in a diffusion batch are independent, so element-wise work
// (noising, posterior updates, materialization) fans out across
// goroutines and joins before the timestep advances. Noise draws are
// never parallelized; they stay in flat order on the injected source
// so runs are reproducible.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 32,
	}
}

// Sequential returns a config that always runs inline. Useful in tests
// and for callers that manage their own concurrency.
func Sequential() Config {
	return Config{Enabled: false}
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n
// is too small.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < cfg.MinChunkSize {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// ForSequences iterates (sequence, residue) pairs of a padded batch.
// The per-pair work in diffusion kernels is tiny, so the whole
// batch*seqLen grid is flattened before chunking.
func ForSequences(batch, seqLen int, f func(b, r int), cfg Config) {
	For(batch*seqLen, func(k int) {
		f(k/seqLen, k%seqLen)
	}, cfg)
}
