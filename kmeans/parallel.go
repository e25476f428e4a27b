package kmeans

import (
	"golang.org/x/sync/errgroup"

	"github.com/palettize/palettize/model"
)

// assignParallel shards the assignment pass across goroutines. Each
// shard owns a contiguous sample range (labels and bounds are
// per-sample, so writes never overlap) and its own partial
// accumulators, which are merged in shard order to keep summation
// deterministic for a fixed parallelism.
func assignParallel(samples []float32, centroids [][4]float32, separation []float32, labels []int, upper, lower []float32, accums []Accumulator, opts Options) bool {
	sampleCount := model.SampleCount(samples)
	shards := opts.Parallelism
	if shards > sampleCount {
		shards = sampleCount
	}

	partials := make([][]Accumulator, shards)
	changedFlags := make([]bool, shards)
	chunk := (sampleCount + shards - 1) / shards

	var g errgroup.Group
	for s := 0; s < shards; s++ {
		from := s * chunk
		to := from + chunk
		if to > sampleCount {
			to = sampleCount
		}
		partials[s] = make([]Accumulator, len(centroids))

		shard := s
		g.Go(func() error {
			changedFlags[shard] = assignRange(samples, centroids, separation, labels, upper, lower, partials[shard], opts.Space, from, to)
			return nil
		})
	}
	_ = g.Wait() // shards never return errors

	changed := false
	for s := 0; s < shards; s++ {
		if changedFlags[s] {
			changed = true
		}
		for c := range accums {
			accums[c].Merge(partials[s][c])
		}
	}

	return changed
}
