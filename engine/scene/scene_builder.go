package scene

import (
	"runtime"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *builder)

// WithName sets the scene name used to label its GPU resources. An empty name keeps the default.
//
// Parameters:
//   - name: the name of the scene
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithName(name string) SceneBuilderOption {
	return func(b *builder) {
		b.name = common.Coalesce(name, b.name)
	}
}

// WithComputeWorkers sets the number of worker goroutines used to generate meshes in
// parallel during Build. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithComputeWorkers(n int) SceneBuilderOption {
	return func(b *builder) {
		if n < 1 {
			n = 1
		}
		b.workers = n
	}
}

// WithRandom sets the uniform [0, 1) source used to scatter particles. Defaults to math/rand/v2.
//
// Parameters:
//   - random: the random source
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRandom(random func() float32) SceneBuilderOption {
	return func(b *builder) {
		b.random = random
	}
}

func defaultWorkers() int {
	return max(runtime.NumCPU()-1, 1)
}
