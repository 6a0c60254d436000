package backdrop

import (
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/config"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scene"
)

// BackdropBuilderOption is a functional option for configuring a Backdrop.
type BackdropBuilderOption func(b *backdrop)

// WithConfig sets the scene configuration used by every activation. It is validated when
// the scene is built.
//
// Parameters:
//   - cfg: the configuration
//
// Returns:
//   - BackdropBuilderOption: option function to apply
func WithConfig(cfg config.Config) BackdropBuilderOption {
	return func(b *backdrop) {
		b.cfg = cfg
	}
}

// WithRendererFactory replaces the WebGPU renderer factory.
//
// Parameters:
//   - factory: the factory to call once per activation
//
// Returns:
//   - BackdropBuilderOption: option function to apply
func WithRendererFactory(factory RendererFactory) BackdropBuilderOption {
	return func(b *backdrop) {
		if factory != nil {
			b.newRenderer = factory
		}
	}
}

// WithClock sets the monotonic clock read at activation. Defaults to time.Now.
//
// Parameters:
//   - now: the clock
//
// Returns:
//   - BackdropBuilderOption: option function to apply
func WithClock(now func() time.Time) BackdropBuilderOption {
	return func(b *backdrop) {
		if now != nil {
			b.now = now
		}
	}
}

// WithSceneOptions passes options through to scene.Build on every activation.
//
// Parameters:
//   - options: the scene builder options
//
// Returns:
//   - BackdropBuilderOption: option function to apply
func WithSceneOptions(options ...scene.SceneBuilderOption) BackdropBuilderOption {
	return func(b *backdrop) {
		b.sceneOptions = append(b.sceneOptions, options...)
	}
}
