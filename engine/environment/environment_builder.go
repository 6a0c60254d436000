package environment

// SamplerBuilderOption is a functional option for configuring a Sampler.
type SamplerBuilderOption func(s *sampler)

// WithReferenceDistance sets the scroll offset that maps to a scroll factor of 1.
// Non-positive values are ignored.
//
// Parameters:
//   - distance: the reference scroll distance in logical pixels
//
// Returns:
//   - SamplerBuilderOption: option function to apply
func WithReferenceDistance(distance float64) SamplerBuilderOption {
	return func(s *sampler) {
		if distance > 0 {
			s.referenceDistance = distance
		}
	}
}
