package window

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithMaxWidth sets the maximum allowed window width.
//
// Parameters:
//   - maxWidth: maximum width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxWidth(maxWidth int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.maxWidth = maxWidth
	}
}

// WithMaxHeight sets the maximum allowed window height.
//
// Parameters:
//   - maxHeight: maximum height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxHeight(maxHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.maxHeight = maxHeight
	}
}

// WithMinWidth sets the minimum allowed window width.
//
// Parameters:
//   - minWidth: minimum width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinWidth(minWidth int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = minWidth
	}
}

// WithMinHeight sets the minimum allowed window height.
//
// Parameters:
//   - minHeight: minimum height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinHeight(minHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minHeight = minHeight
	}
}

// WithWidth sets the initial window width.
//
// Parameters:
//   - width: initial width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
	}
}

// WithHeight sets the initial window height.
//
// Parameters:
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.height = height
	}
}

// WithTransparent controls the transparent framebuffer hint. Defaults to true.
//
// Parameters:
//   - transparent: whether the window background shows through cleared pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTransparent(transparent bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.transparent = transparent
	}
}

// WithScrollStep sets how far one wheel notch moves the virtual scroll offset.
// Non-positive values are ignored.
//
// Parameters:
//   - step: offset change per notch in window coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithScrollStep(step float64) WindowBuilderOption {
	return func(w *engineWindow) {
		if step > 0 {
			w.scrollStep = step
		}
	}
}

// WithScrollExtent caps the virtual scroll offset. Zero leaves it unbounded.
//
// Parameters:
//   - extent: the largest offset in window coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithScrollExtent(extent float64) WindowBuilderOption {
	return func(w *engineWindow) {
		w.scrollExtent = max(extent, 0)
	}
}
