package bind_group_provider

// Buffer is a GPU buffer handle owned by a renderer backend.
// Release frees the underlying GPU memory and must be safe to call once.
type Buffer interface {
	// Label returns the debug label the buffer was created with.
	Label() string

	// Size returns the buffer size in bytes.
	Size() uint64

	// Release frees the GPU buffer.
	Release()
}

// BindGroup is a GPU bind group handle owned by a renderer backend.
type BindGroup interface {
	// Label returns the debug label the bind group was created with.
	Label() string

	// Release frees the GPU bind group.
	Release()
}
