package bind_group_provider

// BufferWrite describes one whole-buffer upload targeting a binding on a BindGroupProvider.
// Uploads always start at Offset and are never merged with earlier writes.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
