package bind_group_provider

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// on a BindGroupProvider at a given byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// Valid reports whether the write has data and a destination buffer to land in.
func (w BufferWrite) Valid() bool {
	return w.Provider != nil && len(w.Data) > 0 && w.Provider.Buffer(w.Binding) != nil
}
