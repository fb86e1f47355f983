package bind_group_provider

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBufferSizes records the byte size of each binding's buffer, keyed by binding index.
//
// Parameters:
//   - sizes: buffer sizes keyed by binding index
//
// Returns:
//   - BindGroupProviderOption: a function that records the sizes on the provider
func WithBufferSizes(sizes map[int]uint64) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		for binding, size := range sizes {
			p.sizes[binding] = size
		}
	}
}
