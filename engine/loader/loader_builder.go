package loader

// registration holds the settings Register applies.
type registration struct {
	images           bool
	pageDependencies bool
}

// LoaderBuilderOption is a functional option for configuring Register.
type LoaderBuilderOption func(*registration)

// WithImages enables or disables the page image loader. Enabled by default.
//
// Parameters:
//   - enabled: if true, .png/.jpg/.jpeg files load as *common.Image
//
// Returns:
//   - LoaderBuilderOption: option function to apply
func WithImages(enabled bool) LoaderBuilderOption {
	return func(r *registration) {
		r.images = enabled
	}
}

// WithPageDependencies controls whether atlases declare their page images as dependencies.
// When disabled, a missing page image does not fail the atlas load. Enabled by default.
//
// Parameters:
//   - enabled: if true, page images must exist and are loaded alongside the atlas
//
// Returns:
//   - LoaderBuilderOption: option function to apply
func WithPageDependencies(enabled bool) LoaderBuilderOption {
	return func(r *registration) {
		r.pageDependencies = enabled
	}
}
