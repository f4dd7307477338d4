package renderer

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Highest bounce index traced per radiance sample.
	MaxBounce uint32

	// Number of frames to accumulate before Render returns. The
	// interactive renderer ignores this and accumulates until the
	// window closes.
	Samples uint32

	// Device selection.
	BlackListedDevices []string
	ForcePrimaryDevice string
}
