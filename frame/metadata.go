package frame

// CopyMetadata copies the timing fields (PTS, DTS, duration and offset)
// from src to dst verbatim. It must be applied to every buffer constructed
// in place of an input buffer, otherwise timing-dependent consumers downstream
// (renderers, muxers) get desynchronized.
func CopyMetadata(dst, src *Buffer) {
	dst.PTS = src.PTS
	dst.DTS = src.DTS
	dst.Duration = src.Duration
	dst.Offset = src.Offset
}
