package scenegraph

// Consumed-only contracts for the surrounding rendering layer. This core
// never performs GPU work or pixel-format logic itself; these interfaces
// exist so scene-level code can hand image uploads off to the renderer
// without importing it.

// GpuImageID is an opaque handle to a GPU-side image.
type GpuImageID uint64

// GpuImageOps is the GPU texture/image collaborator: creation, upload and
// destruction of GPU images. Implemented by the render backend.
type GpuImageOps interface {
	CreateImage(width, height int, format uint32) (GpuImageID, error)
	UploadImage(id GpuImageID, mipLevel int, data []byte) error
	DestroyImage(id GpuImageID)
}

// PixelFormatInfo is the pixel-format metadata table collaborator.
type PixelFormatInfo interface {
	ElementSize(format uint32) int
	ChannelCount(format uint32) int
	IsCompressed(format uint32) bool
}
