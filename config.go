package scenegraph

// SceneConfig tunes a SceneManager. The zero value is usable; defaults are
// filled in by NewSceneManager.
type SceneConfig struct {
	// MaxLightsPerObject caps the per-object nearest-light list. Default 8.
	MaxLightsPerObject int

	// LightGridCellSize is the cell size of the light broadphase grid.
	// Default 16.
	LightGridCellSize float32

	// LightGridThreshold is the light count above which queries go through
	// the grid instead of scanning the whole list. Default 32.
	LightGridThreshold int

	// VisibilityMask is the scene's initial combined visibility mask.
	// Default all bits set.
	VisibilityMask uint32

	// MaxTreeDepth is the traversal depth guard used to fail fast on
	// parent-chain cycles. Default 256.
	MaxTreeDepth int

	// Logger receives scene diagnostics. Default is a no-op logger.
	Logger Logger
}

func (c SceneConfig) withDefaults() SceneConfig {
	if c.MaxLightsPerObject <= 0 {
		c.MaxLightsPerObject = 8
	}
	if c.LightGridCellSize <= 0 {
		c.LightGridCellSize = 16
	}
	if c.LightGridThreshold <= 0 {
		c.LightGridThreshold = 32
	}
	if c.VisibilityMask == 0 {
		c.VisibilityMask = 0xFFFFFFFF
	}
	if c.MaxTreeDepth <= 0 {
		c.MaxTreeDepth = 256
	}
	if c.Logger == nil {
		c.Logger = NewNopLogger()
	}
	return c
}
