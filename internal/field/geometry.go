package field

// Region is an axis-aligned rectangle in the horizontal plane. Every point
// produced for the region lies at the fixed SurfaceY height.
type Region struct {
	MinX     float64 `json:"minX" yaml:"minX"`
	MinZ     float64 `json:"minZ" yaml:"minZ"`
	MaxX     float64 `json:"maxX" yaml:"maxX"`
	MaxZ     float64 `json:"maxZ" yaml:"maxZ"`
	SurfaceY float64 `json:"surfaceY" yaml:"surfaceY"`
}

// NewRegion builds a region spanning width by depth starting at the origin.
func NewRegion(width, depth, surfaceY float64) Region {
	return Region{MinX: 0, MinZ: 0, MaxX: width, MaxZ: depth, SurfaceY: surfaceY}
}

// Width reports the extent along the X axis.
func (r Region) Width() float64 {
	return r.MaxX - r.MinX
}

// Depth reports the extent along the Z axis.
func (r Region) Depth() float64 {
	return r.MaxZ - r.MinZ
}

// Area reports the horizontal area covered by the region.
func (r Region) Area() float64 {
	width := r.Width()
	depth := r.Depth()
	if width <= 0 || depth <= 0 {
		return 0
	}
	return width * depth
}

// Shrink insets the region by margin on both horizontal axes.
func (r Region) Shrink(margin float64) Region {
	return Region{
		MinX:     r.MinX + margin,
		MinZ:     r.MinZ + margin,
		MaxX:     r.MaxX - margin,
		MaxZ:     r.MaxZ - margin,
		SurfaceY: r.SurfaceY,
	}
}

// Contains reports whether the horizontal point lies inside the region.
func (r Region) Contains(x, z float64) bool {
	return x >= r.MinX && x <= r.MaxX && z >= r.MinZ && z <= r.MaxZ
}
