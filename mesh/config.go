package mesh

import "math"

// Config collects the knobs shared by the triangulation driver and the
// quad-layer generator (spec.md §6). The zero value is not valid; use
// DefaultConfig and override individual fields.
type Config struct {
	// QuadLayerAngle bounds how sharp a front corner may be before the
	// quad-layer generator treats it as a wedge rather than a straight
	// run (spec.md §4.6). Radians.
	QuadLayerAngle float64
	// QuadLayerRange is the candidate search radius of the front-update
	// primitive, as a fraction of the local height: the quad-layer
	// generator multiplies it by each base's layer height, and the driver
	// by its ideal apex height.
	QuadLayerRange float64
	// MaxDriverIterations bounds the triangulation driver's outer loop
	// (spec.md §4.5). Zero means "derive from the initial front size",
	// resolved by NewDriver.
	MaxDriverIterations int
	// ReportUnits names a unit recognized by go-units that Driver.Report
	// converts accumulated extents into for diagnostics. Empty means
	// dimensionless (no conversion). Purely cosmetic.
	ReportUnits string
}

// DefaultConfig returns the configuration used when a caller does not
// override a field explicitly.
func DefaultConfig() Config {
	return Config{
		QuadLayerAngle: math.Pi / 2,
		QuadLayerRange: 0.75,
	}
}
