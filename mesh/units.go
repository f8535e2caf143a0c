package mesh

import (
	"fmt"

	units "github.com/google/go-units/unit"
)

// unitsByName maps the names accepted by Config.ReportUnits to go-units'
// Length constants, since go-units exposes units as typed constants rather
// than by name lookup.
var unitsByName = map[string]units.Length{
	"meter":        units.Meter,
	"meters":       units.Meter,
	"kilometer":    units.Kilometer,
	"kilometers":   units.Kilometer,
	"centimeter":   units.Centimeter,
	"centimeters":  units.Centimeter,
	"millimeter":   units.Millimeter,
	"millimeters":  units.Millimeter,
	"micrometer":   units.Micrometer,
	"micrometers":  units.Micrometer,
	"foot":         units.Foot,
	"feet":         units.Foot,
	"mile":         units.Mile,
	"miles":        units.Mile,
	"inch":         units.Inch,
	"inches":       units.Inch,
	"nauticalmile": units.NauticalMile,
}

// formatExtent renders a length value in Config.ReportUnits, if set, via
// go-units. When ReportUnits is empty the value is reported dimensionless.
// This never affects geometry; it exists purely so Driver.Report can print
// something a human reads naturally, the way a diagnostics line in the
// teacher's builder package would.
func formatExtent(value float64, reportUnits string) string {
	if reportUnits == "" {
		return fmt.Sprintf("%g", value)
	}
	unit, ok := unitsByName[reportUnits]
	if !ok {
		return fmt.Sprintf("%g", value)
	}
	return (units.Length(value) * unit).String()
}
