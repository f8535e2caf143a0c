// Package mesh implements the advancing-front core of a planar unstructured
// mesh generator: the front data structure, its refinement against a size
// function, the advancing-front triangulation loop, and the quad-layer
// generator that lays structured quadrilateral strips along selected
// boundary runs before the remainder is triangulated.
//
// The package is organized as a flat set of files by concern rather than by
// sub-package, in the style of a small computational-geometry library:
// geometry primitives, entity types, a reference mesh store, a planar
// spatial index, domain description, the front itself, the front-update
// primitive, the triangulation driver, and the quad-layer generator.
package mesh
