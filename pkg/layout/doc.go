// Package layout turns a process diagram into concrete 2D geometry:
// positions and sizes for every node, ports and curved paths for every edge.
//
// # Overview
//
// The engine is a single pure function, [Layout], invoked wholesale on every
// structural change. There is no incremental mode and no retained state; the
// caller owns serialization if the source graph changes faster than layout
// completes. The input [flow.Diagram] is never mutated - all geometry is
// produced as new values - so a caller may keep reading the pre-layout graph
// from another goroutine.
//
// # Passes
//
// A run proceeds leaf-first:
//
//  1. Sizing: header heights and intrinsic sizes from kind and state, a
//     deterministic formula with no runtime measurement ([HeaderHeight]).
//  2. Packing: each container lays out its direct children row-major; a
//     container child forces a full-width row and is packed recursively
//     first, so sizes propagate bottom-up.
//  3. Layered layout: top-level nodes get a rank (longest-path depth via
//     topological layering) and a stable in-rank order, then absolute
//     positions; DirectionLR transposes the two axes.
//  4. Ports: each edge picks the cardinal sides it leaves and enters,
//     containment first, same-rank laterals next, then flow defaults, with
//     deterministic collision nudging tie-broken by edge ID.
//  5. Geometry: ports and rectangles become cubic curves with a label anchor
//     offset from the midpoint.
//
// # Fault Tolerance
//
// Bad graph data never aborts a run. Dangling edges are dropped, containment
// cycles promote the offender to top level, and a cycle in the top-level
// flow is broken at the lowest remaining node ID. Every repair is reported
// as a [Diagnostic] on the result, so the renderer always has geometry and
// the caller still learns about upstream data faults. Only a nil diagram or
// invalid [Options] return an error.
//
// # Determinism
//
// Identical input produces bit-identical output: no randomness, no clocks,
// no measurement. The optional cosmetic jitter pass lives in the separate
// jitter subpackage, takes an explicit seed, and is never applied by the
// engine itself.
package layout
