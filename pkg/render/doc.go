// Package render contains the artifact renderers.
//
// The [dot] subpackage converts a computed layout into Graphviz DOT and
// renders SVG and PNG images through the embedded Graphviz engine. The
// exact geometry export (layout.json) lives in the diagram package, since
// it is a serialization of the layout result rather than a re-rendering.
package render
