// Package diagram provides JSON and YAML import plus JSON export for process
// diagrams and their computed layouts.
//
// # Overview
//
// This package is the file boundary of the engine. It decodes source diagrams
// into [flow.Diagram] values and encodes both the logical diagram and the
// positioned [layout.Result] for external renderers. The formats are designed
// for:
//
//   - Authoring diagrams by hand in YAML or JSON
//   - Round-trip preservation: import, transform, export, re-import identically
//   - Feeding web or native renderers that draw from absolute geometry
//
// # Diagram Format
//
// The source format has two top-level arrays:
//
//	{
//	  "nodes": [
//	    {"id": "start", "kind": "trigger"},
//	    {"id": "work", "kind": "step", "expanded": true},
//	    {"id": "w1", "kind": "step", "parent": "work"}
//	  ],
//	  "edges": [
//	    {"id": "e1", "source": "start", "target": "work"}
//	  ]
//	}
//
// The same schema applies to YAML input. Use [Import] to pick the decoder from
// the file extension, or [ReadJSON]/[ReadYAML] on any io.Reader.
//
// # Layout Export
//
// [WriteLayoutJSON] and [ExportLayout] emit the computed geometry: absolute
// rectangles per node, port sides and cubic paths per edge, overall bounds,
// and the diagnostics the engine recorded while repairing faults. A renderer
// consumes this document without running any layout math of its own.
//
// # Concurrency
//
// All functions are safe to call concurrently with other readers of the same
// diagram, but not with concurrent modification. Imported diagrams are
// independent instances.
package diagram
