// Package pkg provides the core libraries for Flowmap diagram layout.
//
// # Overview
//
// Flowmap computes deterministic layouts for hierarchical process diagrams:
// nodes get positions and sizes, edges get ports and bezier paths, and the
// same input always produces the same picture. The pkg directory is
// organized into five main areas:
//
//  1. [flow] - The diagram model (nodes, edges, containment)
//  2. [layout] - The layout engine (sizing, packing, ranking, ports, geometry)
//  3. [diagram] - Import and export of diagram and layout documents
//  4. [render] - Artifact generation (DOT, SVG, PNG via Graphviz)
//  5. [pipeline] - Orchestration (import → layout → render) with caching
//
// # Architecture
//
// The typical data flow through Flowmap:
//
//	diagram.json / diagram.yaml
//	         ↓
//	    [diagram] package (decode into the flow model)
//	         ↓
//	    [flow] package (validated diagram structure)
//	         ↓
//	    [layout] package (sizing → packing → ranking → ports → paths)
//	         ↓
//	    [render] package (DOT/SVG/PNG) or layout.json export
//
// # Quick Start
//
// Compute a layout directly:
//
//	d := flow.New()
//	d.AddNode(flow.Node{ID: "start", Kind: flow.KindTrigger})
//	d.AddNode(flow.Node{ID: "done", Kind: flow.KindEnd})
//	d.AddEdge(flow.Edge{ID: "e1", Source: "start", Target: "done"})
//
//	res, err := layout.Layout(d, layout.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Width, res.Height)
//
// Or run the full pipeline with caching:
//
//	runner := pipeline.NewRunner(cache, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "process.yaml",
//	    Formats: []string{"json", "svg"},
//	})
//
// Supporting packages: [cache] for layout and artifact caching, [errors] for
// coded errors, [observability] for metrics hooks, and [buildinfo] for
// version stamping.
package pkg
