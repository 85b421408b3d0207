package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flowmap/flowmap/pkg/cache"
)

const sampleDiagram = `{
  "nodes": [
    {"id": "start", "kind": "trigger"},
    {"id": "work", "kind": "step", "expanded": true},
    {"id": "w1", "kind": "step", "parent": "work"},
    {"id": "done", "kind": "end"}
  ],
  "edges": [
    {"id": "e1", "source": "start", "target": "work"},
    {"id": "e2", "source": "work", "target": "done"}
  ]
}`

func writeDiagram(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "d.json")
	if err := os.WriteFile(path, []byte(sampleDiagram), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"NoInput", Options{}, "path or source"},
		{"BothInputs", Options{Path: "x.json", Source: []byte("{}")}, "mutually exclusive"},
		{"BadFormat", Options{Path: "x.json", Formats: []string{"gif"}}, "invalid format"},
		{"BadDirection", Options{Path: "x.json", Direction: "XY"}, "direction"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Path: "x.json"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Direction != "TB" {
		t.Errorf("direction = %q, want TB", opts.Direction)
	}
	if opts.RankSpacing == 0 || opts.GridSpacing == 0 {
		t.Error("spacing defaults not applied")
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("formats = %v, want [json]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("logger default not applied")
	}

	// Jitter seed defaults only when jitter is on.
	if opts.Seed != 0 {
		t.Error("seed set without jitter")
	}
	j := Options{Path: "x.json", Jitter: true}
	if err := j.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if j.Seed != DefaultSeed {
		t.Errorf("jitter seed = %d, want %d", j.Seed, DefaultSeed)
	}
}

func TestExecuteFromFile(t *testing.T) {
	runner := NewRunner(nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Path:    writeDiagram(t),
		Formats: []string{FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.RunID == "" {
		t.Error("run ID missing")
	}
	if result.Stats.NodeCount != 4 || result.Stats.EdgeCount != 2 {
		t.Errorf("stats = %d nodes, %d edges, want 4 and 2", result.Stats.NodeCount, result.Stats.EdgeCount)
	}
	if result.Layout == nil || len(result.Layout.Nodes) != 4 {
		t.Fatal("layout missing or incomplete")
	}
	if result.DiagramHash == "" {
		t.Error("diagram hash missing")
	}

	if !strings.Contains(string(result.Artifacts[FormatJSON]), `"nodes"`) {
		t.Error("json artifact malformed")
	}
	if !strings.Contains(string(result.Artifacts[FormatDOT]), "digraph flowmap") {
		t.Error("dot artifact malformed")
	}
}

func TestExecuteFromSource(t *testing.T) {
	runner := NewRunner(nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Source:  []byte(sampleDiagram),
		Formats: []string{FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Stats.NodeCount != 4 {
		t.Errorf("node count = %d, want 4", result.Stats.NodeCount)
	}
}

func TestExecuteMissingFile(t *testing.T) {
	runner := NewRunner(nil, nil)
	defer runner.Close()

	_, err := runner.Execute(context.Background(), Options{Path: filepath.Join(t.TempDir(), "absent.json")})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "import") {
		t.Errorf("error %q does not name the failing stage", err)
	}
}

func TestExecuteCaching(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil)
	defer runner.Close()

	path := writeDiagram(t)
	opts := Options{Path: path, Formats: []string{FormatJSON, FormatDOT}}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Error("cold cache reported hits")
	}

	second, err := runner.Execute(context.Background(), Options{Path: path, Formats: []string{FormatJSON, FormatDOT}})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("warm cache missed: %+v", second.CacheInfo)
	}

	// Cached geometry matches the computed one.
	if len(second.Layout.Nodes) != len(first.Layout.Nodes) {
		t.Error("cached layout lost nodes")
	}
	if string(second.Artifacts[FormatDOT]) != string(first.Artifacts[FormatDOT]) {
		t.Error("cached artifact differs from rendered one")
	}

	// Refresh bypasses the cache.
	third, err := runner.Execute(context.Background(), Options{Path: path, Formats: []string{FormatJSON}, Refresh: true})
	if err != nil {
		t.Fatalf("refresh run: %v", err)
	}
	if third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Error("refresh run reported cache hits")
	}
}

func TestExecuteJitterChangesKey(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil)
	defer runner.Close()

	path := writeDiagram(t)
	if _, err := runner.Execute(context.Background(), Options{Path: path}); err != nil {
		t.Fatal(err)
	}

	// A jittered run must not reuse the plain layout entry.
	jittered, err := runner.Execute(context.Background(), Options{Path: path, Jitter: true, Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	if jittered.CacheInfo.LayoutHit {
		t.Error("jittered run hit the unjittered cache entry")
	}
}
