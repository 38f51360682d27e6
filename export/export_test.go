package export_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"choopy/connections"
	"choopy/core"
	"choopy/export"
	"choopy/network"
)

func sampleState() network.State {
	s := network.NewState(network.DefaultParams())
	s.Nodes = []core.Node{
		{ID: 0, Paper: core.Paper{Name: "Attention", Author: "Vaswani", Year: 2017}, Pos: core.Point{X: 0, Y: 0}},
		{ID: 1, Paper: core.Paper{Name: "BERT", Author: "Devlin", Year: 2018}, Pos: core.Point{X: 70, Y: 0}},
		{ID: 2, Paper: core.Paper{Name: `Say "hi"`, Author: "Anon"}, Pos: core.Point{X: 300, Y: 120}},
	}
	s.Links = connections.Graph{}.Link(0, 1, core.Offset{X: 70})
	s.Bounds = core.Size{W: 480, H: 240}
	return s
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected export.Format
		wantErr  bool
	}{
		{"ascii", export.FormatASCII, false},
		{"txt", export.FormatASCII, false},
		{"json", export.FormatJSON, false},
		{"svg", export.FormatSVG, false},
		{"dot", export.FormatDOT, false},
		{"graphviz", export.FormatDOT, false},
		{"mmd", export.FormatMermaid, false},
		{"invalid", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := export.ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if tt.wantErr && !errors.Is(err, export.ErrUnknownFormat) {
				t.Errorf("ParseFormat(%q) error should wrap ErrUnknownFormat", tt.input)
			}
			if got != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewExporter(t *testing.T) {
	for _, format := range export.GetAvailableFormats() {
		t.Run(string(format), func(t *testing.T) {
			exporter, err := export.NewExporter(format, export.Options{})
			if err != nil {
				t.Fatalf("NewExporter(%v) returned error: %v", format, err)
			}
			if exporter.GetFileExtension() == "" || exporter.GetFormatName() == "" {
				t.Errorf("exporter %v should describe itself", format)
			}
			if _, err := exporter.Export(network.NewState(network.DefaultParams())); err == nil && format != export.FormatJSON {
				t.Errorf("exporting an empty network as %v should fail", format)
			}
		})
	}

	_, err := export.NewExporter("invalid", export.Options{})
	if !errors.Is(err, export.ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestJSONExporter(t *testing.T) {
	out, err := export.NewJSONExporter().Export(sampleState())
	if err != nil {
		t.Fatal(err)
	}

	var snap export.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("output is not a snapshot: %v", err)
	}
	if len(snap.Nodes) != 3 || snap.Nodes[1].Pos.X != 70 {
		t.Errorf("unexpected nodes %+v", snap.Nodes)
	}
	if len(snap.Links) != 1 || snap.Links[0].A != 0 || snap.Links[0].B != 1 {
		t.Errorf("unexpected links %+v", snap.Links)
	}
	if !strings.Contains(out, `"time": 2017`) {
		t.Error("papers should keep their input field names")
	}
}

func TestJSONExporterEmpty(t *testing.T) {
	out, err := export.NewJSONExporter().Export(network.NewState(network.DefaultParams()))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"nodes": []`) || !strings.Contains(out, `"links": []`) {
		t.Errorf("empty collections should be arrays, got %s", out)
	}
}

func TestASCIIExporter(t *testing.T) {
	out, err := export.NewASCIIExporter(60, 16).Export(sampleState())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Paper Network", "Attenti", "BERT", "╔"} {
		if !strings.Contains(out, want) {
			t.Errorf("ascii output missing %q:\n%s", want, out)
		}
	}
}

func TestGraphvizExporter(t *testing.T) {
	out, err := export.NewGraphvizExporter().Export(sampleState())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"graph G {",
		`N0 [label="Attention (2017)", pos="30,-30!", width=0.8333333333333334, peripheries=2];`,
		`N2 [label="Say \"hi\"", pos="330,-150!"`,
		"N0 -- N1;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dot output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "N2 --") || strings.Contains(out, "-- N2") {
		t.Error("unlinked node should have no edges")
	}
}

func TestMermaidExporter(t *testing.T) {
	out, err := export.NewMermaidExporter().Export(sampleState())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"graph LR",
		`N0(("Attention (2017)"))`,
		`N2(("Say #quot;hi#quot;"))`,
		"N0 --- N1",
		"class N0,N1 linked",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("mermaid output missing %q:\n%s", want, out)
		}
	}
}

func TestSVGExporter(t *testing.T) {
	s := sampleState()
	s.Hovered = 0

	out, err := export.NewSVGExporter().Export(s)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`<svg width="480" height="240"`,
		`<circle cx="30" cy="30" r="30"`,
		`stroke="url(#link)"`,
		`stroke-opacity="0.8"`,
		`stroke-opacity="0.4"`,
		`Say &#34;hi&#34;`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("svg output missing %q", want)
		}
	}
	if got := strings.Count(out, "<circle"); got != 3 {
		t.Errorf("expected 3 bubbles, got %d", got)
	}
}
