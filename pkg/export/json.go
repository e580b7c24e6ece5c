package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/depviz/pkg/graph"
)

type jsonResult struct {
	ID      string              `json:"id"`
	Root    string              `json:"root"`
	Nodes   []jsonNode          `json:"nodes"`
	Edges   []jsonEdge          `json:"edges"`
	Cycles  [][]string          `json:"cycles,omitempty"`
	Reverse map[string][]string `json:"reverse,omitempty"`
}

type jsonNode struct {
	Name         string            `json:"name"`
	Level        int               `json:"level"`
	Error        string            `json:"error,omitempty"`
	Dependencies map[string]string `json:"dependencies"`
}

type jsonEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteJSON encodes a build result as indented JSON and writes it to w.
// Nodes appear in discovery order and edges in node order with sorted
// dependency names, so equal results encode byte-for-byte identically.
func WriteJSON(res *graph.Result, w io.Writer) error {
	out := jsonResult{
		ID:      res.ID,
		Root:    res.Root,
		Nodes:   make([]jsonNode, 0, res.Graph.Len()),
		Edges:   []jsonEdge{},
		Reverse: res.Reverse,
	}

	for _, name := range res.Graph.Names() {
		n, _ := res.Graph.Node(name)
		out.Nodes = append(out.Nodes, jsonNode{
			Name:         name,
			Level:        n.Level,
			Error:        n.Reason,
			Dependencies: n.Deps,
		})
		for _, dep := range n.Deps.Names() {
			out.Edges = append(out.Edges, jsonEdge{From: name, To: dep})
		}
	}
	for _, c := range res.Cycles {
		out.Cycles = append(out.Cycles, c)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a build result to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(res *graph.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(res, f)
}
