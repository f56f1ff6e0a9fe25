// Package searchgraph serializes the hypothesis forest of a decode
// for offline inspection. Arcs are written as zstd-compressed JSON
// lines, one arc per line, in arena order.
package searchgraph

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Arc is one hypothesis of the search graph. Back points to the
// predecessor arc, Alt to the first recombined alternative; both are
// zero for none. The initial hypothesis has an empty Output.
type Arc struct {
	ID     uint32  `json:"id"`
	Back   uint32  `json:"back,omitempty"`
	Alt    uint32  `json:"alt,omitempty"`
	Output string  `json:"output,omitempty"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Score  float64 `json:"score"`
	Total  float64 `json:"total"`
}

// Write streams the arcs to w as zstd-compressed JSON lines.
func Write(w io.Writer, arcs []Arc) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(zw)
	enc := json.NewEncoder(bw)
	for _, arc := range arcs {
		if err := enc.Encode(arc); err != nil {
			_ = zw.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

// Read decodes a search graph written by Write.
func Read(r io.Reader) ([]Arc, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var arcs []Arc
	dec := json.NewDecoder(zr)
	for {
		var arc Arc
		if err := dec.Decode(&arc); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		arcs = append(arcs, arc)
	}
	return arcs, nil
}
