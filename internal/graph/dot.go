// Package graph writes the dependency graph as Graphviz DOT.
package graph

import (
	"fmt"
	"io"
	"strings"

	"github.com/lithammer/dedent"

	"depends/internal/errors"
)

// preamble opens the digraph with fixed layout hints.
var preamble = dedent.Dedent(`
	# This file was generated by depends

	strict digraph "dependencies" {
	    graph [
	        rankdir = "LR",
	        overlap = "scale",
	        size = "8,10",
	        ratio = "fill",
	        fontsize = "16",
	        fontname = "Helvetica",
	        clusterrank = "local"
	    ]

	    node [
	        fontsize=7
	        shape=ellipse
	    ];

`)

const terminator = "}\n"

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Stats counts what an Emitter has written.
type Stats struct {
	Nodes int
	Edges int
}

// Emitter streams DOT statements to a writer. Each node label is declared at
// most once per Emitter; edges are written every time they are emitted.
// An Emitter is not safe for concurrent use.
type Emitter struct {
	w       io.Writer
	emitted map[string]struct{}
	stats   Stats
}

// NewEmitter creates an emitter with an empty node set.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{
		w:       w,
		emitted: make(map[string]struct{}),
	}
}

// Preamble writes the graph header.
func (e *Emitter) Preamble() error {
	return e.write(preamble)
}

// Node declares label as a filled node unless it was already declared.
func (e *Emitter) Node(label string) error {
	if _, ok := e.emitted[label]; ok {
		return nil
	}
	e.emitted[label] = struct{}{}
	e.stats.Nodes++
	return e.write(fmt.Sprintf("\"%s\" [style=filled];\n", labelEscaper.Replace(label)))
}

// Edge declares a directed edge from -> to.
func (e *Emitter) Edge(from, to string) error {
	e.stats.Edges++
	return e.write(fmt.Sprintf("\"%s\" -> \"%s\";\n", labelEscaper.Replace(from), labelEscaper.Replace(to)))
}

// Close writes the closing brace. It does not close the underlying writer.
func (e *Emitter) Close() error {
	return e.write(terminator)
}

// HasNode reports whether label has been declared.
func (e *Emitter) HasNode(label string) bool {
	_, ok := e.emitted[label]
	return ok
}

// Stats returns the counts written so far.
func (e *Emitter) Stats() Stats {
	return e.stats
}

func (e *Emitter) write(s string) error {
	if _, err := io.WriteString(e.w, s); err != nil {
		return errors.New(errors.IOFailed, "cannot write graph output", err)
	}
	return nil
}
