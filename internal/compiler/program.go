package compiler

import (
	"strings"

	"blockstudio/internal/domain"
)

// Node is one program node built from a canvas block. Control-flow nodes
// (if/while/for) treat their outgoing edges as their body.
type Node struct {
	ID         string            `json:"id"`
	Type       domain.BlockType  `json:"type"`
	X          float64           `json:"x"`
	Y          float64           `json:"y"`
	Properties map[string]string `json:"properties"`
	Next       []string          `json:"connections"`
}

// Program is the executable graph assembled from blocks and connections.
type Program struct {
	Nodes map[string]*Node `json:"nodes"`
	Order []string         `json:"-"` // block declaration order
	Start *Node            `json:"-"`
	End   *Node            `json:"-"`
}

// Build assembles a program from session blocks and connections.
// Connections referencing unknown blocks are dropped, mirroring how the
// canvas guarantees no dangling edge.
func Build(blocks []domain.SessionBlock, conns []domain.Connection) *Program {
	p := &Program{Nodes: make(map[string]*Node, len(blocks))}
	for _, b := range blocks {
		props := make(map[string]string, len(b.Properties))
		for k, v := range b.Properties {
			props[k] = v
		}
		n := &Node{
			ID:         b.ID,
			Type:       domain.BlockType(b.Type),
			X:          b.X,
			Y:          b.Y,
			Properties: props,
		}
		p.Nodes[n.ID] = n
		p.Order = append(p.Order, n.ID)
		switch n.Type {
		case domain.BlockTypeStart:
			p.Start = n
		case domain.BlockTypeEnd:
			p.End = n
		}
	}
	for _, c := range conns {
		from, ok := p.Nodes[c.From]
		if !ok {
			continue
		}
		if _, ok := p.Nodes[c.To]; !ok {
			continue
		}
		from.Next = append(from.Next, c.To)
	}
	return p
}

// Validate checks each node's required properties and returns the
// collected errors.
func (p *Program) Validate() []string {
	var errs []string
	for _, id := range p.Order {
		errs = append(errs, p.Nodes[id].validate()...)
	}
	return errs
}

// Warnings reports non-fatal structural issues.
func (p *Program) Warnings() []string {
	var warns []string
	if p.Start == nil {
		warns = append(warns, "Consider adding a start node to define the program entry point")
	}
	if p.End == nil {
		warns = append(warns, "Consider adding an end node to define the program exit point")
	}
	return warns
}

func (n *Node) validate() []string {
	var errs []string
	switch n.Type {
	case domain.BlockTypeVariable:
		if n.Properties["var_name"] == "" {
			errs = append(errs, "Variable name is required")
		}
	case domain.BlockTypePrint:
		if n.Properties["text"] == "" && n.Properties["variables"] == "" {
			errs = append(errs, "Print statement must have text or variables")
		}
	case domain.BlockTypeInput:
		if n.Properties["variable"] == "" {
			errs = append(errs, "Input must specify a variable to store the value")
		}
	case domain.BlockTypeAssign:
		if n.Properties["variable"] == "" {
			errs = append(errs, "Assignment must specify a variable")
		}
		if n.Properties["expression"] == "" {
			errs = append(errs, "Assignment must have an expression")
		}
	case domain.BlockTypeIf:
		if n.Properties["condition"] == "" {
			errs = append(errs, "If statement must have a condition")
		}
	case domain.BlockTypeWhile:
		if n.Properties["condition"] == "" {
			errs = append(errs, "While loop must have a condition")
		}
	case domain.BlockTypeFor:
		if n.Properties["init"] == "" || n.Properties["condition"] == "" || n.Properties["increment"] == "" {
			errs = append(errs, "For loop must have initialization, condition, and increment")
		}
	}
	return errs
}

// variables returns the print node's comma-separated variable names.
func (n *Node) variables() []string {
	raw := n.Properties["variables"]
	if raw == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
