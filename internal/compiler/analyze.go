package compiler

import (
	"fmt"

	"blockstudio/internal/domain"
)

// analyze runs the semantic pass: duplicate variable declarations are
// errors, input/assign auto-declare their target, and printing an
// undeclared variable is an error. Nodes are visited in declaration
// order, matching the sequential chain the canvas produces.
func (p *Program) analyze() []string {
	var errs []string
	if len(p.Nodes) == 0 {
		return []string{"Program must have at least one block"}
	}

	declared := make(map[string]bool)
	for _, id := range p.Order {
		n := p.Nodes[id]
		switch n.Type {
		case domain.BlockTypeVariable:
			name := n.Properties["var_name"]
			if name == "" {
				continue
			}
			if declared[name] {
				errs = append(errs, fmt.Sprintf("Variable '%s' is already declared", name))
			} else {
				declared[name] = true
			}
		case domain.BlockTypeInput, domain.BlockTypeAssign:
			if name := n.Properties["variable"]; name != "" {
				declared[name] = true
			}
		case domain.BlockTypePrint:
			for _, v := range n.variables() {
				if !declared[v] {
					errs = append(errs, fmt.Sprintf("Variable '%s' used in print but not declared", v))
				}
			}
		}
	}
	return errs
}
