package compiler

import (
	"fmt"
	"strings"

	"blockstudio/internal/catalog"
	"blockstudio/internal/domain"
)

// generator emits code for one language by walking the program's
// execution flow from the start node.
type generator struct {
	lang     *catalog.Language
	lines    []string
	indent   int
	declared map[string]bool
}

const generatedClassName = "VisualProgram"

// Generate produces source code for the program in the given language.
func (p *Program) Generate(lang *catalog.Language) string {
	g := &generator{lang: lang, declared: make(map[string]bool)}

	g.headers()
	braced := g.braced()
	if braced {
		g.startMain()
	}

	if p.Start != nil {
		visited := make(map[string]bool)
		g.node(p.Start, p, visited)
	}

	if braced {
		g.endMain()
	}
	return strings.Join(g.lines, "\n")
}

// braced reports whether the language wraps the program in a main
// function with braces. Python is the only exception.
func (g *generator) braced() bool {
	return g.lang.ID != "python"
}

func (g *generator) headers() {
	switch g.lang.ID {
	case "c":
		g.lines = append(g.lines, "#include <stdio.h>", "#include <stdlib.h>", "")
	case "cpp":
		g.lines = append(g.lines,
			"#include <iostream>", "#include <string>", "#include <vector>",
			"using namespace std;", "")
	case "java":
		g.lines = append(g.lines,
			"import java.util.Scanner;", "",
			fmt.Sprintf("public class %s {", generatedClassName))
		g.indent++
	case "python":
		g.lines = append(g.lines,
			"# Generated by blockstudio", "# Target: Python", "")
	}
}

func (g *generator) startMain() {
	if g.lang.ID == "java" {
		g.add("public static void main(String[] args) {")
		g.indent++
		g.add("Scanner scanner = new Scanner(System.in);")
		return
	}
	g.add("int main() {")
	g.indent++
}

func (g *generator) endMain() {
	if g.lang.ID == "java" {
		g.add("scanner.close();")
	}
	if g.lang.ID == "c" || g.lang.ID == "cpp" {
		g.add("return 0;")
	}
	g.indent--
	g.add("}")
	if g.lang.ID == "java" {
		g.indent--
		g.add("}")
	}
}

// node emits one node and then its successors. Control-flow nodes own
// their successors as a body and stop the caller's traversal.
func (g *generator) node(n *Node, p *Program, visited map[string]bool) {
	if visited[n.ID] {
		return
	}
	visited[n.ID] = true

	switch n.Type {
	case domain.BlockTypeStart:
		g.comment("Program Start")
	case domain.BlockTypeEnd:
		g.comment("Program End")
		return
	case domain.BlockTypeVariable:
		g.variable(n)
	case domain.BlockTypePrint:
		g.print(n)
	case domain.BlockTypeInput:
		g.input(n)
	case domain.BlockTypeAssign:
		g.assign(n)
	case domain.BlockTypeIf:
		g.block(n, p, visited, fmt.Sprintf("if %s:", n.prop("condition", "True")),
			fmt.Sprintf("if (%s) {", n.prop("condition", "true")))
		return
	case domain.BlockTypeWhile:
		g.block(n, p, visited, fmt.Sprintf("while %s:", n.prop("condition", "True")),
			fmt.Sprintf("while (%s) {", n.prop("condition", "true")))
		return
	case domain.BlockTypeFor:
		g.forLoop(n, p, visited)
		return
	}

	for _, next := range n.Next {
		g.node(p.Nodes[next], p, visited)
	}
}

func (g *generator) variable(n *Node) {
	name := n.prop("var_name", "variable")
	dataType := n.prop("data_type", "int")
	initial := n.Properties["initial_value"]
	langType := g.lang.DataTypes[dataType]
	if langType == "" {
		langType = "int"
	}

	if g.lang.ID == "python" {
		if initial != "" {
			g.add(fmt.Sprintf("%s = %s", name, g.formatValue(initial, dataType)))
		} else {
			g.add(fmt.Sprintf("# Variable: %s (%s)", name, dataType))
		}
	} else if initial != "" {
		g.add(fmt.Sprintf("%s %s = %s;", langType, name, g.formatValue(initial, dataType)))
	} else {
		g.add(fmt.Sprintf("%s %s;", langType, name))
	}
	g.declared[name] = true
}

func (g *generator) print(n *Node) {
	text := n.Properties["text"]
	vars := n.variables()

	switch g.lang.ID {
	case "python":
		var parts []string
		if text != "" {
			parts = append(parts, fmt.Sprintf("%q", text))
		}
		parts = append(parts, vars...)
		if len(parts) > 0 {
			g.add(fmt.Sprintf("print(%s)", strings.Join(parts, ", ")))
		}
	case "c":
		switch {
		case text != "" && len(vars) > 0:
			placeholders := make([]string, len(vars))
			for i := range vars {
				placeholders[i] = "%d"
			}
			g.add(fmt.Sprintf(`printf("%s%s\n", %s);`, text, strings.Join(placeholders, " "), strings.Join(vars, ", ")))
		case text != "":
			g.add(fmt.Sprintf(`printf("%s\n");`, text))
		case len(vars) > 0:
			placeholders := make([]string, len(vars))
			for i := range vars {
				placeholders[i] = "%d"
			}
			g.add(fmt.Sprintf(`printf("%s\n", %s);`, strings.Join(placeholders, " "), strings.Join(vars, ", ")))
		}
	case "cpp":
		var parts []string
		if text != "" {
			parts = append(parts, fmt.Sprintf("%q", text))
		}
		parts = append(parts, vars...)
		if len(parts) > 0 {
			g.add(fmt.Sprintf("cout << %s << endl;", strings.Join(parts, ` << " " << `)))
		}
	case "java":
		var parts []string
		if text != "" {
			parts = append(parts, fmt.Sprintf("%q", text))
		}
		parts = append(parts, vars...)
		if len(parts) > 0 {
			g.add(fmt.Sprintf("System.out.println(%s);", strings.Join(parts, ` + " " + `)))
		}
	}
}

func (g *generator) input(n *Node) {
	prompt := n.Properties["prompt"]
	variable := n.prop("variable", "input_var")

	switch g.lang.ID {
	case "python":
		if prompt != "" {
			g.add(fmt.Sprintf("%s = input(%q)", variable, prompt))
		} else {
			g.add(fmt.Sprintf("%s = input()", variable))
		}
	case "c":
		if prompt != "" {
			g.add(fmt.Sprintf(`printf("%s");`, prompt))
		}
		g.add(fmt.Sprintf(`scanf("%%d", &%s);`, variable))
	case "cpp":
		if prompt != "" {
			g.add(fmt.Sprintf(`cout << "%s";`, prompt))
		}
		g.add(fmt.Sprintf("cin >> %s;", variable))
	case "java":
		if prompt != "" {
			g.add(fmt.Sprintf(`System.out.print("%s");`, prompt))
		}
		g.add(fmt.Sprintf("int %s = scanner.nextInt();", variable))
	}
	g.declared[variable] = true
}

func (g *generator) assign(n *Node) {
	variable := n.prop("variable", "var")
	expression := n.prop("expression", "0")
	if g.lang.ID == "python" {
		g.add(fmt.Sprintf("%s = %s", variable, expression))
	} else {
		g.add(fmt.Sprintf("%s = %s;", variable, expression))
	}
	g.declared[variable] = true
}

// block emits a conditional or loop with its successors as the body.
func (g *generator) block(n *Node, p *Program, visited map[string]bool, pyHeader, bracedHeader string) {
	if g.lang.ID == "python" {
		g.add(pyHeader)
	} else {
		g.add(bracedHeader)
	}
	g.indent++
	for _, next := range n.Next {
		g.node(p.Nodes[next], p, visited)
	}
	g.indent--
	if g.lang.ID != "python" {
		g.add("}")
	}
}

func (g *generator) forLoop(n *Node, p *Program, visited map[string]bool) {
	init := n.prop("init", "i = 0")
	cond := n.prop("condition", "i < 10")
	inc := n.prop("increment", "i++")

	if g.lang.ID == "python" {
		// C-style loop header approximated with range; the original
		// header is kept as a trailing comment.
		g.add(fmt.Sprintf("for i in range(10):  # %s; %s; %s", init, cond, inc))
	} else {
		g.add(fmt.Sprintf("for (%s; %s; %s) {", init, cond, inc))
	}
	g.indent++
	for _, next := range n.Next {
		g.node(p.Nodes[next], p, visited)
	}
	g.indent--
	if g.lang.ID != "python" {
		g.add("}")
	}
}

func (g *generator) formatValue(value, dataType string) string {
	switch dataType {
	case "string":
		if !strings.HasPrefix(value, `"`) {
			return fmt.Sprintf("%q", value)
		}
	case "boolean":
		truthy := value == "true" || value == "True" || value == "1"
		switch g.lang.ID {
		case "python":
			if truthy {
				return "True"
			}
			return "False"
		case "java":
			if truthy {
				return "true"
			}
			return "false"
		default:
			if truthy {
				return "1"
			}
			return "0"
		}
	}
	return value
}

func (g *generator) comment(text string) {
	if g.lang.ID == "python" {
		g.add("# " + text)
		return
	}
	g.add("// " + text)
}

func (g *generator) add(line string) {
	if strings.TrimSpace(line) == "" {
		g.lines = append(g.lines, "")
		return
	}
	g.lines = append(g.lines, strings.Repeat("    ", g.indent)+line)
}

func (n *Node) prop(key, fallback string) string {
	if v := n.Properties[key]; v != "" {
		return v
	}
	return fallback
}
