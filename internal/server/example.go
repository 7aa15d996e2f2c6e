package server

import "blockstudio/internal/domain"

// ExampleProgram returns a canned greeting program used by the example
// endpoint and by clients as a smoke test.
func ExampleProgram() domain.SessionDocument {
	return domain.SessionDocument{
		Language: "python",
		Zoom:     1,
		Blocks: []domain.SessionBlock{
			{ID: "start_1", Type: "start", X: 100, Y: 100, Properties: map[string]string{}, Language: "python"},
			{ID: "variable_2", Type: "variable", X: 100, Y: 200, Properties: map[string]string{
				"var_name": "name", "data_type": "string", "initial_value": "",
			}, Language: "python"},
			{ID: "input_3", Type: "input", X: 100, Y: 300, Properties: map[string]string{
				"prompt": "Enter your name: ", "variable": "name",
			}, Language: "python"},
			{ID: "print_4", Type: "print", X: 100, Y: 400, Properties: map[string]string{
				"text": "Hello, ", "variables": "name",
			}, Language: "python"},
			{ID: "end_5", Type: "end", X: 100, Y: 500, Properties: map[string]string{}, Language: "python"},
		},
		Connections: []domain.Connection{
			{From: "start_1", To: "variable_2"},
			{From: "variable_2", To: "input_3"},
			{From: "input_3", To: "print_4"},
			{From: "print_4", To: "end_5"},
		},
	}
}
