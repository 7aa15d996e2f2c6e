package catalog

import (
	"fmt"

	"blockstudio/internal/domain"
)

// Language holds the per-language configuration the compiler and the
// block catalog draw from.
type Language struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Extension string            `json:"extension"`
	Keywords  []string          `json:"keywords"`
	DataTypes map[string]string `json:"dataTypes"` // abstract type → language type
}

// LanguageInfo is the short listing entry served to clients.
type LanguageInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// languages is declaration-ordered so listings are stable.
var languages = []Language{
	{
		ID:        "c",
		Name:      "C",
		Extension: ".c",
		Keywords: []string{
			"int", "float", "char", "double", "void", "if", "else", "while",
			"for", "do", "break", "continue", "return", "switch", "case",
			"default", "printf", "scanf", "main", "include", "stdio.h",
		},
		DataTypes: map[string]string{
			"int": "int", "float": "float", "string": "char*",
			"boolean": "int", "array": "int[]",
		},
	},
	{
		ID:        "cpp",
		Name:      "C++",
		Extension: ".cpp",
		Keywords: []string{
			"int", "float", "char", "double", "bool", "string", "void", "if",
			"else", "while", "for", "do", "break", "continue", "return",
			"switch", "case", "default", "cout", "cin", "endl", "using",
			"namespace", "std", "main", "include", "iostream",
		},
		DataTypes: map[string]string{
			"int": "int", "float": "float", "string": "string",
			"boolean": "bool", "array": "vector<int>",
		},
	},
	{
		ID:        "python",
		Name:      "Python",
		Extension: ".py",
		Keywords: []string{
			"def", "if", "elif", "else", "while", "for", "in", "break",
			"continue", "return", "class", "import", "from", "as", "try",
			"except", "finally", "with", "lambda", "and", "or", "not",
			"True", "False", "None", "print", "input", "len", "range",
		},
		DataTypes: map[string]string{
			"int": "int", "float": "float", "string": "str",
			"boolean": "bool", "array": "list",
		},
	},
	{
		ID:        "java",
		Name:      "Java",
		Extension: ".java",
		Keywords: []string{
			"public", "private", "protected", "static", "void", "int", "float",
			"double", "char", "boolean", "String", "if", "else", "while",
			"for", "do", "break", "continue", "return", "switch", "case",
			"default", "class", "main", "System", "out", "println", "Scanner",
			"nextInt", "nextLine", "import", "java", "util",
		},
		DataTypes: map[string]string{
			"int": "int", "float": "float", "string": "String",
			"boolean": "boolean", "array": "int[]",
		},
	},
}

// DataTypeKeys returns the abstract data-type names in a stable order.
// These feed the variable block's data_type select options.
func (l *Language) DataTypeKeys() []string {
	// Fixed order — map iteration would reshuffle select options.
	order := []string{"int", "float", "string", "boolean", "array"}
	out := make([]string, 0, len(order))
	for _, k := range order {
		if _, ok := l.DataTypes[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// Languages lists the available language ids and display names.
func Languages() []LanguageInfo {
	out := make([]LanguageInfo, len(languages))
	for i, l := range languages {
		out[i] = LanguageInfo{ID: l.ID, Name: l.Name}
	}
	return out
}

// LanguageByID resolves a language id, or ErrNotFound.
func LanguageByID(id string) (*Language, error) {
	for i := range languages {
		if languages[i].ID == id {
			return &languages[i], nil
		}
	}
	return nil, fmt.Errorf("language %s: %w", id, domain.ErrNotFound)
}
