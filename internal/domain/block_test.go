package domain

import "testing"

func TestBlock_Clone(t *testing.T) {
	def := &BlockDefinition{ID: "variable"}
	b := &Block{
		ID:         "variable_1",
		Type:       BlockTypeVariable,
		X:          100,
		Y:          200,
		Properties: map[string]string{"var_name": "count"},
		Definition: def,
	}

	c := b.Clone()
	c.Properties["var_name"] = "changed"
	c.X = 500

	if b.Properties["var_name"] != "count" {
		t.Error("clone shares the property map")
	}
	if b.X != 100 {
		t.Error("clone shares position state")
	}
	if c.Definition != def {
		t.Error("clone should share the immutable definition")
	}
}
