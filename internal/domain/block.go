package domain

// BlockType identifies the kind of program block on the canvas.
type BlockType string

const (
	BlockTypeStart    BlockType = "start"
	BlockTypeEnd      BlockType = "end"
	BlockTypeVariable BlockType = "variable"
	BlockTypePrint    BlockType = "print"
	BlockTypeInput    BlockType = "input"
	BlockTypeAssign   BlockType = "assign"
	BlockTypeIf       BlockType = "if"
	BlockTypeWhile    BlockType = "while"
	BlockTypeFor      BlockType = "for"
)

// Block is a single program block placed on the canvas.
// Position is in canvas space and always grid-aligned.
type Block struct {
	ID         string            `json:"id"`
	Type       BlockType         `json:"type"`
	X          float64           `json:"x"`
	Y          float64           `json:"y"`
	Properties map[string]string `json:"properties"`
	// Definition references the catalog schema for this block's type.
	// Shared, immutable — excluded from snapshots and structural equality.
	Definition *BlockDefinition `json:"-"`
}

// Clone returns an independent deep copy of the block.
// The definition reference is shared since definitions are immutable.
func (b *Block) Clone() *Block {
	c := *b
	c.Properties = make(map[string]string, len(b.Properties))
	for k, v := range b.Properties {
		c.Properties[k] = v
	}
	return &c
}

// BlockDefinition is the catalog schema for a block type.
type BlockDefinition struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
	Inputs      []BlockInput `json:"inputs,omitempty"`
}

// BlockInput describes one editable property of a block type.
type BlockInput struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"` // "text" or "select"
	Required bool     `json:"required,omitempty"`
	Options  []string `json:"options,omitempty"`
}
