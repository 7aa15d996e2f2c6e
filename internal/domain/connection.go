package domain

// Connection is a directed sequential edge between two blocks.
// Both endpoints must reference blocks that exist in the same graph.
type Connection struct {
	From     string `json:"from"`
	To       string `json:"to"`
	FromPort string `json:"fromPort,omitempty"`
	ToPort   string `json:"toPort,omitempty"`
}
