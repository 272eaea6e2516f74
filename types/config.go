package types

// ChunkingConfig controls how normalized text is windowed.
type ChunkingConfig struct {
	TargetSize int `json:"target_size" mapstructure:"target_size"`
	Overlap    int `json:"overlap" mapstructure:"overlap"`
}

// RetrievalConfig controls answer-time retrieval and context assembly.
type RetrievalConfig struct {
	TopK            int `json:"top_k" mapstructure:"top_k"`
	MaxContextUnits int `json:"max_context_units" mapstructure:"max_context_units"`
}
