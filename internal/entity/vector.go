package entity

// Vector metadata keys shared by minting and retrieval filters.
const (
	MetaSource    = "source"
	MetaChatbotID = "chatbotId"
	MetaTraining  = "trainingId"
	MetaWebsiteID = "websiteId"
	MetaWpID      = "wpId"
)

// VectorDocument is one chunk of text addressed by a globally unique ID,
// ready to be embedded and stored.
type VectorDocument struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// VectorMatch is one retrieval hit, ordered by descending relevance.
type VectorMatch struct {
	ID       string
	Content  string
	Score    float32
	Metadata map[string]string
}
