package entity

type CreateWebsiteRequest struct {
	ChatbotID   string
	Name        string
	DomainName  string
	Description string
	CreatorID   string
}

type UpdateWebsiteRequest struct {
	ID                   string
	Name                 *string
	Description          *string
	Temperature          *float64
	Instructions         *string
	ConversationStarters []string
	LLM                  *LLMSettings
}

type ListWebsitesRequest struct {
	ListRequest
	ChatbotID string
}

type WebsiteSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DomainName string `json:"domain_name"`
	CreatedAt  string `json:"created_at"`
}

type ListWebsitesResponse struct {
	Websites   []*WebsiteSummary `json:"websites"`
	Pagination Pagination        `json:"pagination"`
}

type DeleteWebsiteResponse struct {
	Status string `json:"status"`
}

// SyncWpPostRequest carries one WordPress post pushed by the wp plugin.
type SyncWpPostRequest struct {
	ChatbotID string
	WebsiteID string
	WpID      string
	Title     string
	HTML      string
}

type SyncWpPostResponse struct {
	PostID     string `json:"post_id"`
	ChunkCount int    `json:"chunk_count"`
	Replaced   bool   `json:"replaced"`
}
