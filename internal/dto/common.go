package dto

// MessageResponse represents a generic message response.
// @Description Generic message response
type MessageResponse struct {
	Message string `json:"message"`
}

// PaginationInfo defines pagination details for responses.
type PaginationInfo struct {
	TotalItems  int `json:"total_items"`
	PageSize    int `json:"page_size"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}
