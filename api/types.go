package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler       authHandler
	projectHandler    projectHandler
	technologyHandler technologyHandler
	contactHandler    contactHandler
	uploadHandler     *uploadHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"invalid field"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"year"`
	Details string `json:"details,omitempty" example:"Invalid field year: must be a calendar year"`
}

// MessageResponse is the body of endpoints that only confirm an action.
type MessageResponse struct {
	Message string `json:"message" example:"Projeto removido com sucesso."`
}

// ContactCreatedResponse is returned after a contact message is stored.
type ContactCreatedResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// UploadResponse locates an uploaded image.
type UploadResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}
