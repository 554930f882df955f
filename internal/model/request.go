package model

// SelectOptionRequest is the payload for answering the current question.
type SelectOptionRequest struct {
	OptionID *int `json:"option_id" binding:"required"`
}

// NavigateRequest is the payload for jumping to a position.
type NavigateRequest struct {
	Position *int `json:"position" binding:"required"`
}

// ComprehensionRequest shows or hides the passage panel.
type ComprehensionRequest struct {
	Show *bool `json:"show" binding:"required"`
}

// SubmitModalRequest opens or closes the submit confirmation.
type SubmitModalRequest struct {
	Open *bool `json:"open" binding:"required"`
}
