package dto

// LoginRequest carries admin credentials from the hidden login form.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SetDraftRequest replaces the draft of one edit session. Only the fields
// of that session's section may be present.
type SetDraftRequest struct {
	UpdateSettingsRequest
}

// LogoClickResponse reports the click progress toward the hidden login.
type LogoClickResponse struct {
	Revealed bool  `json:"revealed"`
	Clicks   int64 `json:"clicks"`
}
