package models

// AllLanguages is the account language that allows any language to be selected
const AllLanguages = "all"

// UserAccount represents a reviewer account
type UserAccount struct {
	Username string `json:"username"`
	Password string `json:"-"`
	Language string `json:"language"`
}

// CanSelect reports whether the account may review in the given language
func (u *UserAccount) CanSelect(language string) bool {
	return u.Language == AllLanguages || u.Language == language
}

// LoginRequest represents the body of a login request
type LoginRequest struct {
	Username         string `json:"username"`
	Password         string `json:"password"`
	SelectedLanguage string `json:"selectedLanguage"`
}

// LoginResponse represents an accepted login
type LoginResponse struct {
	Username         string `json:"username"`
	SelectedLanguage string `json:"selectedLanguage"`
}
