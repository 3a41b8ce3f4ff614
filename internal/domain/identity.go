package domain

// Identity is the current user context that scopes the ledgers. Guest
// identities are ephemeral and are not guaranteed to survive the session.
type Identity struct {
	ID      string `json:"id"`
	IsGuest bool   `json:"is_guest"`
	Email   string `json:"email,omitempty"`
}
