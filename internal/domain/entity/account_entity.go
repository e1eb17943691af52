package entity

// AccountLink associates an external identity-provider account with a User.
// The (Provider, ProviderAccountID) pair is unique: one external identity
// maps to at most one internal user.
type AccountLink struct {
	Provider          string
	ProviderAccountID string
	UserID            string

	Type         string // e.g. "oauth"
	RefreshToken string
	AccessToken  string
	ExpiresAt    int64 // unix seconds, 0 when the provider sent none
	TokenType    string
	Scope        string
	IDToken      string
}
