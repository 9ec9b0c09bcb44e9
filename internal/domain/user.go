package domain

// TokenAccessAuth marks tokens issued for API authentication.
const TokenAccessAuth = "auth"

// User represents an account able to present auth tokens.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Tokens       []Token
}

// Token is an issued bearer token together with the access it grants.
type Token struct {
	Access string
	Token  string
}
