package models

import "encoding/json"

// LoginRequest is the credential pair sent to /auth/login. It is never persisted.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Token is the /auth/login response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ErrorBody is the error envelope of the API. Detail is usually a string,
// but validation failures carry a list of field errors instead.
type ErrorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// DetailText returns Detail when it is a JSON string.
func (b ErrorBody) DetailText() (string, bool) {
	if len(b.Detail) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(b.Detail, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}
