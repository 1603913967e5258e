package model

import "time"

// Claims is the verified identity taken from an ID token
type Claims struct {
	Subject   string
	Username  string
	Email     string
	ExpiresAt time.Time
}

// UserInput returns the registration payload for the identity
func (c *Claims) UserInput() *UserInput {
	username := c.Username
	if username == "" {
		username = c.Email
	}
	return &UserInput{
		Username:  username,
		Email:     c.Email,
		CognitoID: c.Subject,
	}
}
