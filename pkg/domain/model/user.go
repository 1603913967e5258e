package model

import "strconv"

// User is a Juno account. Identity itself is owned by the identity provider
// and CognitoID is the federation key.
type User struct {
	ID               int64  `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	ProfilePictureID string `json:"profilepicture_id,omitempty"`
	CognitoID        string `json:"cognito_id"`
	TeamID           *int64 `json:"team_id"`
}

// TagIDs returns the identifier used to tag a single cached user
func (u *User) TagIDs() []string {
	if u == nil {
		return nil
	}
	return []string{strconv.FormatInt(u.ID, 10)}
}

// Users is a list of users as returned by the API
type Users []*User

// TagIDs returns the identifiers used to tag cached user lists
func (u Users) TagIDs() []string {
	ids := make([]string, 0, len(u))
	for _, user := range u {
		if user == nil {
			continue
		}
		ids = append(ids, strconv.FormatInt(user.ID, 10))
	}
	return ids
}

// FindByUsername returns the user with the exact username, or nil
func (u Users) FindByUsername(username string) *User {
	for _, user := range u {
		if user.Username == username {
			return user
		}
	}
	return nil
}

// UserSearchResult is the response of the user search endpoint
type UserSearchResult struct {
	Users Users `json:"users"`
}

// TagIDs returns the identifiers of the matched users
func (r *UserSearchResult) TagIDs() []string {
	if r == nil {
		return nil
	}
	return r.Users.TagIDs()
}

// UserInput registers a signed in identity as a Juno user
type UserInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	CognitoID string `json:"cognito_id"`
}

// Validate checks the identity fields
func (in *UserInput) Validate() error {
	if err := requireText("username", in.Username); err != nil {
		return err
	}
	return requireText("cognito_id", in.CognitoID)
}
