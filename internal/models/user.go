package models

import (
	"github.com/golang-jwt/jwt/v4"
)

// Identity is a federated (Lemmy) account: a username on an instance.
type Identity struct {
	Username string `json:"username"`
	Instance string `json:"instance"`
}

// String returns the username@instance form used as a post's author.
func (i Identity) String() string {
	return i.Username + "@" + i.Instance
}

// SessionClaims are the claims carried by a blog session token. The token
// is issued after the caller's Lemmy credentials were verified elsewhere.
type SessionClaims struct {
	Username    string `json:"username"`
	Instance    string `json:"instance"`
	LemmyUserID int64  `json:"lemmyUserId,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns the federated identity carried by the claims.
func (c *SessionClaims) Identity() Identity {
	return Identity{Username: c.Username, Instance: c.Instance}
}
