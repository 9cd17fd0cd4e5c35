package auth

import (
	"feedserver/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const callerKey = "feedserver.caller"

// Caller is the identity behind a request. The zero value is an anonymous caller
type Caller struct {
	ID       uint64
	Username string
	IsAdmin  bool
}

func (c Caller) Authenticated() bool {
	return c.ID != 0
}

func CallerFrom(u models.User) Caller {
	return Caller{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}

// LoadCaller resolves the caller from a bearer token or, failing that, the session cookie.
// A token or session pointing to a deleted user resolves to anonymous
func LoadCaller(c *gin.Context, db *gorm.DB) Caller {
	if v, ok := c.Get(callerKey); ok {
		return v.(Caller)
	}
	userID := uint64(0)
	if token := bearerToken(c); token != "" {
		userID, _ = ParseToken(token)
	}
	if userID == 0 {
		userID = LoadSession(c).UserID()
	}
	caller := Caller{}
	if userID != 0 {
		if u, err := models.UserByID(db.WithContext(c.Request.Context()), userID); err == nil {
			caller = CallerFrom(u)
		}
	}
	c.Set(callerKey, caller)
	return caller
}
