package auth

import (
	"feedserver/config"

	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	userIdKey             = "id"
	sessionCookieName     = "token"
	sessionExpirationTime = 365 * 86400 // 1 year
)

type Session struct {
	sessions.Session
}

// SessionMiddleware keeps sessions in the database next to the users they belong to
func SessionMiddleware(db *gorm.DB, expiredSessionCleanup bool) gin.HandlerFunc {
	store := gormsessions.NewStore(db, expiredSessionCleanup, []byte(config.SESSION_KEY))
	store.Options(sessions.Options{Path: "/", MaxAge: sessionExpirationTime, HttpOnly: true})
	return sessions.Sessions(sessionCookieName, store)
}

func LoadSession(c *gin.Context) *Session {
	return &Session{
		Session: sessions.Default(c),
	}
}

func (s *Session) LoginUser(userID uint64) error {
	s.Set(userIdKey, userID)
	return s.Save()
}

func (s *Session) LogoutUser() {
	s.Delete(userIdKey)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	_ = s.Save()
}

func (s *Session) UserID() uint64 {
	id, _ := s.Get(userIdKey).(uint64)
	return id
}
