package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	CacheNoCache = 0
	CacheCustom  = -1
)

// CacheRouter sets Cache-Control on every response passing through it
type CacheRouter struct {
	CacheTime int // seconds, defaults to CacheNoCache = 0
	// Public allows shared caches (proxies) to keep the response. Only for responses that do not depend on the caller
	Public bool
}

func (cr *CacheRouter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if cr.CacheTime != CacheCustom {
			c.Header("cache-control", cr.headerValue())
		}
		c.Next()
	}
}

func (cr *CacheRouter) headerValue() string {
	if cr.CacheTime == CacheNoCache {
		return "no-cache"
	}
	visibility := "private"
	if cr.Public {
		visibility = "public"
	}
	return visibility + ", max-age=" + strconv.Itoa(cr.CacheTime)
}
