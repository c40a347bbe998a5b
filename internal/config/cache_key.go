package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key for a user's active session.
func (r *CacheKeyStruct) UserSessionKey(userID string) string {
	return fmt.Sprintf("login:%s", userID)
}

// GuidePayloadKey returns the cache key for a published study guide's payload.
func (r *CacheKeyStruct) GuidePayloadKey(guideID string) string {
	return fmt.Sprintf("guide:%s:payload", guideID)
}

var CacheKey = NewCacheKeyStruct()
