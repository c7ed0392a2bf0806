package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// RevokedTokenKey returns the cache key marking a logged-out token's JTI.
func (r *CacheKeyStruct) RevokedTokenKey(jti string) string {
	return fmt.Sprintf("auth:revoked:%s", jti)
}

// MetaDictionaryKey returns the cache key for the campus/course-type dictionary.
func (r *CacheKeyStruct) MetaDictionaryKey() string {
	return "meta:dictionary"
}

var CacheKey = NewCacheKeyStruct()
