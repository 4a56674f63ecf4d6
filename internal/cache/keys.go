package cache

import "strings"

const (
	GlobalKeyPrefix = "quizadmin"
)

// GenerateCacheKey builds prefix:service:objectType:identifier. Params, when given, are joined
// by "_" and appended as one more segment.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// AnalyticsSummaryKey is where the admin analytics snapshot is cached.
func AnalyticsSummaryKey() string {
	return GenerateCacheKey("analytics", "summary", "all")
}

// RevokedTokenKey marks a JWT id as logged out.
func RevokedTokenKey(jti string) string {
	return GenerateCacheKey("auth", "revoked", jti)
}
