package utils

// BuildTodosListCacheKey keys the per-owner list cache. The version segment
// lets a payload shape change invalidate old entries.
func BuildTodosListCacheKey(ownerID string) string {
	return "todos:list:v1:owner=" + ownerID
}
