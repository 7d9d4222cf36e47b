// Package reauth tracks recent re-authentication markers.
//
// Sensitive operations (disabling MFA, regenerating backup codes) require
// the user to prove possession of a current code first. Once proven, the
// marker lets closely following operations in the same session skip a
// repeat challenge for a short freshness window.
//
// The Cache interface has two implementations: MemoryCache, a process-local
// TTL map suitable for single instances, and RedisCache for multi-instance
// deployments where the window must be shared. Markers are advisory — a
// lost marker costs one extra challenge, so durability is not required.
package reauth
