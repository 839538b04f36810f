// Package config merges CLI flag overrides, the persisted per-user config
// file, and environment variables into one validated JobRequest. Every field
// is validated before any network call; the API key has its own resolution
// chain (flag, ASSEMBLYAI_API_KEY, base64 ASSEMBLY_AI_KEY, config file).
package config
