package config

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

// Environment variables consulted during API key resolution.
const (
	EnvAPIKey        = "ASSEMBLYAI_API_KEY"
	EnvAPIKeyEncoded = "ASSEMBLY_AI_KEY"
)

// ResolveAPIKey walks the key sources in order: explicit flag value,
// ASSEMBLYAI_API_KEY (used verbatim), ASSEMBLY_AI_KEY (base64-encoded; a
// value that fails to decode counts as absent, not as an error), and finally
// the config file's apiKey. Returns "" when no source yields a key.
func ResolveAPIKey(flagKey string, file FileConfig, getenv func(string) string) string {
	if strings.TrimSpace(flagKey) != "" {
		return flagKey
	}
	if value := getenv(EnvAPIKey); strings.TrimSpace(value) != "" {
		return value
	}
	if decoded, ok := decodeEncodedKey(getenv(EnvAPIKeyEncoded)); ok {
		return decoded
	}
	if file.APIKey != nil && strings.TrimSpace(*file.APIKey) != "" {
		return *file.APIKey
	}
	return ""
}

// decodeEncodedKey interprets ASSEMBLY_AI_KEY as standard base64, padding
// the value to a multiple of 4 characters with '=' before decoding.
func decodeEncodedKey(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	for len(value)%4 != 0 {
		value += "="
	}
	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil || !utf8.Valid(decoded) {
		return "", false
	}
	key := strings.TrimSpace(string(decoded))
	if key == "" {
		return "", false
	}
	return key, true
}
