// internal/app/system/limits/limits.go
package limits

// Request size limits shared by the API handlers.
const (
	// MaxJSONBody bounds any JSON request body.
	MaxJSONBody = 1 << 20 // 1 MB

	// MaxSearchText bounds the ?search= term, in runes.
	MaxSearchText = 200
)
