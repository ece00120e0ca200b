// internal/app/system/limits/limits.go
package limits

// Request body size caps.
const (
	// MaxLoginFormSize caps the sign-in form post. The form holds an
	// email address and password plus a short return path, so 64 KB
	// is generous.
	MaxLoginFormSize = 64 << 10
)
