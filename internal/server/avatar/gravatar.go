// Package avatar produces avatar URLs: Gravatar defaults at signup and
// S3-hosted uploads.
package avatar

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// GravatarURL returns the Gravatar URL for email, falling back to an
// identicon when the address has no registered picture.
func GravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	digest := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon", digest)
}
