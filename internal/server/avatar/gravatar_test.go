package avatar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGravatarURL(t *testing.T) {
	// md5("john@example.com")
	want := "https://www.gravatar.com/avatar/d4c74594d841139328695756648b6bd6?d=identicon"
	assert.Equal(t, want, GravatarURL("john@example.com"))
}

func TestGravatarURLNormalizesEmail(t *testing.T) {
	assert.Equal(t, GravatarURL("john@example.com"), GravatarURL("  John@Example.COM  "))
}
