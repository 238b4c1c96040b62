package color_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/manhuaapp/manhua-server/internal/color"
)

func TestForAccountIsDeterministic(t *testing.T) {
	a := color.ForAccount("reader@example.com")
	b := color.ForAccount("reader@example.com")
	assert.Equal(t, a, b)

	other := color.ForAccount("someone-else@example.com")
	assert.NotEqual(t, a, other)
}

func TestForAccountReturnsHexColor(t *testing.T) {
	hexColor := regexp.MustCompile(`^#[0-9A-F]{6}$`)
	for _, seed := range []string{"", "a", "reader@example.com", "日本語"} {
		assert.Regexp(t, hexColor, color.ForAccount(seed))
	}
}
