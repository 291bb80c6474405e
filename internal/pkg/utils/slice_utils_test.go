package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeStrings(t *testing.T) {
	t.Run("keeps first occurrence order", func(t *testing.T) {
		got := DedupeStrings([]string{"a", "b", "a", "c", "b"})
		assert.Equal(t, []string{"a", "b", "c"}, got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, DedupeStrings(nil))
	})
}

func TestContainsString(t *testing.T) {
	items := []string{"https://a.example.com", "https://b.example.com"}
	assert.True(t, ContainsString(items, "https://a.example.com"))
	assert.False(t, ContainsString(items, "https://c.example.com"))
	assert.False(t, ContainsString(nil, "anything"))
}

func TestAppendMissing(t *testing.T) {
	base := []string{"a", "b"}
	got := AppendMissing(base, []string{"b", "c", "a", "d"})
	assert.Equal(t, []string{"a", "b", "c", "d"}, got)

	assert.Equal(t, []string{"x"}, AppendMissing(nil, []string{"x", "x"}))
}

func TestGetEnv(t *testing.T) {
	t.Setenv("NETWORK_REGISTRY_TEST_KEY", "set")
	assert.Equal(t, "set", GetEnv("NETWORK_REGISTRY_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("NETWORK_REGISTRY_TEST_KEY_MISSING", "fallback"))
}
