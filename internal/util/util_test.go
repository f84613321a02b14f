package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		name string
		in   int64
		want string
	}{
		{"zero", 0, "0 Bytes"},
		{"bytes", 500, "500.00 Bytes"},
		{"one byte", 1, "1.00 Bytes"},
		{"just under a KB", 1023, "1023.00 Bytes"},
		{"one KB", 1024, "1.00 KB"},
		{"KB and a half", 1536, "1.50 KB"},
		{"one MB", 1048576, "1.00 MB"},
		{"one GB", 1 << 30, "1.00 GB"},
		{"beyond GB stays in GB", 2 << 40, "2048.00 GB"},
		{"negative clamps to zero", -10, "0 Bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSize(tt.in))
		})
	}
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID("3f2504e0-4f89-41d3-9a0c-0305e82c3301"))
	assert.False(t, IsUUID("my-project"))
	assert.False(t, IsUUID("3f2504e0-4f89-41d3-9a0c-0305e82c330z"))
	assert.False(t, IsUUID("3f2504e04f8941d39a0c0305e82c3301abcd"))
	assert.True(t, IsUUID("3F2504E0-4F89-41D3-9A0C-0305E82C3301"))
	assert.False(t, IsUUID("{3f2504e0-4f89-41d3-9a0c-0305e82c3301}"))
	assert.False(t, IsUUID("urn:uuid:3f2504e0-4f89-41d3-9a0c-0305e82c3301"))
	assert.False(t, IsUUID("3f2504e04f8941d39a0c0305e82c3301"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "anything", Truncate("anything", 0))
}
