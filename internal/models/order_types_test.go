package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOrderNoFormat(t *testing.T) {
	no := NewOrderNo()

	assert.True(t, strings.HasPrefix(no, "ORD-"))
	parts := strings.Split(no, "-")
	assert.Len(t, parts, 3)
	assert.Len(t, parts[2], 8)
}

func TestNewOrderNoUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		no := NewOrderNo()
		assert.False(t, seen[no], "duplicate order number %s", no)
		seen[no] = true
	}
}
