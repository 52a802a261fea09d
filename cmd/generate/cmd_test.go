package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootsFromArgs(t *testing.T) {
	tests := []struct {
		args     []string
		expected []string
	}{
		{nil, []string{"."}},
		{[]string{"./..."}, []string{"."}},
		{[]string{"..."}, []string{"."}},
		{[]string{"./pkg/...", "internal"}, []string{"./pkg", "internal"}},
		{[]string{"/..."}, []string{"/..."}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, rootsFromArgs(tt.args), "%v", tt.args)
	}
}
