package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		role    string
		found   bool
		summary string
	}{
		{"aiml", true, "AI/ML Engineer"},
		{"data_analyst", true, "Data-driven analyst"},
		{"sde", true, "Software Development Engineer"},
		{"frontend", true, "Creative Frontend Developer"},
		{"astronaut", false, "Creative Frontend Developer"},
		{"", false, "Creative Frontend Developer"},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			c, ok := Lookup(tt.role)
			assert.Equal(t, tt.found, ok)
			assert.Contains(t, c.Summary, tt.summary)
			assert.NotEmpty(t, c.Skills)
		})
	}
}

func TestLookup_ReturnsCopies(t *testing.T) {
	c, _ := Lookup("sde")
	c.Skills[0] = "COBOL"
	c.Experience[0].Points[0] = "changed"

	again, _ := Lookup("sde")
	assert.Equal(t, "Python", again.Skills[0])
	assert.NotEqual(t, "changed", again.Experience[0].Points[0])
}

func TestRoles_OrderedAndBackedByContent(t *testing.T) {
	rs := Roles()
	require.Len(t, rs, 4)
	for i, r := range rs {
		assert.Equal(t, i+1, r.DisplayOrder)
		_, ok := Lookup(r.RoleID)
		assert.True(t, ok, "role %s has no content", r.RoleID)
	}
}
