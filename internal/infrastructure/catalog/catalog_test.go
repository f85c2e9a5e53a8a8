package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	name, ok := c.Canonical("  PLOMERO ")
	assert.True(t, ok)
	assert.Equal(t, "Plomero", name)

	name, ok = c.Canonical("fontanero")
	assert.True(t, ok)
	assert.Equal(t, "Plomero", name)

	assert.True(t, c.Has("mecánico"))
	assert.False(t, c.Has("Astronauta"))
	assert.Contains(t, c.All(), "Electricista")
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(strings.NewReader("categories: []"))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader("categories:\n  - name: A\n  - name: a\n"))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader("categories:\n  - aliases: [x]\n"))
	assert.Error(t, err)
}

func TestAll_ReturnsCopy(t *testing.T) {
	c, err := Parse(strings.NewReader("categories:\n  - name: Pintor\n"))
	require.NoError(t, err)

	all := c.All()
	all[0] = "changed"
	assert.Equal(t, []string{"Pintor"}, c.All())
}
