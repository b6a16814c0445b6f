package adump

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenilsonani/adump/internal/core/pool"
)

func TestSimpleParse(t *testing.T) {
	buf := "# This is a comment\n" +
		"uuid=c39b7bde-b83a-47b2-b597-6546f08c9183\n" +
		"newfile=false\n" +
		"limit=671088640\n"

	props, err := parseProps(strings.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, "671088640", props["limit"])
	assert.Equal(t, "c39b7bde-b83a-47b2-b597-6546f08c9183", props["uuid"])
	assert.Equal(t, "false", props["newfile"])
}

func TestParseRejectsBareLine(t *testing.T) {
	_, err := parseProps(strings.NewReader("uuid\n"))
	var perr *pool.PropertyError
	assert.ErrorAs(t, err, &perr)
}

func TestParseLastWins(t *testing.T) {
	props, err := parseProps(strings.NewReader("limit=1\nlimit=2\n"))
	require.NoError(t, err)
	assert.Equal(t, "2", props["limit"])
}

func TestParseKeepsEquals(t *testing.T) {
	props, err := parseProps(strings.NewReader("key=a=b\n"))
	require.NoError(t, err)
	assert.Equal(t, "a=b", props["key"])
}
