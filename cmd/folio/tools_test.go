package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestDecodeImport(t *testing.T) {
	items, err := decodeImport([]byte(` [{"title":"One"},{"title":"Two","slug":"two"}]`))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "two", items[1]["slug"])

	items, err = decodeImport([]byte(`{"version":1,"content":[{"title":"From backup"}]}`))
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = decodeImport([]byte(`not json`))
	assert.Error(t, err)
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"serve", "migrate", "import", "backup", "reindex"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
	down, _, err := root.Find([]string{"migrate", "down"})
	require.NoError(t, err)
	assert.Equal(t, "down", down.Name())
}

func TestHashPasswordCommand(t *testing.T) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"hash-password", "s3cret"})
	require.NoError(t, root.Execute())

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}
