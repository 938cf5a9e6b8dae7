package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/attachtext/internal/core/domain"
)

func TestMimetypeCmd_ResolvesByExtensionAndContent(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	named := writeTempFile(t, "notes.txt", "plain")
	sniffed := writeTempFile(t, "report", "%PDF-1.7\n")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"mimetype", named, sniffed})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), named+"\t"+domain.MIMEPlainText+"\n")
	assert.Contains(t, buf.String(), sniffed+"\t"+domain.MIMEPDF+"\n")
}
