package buildinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrint(t *testing.T) {
	oldV, oldD, oldC := Version, Date, Commit
	t.Cleanup(func() { Version, Date, Commit = oldV, oldD, oldC })

	Version, Date, Commit = "v1.2.3", "2026-10-01", "abc123"

	var buf bytes.Buffer
	Print(&buf)
	assert.Equal(t, "Build version: v1.2.3\nBuild date: 2026-10-01\nBuild commit: abc123\n", buf.String())
}

func TestPrint_Defaults(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf)
	assert.Contains(t, buf.String(), "Build version: ")
	assert.Contains(t, buf.String(), "Build commit: ")
}
