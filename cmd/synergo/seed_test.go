package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeedFile(t *testing.T) {
	reqs, err := parseSeedFile(strings.NewReader(`
nomenclatures:
  - label: jab
    description: Straight punch
  - label: hook
    interpretation: Short range
`))
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "jab", reqs[0].Label)
	assert.Equal(t, "Straight punch", reqs[0].Description)
	assert.Equal(t, "Short range", reqs[1].Interpretation)
}

func TestParseSeedFileEmpty(t *testing.T) {
	reqs, err := parseSeedFile(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestParseSeedFileRejectsMissingLabel(t *testing.T) {
	_, err := parseSeedFile(strings.NewReader("nomenclatures:\n  - description: orphan\n"))
	assert.Error(t, err)
}
