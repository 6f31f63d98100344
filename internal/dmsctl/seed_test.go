package dmsctl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuotaSpec(t *testing.T) {
	size, suffix, err := parseQuotaSpec("10G")
	require.NoError(t, err)
	assert.Equal(t, int64(10), size)
	assert.Equal(t, "G", suffix)

	size, suffix, err = parseQuotaSpec(" 512m ")
	require.NoError(t, err)
	assert.Equal(t, int64(512), size)
	assert.Equal(t, "M", suffix)
}

func TestParseQuotaSpec_Invalid(t *testing.T) {
	for _, spec := range []string{"", "G", "10", "-5G", "0G", "10X", "abcG"} {
		_, _, err := parseQuotaSpec(spec)
		assert.Error(t, err, "spec %q", spec)
	}
}
