package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/Loxfxgc/life-drop/pkg/domain-errors"
)

func TestParseBloodType(t *testing.T) {
	for _, bt := range BloodTypes {
		parsed, err := ParseBloodType(string(bt))
		require.NoError(t, err)
		assert.Equal(t, bt, parsed)
	}
}

func TestParseBloodTypeRejectsInvalid(t *testing.T) {
	for _, input := range []string{"", "C+", "ab+", "O", "o-", "A +"} {
		_, err := ParseBloodType(input)
		require.Error(t, err, "input %q", input)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	}
}

func TestBloodTypesCoversAllEight(t *testing.T) {
	assert.Len(t, BloodTypes, 8)
	seen := map[BloodType]bool{}
	for _, bt := range BloodTypes {
		assert.True(t, bt.IsValid())
		assert.NotEmpty(t, bt.Display())
		seen[bt] = true
	}
	assert.Len(t, seen, 8, "no duplicates")
}

func TestParseRole(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleAdmin, RoleHospital} {
		parsed, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}
	_, err := ParseRole("superadmin")
	require.Error(t, err)
}
