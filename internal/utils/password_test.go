package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesoplan/pesoplan_backend/internal/utils"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := utils.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, utils.CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, utils.CheckPasswordHash("wrong password", hash))
}

func TestCheckPasswordHash_MalformedHash(t *testing.T) {
	assert.False(t, utils.CheckPasswordHash("anything", "not-a-bcrypt-hash"))
}
