package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUserHandle(t *testing.T) {
	handle, err := GenerateUserHandle()

	assert.NoError(t, err)
	assert.Len(t, handle, 32)
}

func TestGenerateUserHandle_Uniqueness(t *testing.T) {
	h1, err1 := GenerateUserHandle()
	h2, err2 := GenerateUserHandle()

	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.NotEqual(t, h1, h2)
}
