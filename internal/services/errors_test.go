package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tbourn/go-recipe-backend/internal/repo"
)

func TestError_UnwrapsKindAndCause(t *testing.T) {
	err := storeErr("could not load", "recipe not found", repo.ErrNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.Equal(t, "recipe not found", Message(err))

	err = storeErr("could not load", "recipe not found", errBoom)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, "could not load: boom", err.Error())

	v := invalid("name is required")
	assert.ErrorIs(t, v, ErrValidation)
	assert.False(t, errors.Is(v, ErrNotFound))
	assert.Equal(t, "name is required", v.Error())

	assert.Empty(t, Message(errBoom))
}
