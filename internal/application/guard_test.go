package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	assert.ErrorIs(t, Authorize(nil, "owner"), ErrUnauthenticated)
	assert.NoError(t, Authorize(user("owner"), "owner"))
	assert.ErrorIs(t, Authorize(user("stranger"), "owner"), ErrForbidden)
	assert.NoError(t, Authorize(admin("a1"), "owner"))
}
