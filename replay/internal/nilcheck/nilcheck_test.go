//go:build unit

package nilcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type repo interface{ Name() string }

type memRepo struct{}

func (*memRepo) Name() string { return "memory" }

func TestInterface(t *testing.T) {
	var typedNil *memRepo
	var asInterface repo = typedNil

	assert.True(t, Interface(nil))
	assert.True(t, Interface(typedNil))
	assert.True(t, Interface(asInterface))
	assert.True(t, Interface(map[string]int(nil)))
	assert.False(t, Interface(&memRepo{}))
	assert.False(t, Interface(42))
	assert.False(t, Interface("deposit"))
}
