package hashutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashStrings(t *testing.T) {
	a := HashStrings("ARR: $1.2M", "40 customers")
	require.Len(t, a, 64)
	require.Equal(t, a, HashStrings("ARR: $1.2M", "40 customers"))
	require.NotEqual(t, a, HashStrings("ARR: $1.2M40 customers"))
	require.NotEqual(t, a, HashStrings("40 customers", "ARR: $1.2M"))
}

func TestHashContextEmpty(t *testing.T) {
	require.Empty(t, HashContext(""))
	require.Equal(t, HashStrings("x"), HashContext("x"))
}
