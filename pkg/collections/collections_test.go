package collections_test

import (
	"testing"

	"github.com/alkime/scriptcut/pkg/collections"

	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	t.Run("basic types", func(t *testing.T) {
		lengths := collections.Apply([]string{"a", "bb", "ccc"}, func(s string) int {
			return len(s)
		})
		require.Equal(t, []int{1, 2, 3}, lengths)
	})

	t.Run("empty", func(t *testing.T) {
		require.Empty(t, collections.Apply(nil, func(i int) int { return i }))
	})
}

func TestSortedKeys(t *testing.T) {
	fields := map[string]string{"theme": "joyful", "language": "en", "audience": "kids"}

	require.Equal(t, []string{"audience", "language", "theme"}, collections.SortedKeys(fields))
	require.Empty(t, collections.SortedKeys(map[int]bool{}))
}
