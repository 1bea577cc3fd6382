package fca

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildLatticeTopAndBottom(t *testing.T) {
	c := NewContext([]string{"a", "b", "c"}, []string{"x", "y"})
	c.Set("a", "x")
	c.Set("b", "x")
	c.Set("b", "y")
	c.Set("c", "y")

	lat := c.BuildLattice()
	require.NotEmpty(t, lat.Concepts)

	top := lat.Concepts[0]
	require.Empty(t, top.Intent)
	require.ElementsMatch(t, []string{"a", "b", "c"}, top.Extent)

	bottom := lat.Concepts[len(lat.Concepts)-1]
	require.ElementsMatch(t, []string{"x", "y"}, bottom.Intent)
	require.Equal(t, []string{"b"}, bottom.Extent)
}

func TestBuildLatticeCoveringEdges(t *testing.T) {
	c := NewContext([]string{"a", "b", "c"}, []string{"x", "y"})
	c.Set("a", "x")
	c.Set("b", "x")
	c.Set("b", "y")
	c.Set("c", "y")

	lat := c.BuildLattice()
	require.Len(t, lat.Concepts, 4)

	for _, concept := range lat.Concepts {
		for _, childID := range concept.Children {
			child := lat.Concepts[childID]
			for _, attr := range concept.Intent {
				require.Contains(t, child.Intent, attr)
			}
		}
	}
}

func TestBuildLatticeZeroColumnSubstitution(t *testing.T) {
	c := NewContext([]string{"a", "b"}, nil)
	lat := c.BuildLattice()

	require.Len(t, lat.Concepts, 2)
	require.Equal(t, []string{emptyColumn}, c.Attributes)
}

func TestBuildLatticeDeterministicIDs(t *testing.T) {
	c1 := NewContext([]string{"a", "b", "c"}, []string{"x", "y"})
	c1.Set("a", "x")
	c1.Set("b", "x")
	c1.Set("b", "y")
	c1.Set("c", "y")

	c2 := NewContext([]string{"c", "b", "a"}, []string{"y", "x"})
	c2.Set("a", "x")
	c2.Set("b", "x")
	c2.Set("b", "y")
	c2.Set("c", "y")

	l1 := c1.BuildLattice()
	l2 := c2.BuildLattice()
	require.Len(t, l1.Concepts, len(l2.Concepts))
	for i := range l1.Concepts {
		require.Equal(t, l1.Concepts[i].Intent, l2.Concepts[i].Intent)
		require.ElementsMatch(t, l1.Concepts[i].Extent, l2.Concepts[i].Extent)
	}
}
