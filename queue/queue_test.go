package queue_test

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/lanrat/filesort/queue"
	"github.com/stretchr/testify/require"
)

func intLess(a, b int) bool {
	return a < b
}

func TestInit0(t *testing.T) {
	q := queue.NewPriorityQueue(intLess, 0)
	for i := 20; i > 0; i-- {
		q.Push(0) // all elements are the same
	}
	require.Equal(t, 20, q.Len())

	for i := 1; q.Len() > 0; i++ {
		x := q.Peek()
		y := q.Pop()
		require.Equal(t, x, y, "Peek and Pop returned different values")
		require.Zero(t, x, "%d.th pop", i)
	}
}

func TestPushPop(t *testing.T) {
	q := queue.NewPriorityQueue(intLess, 4)
	require.Zero(t, q.Len())

	for i := 20; i > 10; i-- {
		q.Push(i)
	}
	require.Equal(t, 10, q.Len())

	for i := 10; i > 0; i-- {
		q.Push(i)
	}
	require.Equal(t, 20, q.Len())

	for i := 1; q.Len() > 0; i++ {
		x := q.Peek()
		y := q.Pop()
		require.Equal(t, x, y)
		if i < 20 {
			q.Push(20 + i)
		}
		require.Equal(t, i, x, "%d.th pop", i)
	}
}

func TestPeekUpdate(t *testing.T) {
	q := queue.NewPriorityQueue(intLess, 0)
	for _, v := range []int{5, 1, 9, 3} {
		q.Push(v)
	}
	require.Equal(t, 1, q.Peek())
	q.PeekUpdate(7)
	require.Equal(t, 3, q.Peek())

	var got []int
	for q.Len() > 0 {
		got = append(got, q.Pop())
	}
	require.Equal(t, []int{3, 5, 7, 9}, got)
}

func TestRandomOrder(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	q := queue.NewPriorityQueue(func(a, b uint64) bool { return a > b }, 0)
	want := make([]uint64, 1000)
	for i := range want {
		want[i] = r.Uint64()
		q.Push(want[i])
	}
	slices.SortFunc(want, func(a, b uint64) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		}
		return 0
	})
	for i := range want {
		require.Equal(t, want[i], q.Pop())
	}
}
