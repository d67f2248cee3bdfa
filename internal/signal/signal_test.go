package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSetNotifiesInOrder(t *testing.T) {
	v := New(0)
	var got []string
	v.Subscribe(func(n int) { got = append(got, "a") })
	v.Subscribe(func(n int) { got = append(got, "b") })

	require.True(t, v.Set(1))
	assert.Equal(t, 1, v.Get())
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, uint64(1), v.Version())
}

func TestComparableSkipsEqualWrites(t *testing.T) {
	v := NewComparable("x")
	calls := 0
	v.Subscribe(func(string) { calls++ })

	assert.False(t, v.Set("x"))
	assert.True(t, v.Set("y"))
	assert.Equal(t, 1, calls)
	assert.Equal(t, uint64(1), v.Version())
}

func TestUnsubscribe(t *testing.T) {
	v := New(0)
	calls := 0
	unsub := v.Subscribe(func(int) { calls++ })
	v.Set(1)
	unsub()
	unsub()
	v.Set(2)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, v.ListenerCount())
}

func TestListenerPanicDoesNotStopDelivery(t *testing.T) {
	v := New(0)
	delivered := false
	v.Subscribe(func(int) { panic("boom") })
	v.Subscribe(func(int) { delivered = true })

	v.Set(1)
	assert.True(t, delivered)
}

func TestCompareAndSet(t *testing.T) {
	eq := func(a, b string) bool { return a == b }
	v := NewComparable("discussion")

	assert.False(t, v.CompareAndSet("card-1", "", eq))
	assert.Equal(t, "discussion", v.Get())
	assert.True(t, v.CompareAndSet("discussion", "", eq))
	assert.Equal(t, "", v.Get())
}

func TestComputedRecomputesOnlyOnChange(t *testing.T) {
	playing := NewComparable("")
	speaking := NewComputed(func() bool { return playing.Get() == "discussion" }, playing)

	assert.False(t, speaking.Get())
	assert.False(t, speaking.Get())
	assert.Equal(t, uint64(1), speaking.Evaluations())

	playing.Set("discussion")
	assert.True(t, speaking.Get())
	assert.Equal(t, uint64(2), speaking.Evaluations())

	// equal write does not bump the version
	playing.Set("discussion")
	assert.True(t, speaking.Get())
	assert.Equal(t, uint64(2), speaking.Evaluations())
}

func TestComputedChain(t *testing.T) {
	n := New(2)
	double := NewComputed(func() int { return n.Get() * 2 }, n)
	quad := NewComputed(func() int { return double.Get() * 2 }, double)

	assert.Equal(t, 8, quad.Get())
	n.Set(3)
	assert.Equal(t, 12, quad.Get())
}
