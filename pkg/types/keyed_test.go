package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedPreservesInsertionOrder(t *testing.T) {
	var k Keyed[string]
	k.Set(30, "c")
	k.Set(10, "a")
	k.Set(20, "b")
	k.Set(10, "a2")

	assert.Equal(t, []int64{30, 10, 20}, k.Keys())
	assert.Equal(t, []string{"c", "a2", "b"}, k.Values())
	assert.Equal(t, 3, k.Len())

	v, ok := k.Get(10)
	require.True(t, ok)
	assert.Equal(t, "a2", v)
}

func TestKeyedDelete(t *testing.T) {
	var k Keyed[int]
	k.Set(1, 100)
	k.Set(2, 200)
	k.Set(3, 300)

	assert.True(t, k.Delete(2))
	assert.False(t, k.Delete(2))
	assert.False(t, k.Has(2))
	assert.Equal(t, []int64{1, 3}, k.Keys())
}

func TestKeyedAllStopsEarly(t *testing.T) {
	var k Keyed[int]
	for i := int64(1); i <= 5; i++ {
		k.Set(i, int(i*i))
	}
	var seen []int64
	for key, v := range k.All() {
		seen = append(seen, key)
		if v >= 9 {
			break
		}
	}
	assert.Equal(t, []int64{1, 2, 3}, seen)
}

func TestKeyedZeroValue(t *testing.T) {
	var k Keyed[bool]
	_, ok := k.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 0, k.Len())
	assert.Empty(t, k.Keys())
	assert.Empty(t, k.Values())
}
