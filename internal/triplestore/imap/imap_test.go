package imap_test

import (
	"fmt"
	"strconv"
	"sync"
	"testing"

	"github.com/FAU-CDI/nightcap/internal/triplestore/imap"
	"github.com/FAU-CDI/nightcap/internal/triplestore/impl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cspell:words itok

func ExampleIMap() {
	var mp imap.IMap[string]
	_ = mp.Reset(imap.MemoryMap{})
	defer mp.Close()

	value := func(key impl.Key) func(id impl.ID) string {
		return func(id impl.ID) string {
			return string(key) + "@" + id.String()
		}
	}

	add := func(key impl.Key) {
		id, v, old, err := mp.AddNew(key, value(key))
		fmt.Println("add", id, v, old, err)
	}

	add("hello")
	add("world")
	add("hello")

	v, ok, err := mp.Get("world")
	fmt.Println("get", v, ok, err)

	_ = mp.Delete("hello", 1)
	v, ok, err = mp.Get("hello")
	fmt.Println("get<deleted>", v, ok, err)

	add("hello")

	// Output: add ID(1) hello@ID(1) false <nil>
	// add ID(2) world@ID(2) false <nil>
	// add ID(1) hello@ID(1) true <nil>
	// get world@ID(2) true <nil>
	// get<deleted>  false <nil>
	// add ID(3) hello@ID(3) false <nil>
}

// itok is like strconv.Itoa, but returns a key.
func itok(i int) impl.Key {
	return impl.Key(strconv.Itoa(i))
}

// mapTest performs a test for a given engine.
func mapTest(t *testing.T, engine imap.Map, n int) {
	t.Helper()

	var mp imap.IMap[int]
	require.NoError(t, mp.Reset(engine))
	defer func() {
		assert.NoError(t, mp.Close())
	}()

	identity := func(i int) func(impl.ID) int {
		return func(impl.ID) int { return i }
	}

	// insert every key twice
	for range 2 {
		for i := range n {
			id, value, _, err := mp.AddNew(itok(i), identity(i))
			require.NoError(t, err)
			assert.Equal(t, impl.ID(i+1), id)
			assert.Equal(t, i, value)
		}
	}

	count, err := mp.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(n), count)

	// check that forward mappings work
	for i := range n {
		value, ok, err := mp.Get(itok(i))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, i, value)
	}

	// check that reverse mappings work
	for i := range n {
		value, ok := mp.Reverse(impl.ID(i + 1))
		assert.True(t, ok)
		assert.Equal(t, i, value)
	}

	// delete the even keys
	for i := 0; i < n; i += 2 {
		require.NoError(t, mp.Delete(itok(i), impl.ID(i+1)))
	}
	require.NoError(t, mp.Compact())

	for i := range n {
		_, ok, err := mp.Get(itok(i))
		require.NoError(t, err)
		assert.Equal(t, i%2 == 1, ok, "key %d", i)
	}

	// deleted ids are never reused
	id, _, old, err := mp.AddNew(itok(0), identity(0))
	require.NoError(t, err)
	assert.False(t, old)
	assert.Equal(t, impl.ID(n+1), id)
}

func TestMemoryMap(t *testing.T) {
	t.Parallel()

	mapTest(t, imap.MemoryMap{}, 100_000)
}

func TestDiskMap(t *testing.T) {
	t.Parallel()

	mapTest(t, imap.DiskMap{Path: t.TempDir()}, 1000)
}

func TestBadgerMap(t *testing.T) {
	t.Parallel()

	t.Run("on disk", func(t *testing.T) {
		t.Parallel()
		mapTest(t, imap.BadgerMap{Path: t.TempDir()}, 1000)
	})

	t.Run("in memory", func(t *testing.T) {
		t.Parallel()
		mapTest(t, imap.BadgerMap{InMemory: true}, 1000)
	})
}

func TestIMap_Close(t *testing.T) {
	var mp imap.IMap[int]
	require.NoError(t, mp.Reset(imap.DiskMap{Path: t.TempDir()}))

	_, _, _, err := mp.AddNew("key", func(impl.ID) int { return 1 })
	require.NoError(t, err)

	require.NoError(t, mp.Close())
	require.NoError(t, mp.Close(), "closing twice")

	_, _, err = mp.Get("key")
	assert.ErrorIs(t, err, imap.ErrClosed)

	_, _, _, err = mp.AddNew("other", func(impl.ID) int { return 2 })
	assert.ErrorIs(t, err, imap.ErrClosed)

	_, ok := mp.Reverse(1)
	assert.False(t, ok)
}

func TestIMap_CloseConcurrent(t *testing.T) {
	for range 100 {
		var mp imap.IMap[int]
		require.NoError(t, mp.Reset(imap.MemoryMap{}))
		_, _, _, err := mp.AddNew("key", func(impl.ID) int { return 1 })
		require.NoError(t, err)

		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 50 {
					// either a value or ErrClosed, never a panic
					if _, ok, err := mp.Get("key"); err != nil {
						assert.ErrorIs(t, err, imap.ErrClosed)
					} else {
						assert.True(t, ok)
					}
				}
			}()
		}
		require.NoError(t, mp.Close())
		wg.Wait()
	}
}

func TestMemory_Close(t *testing.T) {
	mem := imap.MakeMemory[string, int](0)
	require.NoError(t, mem.Set("a", 1))

	count, err := mem.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	require.NoError(t, mem.Close())
	assert.ErrorIs(t, mem.Set("closed", 1), imap.ErrClosed)

	_, ok, err := mem.Get("a")
	require.NoError(t, err)
	assert.False(t, ok)
}
