package coordinator

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBegin_TokensStrictlyIncreaseWithFrozenClock(t *testing.T) {
	frozen := time.Unix(1700000000, 0)
	c := NewWithClock(func() time.Time { return frozen })

	a, _ := c.Begin()
	b, _ := c.Begin()
	d, _ := c.Begin()
	assert.Less(t, uint64(a), uint64(b))
	assert.Less(t, uint64(b), uint64(d))
	assert.Equal(t, Token(frozen.UnixNano()), a)
}

func TestBegin_ClockGoingBackwardsStillMonotonic(t *testing.T) {
	ts := []time.Time{time.Unix(200, 0), time.Unix(100, 0)}
	i := 0
	c := NewWithClock(func() time.Time { v := ts[i]; i++; return v })

	a, _ := c.Begin()
	b, _ := c.Begin()
	assert.Equal(t, a+1, b)
}

func TestBegin_SupersedesPreviousGeneration(t *testing.T) {
	c := New()
	_, ok := c.Current()
	assert.False(t, ok)

	a, supA := c.Begin()
	assert.True(t, c.IsCurrent(a))
	select {
	case <-supA:
		t.Fatal("first generation superseded before any later Begin")
	default:
	}

	b, supB := c.Begin()
	assert.False(t, c.IsCurrent(a))
	assert.True(t, c.IsCurrent(b))
	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, b, cur)

	select {
	case <-supA:
	case <-time.After(time.Second):
		t.Fatal("first generation was not marked superseded")
	}
	select {
	case <-supB:
		t.Fatal("current generation marked superseded")
	default:
	}
}

func TestSettle_OnlyCurrentTokenRuns(t *testing.T) {
	c := New()
	a, _ := c.Begin()
	b, _ := c.Begin()

	ran := 0
	assert.False(t, c.Settle(a, func() { ran++ }))
	assert.True(t, c.Settle(b, func() { ran++ }))
	assert.Equal(t, 1, ran)
}

func TestSettle_NoTokenIssued(t *testing.T) {
	c := New()
	assert.False(t, c.Settle(0, func() { t.Fatal("must not run") }))
}

func TestRegisterInvokeUnregister(t *testing.T) {
	c := New()
	var got json.RawMessage
	require.NoError(t, c.Register("fnA", func(p json.RawMessage) { got = p }))
	assert.Error(t, c.Register("fnA", func(json.RawMessage) {}))
	assert.Error(t, c.Register("", func(json.RawMessage) {}))
	assert.Error(t, c.Register("fnB", nil))

	assert.True(t, c.Invoke("fnA", json.RawMessage(`{"x":1}`)))
	assert.JSONEq(t, `{"x":1}`, string(got))
	assert.Equal(t, []string{"fnA"}, c.Hooks())

	assert.True(t, c.Unregister("fnA"))
	assert.False(t, c.Unregister("fnA"))
	assert.False(t, c.Invoke("fnA", nil))
	assert.Empty(t, c.Hooks())
}

func TestInvoke_HookMayUnregisterItself(t *testing.T) {
	c := New()
	require.NoError(t, c.Register("fnSelf", func(json.RawMessage) {
		c.Unregister("fnSelf")
	}))
	assert.True(t, c.Invoke("fnSelf", nil))
	assert.Empty(t, c.Hooks())
}

func TestBegin_ConcurrentTokensUnique(t *testing.T) {
	c := New()
	const n = 64
	var mu sync.Mutex
	seen := make(map[Token]bool, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, _ := c.Begin()
			mu.Lock()
			seen[tok] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n)
}
