package visibility

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObservation_Intersects(t *testing.T) {
	cases := []struct {
		name   string
		obs    Observation
		margin float64
		want   bool
	}{
		{name: "fully inside", obs: Observation{Top: 200, Bottom: 600, ViewportHeight: 800}, margin: DefaultMargin, want: true},
		{name: "below fold", obs: Observation{Top: 900, Bottom: 1500, ViewportHeight: 800}, margin: DefaultMargin, want: false},
		{name: "inside margin band only", obs: Observation{Top: 750, Bottom: 1300, ViewportHeight: 800}, margin: DefaultMargin, want: false},
		{name: "just past margin", obs: Observation{Top: 699, Bottom: 1300, ViewportHeight: 800}, margin: DefaultMargin, want: true},
		{name: "scrolled past", obs: Observation{Top: -900, Bottom: 50, ViewportHeight: 800}, margin: DefaultMargin, want: false},
		{name: "positive margin pre-triggers", obs: Observation{Top: 850, Bottom: 1300, ViewportHeight: 800}, margin: 100, want: true},
		{name: "no viewport", obs: Observation{Top: 0, Bottom: 10}, want: false},
		{name: "degenerate box", obs: Observation{Top: 10, Bottom: 10, ViewportHeight: 800}, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.obs.Intersects(tc.margin))
		})
	}
}

func TestTrigger_FiresOnce(t *testing.T) {
	tr := New(DefaultMargin)
	out := Observation{Top: 2000, Bottom: 2600, ViewportHeight: 800}
	in := Observation{Top: 100, Bottom: 700, ViewportHeight: 800}

	assert.False(t, tr.Observe(out))
	assert.False(t, tr.Visible())

	assert.True(t, tr.Observe(in))
	assert.True(t, tr.Visible())

	// Detached: scrolling away and back never re-fires or resets.
	assert.False(t, tr.Observe(out))
	assert.False(t, tr.Observe(in))
	assert.True(t, tr.Visible())
}

func TestTrigger_ConcurrentObserversFireOnce(t *testing.T) {
	tr := New(0)
	in := Observation{Top: 0, Bottom: 100, ViewportHeight: 800}

	var fired atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tr.Observe(in) {
				fired.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), fired.Load())
}
