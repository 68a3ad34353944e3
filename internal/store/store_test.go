package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kanna-karuppasamy/der-integration-analytics/internal/models"
	"github.com/kanna-karuppasamy/der-integration-analytics/internal/synth"
)

func smallParams() synth.Params {
	return synth.Params{
		Seed:      42,
		Meters:    5,
		Chargers:  5,
		Inverters: 5,
		Feeders:   5,
		Days:      2,
		Start:     time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
}

func countingStore() (*Store, *int) {
	calls := 0
	s := NewWithGenerator(func(p synth.Params) *models.Dataset {
		calls++
		return synth.Generate(p)
	})
	return s, &calls
}

func TestGetOrGenerateMemoizes(t *testing.T) {
	s, calls := countingStore()
	p := smallParams()

	first := s.GetOrGenerate(p)
	second := s.GetOrGenerate(p)

	assert.Same(t, first, second, "repeated reads share one snapshot")
	assert.Equal(t, 1, *calls)
	assert.Equal(t, 1, s.Size())
}

func TestGetOrGenerateKeysByParams(t *testing.T) {
	s, calls := countingStore()
	p := smallParams()

	first := s.GetOrGenerate(p)

	p.Seed = 99
	second := s.GetOrGenerate(p)

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, *calls)
	assert.Equal(t, 2, s.Size())
}

func TestInvalidate(t *testing.T) {
	s, calls := countingStore()
	p := smallParams()

	s.GetOrGenerate(p)
	s.Invalidate(p)
	s.GetOrGenerate(p)

	assert.Equal(t, 2, *calls)
	assert.Equal(t, 1, s.Size())

	// Invalidating an uncached parameter set is a no-op.
	other := smallParams()
	other.Days = 9
	s.Invalidate(other)
	assert.Equal(t, 1, s.Size())
}

func TestReset(t *testing.T) {
	s, calls := countingStore()
	p := smallParams()

	s.GetOrGenerate(p)
	p.Seed = 7
	s.GetOrGenerate(p)
	assert.Equal(t, 2, s.Size())

	s.Reset()
	assert.Zero(t, s.Size())

	s.GetOrGenerate(p)
	assert.Equal(t, 3, *calls)
}

func TestGetOrGenerateConcurrent(t *testing.T) {
	s, calls := countingStore()
	p := smallParams()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.GetOrGenerate(p)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, *calls, "concurrent misses collapse into one generation")
}
