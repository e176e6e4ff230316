package dataset

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-hull/prix-carburants-api/internal/models"
)

func stationsFor(prefix string, n int) []*models.Station {
	stations := make([]*models.Station, 0, n)
	for i := 0; i < n; i++ {
		stations = append(stations, &models.Station{ID: fmt.Sprintf("%s-%d", prefix, i), City: prefix})
	}
	return stations
}

func TestStore(t *testing.T) {
	now := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	store := NewStore(WithClock(func() time.Time { return now }))

	t.Run("not loaded initially", func(t *testing.T) {
		assert.False(t, store.IsLoaded())
		_, ok := store.LastUpdated()
		assert.False(t, ok)
		assert.Equal(t, 0, store.Count())
		assert.Empty(t, store.Stations())
		assert.False(t, store.Check().Pass())
		assert.Equal(t, "dataset", store.Check().Name())
	})

	t.Run("replace", func(t *testing.T) {
		store.Replace(stationsFor("paris", 3))
		assert.True(t, store.IsLoaded())
		ts, ok := store.LastUpdated()
		assert.True(t, ok)
		assert.Equal(t, now, ts)
		assert.Equal(t, 3, store.Count())
		assert.True(t, store.Check().Pass())

		station, found := store.Find("paris-1")
		require.True(t, found)
		assert.Equal(t, "paris", station.City)
	})

	t.Run("stations is a copy", func(t *testing.T) {
		stations := store.Stations()
		stations[0] = nil
		assert.NotNil(t, store.Stations()[0])
	})

	t.Run("empty replace is still loaded", func(t *testing.T) {
		store.Replace(nil)
		assert.True(t, store.IsLoaded())
		assert.Equal(t, 0, store.Count())
		_, found := store.Find("paris-1")
		assert.False(t, found)
	})
}

func TestStoreConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	store := NewStore()
	store.Replace(stationsFor("a", 100))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snapshot := store.Snapshot()
				if !assert.NotEmpty(t, snapshot.Stations) {
					return
				}
				city := snapshot.Stations[0].City
				for _, s := range snapshot.Stations {
					assert.Equal(t, city, s.City)
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		if i%2 == 0 {
			store.Replace(stationsFor("b", 50))
		} else {
			store.Replace(stationsFor("a", 100))
		}
	}
	close(stop)
	wg.Wait()
}

func TestReplaceGeneration(t *testing.T) {
	store := NewStore()
	assert.Equal(t, uint64(0), store.Snapshot().Generation)

	assert.Equal(t, uint64(1), store.Replace(stationsFor("paris", 1)).Generation)
	assert.Equal(t, uint64(2), store.Replace(nil).Generation)
	assert.Equal(t, uint64(2), store.Snapshot().Generation)
}

func TestReplaceIndexing(t *testing.T) {
	first := &models.Station{ID: "1", City: "Paris"}
	second := &models.Station{ID: "1", City: "Lyon"}
	anonymous := &models.Station{City: "Nice"}

	store := NewStore()
	store.Replace([]*models.Station{first, anonymous, second})

	assert.Equal(t, 3, store.Count(), "every station is kept")

	found, ok := store.Find("1")
	require.True(t, ok)
	assert.Same(t, first, found)

	_, ok = store.Find("")
	assert.False(t, ok)
}
