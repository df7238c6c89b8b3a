package state

import (
	"testing"
	"time"

	"github.com/songboard/songboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func waitChange(t *testing.T, s *ActiveStore) Change {
	t.Helper()
	select {
	case c := <-s.Events():
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a state change event")
		return Change{}
	}
}

func assertNoChange(t *testing.T, s *ActiveStore) {
	t.Helper()
	select {
	case c := <-s.Events():
		t.Fatalf("unexpected state change event: %+v", c)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestActiveStore_StartsEmpty(t *testing.T) {
	s := NewActiveStore(zap.NewNop())
	defer s.Close()

	_, ok := s.Current()
	assert.False(t, ok)
}

func TestActiveStore_SetPublishes(t *testing.T) {
	s := NewActiveStore(zap.NewNop())
	defer s.Close()

	song := domain.Song{ID: 1, Title: "Amazing Grace"}
	s.Set(song)

	change := waitChange(t, s)
	require.NotNil(t, change.Song)
	assert.Equal(t, song, *change.Song)

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, song, current)
}

// Re-setting the active song is observably a no-op: the second Set emits
// no event and the state equals the single-invocation result.
func TestActiveStore_SetIdempotent(t *testing.T) {
	s := NewActiveStore(zap.NewNop())
	defer s.Close()

	song := domain.Song{ID: 1, Title: "Amazing Grace"}

	s.Set(song)
	waitChange(t, s)

	s.Set(song)
	assertNoChange(t, s)

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, song, current)
}

func TestActiveStore_WritesAreOrdered(t *testing.T) {
	s := NewActiveStore(zap.NewNop())
	defer s.Close()

	first := domain.Song{ID: 1, Title: "Amazing Grace"}
	second := domain.Song{ID: 2, Title: "Shout to the Lord"}

	s.Set(first)
	s.Set(second)

	c1 := waitChange(t, s)
	c2 := waitChange(t, s)
	assert.Equal(t, first, *c1.Song)
	assert.Equal(t, second, *c2.Song)

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, second, current)
}

func TestActiveStore_Clear(t *testing.T) {
	s := NewActiveStore(zap.NewNop())
	defer s.Close()

	s.Set(domain.Song{ID: 1, Title: "Amazing Grace"})
	waitChange(t, s)

	s.Clear()
	change := waitChange(t, s)
	assert.Nil(t, change.Song)

	_, ok := s.Current()
	assert.False(t, ok)

	// Clearing an empty selection emits nothing
	s.Clear()
	assertNoChange(t, s)
}

func TestActiveStore_Revalidate(t *testing.T) {
	tests := []struct {
		name          string
		catalog       domain.Catalog
		expectCleared bool
	}{
		{
			name: "Song survives reload",
			catalog: domain.Catalog{
				{ID: 1, Title: "Amazing Grace"},
				{ID: 2, Title: "Shout to the Lord"},
			},
			expectCleared: false,
		},
		{
			name:          "Song dropped by reload",
			catalog:       domain.Catalog{{ID: 2, Title: "Shout to the Lord"}},
			expectCleared: true,
		},
		{
			name:          "Same id different title counts as dropped",
			catalog:       domain.Catalog{{ID: 1, Title: "Amazing Grace (Reprise)"}},
			expectCleared: true,
		},
		{
			name:          "Empty catalog clears",
			catalog:       nil,
			expectCleared: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewActiveStore(zap.NewNop())
			defer s.Close()

			s.Set(domain.Song{ID: 1, Title: "Amazing Grace"})
			waitChange(t, s)

			s.Revalidate(tt.catalog)

			if tt.expectCleared {
				change := waitChange(t, s)
				assert.Nil(t, change.Song)
				_, ok := s.Current()
				assert.False(t, ok)
			} else {
				assertNoChange(t, s)
				_, ok := s.Current()
				assert.True(t, ok)
			}
		})
	}
}

func TestActiveStore_RevalidateOnEmptySelection(t *testing.T) {
	s := NewActiveStore(zap.NewNop())
	defer s.Close()

	s.Revalidate(domain.Catalog{{ID: 1, Title: "Amazing Grace"}})
	assertNoChange(t, s)
}

func TestActiveStore_CloseDropsLateWrites(t *testing.T) {
	s := NewActiveStore(zap.NewNop())
	s.Close()
	s.Close() // idempotent

	// Must not panic or block
	s.Set(domain.Song{ID: 1, Title: "Amazing Grace"})
	s.Clear()

	_, ok := s.Current()
	assert.False(t, ok)
}
