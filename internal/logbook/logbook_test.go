package logbook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/claussann/FishingWebApp/internal/domain"
	"github.com/claussann/FishingWebApp/internal/observability"
	"github.com/claussann/FishingWebApp/internal/store"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogbook(t *testing.T) (*Logbook, *store.Collections) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cols := store.NewCollections(store.NewMemoryKV(), logger, observability.NewMetricsForTesting())
	return New(cols, logger), cols
}

func day(y int, m time.Month, d int) domain.Date { return domain.NewDate(y, m, d) }

func weight(kg float64) *float64 { return &kg }

func TestResolver_SpotPlaceholderAndGearDrop(t *testing.T) {
	r := NewResolver(
		[]domain.Spot{{ID: "s1", Name: "Pier"}},
		[]domain.Gear{{ID: "g1", Name: "Surf rod"}, {ID: "g2", Name: "Spinning reel"}},
	)

	name, state := r.SpotName("s1")
	assert.Equal(t, "Pier", name)
	assert.Equal(t, RefResolved, state)

	name, state = r.SpotName("gone")
	assert.Equal(t, DeletedSpotName, name)
	assert.Equal(t, RefDangling, state)

	name, state = r.SpotName("")
	assert.Empty(t, name)
	assert.Equal(t, RefNone, state)

	names, missing := r.GearNames([]string{"g2", "gone", "g1"})
	assert.Equal(t, []string{"Spinning reel", "Surf rod"}, names)
	assert.Equal(t, 1, missing)
}

func TestResolveOuting_JSONCarriesState(t *testing.T) {
	r := NewResolver(nil, nil)
	ro := r.ResolveOuting(domain.Outing{ID: "o1", SpotID: "s9", GearIDs: []string{"g9"}})

	assert.Equal(t, DeletedSpotName, ro.SpotName)
	assert.Equal(t, RefDangling, ro.SpotState)
	assert.Empty(t, ro.GearNames)
	assert.Equal(t, 1, ro.MissingGear)
	assert.Equal(t, "o1", ro.ID)
}

func TestMonthlyHistogram(t *testing.T) {
	outings := []domain.Outing{
		{Date: day(2024, time.January, 5)},
		{Date: day(2024, time.January, 20)},
		{Date: day(2024, time.March, 2)},
		{Date: day(2023, time.January, 1)},
	}

	got := MonthlyHistogram(outings, 2024)
	assert.Equal(t, [12]int{2, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0}, got)
	assert.Equal(t, [12]int{}, MonthlyHistogram(nil, 2024))
}

func TestTopMonth(t *testing.T) {
	_, ok := TopMonth(nil)
	assert.False(t, ok)

	outings := []domain.Outing{
		{Date: day(2023, time.May, 1)},
		{Date: day(2024, time.May, 9)},
		{Date: day(2024, time.February, 3)},
		{Date: day(2024, time.February, 4)},
	}
	month, ok := TopMonth(outings)
	require.True(t, ok)
	assert.Equal(t, time.February, month, "ties go to the earliest month")
}

func TestTopSpots_CountsAndPlaceholders(t *testing.T) {
	r := NewResolver([]domain.Spot{{ID: "spotA", Name: "Harbour"}}, nil)
	outings := []domain.Outing{
		{SpotID: "spotA"},
		{SpotID: "spotB"},
		{SpotID: "spotA"},
		{SpotID: ""},
	}

	got := TopSpots(outings, r, DefaultTopN)
	assert.Equal(t, []RankEntry{
		{ID: "spotA", Name: "Harbour", Count: 2},
		{ID: "spotB", Name: DeletedSpotName, Count: 1, Deleted: true},
	}, got)
}

func TestTopGear_StableAndTruncated(t *testing.T) {
	r := NewResolver(nil, []domain.Gear{{ID: "g1", Name: "A"}, {ID: "g2", Name: "B"}, {ID: "g3", Name: "C"}})
	outings := []domain.Outing{
		{GearIDs: []string{"g3", "g1"}},
		{GearIDs: []string{"g2", "g1"}},
	}

	got := TopGear(outings, r, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "g1", got[0].ID)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, "g3", got[1].ID, "equal counts keep first-seen order")
}

func TestUniqueUsage(t *testing.T) {
	outings := []domain.Outing{
		{SpotID: "s1", GearIDs: []string{"g1", "g2"}},
		{SpotID: "s1", GearIDs: []string{"g2", "g3"}},
		{GearIDs: []string{}},
	}

	assert.Equal(t, Usage{Spots: 1, Gear: 3}, UniqueUsage(outings))
}

func TestLatestOuting_TieBreaks(t *testing.T) {
	r := NewResolver(nil, nil)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, ok := LatestOuting(nil, r)
	assert.False(t, ok)

	outings := []domain.Outing{
		{ID: "old", Date: day(2024, time.June, 1), CreatedAt: created.Add(time.Hour)},
		{ID: "early", Date: day(2024, time.June, 2), CreatedAt: created},
		{ID: "late", Date: day(2024, time.June, 2), CreatedAt: created.Add(time.Minute)},
		{ID: "same", Date: day(2024, time.June, 2), CreatedAt: created.Add(time.Minute)},
	}
	got, ok := LatestOuting(outings, r)
	require.True(t, ok)
	assert.Equal(t, "same", got.ID)

	got, _ = LatestOuting(outings[:3], r)
	assert.Equal(t, "late", got.ID)
}

func TestSummarizeCatches_SkipsAbsentWeights(t *testing.T) {
	catches := []domain.Catch{
		{ID: "c1", Species: "Sea bass", Weight: weight(1.5)},
		{ID: "c2", Species: "sea bass"},
		{ID: "c3", Species: "Bream", Weight: weight(0.5)},
	}

	s := SummarizeCatches(catches, DefaultTopN)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Weighed)
	assert.InDelta(t, 2.0, s.TotalWeight, 1e-9)
	require.NotNil(t, s.Heaviest)
	assert.Equal(t, "c1", s.Heaviest.ID)
	avg, ok := s.AverageWeight()
	require.True(t, ok)
	assert.InDelta(t, 1.0, avg, 1e-9)
	require.Len(t, s.TopSpecies, 2)
	assert.Equal(t, RankEntry{ID: "sea bass", Name: "Sea bass", Count: 2}, s.TopSpecies[0])

	_, ok = SummarizeCatches(nil, DefaultTopN).AverageWeight()
	assert.False(t, ok)
}

func TestAggregates_AreIdempotent(t *testing.T) {
	r := NewResolver([]domain.Spot{{ID: "s1", Name: "Pier"}}, []domain.Gear{{ID: "g1", Name: "Rod"}})
	outings := []domain.Outing{
		{SpotID: "s1", GearIDs: []string{"g1"}, Date: day(2024, time.July, 1)},
		{SpotID: "s2", GearIDs: []string{"g2"}, Date: day(2024, time.July, 2)},
	}

	assert.Equal(t, TopSpots(outings, r, 5), TopSpots(outings, r, 5))
	assert.Equal(t, TopGear(outings, r, 5), TopGear(outings, r, 5))
	assert.Equal(t, MonthlyHistogram(outings, 2024), MonthlyHistogram(outings, 2024))
	assert.Equal(t, UniqueUsage(outings), UniqueUsage(outings))
}

func TestLogbook_AddAssignsIDAndTimestamp(t *testing.T) {
	clk := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC))
	domain.SetClock(clk)
	t.Cleanup(func() { domain.SetClock(nil) })

	lb, cols := newTestLogbook(t)
	ctx := context.Background()

	g, err := lb.AddGear(ctx, domain.Gear{Category: domain.GearRod, Name: "  Surf rod "})
	require.NoError(t, err)
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, "Surf rod", g.Name)
	assert.Equal(t, 1, g.Quantity)
	assert.Equal(t, clk.Now(), g.CreatedAt)
	assert.Equal(t, []domain.Gear{g}, cols.Gear.Load(ctx))
}

func TestLogbook_ValidationLeavesStoreUntouched(t *testing.T) {
	lb, cols := newTestLogbook(t)
	ctx := context.Background()

	_, err := lb.AddCatch(ctx, domain.Catch{Date: day(2024, time.May, 1)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "species", verr.Field)
	assert.Empty(t, cols.Catches.Load(ctx))

	_, err = lb.AddOuting(ctx, domain.Outing{})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, cols.Outings.Load(ctx))
}

func TestLogbook_SaveDeleteSequence(t *testing.T) {
	lb, _ := newTestLogbook(t)
	ctx := context.Background()

	a, err := lb.AddSpot(ctx, domain.Spot{Name: "A", Lat: 1, Lng: 2})
	require.NoError(t, err)
	b, err := lb.AddSpot(ctx, domain.Spot{Name: "B", Lat: 3, Lng: 4})
	require.NoError(t, err)

	require.NoError(t, lb.DeleteSpot(ctx, a.ID))
	spots := lb.ListSpots(ctx)
	require.Len(t, spots, 1)
	assert.Equal(t, b.ID, spots[0].ID)

	err = lb.DeleteSpot(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLogbook_DeletedSpotShowsPlaceholderInLatest(t *testing.T) {
	lb, _ := newTestLogbook(t)
	ctx := context.Background()

	spot, err := lb.AddSpot(ctx, domain.Spot{Name: "Breakwater", Lat: 44, Lng: 9})
	require.NoError(t, err)
	rod, err := lb.AddGear(ctx, domain.Gear{Category: domain.GearRod, Name: "Rod"})
	require.NoError(t, err)
	_, err = lb.AddOuting(ctx, domain.Outing{Date: day(2024, time.June, 1), SpotID: spot.ID, GearIDs: []string{rod.ID}})
	require.NoError(t, err)

	latest, ok := lb.Latest(ctx)
	require.True(t, ok)
	assert.Equal(t, "Breakwater", latest.SpotName)

	require.NoError(t, lb.DeleteSpot(ctx, spot.ID))
	require.NoError(t, lb.DeleteGear(ctx, rod.ID))

	latest, ok = lb.Latest(ctx)
	require.True(t, ok)
	assert.Equal(t, DeletedSpotName, latest.SpotName)
	assert.Equal(t, spot.ID, latest.SpotID, "delete does not cascade")
	assert.Empty(t, latest.GearNames)
	assert.Equal(t, 1, latest.MissingGear)
}

func TestLogbook_ListGearFiltersByCategory(t *testing.T) {
	lb, _ := newTestLogbook(t)
	ctx := context.Background()

	_, err := lb.AddGear(ctx, domain.Gear{Category: domain.GearRod, Name: "Rod"})
	require.NoError(t, err)
	_, err = lb.AddGear(ctx, domain.Gear{Category: domain.GearReel, Name: "Reel"})
	require.NoError(t, err)

	assert.Len(t, lb.ListGear(ctx, ""), 2)
	reels := lb.ListGear(ctx, domain.GearReel)
	require.Len(t, reels, 1)
	assert.Equal(t, "Reel", reels[0].Name)
}

func TestLogbook_DiaryNewestFirst(t *testing.T) {
	lb, _ := newTestLogbook(t)
	ctx := context.Background()

	for _, d := range []domain.Date{day(2024, time.March, 1), day(2024, time.May, 1), day(2024, time.April, 1)} {
		_, err := lb.AddOuting(ctx, domain.Outing{Date: d})
		require.NoError(t, err)
	}

	diary := lb.Diary(ctx)
	require.Len(t, diary, 3)
	assert.Equal(t, time.May, diary[0].Date.Month)
	assert.Equal(t, time.April, diary[1].Date.Month)
	assert.Equal(t, time.March, diary[2].Date.Month)
}

func TestLogbook_Statistics(t *testing.T) {
	lb, _ := newTestLogbook(t)
	ctx := context.Background()

	empty := lb.Statistics(ctx, 2024)
	assert.Equal(t, [12]int{}, empty.Months)
	assert.Zero(t, empty.TopMonth)
	assert.Empty(t, empty.TopSpots)
	assert.Empty(t, empty.TopGear)

	spot, err := lb.AddSpot(ctx, domain.Spot{Name: "Pier", Lat: 1, Lng: 1})
	require.NoError(t, err)
	_, err = lb.AddOuting(ctx, domain.Outing{Date: day(2024, time.January, 3), SpotID: spot.ID})
	require.NoError(t, err)
	_, err = lb.AddOuting(ctx, domain.Outing{Date: day(2024, time.January, 9), SpotID: spot.ID})
	require.NoError(t, err)
	_, err = lb.AddCatch(ctx, domain.Catch{Date: day(2024, time.January, 9), Species: "Bream", Weight: weight(0.8)})
	require.NoError(t, err)

	stats := lb.Statistics(ctx, 2024)
	assert.Equal(t, 2, stats.Months[0])
	assert.Equal(t, time.January, stats.TopMonth)
	require.Len(t, stats.TopSpots, 1)
	assert.Equal(t, RankEntry{ID: spot.ID, Name: "Pier", Count: 2}, stats.TopSpots[0])
	assert.Equal(t, Totals{Spots: 1, Outings: 2, Catches: 1}, stats.Totals)
	assert.Equal(t, Usage{Spots: 1}, stats.Usage)
	assert.Equal(t, 1, stats.Catches.Weighed)
	assert.Equal(t, stats.Totals, lb.Totals(ctx))
}

func TestLogbook_OnChangeFiresAfterWrites(t *testing.T) {
	lb, _ := newTestLogbook(t)
	ctx := context.Background()
	var calls int
	lb.OnChange(func() { calls++ })

	g, err := lb.AddGear(ctx, domain.Gear{Category: domain.GearReel, Name: "Reel"})
	require.NoError(t, err)
	_, err = lb.AddGear(ctx, domain.Gear{Name: "no category"})
	require.Error(t, err)
	require.NoError(t, lb.DeleteGear(ctx, g.ID))
	require.ErrorIs(t, lb.DeleteGear(ctx, g.ID), ErrNotFound)

	assert.Equal(t, 2, calls)
}

func TestLogbook_ConcurrentAddsAreSerialised(t *testing.T) {
	lb, _ := newTestLogbook(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := lb.AddCatch(ctx, domain.Catch{Date: day(2024, time.August, 1), Species: "Mullet"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, lb.ListCatches(ctx), 20)
}

func TestLogbook_CheckReadiness(t *testing.T) {
	lb, _ := newTestLogbook(t)
	assert.NoError(t, lb.CheckReadiness(context.Background()))
}
