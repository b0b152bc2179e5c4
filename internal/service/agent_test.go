package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carsearch/internal/model"
)

// stubSearcher records the filters it was called with.
type stubSearcher struct {
	page     *model.SearchPage
	err      error
	lastCall *model.CarFilters
}

func (s *stubSearcher) SearchCars(ctx context.Context, filters *model.CarFilters, page model.Pagination) (*model.SearchPage, error) {
	s.lastCall = filters
	if s.err != nil {
		return nil, s.err
	}
	return s.page, nil
}

func testCar(brand, name string, year int) model.CarDetail {
	return model.CarDetail{
		ID: uuid.New(),
		CarName: model.CarName{
			ID:    uuid.New(),
			Name:  name,
			Brand: model.Brand{ID: uuid.New(), Name: brand},
		},
		CarModel:        model.CarModel{ID: uuid.New(), Name: "Sedan"},
		Color:           model.Color{ID: uuid.New(), Name: "Black"},
		Engine:          model.Engine{ID: uuid.New(), Name: "2.0"},
		YearManufacture: year,
		YearModel:       year,
		FuelType:        "flex",
		Transmission:    "automatic",
		Mileage:         42000,
		Doors:           4,
		Price:           85000,
	}
}

func newTestSession(searcher CarSearcher) *Session {
	extractor := NewExtractor(&stubGenerator{err: errors.New("offline")}, zap.NewNop())
	return NewSession(extractor, searcher, zap.NewNop())
}

func TestSessionAsksWhenNothingExtracted(t *testing.T) {
	searcher := &stubSearcher{}
	session := newTestSession(searcher)

	reply := session.Process(context.Background(), "hi")

	assert.Nil(t, searcher.lastCall, "no search without preferences")
	assert.Contains(t, reply, "?")
	assert.Empty(t, session.Preferences())
}

func TestSessionSearchesWithAnyPreference(t *testing.T) {
	searcher := &stubSearcher{page: &model.SearchPage{
		Results:  []model.CarDetail{testCar("Toyota", "Corolla", 2022)},
		Total:    1,
		Page:     1,
		PageSize: 10,
	}}
	session := newTestSession(searcher)

	reply := session.Process(context.Background(), "I want a toyota")

	require.NotNil(t, searcher.lastCall)
	require.NotNil(t, searcher.lastCall.BrandName)
	assert.Equal(t, "toyota", *searcher.lastCall.BrandName)
	assert.Contains(t, reply, "Toyota Corolla")
	assert.Len(t, session.LastResults(), 1)
}

func TestSessionMergesAcrossTurns(t *testing.T) {
	searcher := &stubSearcher{page: &model.SearchPage{
		Results: []model.CarDetail{testCar("Toyota", "Corolla", 2022)},
		Total:   1,
	}}
	session := newTestSession(searcher)

	session.Process(context.Background(), "I want a toyota")
	session.Process(context.Background(), "a cheap one")

	prefs := session.Preferences()
	assert.Equal(t, "toyota", prefs[model.PrefBrand], "earlier preference persists")
	assert.Equal(t, "budget", prefs[model.PrefPriceRange], "new preference merged")

	require.NotNil(t, searcher.lastCall.PriceMax)
	assert.Equal(t, 50000.0, *searcher.lastCall.PriceMax)
	require.NotNil(t, searcher.lastCall.BrandName)
	assert.Equal(t, "toyota", *searcher.lastCall.BrandName)
}

func TestSessionSurvivesSearchFailure(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("db gone")}
	session := newTestSession(searcher)

	reply := session.Process(context.Background(), "a red honda")
	assert.Contains(t, reply, "try again")

	// The session is still usable.
	searcher.err = nil
	searcher.page = &model.SearchPage{Results: []model.CarDetail{testCar("Honda", "Civic", 2021)}, Total: 1}
	reply = session.Process(context.Background(), "a red honda")
	assert.Contains(t, reply, "Honda Civic")
}

// panickingSearcher blows up on every call.
type panickingSearcher struct{}

func (panickingSearcher) SearchCars(ctx context.Context, filters *model.CarFilters, page model.Pagination) (*model.SearchPage, error) {
	panic("searcher blew up")
}

func TestSessionSurvivesPanic(t *testing.T) {
	session := newTestSession(panickingSearcher{})

	reply := session.Process(context.Background(), "a toyota")
	assert.Contains(t, reply, "try again")

	// The session keeps working on the next turn.
	searcher := &stubSearcher{page: &model.SearchPage{
		Results: []model.CarDetail{testCar("Toyota", "Corolla", 2022)},
		Total:   1,
	}}
	session.searcher = searcher
	reply = session.Process(context.Background(), "a toyota")
	assert.Contains(t, reply, "Toyota Corolla")
}

func TestSessionRefinementCarriesPriorResults(t *testing.T) {
	gen := &capturingGenerator{output: `{"brand": "honda"}`}
	searcher := &stubSearcher{page: &model.SearchPage{
		Results: []model.CarDetail{testCar("Honda", "Civic", 2021)},
		Total:   1,
	}}
	session := NewSession(NewExtractor(gen, zap.NewNop()), searcher, zap.NewNop())

	session.Process(context.Background(), "I want a honda")
	assert.NotContains(t, gen.lastReq.Prompt, "Cars currently shown", "first turn has nothing to refine")

	gen.output = `{"color": "red"}`
	session.Process(context.Background(), "only the red ones")
	assert.Contains(t, gen.lastReq.Prompt, "Honda Civic (2021)", "refinement turn carries the shown cars")
}

func TestSessionEmptyResults(t *testing.T) {
	searcher := &stubSearcher{page: &model.SearchPage{Results: nil, Total: 0}}
	session := newTestSession(searcher)

	reply := session.Process(context.Background(), "a toyota")

	assert.Contains(t, reply, "couldn't find")
	assert.Empty(t, session.LastResults())
}

func TestSearchHistoryBounded(t *testing.T) {
	var h SearchHistory
	for i := 0; i < MaxHistoryEntries+20; i++ {
		h.Add(SearchRecord{Filters: map[string]any{"page_marker": i}, Success: true})
	}

	assert.Equal(t, MaxHistoryEntries, h.Len())
	records := h.Records()
	assert.Equal(t, 20, records[0].Filters["page_marker"], "oldest records evicted first")
	assert.Equal(t, MaxHistoryEntries+19, records[len(records)-1].Filters["page_marker"])
	assert.False(t, records[0].Timestamp.IsZero())
}

func TestSessionRecordsSearchHistory(t *testing.T) {
	searcher := &stubSearcher{page: &model.SearchPage{
		Results: []model.CarDetail{testCar("Toyota", "Corolla", 2022)},
		Total:   1,
	}}
	session := newTestSession(searcher)

	session.Process(context.Background(), "hello")
	session.Process(context.Background(), "a toyota")

	history := session.History()
	require.Len(t, history, 1, "only searches are recorded")
	assert.True(t, history[0].Success)
	assert.Equal(t, 1, history[0].ResultCount)
	assert.Equal(t, model.ConversationalPageSize, history[0].PageSize)
	assert.Equal(t, "toyota", history[0].Filters["brand_name"])
}

func TestSessionRecordsFailedSearch(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("db gone")}
	session := newTestSession(searcher)

	session.Process(context.Background(), "a toyota")

	history := session.History()
	require.Len(t, history, 1)
	assert.False(t, history[0].Success)
	assert.Equal(t, 0, history[0].ResultCount)
}
