// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package reconcile

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/tomtom215/worldpulse/internal/events"
	"github.com/tomtom215/worldpulse/internal/models"
)

type wbKey struct {
	country, indicator string
	year               int
}

type happinessKey struct {
	country string
	year    int
}

// memStore is an in-memory Store keyed by natural key.
type memStore struct {
	mu         sync.Mutex
	countries  map[string]models.Country
	indicators map[string]models.Indicator
	worldBank  map[wbKey]*float64
	happiness  map[happinessKey]models.HappinessObservation
	regional   map[string]models.RegionalAggregate
	writeErr   error
}

func newMemStore(codes ...string) *memStore {
	s := &memStore{
		countries:  map[string]models.Country{},
		indicators: map[string]models.Indicator{},
		worldBank:  map[wbKey]*float64{},
		happiness:  map[happinessKey]models.HappinessObservation{},
		regional:   map[string]models.RegionalAggregate{},
	}
	for _, code := range codes {
		s.countries[code] = models.Country{Code: code, Name: code, Region: models.String("Region " + code[:1])}
	}
	return s
}

func (s *memStore) GetCountry(_ context.Context, code string) (*models.Country, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.countries[code]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *memStore) EnsureCountry(_ context.Context, code string) (*models.Country, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.countries[code]; !ok {
		s.countries[code] = models.Country{Code: code, Name: code}
	}
	c := s.countries[code]
	return &c, nil
}

func (s *memStore) EnsureIndicator(_ context.Context, code string) (*models.Indicator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.indicators[code]; !ok {
		s.indicators[code] = models.Indicator{Code: code, Name: code}
	}
	i := s.indicators[code]
	return &i, nil
}

func (s *memStore) UpsertCountries(_ context.Context, countries []models.Country) (models.UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res models.UpsertResult
	if s.writeErr != nil {
		return res, s.writeErr
	}
	for _, c := range countries {
		_, existed := s.countries[c.Code]
		s.countries[c.Code] = c
		res.Record(existed)
	}
	return res, nil
}

func (s *memStore) UpsertIndicators(_ context.Context, indicators []models.Indicator) (models.UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res models.UpsertResult
	if s.writeErr != nil {
		return res, s.writeErr
	}
	for _, i := range indicators {
		_, existed := s.indicators[i.Code]
		s.indicators[i.Code] = i
		res.Record(existed)
	}
	return res, nil
}

func (s *memStore) GetWorldBankSeries(_ context.Context, country, indicator string, r models.YearRange) ([]models.WorldBankObservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.WorldBankObservation{}
	for k, v := range s.worldBank {
		if k.country == country && k.indicator == indicator && r.Contains(k.year) {
			out = append(out, models.WorldBankObservation{CountryCode: country, IndicatorCode: indicator, Year: k.year, Value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

func (s *memStore) UpsertWorldBankValues(_ context.Context, country, indicator string, values []models.YearValue) (models.UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res models.UpsertResult
	if s.writeErr != nil {
		return res, s.writeErr
	}
	for _, v := range values {
		k := wbKey{country, indicator, v.Year}
		_, existed := s.worldBank[k]
		s.worldBank[k] = models.Float(v.Value)
		res.Record(existed)
	}
	return res, nil
}

func (s *memStore) GetHappiness(_ context.Context, country string, year int) (*models.HappinessObservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.happiness[happinessKey{country, year}]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (s *memStore) GetHappinessHistory(_ context.Context, country string, r models.YearRange) ([]models.HappinessObservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.HappinessObservation{}
	for k, h := range s.happiness {
		if k.country != country {
			continue
		}
		if (r.Start != 0 || r.End != 0) && !r.Contains(k.year) {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

func (s *memStore) HappinessForYear(_ context.Context, year int) ([]models.HappinessObservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.HappinessObservation{}
	for k, h := range s.happiness {
		if k.year == year {
			h.Region = s.countries[k.country].Region
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CountryCode < out[j].CountryCode })
	return out, nil
}

func (s *memStore) UpsertHappiness(_ context.Context, obs []models.HappinessObservation) (models.UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res models.UpsertResult
	if s.writeErr != nil {
		return res, s.writeErr
	}
	for _, h := range obs {
		if _, ok := s.countries[h.CountryCode]; !ok {
			return models.UpsertResult{}, errors.New("unknown country")
		}
		k := happinessKey{h.CountryCode, h.Year}
		_, existed := s.happiness[k]
		s.happiness[k] = h
		res.Record(existed)
	}
	return res, nil
}

func (s *memStore) ListRegionalAggregates(_ context.Context, filter models.ObservationFilter) ([]models.RegionalAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.RegionalAggregate{}
	for _, a := range s.regional {
		if filter.Year == 0 || a.Year == filter.Year {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memStore) UpsertRegionalAggregates(_ context.Context, aggs []models.RegionalAggregate) (models.UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res models.UpsertResult
	for _, a := range aggs {
		k := a.Region + "/" + strconv.Itoa(a.Year)
		_, existed := s.regional[k]
		s.regional[k] = a
		res.Record(existed)
	}
	return res, nil
}

// stubFetcher returns canned data and counts calls.
type stubFetcher struct {
	series     []models.YearValue
	happiness  map[int][]models.HappinessObservation
	countries  []models.Country
	indicators []models.Indicator
	err        error

	seriesCalls    int
	happinessCalls int
}

func (f *stubFetcher) FetchWorldBankSeries(_ context.Context, _, _ string, _ models.YearRange) ([]models.YearValue, error) {
	f.seriesCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.series, nil
}

func (f *stubFetcher) FetchCountries(_ context.Context) ([]models.Country, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.countries, nil
}

func (f *stubFetcher) FetchIndicators(_ context.Context) ([]models.Indicator, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.indicators, nil
}

func (f *stubFetcher) FetchHappiness(_ context.Context, year int) ([]models.HappinessObservation, error) {
	f.happinessCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.happiness[year], nil
}

type recordingPublisher struct {
	events []events.FetchCompleted
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.FetchCompleted) error {
	p.events = append(p.events, ev)
	return nil
}

var window = models.YearRange{Start: 2015, End: 2023}

func TestGetWorldBankSeriesFetchesOnMiss(t *testing.T) {
	store := newMemStore()
	fetcher := &stubFetcher{series: []models.YearValue{
		{Year: 2021, Value: 2.0},
		{Year: 2020, Value: 1.0},
		{Year: 1999, Value: 9.0}, // outside the window
	}}
	pub := &recordingPublisher{}
	svc := NewService(store, fetcher, pub)

	rows, err := svc.GetWorldBankSeries(context.Background(), "IN", "NY.GDP.PCAP.CD", window)
	if err != nil {
		t.Fatalf("GetWorldBankSeries failed: %v", err)
	}
	if len(rows) != 2 || rows[0].Year != 2020 || rows[1].Year != 2021 {
		t.Fatalf("expected 2020 and 2021 ascending, got %+v", rows)
	}
	if _, ok := store.countries["IN"]; !ok {
		t.Error("placeholder country should have been created")
	}
	if _, ok := store.indicators["NY.GDP.PCAP.CD"]; !ok {
		t.Error("placeholder indicator should have been created")
	}
	if len(pub.events) != 1 || pub.events[0].Status != models.UpdateStatusCompleted || pub.events[0].Created != 2 {
		t.Errorf("unexpected events %+v", pub.events)
	}

	// Second read is served from the store.
	if _, err := svc.GetWorldBankSeries(context.Background(), "IN", "NY.GDP.PCAP.CD", window); err != nil {
		t.Fatal(err)
	}
	if fetcher.seriesCalls != 1 {
		t.Errorf("expected one upstream call, got %d", fetcher.seriesCalls)
	}
}

func TestGetWorldBankSeriesSoftFailure(t *testing.T) {
	store := newMemStore("IN")
	fetcher := &stubFetcher{err: errors.New("upstream returned 503")}
	pub := &recordingPublisher{}
	svc := NewService(store, fetcher, pub)

	rows, err := svc.GetWorldBankSeries(context.Background(), "IN", "NY.GDP.PCAP.CD", window)
	if err != nil {
		t.Fatalf("fetch failure must not surface: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected empty series, got %+v", rows)
	}
	if len(pub.events) != 1 || pub.events[0].Status != models.UpdateStatusFailed {
		t.Errorf("expected one failed event, got %+v", pub.events)
	}
	if len(store.indicators) != 0 {
		t.Error("no catalog rows should be created for a failed fetch")
	}
}

func TestGetWorldBankSeriesIdempotentWrite(t *testing.T) {
	store := newMemStore("IN")
	fetcher := &stubFetcher{series: []models.YearValue{{Year: 2020, Value: 1.0}}}
	svc := NewService(store, fetcher, nil)

	for i := 0; i < 2; i++ {
		svc.fetchWorldBankSeries(context.Background(), "IN", "X", window)
	}
	if len(store.worldBank) != 1 {
		t.Errorf("expected exactly one row, got %d", len(store.worldBank))
	}
}

func TestGetHappiness(t *testing.T) {
	tests := []struct {
		name        string
		stored      *models.HappinessObservation
		upstream    []models.HappinessObservation
		wantScore   float64
		wantErr     error
		wantFetches int
	}{
		{
			name:        "stored row is returned without fetching",
			stored:      &models.HappinessObservation{CountryCode: "IN", Year: 2022, HappinessScore: models.Float(3.8)},
			wantScore:   3.8,
			wantFetches: 0,
		},
		{
			name:   "null score triggers a fetch",
			stored: &models.HappinessObservation{CountryCode: "IN", Year: 2022},
			upstream: []models.HappinessObservation{
				{CountryCode: "US", Year: 2022, HappinessScore: models.Float(6.9)},
				{CountryCode: "IN", Year: 2022, HappinessScore: models.Float(3.9)},
			},
			wantScore:   3.9,
			wantFetches: 1,
		},
		{
			name:        "missing everywhere is not found",
			upstream:    []models.HappinessObservation{{CountryCode: "US", Year: 2022, HappinessScore: models.Float(6.9)}},
			wantErr:     ErrNotFound,
			wantFetches: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore("IN", "US")
			if tt.stored != nil {
				store.happiness[happinessKey{"IN", 2022}] = *tt.stored
			}
			fetcher := &stubFetcher{happiness: map[int][]models.HappinessObservation{2022: tt.upstream}}
			svc := NewService(store, fetcher, nil)

			row, err := svc.GetHappiness(context.Background(), "IN", 2022)
			if fetcher.happinessCalls != tt.wantFetches {
				t.Errorf("fetches = %d, want %d", fetcher.happinessCalls, tt.wantFetches)
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetHappiness failed: %v", err)
			}
			if *row.HappinessScore != tt.wantScore {
				t.Errorf("score = %v, want %v", *row.HappinessScore, tt.wantScore)
			}
			if _, ok := store.happiness[happinessKey{"US", 2022}]; ok {
				t.Error("only the requested country should be stored")
			}
		})
	}
}

func TestGetHappinessUnknownCountry(t *testing.T) {
	fetcher := &stubFetcher{}
	svc := NewService(newMemStore(), fetcher, nil)

	_, err := svc.GetHappiness(context.Background(), "ZZ", 2022)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if fetcher.happinessCalls != 0 {
		t.Error("unknown country should not be fetched")
	}
}

func TestGetHappinessRefreshesStoredRollup(t *testing.T) {
	store := newMemStore("IN", "US")
	store.happiness[happinessKey{"US", 2022}] = models.HappinessObservation{CountryCode: "US", Year: 2022, HappinessScore: models.Float(7.0)}
	svc := NewService(store, &stubFetcher{happiness: map[int][]models.HappinessObservation{
		2022: {{CountryCode: "IN", Year: 2022, HappinessScore: models.Float(4.0)}},
	}}, nil)
	if _, err := svc.MaterializeRegional(context.Background(), 2022); err != nil {
		t.Fatal(err)
	}
	if len(store.regional) != 1 {
		t.Fatalf("expected one stored region, got %+v", store.regional)
	}

	if _, err := svc.GetHappiness(context.Background(), "IN", 2022); err != nil {
		t.Fatal(err)
	}
	if len(store.regional) != 2 {
		t.Errorf("rollup should include the new region, got %+v", store.regional)
	}
}

func TestHappinessHistoryExcludesNullScores(t *testing.T) {
	store := newMemStore("IN")
	store.happiness[happinessKey{"IN", 2020}] = models.HappinessObservation{CountryCode: "IN", Year: 2020, HappinessScore: models.Float(3.6)}
	store.happiness[happinessKey{"IN", 2021}] = models.HappinessObservation{CountryCode: "IN", Year: 2021}
	store.happiness[happinessKey{"IN", 2022}] = models.HappinessObservation{CountryCode: "IN", Year: 2022, HappinessScore: models.Float(4.0)}
	fetcher := &stubFetcher{}
	svc := NewService(store, fetcher, nil)

	rows, err := svc.HappinessHistory(context.Background(), "IN", models.YearRange{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].Year != 2020 || rows[1].Year != 2022 {
		t.Errorf("unexpected history %+v", rows)
	}
	if fetcher.happinessCalls != 0 {
		t.Error("history must not fetch")
	}
}

func TestRefreshCatalog(t *testing.T) {
	store := newMemStore("IN")
	fetcher := &stubFetcher{
		countries:  []models.Country{{Code: "IN", Name: "India"}, {Code: "NP", Name: "Nepal"}},
		indicators: []models.Indicator{{Code: "SP.POP.TOTL", Name: "Population, total"}},
	}
	pub := &recordingPublisher{}
	svc := NewService(store, fetcher, pub)

	res, err := svc.RefreshCatalog(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res != (models.UpsertResult{Processed: 3, Created: 2, Updated: 1}) {
		t.Errorf("unexpected result %+v", res)
	}
	if store.countries["IN"].Name != "India" {
		t.Error("existing country should be updated")
	}
	if len(pub.events) != 1 || pub.events[0].Operation != events.OperationCatalogRefresh {
		t.Errorf("unexpected events %+v", pub.events)
	}
}

func TestRefreshCatalogUpstreamFailure(t *testing.T) {
	store := newMemStore("IN")
	pub := &recordingPublisher{}
	svc := NewService(store, &stubFetcher{err: errors.New("timeout")}, pub)

	res, err := svc.RefreshCatalog(context.Background())
	if err != nil {
		t.Fatalf("upstream failure must not surface: %v", err)
	}
	if res.Processed != 0 || len(store.countries) != 1 {
		t.Errorf("catalog should be untouched, got %+v", res)
	}
	if len(pub.events) != 1 || pub.events[0].Status != models.UpdateStatusFailed {
		t.Errorf("expected a failed event, got %+v", pub.events)
	}
}

func TestRefreshCatalogStoreFailure(t *testing.T) {
	store := newMemStore()
	store.writeErr = errors.New("disk full")
	svc := NewService(store, &stubFetcher{countries: []models.Country{{Code: "IN", Name: "India"}}}, nil)

	if _, err := svc.RefreshCatalog(context.Background()); err == nil {
		t.Error("store failure should be returned")
	}
}

func TestImportHappiness(t *testing.T) {
	store := newMemStore("IN", "US", "UY")
	fetcher := &stubFetcher{happiness: map[int][]models.HappinessObservation{
		2022: {
			{CountryCode: "US", Year: 2022, HappinessScore: models.Float(6.9)},
			{CountryCode: "UY", Year: 2022, HappinessScore: models.Float(6.5)},
			{CountryCode: "KR", Year: 2022, HappinessScore: models.Float(5.9)}, // not in catalog
		},
		2023: {
			{CountryCode: "IN", Year: 2023, HappinessScore: models.Float(4.0)},
		},
	}}
	pub := &recordingPublisher{}
	svc := NewService(store, fetcher, pub)

	res, err := svc.ImportHappiness(context.Background(), []int{2022, 2023})
	if err != nil {
		t.Fatal(err)
	}
	if res.Processed != 3 || res.Created != 3 {
		t.Errorf("unexpected result %+v", res)
	}
	if len(pub.events) != 2 {
		t.Errorf("expected one event per year, got %d", len(pub.events))
	}

	regional2022, _ := store.ListRegionalAggregates(context.Background(), models.ObservationFilter{Year: 2022})
	if len(regional2022) != 1 || regional2022[0].CountriesCount != 2 || *regional2022[0].AvgHappinessScore != 6.7 {
		t.Errorf("2022 rollup not materialized: %+v", regional2022)
	}
}

func TestMaterializeRegionalNoRows(t *testing.T) {
	svc := NewService(newMemStore(), &stubFetcher{}, nil)
	res, err := svc.MaterializeRegional(context.Background(), 2022)
	if err != nil || res.Processed != 0 {
		t.Errorf("expected no-op, got %+v %v", res, err)
	}
}

func TestInWindow(t *testing.T) {
	values := []models.YearValue{{Year: 1959}, {Year: 1960}, {Year: 2030}, {Year: 2031}}
	got := inWindow(values, models.YearRange{Start: 1900, End: 2100})
	if len(got) != 2 || got[0].Year != 1960 || got[1].Year != 2030 {
		t.Errorf("unexpected window %+v", got)
	}
}
