package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	exchdomain "github.com/wyfcoding/tradingdata/internal/exchange/domain"
	"github.com/wyfcoding/tradingdata/internal/fund/domain"
)

type fakeFundRepo struct {
	funds    map[string]*domain.Fund
	inserted int
	err      error
}

func newFakeFundRepo(funds ...*domain.Fund) *fakeFundRepo {
	r := &fakeFundRepo{funds: make(map[string]*domain.Fund)}
	for _, f := range funds {
		r.funds[f.Code] = f
	}
	return r
}

func (r *fakeFundRepo) FindAll(_ context.Context) ([]*domain.Fund, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.Fund, 0, len(r.funds))
	for _, f := range r.funds {
		out = append(out, f)
	}
	return out, nil
}

func (r *fakeFundRepo) BulkInsert(_ context.Context, funds []*domain.Fund) error {
	if r.err != nil {
		return r.err
	}
	for _, f := range funds {
		if _, ok := r.funds[f.Code]; !ok {
			r.funds[f.Code] = f
			r.inserted++
		}
	}
	return nil
}

type fakeListingFetcher struct {
	listings []*domain.Fund
	err      error
}

func (f *fakeListingFetcher) FetchFundListings(_ context.Context) ([]*domain.Fund, error) {
	return f.listings, f.err
}

type fakeFundSyncer struct {
	synced []string
	errs   map[string]error
}

func (s *fakeFundSyncer) SyncDailyPrices(_ context.Context, code string) error {
	if err := s.errs[code]; err != nil {
		return err
	}
	s.synced = append(s.synced, code)
	return nil
}

func etf(code string) *domain.Fund {
	return &domain.Fund{Code: code, Name: code, Exchange: exchdomain.SSE}
}

func TestSyncListings(t *testing.T) {
	repo := newFakeFundRepo(etf("510300.SH"))
	fetcher := &fakeListingFetcher{listings: []*domain.Fund{etf("510300.SH"), etf("510500.SH")}}
	svc := NewFundService(repo, fetcher, &fakeFundSyncer{})

	require.NoError(t, svc.SyncListings(context.Background()))
	assert.Equal(t, 1, repo.inserted)
	assert.Len(t, repo.funds, 2)
}

func TestSyncListingsFetchError(t *testing.T) {
	svc := NewFundService(newFakeFundRepo(), &fakeListingFetcher{err: errors.New("upstream unavailable")}, &fakeFundSyncer{})
	assert.Error(t, svc.SyncListings(context.Background()))
}

func TestSyncAllPricesContinuesOnError(t *testing.T) {
	repo := newFakeFundRepo(etf("510300.SH"), etf("510500.SH"))
	syncer := &fakeFundSyncer{errs: map[string]error{"510300.SH": errors.New("fetch failed")}}
	svc := NewFundService(repo, &fakeListingFetcher{}, syncer)

	require.NoError(t, svc.SyncAllPrices(context.Background()))
	assert.Equal(t, []string{"510500.SH"}, syncer.synced)
}
