package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	exchdomain "github.com/wyfcoding/tradingdata/internal/exchange/domain"
	"github.com/wyfcoding/tradingdata/internal/index/domain"
)

type fakeIndexRepo struct {
	indexes []*domain.StockIndex
	err     error
}

func (r *fakeIndexRepo) GetByCode(_ context.Context, code string) (*domain.StockIndex, error) {
	for _, idx := range r.indexes {
		if idx.Code == code {
			return idx, nil
		}
	}
	return nil, r.err
}

func (r *fakeIndexRepo) ListAll(_ context.Context) ([]*domain.StockIndex, error) {
	return r.indexes, r.err
}

func (r *fakeIndexRepo) BulkInsert(_ context.Context, indexes []*domain.StockIndex) error {
	r.indexes = append(r.indexes, indexes...)
	return r.err
}

type memberKey struct {
	index string
	stock string
}

type fakeConstituentRepo struct {
	members map[memberKey]*domain.IndexConstituent
	err     error
}

func newFakeConstituentRepo() *fakeConstituentRepo {
	return &fakeConstituentRepo{members: make(map[memberKey]*domain.IndexConstituent)}
}

func (r *fakeConstituentRepo) ListByIndex(_ context.Context, indexCode string) ([]*domain.IndexConstituent, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.IndexConstituent
	for k, c := range r.members {
		if k.index == indexCode {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeConstituentRepo) BulkInsert(_ context.Context, constituents []*domain.IndexConstituent) error {
	if r.err != nil {
		return r.err
	}
	for _, c := range constituents {
		r.members[memberKey{c.IndexCode, c.StockCode}] = c
	}
	return nil
}

func (r *fakeConstituentRepo) Delete(_ context.Context, indexCode, stockCode string) error {
	if r.err != nil {
		return r.err
	}
	delete(r.members, memberKey{indexCode, stockCode})
	return nil
}

type fakeConstituentFetcher struct {
	byIndex map[string][]*domain.IndexConstituent
	errs    map[string]error
}

func (f *fakeConstituentFetcher) FetchConstituents(_ context.Context, index *domain.StockIndex) ([]*domain.IndexConstituent, error) {
	if err := f.errs[index.Code]; err != nil {
		return nil, err
	}
	return f.byIndex[index.Code], nil
}

type fakeNotifier struct {
	titles   []string
	contents []string
	err      error
}

func (n *fakeNotifier) Notify(_ context.Context, title, content string) error {
	if n.err != nil {
		return n.err
	}
	n.titles = append(n.titles, title)
	n.contents = append(n.contents, content)
	return nil
}

type fakePriceSyncer struct {
	synced []string
	errs   map[string]error
}

func newFakePriceSyncer() *fakePriceSyncer {
	return &fakePriceSyncer{errs: make(map[string]error)}
}

func (s *fakePriceSyncer) SyncDailyPrices(_ context.Context, code string) error {
	if err := s.errs[code]; err != nil {
		return err
	}
	s.synced = append(s.synced, code)
	return nil
}

func hs300() *domain.StockIndex {
	return &domain.StockIndex{Code: "000300.SH", Name: "沪深300", Exchange: exchdomain.SSE}
}

func member(index, stock, name string) *domain.IndexConstituent {
	return &domain.IndexConstituent{IndexCode: index, StockCode: stock, StockName: name}
}

type indexFixture struct {
	indexes      *fakeIndexRepo
	constituents *fakeConstituentRepo
	fetcher      *fakeConstituentFetcher
	notifier     *fakeNotifier
	priceSyncer  *fakePriceSyncer
	svc          *IndexService
}

func newIndexFixture(indexes ...*domain.StockIndex) *indexFixture {
	f := &indexFixture{
		indexes:      &fakeIndexRepo{indexes: indexes},
		constituents: newFakeConstituentRepo(),
		fetcher:      &fakeConstituentFetcher{byIndex: make(map[string][]*domain.IndexConstituent), errs: make(map[string]error)},
		notifier:     &fakeNotifier{},
		priceSyncer:  newFakePriceSyncer(),
	}
	f.svc = NewIndexService(f.indexes, f.constituents, f.fetcher, f.notifier, f.priceSyncer, nil)
	return f
}

func TestSyncConstituentsAppliesDiff(t *testing.T) {
	index := hs300()
	f := newIndexFixture(index)

	f.constituents.members[memberKey{index.Code, "600000.SH"}] = member(index.Code, "600000.SH", "浦发银行")
	f.fetcher.byIndex[index.Code] = []*domain.IndexConstituent{
		member(index.Code, "601318.SH", "中国平安"),
	}

	diff, err := f.svc.SyncConstituents(context.Background(), index)
	require.NoError(t, err)
	require.Len(t, diff.Added, 1)
	require.Len(t, diff.Removed, 1)

	_, hasNew := f.constituents.members[memberKey{index.Code, "601318.SH"}]
	_, hasOld := f.constituents.members[memberKey{index.Code, "600000.SH"}]
	assert.True(t, hasNew)
	assert.False(t, hasOld)
}

func TestSyncAllConstituentsNotifiesChanges(t *testing.T) {
	index := hs300()
	f := newIndexFixture(index)

	f.fetcher.byIndex[index.Code] = []*domain.IndexConstituent{
		member(index.Code, "601318.SH", "中国平安"),
	}

	require.NoError(t, f.svc.SyncAllConstituents(context.Background()))

	require.Len(t, f.notifier.titles, 1)
	assert.Equal(t, "指数成分股关注-沪深300", f.notifier.titles[0])
	assert.Contains(t, f.notifier.contents[0], "增加 中国平安(601318.SH)")
}

func TestSyncAllConstituentsBatchesNotifications(t *testing.T) {
	index := hs300()
	f := newIndexFixture(index)

	// 23 条新增拆为 10/10/3 三批
	var latest []*domain.IndexConstituent
	for i := 0; i < 23; i++ {
		code := fmt.Sprintf("60%04d.SH", i)
		latest = append(latest, member(index.Code, code, code))
	}
	f.fetcher.byIndex[index.Code] = latest

	require.NoError(t, f.svc.SyncAllConstituents(context.Background()))

	require.Len(t, f.notifier.contents, 3)
	assert.Len(t, strings.Split(f.notifier.contents[0], "\n"), 10)
	assert.Len(t, strings.Split(f.notifier.contents[1], "\n"), 10)
	assert.Len(t, strings.Split(f.notifier.contents[2], "\n"), 3)
}

func TestSyncAllConstituentsNoChangeNoNotify(t *testing.T) {
	index := hs300()
	f := newIndexFixture(index)

	f.constituents.members[memberKey{index.Code, "600000.SH"}] = member(index.Code, "600000.SH", "浦发银行")
	f.fetcher.byIndex[index.Code] = []*domain.IndexConstituent{
		member(index.Code, "600000.SH", "浦发银行"),
	}

	require.NoError(t, f.svc.SyncAllConstituents(context.Background()))
	assert.Empty(t, f.notifier.titles)
}

func TestSyncAllConstituentsContinuesOnFetchError(t *testing.T) {
	broken := &domain.StockIndex{Code: "000905.SH", Name: "中证500", Exchange: exchdomain.SSE}
	healthy := hs300()
	f := newIndexFixture(broken, healthy)

	f.fetcher.errs[broken.Code] = errors.New("upstream unavailable")
	f.fetcher.byIndex[healthy.Code] = []*domain.IndexConstituent{
		member(healthy.Code, "601318.SH", "中国平安"),
	}

	require.NoError(t, f.svc.SyncAllConstituents(context.Background()))
	require.Len(t, f.notifier.titles, 1)
	assert.Equal(t, "指数成分股关注-沪深300", f.notifier.titles[0])
}

func TestSyncConstituentPricesDeduplicatesAndContinues(t *testing.T) {
	a := hs300()
	b := &domain.StockIndex{Code: "000905.SH", Name: "中证500", Exchange: exchdomain.SSE}
	f := newIndexFixture(a, b)

	// 两个指数共享 600036，且 600000 同步失败
	f.constituents.members[memberKey{a.Code, "600000.SH"}] = member(a.Code, "600000.SH", "浦发银行")
	f.constituents.members[memberKey{a.Code, "600036.SH"}] = member(a.Code, "600036.SH", "招商银行")
	f.constituents.members[memberKey{b.Code, "600036.SH"}] = member(b.Code, "600036.SH", "招商银行")
	f.priceSyncer.errs["600000.SH"] = errors.New("fetch failed")

	require.NoError(t, f.svc.SyncConstituentPrices(context.Background()))

	assert.Equal(t, []string{"600036.SH"}, f.priceSyncer.synced)
}
