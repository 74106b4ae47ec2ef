// Package datasource 对接行情数据网关，为各模块的 fetcher 接口提供
// 统一的 HTTP 实现。网关负责抹平各交易所的报文差异，这里只处理
// 标准化后的 JSON。
package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	exchdomain "github.com/wyfcoding/tradingdata/internal/exchange/domain"
	funddomain "github.com/wyfcoding/tradingdata/internal/fund/domain"
	indexdomain "github.com/wyfcoding/tradingdata/internal/index/domain"
	stockdomain "github.com/wyfcoding/tradingdata/internal/stock/domain"
	"github.com/wyfcoding/tradingdata/pkg/config"
)

// TokenProvider 港股接口所需的访问令牌来源
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// Client 行情数据网关客户端
type Client struct {
	baseURL string
	client  *http.Client
	tokens  TokenProvider
}

// NewClient 创建网关客户端。tokens 可为 nil，此时港股请求不带令牌。
func NewClient(cfg config.DataSourceConfig, tokens TokenProvider) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
		tokens:  tokens,
	}
}

// SetTokenProvider 注入令牌来源。令牌存储以本客户端为签发渠道，
// 两者互相依赖，在 main 中装配时后注入。
func (c *Client) SetTokenProvider(tokens TokenProvider) {
	c.tokens = tokens
}

func (c *Client) get(ctx context.Context, path string, query url.Values, exchange exchdomain.Exchange, dest any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if exchange == exchdomain.HKEX && c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("failed to obtain hkex token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("datasource %s returned status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

type dailyBarPayload struct {
	Date   uint64               `json:"date"`
	Open   decimal.Decimal      `json:"open"`
	Close  decimal.Decimal      `json:"close"`
	High   decimal.Decimal      `json:"high"`
	Low    decimal.Decimal      `json:"low"`
	Volume decimal.NullDecimal `json:"volume"`
	Amount decimal.NullDecimal `json:"amount"`
}

// FetchDailyPrices 拉取标的近端日线，按日期升序返回
func (c *Client) FetchDailyPrices(ctx context.Context, inst *stockdomain.Instrument) ([]*stockdomain.FetchedBar, error) {
	query := url.Values{}
	query.Set("code", inst.LocalCode)
	query.Set("exchange", string(inst.Exchange))

	var payload []dailyBarPayload
	if err := c.get(ctx, "/api/price/daily", query, inst.Exchange, &payload); err != nil {
		return nil, err
	}

	bars := make([]*stockdomain.FetchedBar, len(payload))
	for i, p := range payload {
		bar := &stockdomain.FetchedBar{
			Date:  p.Date,
			Open:  p.Open,
			Close: p.Close,
			High:  p.High,
			Low:   p.Low,
		}
		if p.Volume.Valid {
			v := p.Volume.Decimal
			bar.Volume = &v
		}
		if p.Amount.Valid {
			a := p.Amount.Decimal
			bar.Amount = &a
		}
		bars[i] = bar
	}
	return bars, nil
}

type spotPayload struct {
	Price decimal.Decimal `json:"price"`
	Time  string          `json:"time"`
}

// FetchSpotPrice 拉取标的实时报价
func (c *Client) FetchSpotPrice(ctx context.Context, inst *stockdomain.Instrument) (*stockdomain.SpotPrice, error) {
	query := url.Values{}
	query.Set("code", inst.LocalCode)
	query.Set("exchange", string(inst.Exchange))

	var payload spotPayload
	if err := c.get(ctx, "/api/price/spot", query, inst.Exchange, &payload); err != nil {
		return nil, err
	}
	return &stockdomain.SpotPrice{
		Code:  inst.Code,
		Price: payload.Price,
		Time:  payload.Time,
	}, nil
}

// FetchHolidays 拉取交易所休市日历
func (c *Client) FetchHolidays(ctx context.Context, exchange exchdomain.Exchange) ([]time.Time, error) {
	query := url.Values{}
	query.Set("exchange", string(exchange))

	var payload []string
	if err := c.get(ctx, "/api/calendar/holidays", query, exchange, &payload); err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, len(payload))
	for _, s := range payload {
		t, err := time.ParseInLocation("20060102", s, exchange.Location())
		if err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", s, err)
		}
		dates = append(dates, t)
	}
	return dates, nil
}

type constituentPayload struct {
	StockCode string `json:"stock_code"`
	StockName string `json:"stock_name"`
}

// FetchConstituents 拉取指数最新成分股名单
func (c *Client) FetchConstituents(ctx context.Context, index *indexdomain.StockIndex) ([]*indexdomain.IndexConstituent, error) {
	query := url.Values{}
	query.Set("index", index.Code)

	var payload []constituentPayload
	if err := c.get(ctx, "/api/index/constituents", query, index.Exchange, &payload); err != nil {
		return nil, err
	}

	constituents := make([]*indexdomain.IndexConstituent, len(payload))
	for i, p := range payload {
		constituents[i] = &indexdomain.IndexConstituent{
			IndexCode: index.Code,
			StockCode: p.StockCode,
			StockName: p.StockName,
		}
	}
	return constituents, nil
}

type fundPayload struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
}

// FetchFundListings 拉取场内基金列表
func (c *Client) FetchFundListings(ctx context.Context) ([]*funddomain.Fund, error) {
	var payload []fundPayload
	if err := c.get(ctx, "/api/fund/listings", nil, "", &payload); err != nil {
		return nil, err
	}

	funds := make([]*funddomain.Fund, 0, len(payload))
	for _, p := range payload {
		exchange, err := exchdomain.Parse(p.Exchange)
		if err != nil {
			return nil, fmt.Errorf("fund %s: %w", p.Code, err)
		}
		funds = append(funds, &funddomain.Fund{
			Code:     p.Code,
			Name:     p.Name,
			Exchange: exchange,
		})
	}
	return funds, nil
}

type tokenPayload struct {
	Token string `json:"token"`
}

// FetchToken 向网关申领港股访问令牌
func (c *Client) FetchToken(ctx context.Context) (string, error) {
	var payload tokenPayload
	// 申领本身不依赖已有令牌
	if err := c.get(ctx, "/api/auth/hkex/token", nil, "", &payload); err != nil {
		return "", err
	}
	return payload.Token, nil
}

var (
	_ stockdomain.PriceFetcher       = (*Client)(nil)
	_ exchdomain.HolidayFetcher      = (*Client)(nil)
	_ indexdomain.ConstituentFetcher = (*Client)(nil)
	_ funddomain.ListingFetcher      = (*Client)(nil)
)
