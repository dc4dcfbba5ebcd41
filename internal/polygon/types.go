package polygon

import (
	"encoding/json"
	"fmt"
	"strconv"

	"premarket-scan/internal/model"
)

// BarRaw is raw bar for JSON with FlexibleInt64 for Volume and Transactions
type BarRaw struct {
	Timestamp    int64         `json:"t"` // Unix timestamp in milliseconds
	Open         float64       `json:"o"`
	High         float64       `json:"h"`
	Low          float64       `json:"l"`
	Close        float64       `json:"c"`
	Volume       FlexibleInt64 `json:"v"`
	VWAP         float64       `json:"vw,omitempty"`
	Transactions FlexibleInt64 `json:"n,omitempty"`
}

// ToBar converts BarRaw to model.Bar
func (br BarRaw) ToBar() model.Bar {
	return model.Bar{
		Timestamp:    br.Timestamp,
		Open:         br.Open,
		High:         br.High,
		Low:          br.Low,
		Close:        br.Close,
		Volume:       br.Volume.Int64(),
		VWAP:         br.VWAP,
		Transactions: br.Transactions.Int64(),
	}
}

// AggregatesResponse is the body of every /v2/aggs endpoint.
type AggregatesResponse struct {
	Ticker       string   `json:"ticker"`
	ResultsCount int      `json:"resultsCount"`
	Results      []BarRaw `json:"results"`
	Status       string   `json:"status"`
	NextURL      string   `json:"next_url,omitempty"`
}

// Bars converts the results to model bars.
func (r AggregatesResponse) Bars() []model.Bar {
	bars := make([]model.Bar, 0, len(r.Results))
	for _, br := range r.Results {
		bars = append(bars, br.ToBar())
	}
	return bars
}

// groupedBarRaw is a grouped-daily result; T carries the ticker.
type groupedBarRaw struct {
	Ticker string `json:"T"`
	BarRaw
}

type groupedResponse struct {
	ResultsCount int             `json:"resultsCount"`
	Results      []groupedBarRaw `json:"results"`
	Status       string          `json:"status"`
}

type lastTradeResponse struct {
	Status  string `json:"status"`
	Results *struct {
		Price *float64 `json:"p"`
		Size  float64  `json:"s"`
	} `json:"results"`
}

type lastQuoteResponse struct {
	Status  string `json:"status"`
	Results *struct {
		BidPrice *float64 `json:"bp"`
		AskPrice *float64 `json:"ap"`
		BidSize  *float64 `json:"bs"`
		AskSize  *float64 `json:"as"`
	} `json:"results"`
}

type newsArticle struct {
	Title        string `json:"title"`
	PublishedUTC string `json:"published_utc"`
}

type newsResponse struct {
	Status  string        `json:"status"`
	Results []newsArticle `json:"results"`
}

type snapshotBar struct {
	Open   float64 `json:"o"`
	High   float64 `json:"h"`
	Low    float64 `json:"l"`
	Close  float64 `json:"c"`
	Volume float64 `json:"v"`
}

// snapshotTicker is one entry of the stocks snapshot endpoints.
type snapshotTicker struct {
	Ticker           string      `json:"ticker"`
	TodaysChangePerc float64     `json:"todaysChangePerc"`
	Day              snapshotBar `json:"day"`
	PrevDay          snapshotBar `json:"prevDay"`
	LastTrade        struct {
		Price float64 `json:"p"`
	} `json:"lastTrade"`
}

// price is the last trade, or the day close when no trade is reported.
func (s snapshotTicker) price() float64 {
	if s.LastTrade.Price > 0 {
		return s.LastTrade.Price
	}
	return s.Day.Close
}

type gainersResponse struct {
	Status  string           `json:"status"`
	Tickers []snapshotTicker `json:"tickers"`
}

type tickerSnapshotResponse struct {
	Status string          `json:"status"`
	Ticker *snapshotTicker `json:"ticker"`
}

type tickerDetailsResponse struct {
	Status  string `json:"status"`
	Results struct {
		Ticker    string  `json:"ticker"`
		Name      string  `json:"name"`
		MarketCap float64 `json:"market_cap"`
	} `json:"results"`
}

// FlexibleInt64 parses int or float (scientific notation) to int64
type FlexibleInt64 int64

// UnmarshalJSON parses a number or a numeric string.
func (f *FlexibleInt64) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		val, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return err
		}
		*f = FlexibleInt64(int64(val))
		return nil
	}

	var floatVal float64
	if err := json.Unmarshal(data, &floatVal); err == nil {
		*f = FlexibleInt64(int64(floatVal))
		return nil
	}

	return fmt.Errorf("cannot parse as int64: %s", string(data))
}

// Int64 returns int64 value
func (f FlexibleInt64) Int64() int64 {
	return int64(f)
}
