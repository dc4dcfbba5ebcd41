package polygon

// Endpoint names one fetch call site. It labels metrics, logs and errors.
type Endpoint string

const (
	EndpointMinuteAggs     Endpoint = "minute_aggs"
	EndpointLastTrade      Endpoint = "last_trade"
	EndpointLastQuote      Endpoint = "last_quote"
	EndpointNews           Endpoint = "news"
	EndpointDailyAggs      Endpoint = "daily_aggs"
	EndpointMarketAggs     Endpoint = "market_aggs"
	EndpointGainers        Endpoint = "gainers"
	EndpointTickerSnapshot Endpoint = "ticker_snapshot"
	EndpointGroupedDaily   Endpoint = "grouped_daily"
	EndpointTickerDetails  Endpoint = "ticker_details"
)

// AllEndpoints lists every call site.
var AllEndpoints = []Endpoint{
	EndpointMinuteAggs,
	EndpointLastTrade,
	EndpointLastQuote,
	EndpointNews,
	EndpointDailyAggs,
	EndpointMarketAggs,
	EndpointGainers,
	EndpointTickerSnapshot,
	EndpointGroupedDaily,
	EndpointTickerDetails,
}

// Policy decides what a failed fetch turns into.
type Policy int

const (
	// Strict surfaces the *FetchError to the caller.
	Strict Policy = iota
	// Tolerant logs the failure and returns the empty record.
	Tolerant
)

func (p Policy) String() string {
	if p == Tolerant {
		return "tolerant"
	}
	return "strict"
}

// Policies maps each endpoint to its failure policy. Endpoints missing
// from the map are strict.
type Policies map[Endpoint]Policy

// For returns the policy of ep.
func (p Policies) For(ep Endpoint) Policy {
	if pol, ok := p[ep]; ok {
		return pol
	}
	return Strict
}

func uniform(pol Policy) Policies {
	out := make(Policies, len(AllEndpoints))
	for _, ep := range AllEndpoints {
		out[ep] = pol
	}
	return out
}

// WatchlistPolicies treats every failure as missing data.
func WatchlistPolicies() Policies { return uniform(Tolerant) }

// GainerPolicies surfaces every failure.
func GainerPolicies() Policies { return uniform(Strict) }
