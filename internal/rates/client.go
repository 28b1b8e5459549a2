// internal/rates/client.go
package rates

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"payflow-wallet/internal/util"
)

// Quote is the result of a currency conversion.
type Quote struct {
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	Rate            decimal.Decimal `json:"rate"`
}

// Converter converts an amount between currencies. Implemented by Client;
// services depend on the interface so tests can substitute fixed rates.
type Converter interface {
	Convert(ctx context.Context, from, to string, amount decimal.Decimal) (Quote, error)
}

// Client fetches conversion rates from an external provider. It is a pure
// query gateway: no side effects, no caching.
type Client struct {
	http *resty.Client
	url  string
}

// NewClient creates a rate client against the given provider endpoint.
func NewClient(providerURL string) *Client {
	return &Client{
		http: resty.New().SetTimeout(10 * time.Second),
		url:  providerURL,
	}
}

// providerResponse is the provider's conversion payload.
type providerResponse struct {
	Success bool `json:"success"`
	Info    struct {
		Rate decimal.Decimal `json:"rate"`
	} `json:"info"`
	Result decimal.Decimal `json:"result"`
}

// Convert returns the converted amount and the effective rate. Matching
// currencies short-circuit to an identity quote without any network call.
func (c *Client) Convert(ctx context.Context, from, to string, amount decimal.Decimal) (Quote, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return Quote{}, util.ErrInvalidInput
	}
	if from == to {
		return Quote{ConvertedAmount: amount, Rate: decimal.NewFromInt(1)}, nil
	}

	var out providerResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"from":   from,
			"to":     to,
			"amount": amount.String(),
		}).
		SetResult(&out).
		Get(c.url)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", util.ErrRateProvider, err)
	}
	if resp.IsError() {
		return Quote{}, fmt.Errorf("%w: provider returned %s", util.ErrRateProvider, resp.Status())
	}
	if out.Result.LessThanOrEqual(decimal.Zero) {
		return Quote{}, fmt.Errorf("%w: provider returned non-positive amount", util.ErrRateProvider)
	}

	rate := out.Info.Rate
	if rate.IsZero() {
		rate = out.Result.Div(amount)
	}

	return Quote{ConvertedAmount: out.Result, Rate: rate}, nil
}
