package remote

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// PriceClient queries the price comparison API, which authenticates with an api_key
// query parameter instead of the session token.
type PriceClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewPriceClient(baseURL, apiKey string, timeout time.Duration) *PriceClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &PriceClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Offers returns every store quote for barcode.
func (c *PriceClient) Offers(ctx context.Context, barcode string) ([]OfferDTO, error) {
	q := url.Values{}
	q.Set("barcode", barcode)
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	var out struct {
		Offers []OfferDTO `json:"offers"`
	}
	if err := doJSON(ctx, c.http, http.MethodGet, c.baseURL+"/offers?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Offers, nil
}
