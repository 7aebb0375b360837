package fred

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"FedPulse/internal/domain/models"
	drepo "FedPulse/internal/domain/repository"
	xhttp "FedPulse/pkg/http"
	"FedPulse/pkg/util"
)

const defaultBaseURL = "https://api.stlouisfed.org/fred"

// Client implements a SeriesSource backed by the FRED observations API.
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
}

// New creates a new FRED SeriesSource.
func New(apiKey, baseURL string, timeout time.Duration) drepo.SeriesSource {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type fredObservation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type fredResponse struct {
	Observations []fredObservation `json:"observations"`
}

// Fetch returns observations for one series, oldest first. FRED reports
// missing values as the "." sentinel; those rows are dropped at ingestion so
// downstream code only ever sees real numbers.
func (c *Client) Fetch(ctx context.Context, seriesID, start, end string) ([]models.Observation, error) {
	if seriesID == "" {
		return nil, fmt.Errorf("fred: series id required")
	}

	params := map[string][]string{
		"series_id":  {seriesID},
		"api_key":    {c.apiKey},
		"file_type":  {"json"},
		"sort_order": {"asc"},
	}
	if start != "" {
		if _, ok := util.ParseDate(start); !ok {
			return nil, fmt.Errorf("fred: invalid start date %q", start)
		}
		params["observation_start"] = []string{start}
	}
	if end != "" {
		if _, ok := util.ParseDate(end); !ok {
			return nil, fmt.Errorf("fred: invalid end date %q", end)
		}
		params["observation_end"] = []string{end}
	}

	var resp fredResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + "/series/observations",
		QueryParams: params,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fred fetch %s: %w", seriesID, err)
	}

	out := make([]models.Observation, 0, len(resp.Observations))
	for _, o := range resp.Observations {
		if o.Value == "." || o.Value == "" {
			continue
		}
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			continue
		}
		if _, ok := util.ParseDate(o.Date); !ok {
			continue
		}
		out = append(out, models.Observation{Date: o.Date, Value: v})
	}
	return out, nil
}
