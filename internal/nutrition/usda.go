package nutrition

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// USDA FoodData Central nutrient identifiers
const (
	NutrientEnergy  = 1008
	NutrientProtein = 1003
	NutrientSugar   = 2000
	NutrientFiber   = 1079
	NutrientWater   = 1051
)

// DefaultUSDABaseURL is the public FoodData Central API root
const DefaultUSDABaseURL = "https://api.nal.usda.gov/fdc/v1"

const maxErrorBody = 64 << 10

// HTTPClient is the subset of *http.Client the remote client needs
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RemoteSource searches a remote nutrition service
type RemoteSource interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// USDAClient queries the FoodData Central search endpoint
type USDAClient struct {
	baseURL    string
	apiKey     string
	httpClient HTTPClient
	pageSize   int
}

// NewUSDAClient creates a FoodData Central client. A nil httpClient uses http.DefaultClient.
func NewUSDAClient(baseURL, apiKey string, httpClient HTTPClient) *USDAClient {
	if baseURL == "" {
		baseURL = DefaultUSDABaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &USDAClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
		pageSize:   MaxResults,
	}
}

type usdaSearchResponse struct {
	Foods []usdaFood `json:"foods"`
}

type usdaFood struct {
	FDCID           int64          `json:"fdcId"`
	Description     string         `json:"description"`
	ServingSize     *float64       `json:"servingSize"`
	ServingSizeUnit string         `json:"servingSizeUnit"`
	FoodNutrients   []usdaNutrient `json:"foodNutrients"`
}

type usdaNutrient struct {
	NutrientID int      `json:"nutrientId"`
	Value      *float64 `json:"value"`
}

// FoodMatch is one remote food with its identifier, as used by dataset sync
type FoodMatch struct {
	FDCID  int64
	Result Result
}

// Search returns up to five remote results for query. Errors are *Failure values.
func (c *USDAClient) Search(ctx context.Context, query string) ([]Result, error) {
	matches, err := c.SearchFoods(ctx, query)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		results = append(results, m.Result)
	}
	return results, nil
}

// SearchFoods is Search with FoodData Central ids attached
func (c *USDAClient) SearchFoods(ctx context.Context, query string) ([]FoodMatch, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("api_key", c.apiKey)
	params.Set("dataType", "Foundation,SR Legacy")
	params.Set("pageSize", fmt.Sprintf("%d", c.pageSize))
	params.Set("requireAllWords", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/foods/search?"+params.Encode(), nil)
	if err != nil {
		return nil, &Failure{Kind: KindRequest, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	slog.Debug("USDA: searching foods", "query", query)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &Failure{Kind: KindUpstream, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload usdaSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		// A deadline hit mid-body surfaces here rather than from Do
		if ctx.Err() != nil {
			return nil, classifyTransportError(ctx.Err())
		}
		return nil, &Failure{Kind: KindRequest, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	matches := make([]FoodMatch, 0, len(payload.Foods))
	for _, food := range payload.Foods {
		matches = append(matches, FoodMatch{FDCID: food.FDCID, Result: food.toResult()})
	}
	return matches, nil
}

func (f usdaFood) toResult() Result {
	size, unit := DefaultServing(f.Description, f.ServingSize, f.ServingSizeUnit)
	return Result{
		Name:               f.Description,
		Source:             SourceRemote,
		Calories:           f.nutrient(NutrientEnergy),
		Fiber:              f.nutrient(NutrientFiber),
		Sugar:              f.nutrient(NutrientSugar),
		Protein:            f.nutrient(NutrientProtein),
		Water:              f.nutrient(NutrientWater),
		DefaultServingSize: size,
		DefaultUnit:        unit,
		AvailableUnits:     UnitsFor(f.Description),
	}
}

// nutrient returns nil when the id is missing, never zero
func (f usdaFood) nutrient(id int) *float64 {
	for _, n := range f.FoodNutrients {
		if n.NutrientID == id && n.Value != nil {
			v := *n.Value
			return &v
		}
	}
	return nil
}
