package rdw

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autokosten/autokosten-cli/internal/model"
)

// testRegistry serves canned dataset responses keyed by dataset id.
type testRegistry struct {
	responses map[string]string // dataset id -> JSON body
	status    map[string]int    // dataset id -> forced status code
	requests  atomic.Int64
}

func (tr *testRegistry) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/resource/", func(w http.ResponseWriter, r *http.Request) {
		tr.requests.Add(1)
		dataset := r.URL.Path[len("/resource/") : len(r.URL.Path)-len(".json")]
		if code, ok := tr.status[dataset]; ok {
			w.WriteHeader(code)
			return
		}
		body, ok := tr.responses[dataset]
		if !ok {
			body = "[]"
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body)) //nolint:errcheck
	})
	return mux
}

func newTestClient(t *testing.T, tr *testRegistry, opts ...Option) Client {
	t.Helper()
	srv := httptest.NewServer(tr.handler())
	t.Cleanup(srv.Close)
	return NewClient(append([]Option{WithBaseURL(srv.URL)}, opts...)...)
}

const golfBasic = `[{
	"kenteken": "AB12CD",
	"merk": "VOLKSWAGEN",
	"handelsbenaming": "GOLF",
	"datum_eerste_toelating": "20190615",
	"catalogusprijs": "32500",
	"bruto_bpm": "4100",
	"massa_ledig_voertuig": "1320",
	"toegestane_maximum_massa_voertuig": "1850",
	"aantal_zitplaatsen": "5",
	"brandstof_omschrijving": "Benzine"
}]`

const golfFuel = `[{
	"brandstof_omschrijving": "Benzine",
	"brandstofverbruik_gecombineerd": "6.1",
	"co2_uitstoot_gecombineerd": "119"
}]`

const golfNEDC = `[{
	"brandstofverbruik_gecombineerd": "5.4"
}]`

func TestLookup_MergesAllDatasets(t *testing.T) {
	tr := &testRegistry{responses: map[string]string{
		datasetBasic:   golfBasic,
		datasetFuel:    golfFuel,
		datasetNEDC:    golfNEDC,
		datasetRecalls: `[{"referentiecode_rdw": "R2024001"}]`,
	}}
	client := newTestClient(t, tr)

	v, err := client.Lookup(context.Background(), "ab-12-cd")
	require.NoError(t, err)

	assert.Equal(t, "AB12CD", v.PlateID)
	assert.Equal(t, "VOLKSWAGEN", v.Make)
	assert.Equal(t, "GOLF", v.Model)
	assert.Equal(t, time.Date(2019, 6, 15, 0, 0, 0, 0, time.UTC), v.FirstRegistration)
	require.NotNil(t, v.CatalogPrice)
	assert.Equal(t, 32500, *v.CatalogPrice)
	assert.Equal(t, 4100, v.BPM)
	assert.Equal(t, 1320, v.WeightKg)
	assert.Equal(t, 1850, v.MaxWeightKg)
	assert.Equal(t, 5, v.Seats)
	assert.Equal(t, model.FuelPetrol, v.FuelCategory)
	assert.True(t, v.HasRecalls)

	// NEDC beats WLTP.
	require.NotNil(t, v.CombinedConsumption)
	assert.InDelta(t, 5.4, *v.CombinedConsumption, 1e-9)
	assert.Equal(t, "nedc", v.ConsumptionSource)
	assert.Equal(t, 119, v.CO2Combined)

	// Weight-based road tax estimate: round(13.2*8) per month.
	assert.Equal(t, 106, v.MRBMonthly)

	// Everything present: full quality score.
	assert.Equal(t, 100, v.DataQuality)
}

func TestLookup_WLTPFallback(t *testing.T) {
	tr := &testRegistry{responses: map[string]string{
		datasetBasic: golfBasic,
		datasetFuel:  golfFuel,
	}}
	client := newTestClient(t, tr)

	v, err := client.Lookup(context.Background(), "AB12CD")
	require.NoError(t, err)
	require.NotNil(t, v.CombinedConsumption)
	assert.InDelta(t, 6.1, *v.CombinedConsumption, 1e-9)
	assert.Equal(t, "wltp", v.ConsumptionSource)
	assert.False(t, v.HasRecalls)
	assert.Equal(t, 6*100/7, v.DataQuality, "WLTP earns one point instead of two")
}

func TestLookup_InvalidPlate(t *testing.T) {
	tr := &testRegistry{}
	client := newTestClient(t, tr)

	_, err := client.Lookup(context.Background(), "not a plate")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInvalidPlate))
	assert.Zero(t, tr.requests.Load(), "invalid input never reaches the registry")
}

func TestLookup_NotFound(t *testing.T) {
	tr := &testRegistry{responses: map[string]string{}}
	client := newTestClient(t, tr)

	_, err := client.Lookup(context.Background(), "AB-12-CD")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestLookup_EnrichmentFailureDegrades(t *testing.T) {
	tr := &testRegistry{
		responses: map[string]string{datasetBasic: golfBasic},
		status: map[string]int{
			datasetFuel:    http.StatusInternalServerError,
			datasetNEDC:    http.StatusInternalServerError,
			datasetRecalls: http.StatusInternalServerError,
		},
	}
	client := newTestClient(t, tr)

	v, err := client.Lookup(context.Background(), "AB-12-CD")
	require.NoError(t, err, "enrichment failures degrade the record, not the lookup")
	assert.Equal(t, "VOLKSWAGEN", v.Make)
	assert.Nil(t, v.CombinedConsumption)
	assert.Equal(t, model.FuelPetrol, v.FuelCategory, "fuel text from the base dataset still applies")
}

func TestLookup_BasicFailureFatal(t *testing.T) {
	tr := &testRegistry{
		status: map[string]int{datasetBasic: http.StatusBadGateway},
	}
	client := newTestClient(t, tr)

	_, err := client.Lookup(context.Background(), "AB-12-CD")
	require.Error(t, err)

	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, datasetBasic, ue.Dataset)
	assert.Equal(t, http.StatusBadGateway, ue.StatusCode)
}

func TestLookup_ElectricModelOverride(t *testing.T) {
	tr := &testRegistry{responses: map[string]string{
		datasetBasic: `[{
			"kenteken": "1KBB23",
			"merk": "TESLA",
			"handelsbenaming": "MODEL 3",
			"datum_eerste_toelating": "20210315",
			"catalogusprijs": "48000",
			"massa_ledig_voertuig": "1745",
			"brandstof_omschrijving": ""
		}]`,
	}}
	client := newTestClient(t, tr)

	v, err := client.Lookup(context.Background(), "1-KBB-23")
	require.NoError(t, err)
	assert.Equal(t, model.FuelElectric, v.FuelCategory)
	// Electric discount folded into the estimate: round(round(17.45*8)*0.75).
	assert.Equal(t, 105, v.MRBMonthly)
}

func TestLookup_CachesByPlate(t *testing.T) {
	tr := &testRegistry{responses: map[string]string{datasetBasic: golfBasic}}
	client := newTestClient(t, tr)

	_, err := client.Lookup(context.Background(), "AB-12-CD")
	require.NoError(t, err)
	first := tr.requests.Load()

	_, err = client.Lookup(context.Background(), "ab12cd")
	require.NoError(t, err)
	assert.Equal(t, first, tr.requests.Load(), "second lookup of the same plate is served from cache")

	client.ClearCache()
	_, err = client.Lookup(context.Background(), "AB-12-CD")
	require.NoError(t, err)
	assert.Greater(t, tr.requests.Load(), first)
}

func TestLookup_CacheExpires(t *testing.T) {
	current := time.Now()
	tr := &testRegistry{responses: map[string]string{datasetBasic: golfBasic}}
	client := newTestClient(t, tr,
		WithCacheTTL(5*time.Minute),
		WithClock(func() time.Time { return current }),
	)

	_, err := client.Lookup(context.Background(), "AB-12-CD")
	require.NoError(t, err)
	first := tr.requests.Load()

	current = current.Add(6 * time.Minute)
	_, err = client.Lookup(context.Background(), "AB-12-CD")
	require.NoError(t, err)
	assert.Greater(t, tr.requests.Load(), first, "expired entry triggers a refetch")
}
