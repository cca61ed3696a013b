package rdw

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/rotisserie/eris"
)

// RDW Socrata dataset identifiers.
const (
	datasetBasic   = "m9d7-ebf2" // registered vehicles: make, model, DET, weight, catalog price
	datasetFuel    = "8ys7-d773" // fuel and emissions (WLTP figures)
	datasetNEDC    = "dqbz-ecw7" // NEDC consumption figures, not present for all vehicles
	datasetRecalls = "t3br-gjjw" // open recalls
)

// basicRecord is the registration dataset row. The API returns every field
// as a string.
type basicRecord struct {
	Kenteken              string `json:"kenteken"`
	Merk                  string `json:"merk"`
	Handelsbenaming       string `json:"handelsbenaming"`
	DatumEersteToelating  string `json:"datum_eerste_toelating"`
	Catalogusprijs        string `json:"catalogusprijs"`
	BPM                   string `json:"bruto_bpm"`
	MassaLedigVoertuig    string `json:"massa_ledig_voertuig"`
	MaximumMassa          string `json:"toegestane_maximum_massa_voertuig"`
	AantalZitplaatsen     string `json:"aantal_zitplaatsen"`
	BrandstofOmschrijving string `json:"brandstof_omschrijving"`
}

// fuelRecord covers both the WLTP fuel dataset and the NEDC dataset, which
// share field names.
type fuelRecord struct {
	BrandstofOmschrijving string `json:"brandstof_omschrijving"`
	VerbruikGecombineerd  string `json:"brandstofverbruik_gecombineerd"`
	CO2Gecombineerd       string `json:"co2_uitstoot_gecombineerd"`
}

// recallRecord is one open recall reference.
type recallRecord struct {
	Referentiecode string `json:"referentiecode_rdw"`
}

// fetchRecords queries one dataset for a plate. Every call waits on the
// shared rate limiter first.
func fetchRecords[T any](ctx context.Context, c *client, dataset, plate string) ([]T, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "rdw: rate limit")
	}

	reqURL := c.baseURL + "/resource/" + dataset + ".json?kenteken=" + url.QueryEscape(plate)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "rdw: build request for dataset %s", dataset)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Dataset: dataset, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Dataset: dataset, StatusCode: resp.StatusCode, Err: eris.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Dataset: dataset, Err: err}
	}

	var records []T
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, eris.Wrapf(err, "rdw: parse dataset %s response", dataset)
	}
	return records, nil
}
