// Package tax implements the Dutch bijtelling (benefit-in-kind) assessment:
// the statutory percentage schedule by registration year, the 60-month rate
// lock, and the youngtimer/oldtimer special regimes.
package tax

import "github.com/rotisserie/eris"

// RateSchedule is a two-band percentage schedule: LowRate up to Threshold
// euros of catalog price, HighRate above it. Threshold 0 means a flat rate
// of LowRate regardless of price.
type RateSchedule struct {
	LowRate   float64 `json:"low_rate"`
	HighRate  float64 `json:"high_rate,omitempty"`
	Threshold int     `json:"threshold,omitempty"`
}

// Flat reports whether the schedule has a single rate.
func (s RateSchedule) Flat() bool { return s.Threshold == 0 }

// yearRule is one row of the registration-year rate table. from/to are
// inclusive registration years; from 0 means open at the low end, to 0 open
// at the high end. hydrogen overrides the electric schedule when set.
type yearRule struct {
	from, to int
	fossil   float64
	electric RateSchedule
	hydrogen *RateSchedule
}

func flat(rate float64) RateSchedule { return RateSchedule{LowRate: rate} }

// rateTable encodes the bijtelling schedule as data rather than branches.
// The law fixes a vehicle's schedule to its registration year; the rows
// below cover every year since the 25%-flat era.
var rateTable = []yearRule{
	{from: 0, to: 2016, fossil: 0.25, electric: flat(0)},
	{from: 2017, to: 2018, fossil: 0.22, electric: flat(0.04)},
	{from: 2019, to: 2019, fossil: 0.22, electric: RateSchedule{LowRate: 0.04, HighRate: 0.22, Threshold: 50_000}},
	{from: 2020, to: 2020, fossil: 0.22, electric: RateSchedule{LowRate: 0.08, HighRate: 0.22, Threshold: 45_000}},
	{from: 2021, to: 2021, fossil: 0.22, electric: RateSchedule{LowRate: 0.12, HighRate: 0.22, Threshold: 40_000}},
	{from: 2022, to: 2022, fossil: 0.22, electric: RateSchedule{LowRate: 0.16, HighRate: 0.22, Threshold: 35_000}},
	{from: 2023, to: 2024, fossil: 0.22, electric: RateSchedule{LowRate: 0.16, HighRate: 0.22, Threshold: 30_000}},
	{from: 2025, to: 2025, fossil: 0.22, electric: RateSchedule{LowRate: 0.17, HighRate: 0.22, Threshold: 30_000}},
	{from: 2026, to: 0, fossil: 0.22, electric: flat(0.22), hydrogen: ptr(flat(0.17))},
}

func ptr(s RateSchedule) *RateSchedule { return &s }

func init() {
	if err := validateTable(rateTable); err != nil {
		panic(err)
	}
}

// validateTable checks the static table once at startup: rows must be
// contiguous, open-ended only at the edges, with sane rates and thresholds.
func validateTable(rows []yearRule) error {
	if len(rows) == 0 {
		return eris.New("tax: rate table is empty")
	}
	if rows[0].from != 0 {
		return eris.New("tax: first rate table row must be open at the low end")
	}
	if rows[len(rows)-1].to != 0 {
		return eris.New("tax: last rate table row must be open at the high end")
	}
	for i, r := range rows {
		if i > 0 && r.from != rows[i-1].to+1 {
			return eris.Errorf("tax: rate table gap before year %d", r.from)
		}
		if r.fossil <= 0 || r.fossil > 1 {
			return eris.Errorf("tax: fossil rate out of range in row starting %d", r.from)
		}
		if err := validateSchedule(r.electric, r.from); err != nil {
			return err
		}
		if r.hydrogen != nil {
			if err := validateSchedule(*r.hydrogen, r.from); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateSchedule(s RateSchedule, year int) error {
	if s.LowRate < 0 || s.LowRate > 1 {
		return eris.Errorf("tax: low rate out of range in row starting %d", year)
	}
	if !s.Flat() {
		if s.HighRate <= 0 || s.HighRate > 1 {
			return eris.Errorf("tax: high rate out of range in row starting %d", year)
		}
		if s.Threshold < 0 {
			return eris.Errorf("tax: negative threshold in row starting %d", year)
		}
	}
	return nil
}

// ruleForYear returns the table row covering the given registration year.
func ruleForYear(year int) yearRule {
	for _, r := range rateTable {
		if (r.from == 0 || year >= r.from) && (r.to == 0 || year <= r.to) {
			return r
		}
	}
	// Unreachable with a validated contiguous table.
	return rateTable[len(rateTable)-1]
}
