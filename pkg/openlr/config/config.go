// Package config holds the tunable parameters that govern candidate
// nomination, scoring, and routing, and their self-describing YAML
// serialization.
package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/model"
)

// Config is the full set of decoder tuning parameters.
type Config struct {
	// SearchRadius is the radius, in metres, searched around each LRP
	// during candidate nomination.
	SearchRadius float64 `yaml:"search_radius"`
	// MaxBearDeviation is the maximum allowed bearing difference, in
	// degrees, before a candidate is rejected outright.
	MaxBearDeviation float64 `yaml:"max_bear_deviation"`
	// BearDist is the distance, in metres, along the road over which a
	// candidate's bearing is measured.
	BearDist float64 `yaml:"bear_dist"`
	// MinScore is the minimum total candidate score to be considered.
	MinScore float64 `yaml:"min_score"`

	WGeo  float64 `yaml:"w_geo"`
	WFRC  float64 `yaml:"w_frc"`
	WFOW  float64 `yaml:"w_fow"`
	WBear float64 `yaml:"w_bear"`

	// FOWScoreTable maps an LRP's form-of-way name to a candidate's
	// form-of-way name to a score in [0,1]. Keyed by name (rather than
	// model.FOW directly) so the YAML form is a nested mapping of readable
	// FOW names.
	FOWScoreTable map[string]map[string]float64 `yaml:"fow_score_table"`

	// DNPRelTol and DNPAbsTol bound the router's accepted route length
	// around the encoded DNP: d_min = max(0, DNP*(1-rel) - abs), d_max =
	// DNP*(1+rel) + abs.
	DNPRelTol float64 `yaml:"dnp_rel_tol"`
	DNPAbsTol float64 `yaml:"dnp_abs_tol"`

	// MaxRouteNodes upper-bounds the number of nodes the A* router may
	// expand in a single call, as a safety valve against pathological
	// graphs.
	MaxRouteNodes int `yaml:"max_route_nodes"`
}

// Default returns the configuration spec.md §6.3 specifies as defaults.
func Default() Config {
	return Config{
		SearchRadius:     100,
		MaxBearDeviation: 45,
		BearDist:         20,
		MinScore:         0.3,
		WGeo:             0.25,
		WFRC:             0.25,
		WFOW:             0.25,
		WBear:            0.25,
		FOWScoreTable:    defaultFOWScoreTable(),
		DNPRelTol:        0.25,
		DNPAbsTol:        20,
		MaxRouteNodes:    1000,
	}
}

func defaultFOWScoreTable() map[string]map[string]float64 {
	names := []model.FOW{
		model.FOWUndefined, model.FOWMotorway, model.FOWMultipleCarriageway,
		model.FOWSingleCarriageway, model.FOWRoundabout, model.FOWTrafficSquare,
		model.FOWSlipRoad, model.FOWOther,
	}
	table := make(map[string]map[string]float64, len(names))
	for _, a := range names {
		row := make(map[string]float64, len(names))
		for _, b := range names {
			switch {
			case a == b:
				row[b.String()] = 1.0
			case model.SameFamily(a, b):
				row[b.String()] = 0.5
			default:
				row[b.String()] = 0.25
			}
		}
		table[a.String()] = row
	}
	return table
}

// FOWScore looks up the configured score for the pair (lrpFOW, candFOW),
// falling back to the spec's default diagonal/family/else rule if the table
// doesn't carry an explicit entry for the pair.
func (c Config) FOWScore(lrpFOW, candFOW model.FOW) float64 {
	if row, ok := c.FOWScoreTable[lrpFOW.String()]; ok {
		if score, ok := row[candFOW.String()]; ok {
			return score
		}
	}
	switch {
	case lrpFOW == candFOW:
		return 1.0
	case model.SameFamily(lrpFOW, candFOW):
		return 0.5
	default:
		return 0.25
	}
}

// Validate reports whether the weights are well formed. It does not require
// the weights to sum exactly to 1.0 (floating point round-trips through
// YAML make exact equality brittle); callers that need a normalized
// weighted sum should divide by WGeo+WFRC+WFOW+WBear rather than assume it.
func (c Config) Validate() error {
	if c.SearchRadius <= 0 {
		return fmt.Errorf("config: search_radius must be positive, got %v", c.SearchRadius)
	}
	if c.BearDist <= 0 {
		return fmt.Errorf("config: bear_dist must be positive, got %v", c.BearDist)
	}
	if c.MaxRouteNodes <= 0 {
		return fmt.Errorf("config: max_route_nodes must be positive, got %v", c.MaxRouteNodes)
	}
	sum := c.WGeo + c.WFRC + c.WFOW + c.WBear
	if sum <= 0 {
		return fmt.Errorf("config: sub-score weights must sum to a positive value, got %v", sum)
	}
	return nil
}

// Load decodes a Config from its self-describing YAML form.
func Load(r io.Reader) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}

// Save encodes cfg to its self-describing YAML form.
func Save(w io.Writer, cfg Config) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return nil
}
