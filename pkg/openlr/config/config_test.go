package config

import (
	"bytes"
	"testing"

	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/model"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() should validate, got: %v", err)
	}
}

func TestFOWScoreDiagonalFamilyElse(t *testing.T) {
	cfg := Default()

	tests := []struct {
		name       string
		lrp, cand  model.FOW
		wantScore  float64
	}{
		{"identical", model.FOWMotorway, model.FOWMotorway, 1.0},
		{"same family", model.FOWMotorway, model.FOWSlipRoad, 0.5},
		{"different family", model.FOWMotorway, model.FOWSingleCarriageway, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.FOWScore(tt.lrp, tt.cand); got != tt.wantScore {
				t.Errorf("FOWScore(%v, %v) = %v, want %v", tt.lrp, tt.cand, got, tt.wantScore)
			}
		})
	}
}

func TestConfigYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.SearchRadius = 150

	var buf bytes.Buffer
	if err := Save(&buf, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.SearchRadius != cfg.SearchRadius {
		t.Errorf("SearchRadius round-tripped to %v, want %v", got.SearchRadius, cfg.SearchRadius)
	}
	if got.FOWScore(model.FOWMotorway, model.FOWSlipRoad) != 0.5 {
		t.Errorf("fow_score_table did not round-trip correctly")
	}
}

func TestValidateRejectsBadWeights(t *testing.T) {
	cfg := Default()
	cfg.WGeo, cfg.WFRC, cfg.WFOW, cfg.WBear = 0, 0, 0, 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero-sum weights")
	}
}
