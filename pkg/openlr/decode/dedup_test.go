package decode_test

import (
	"context"
	"sync"
	"testing"

	"github.com/NERVsystems/openlr-dereferencer/pkg/geo"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/config"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/decode"
)

func TestDedupedDecodeConcurrentCallersShareResult(t *testing.T) {
	m, _, _, _ := buildStraightSegment(t)
	ref := straightReference(350)
	cfg := config.Default()

	d := &decode.Deduped{Reader: m, Tool: geo.WGS84{}}

	const n = 8
	var wg sync.WaitGroup
	results := make([]int, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			loc, err := d.Decode(context.Background(), ref, cfg, nil)
			errs[i] = err
			if err == nil {
				results[i] = len(loc.Lines)
			}
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d: Decode failed: %v", i, err)
		}
		if results[i] != 2 {
			t.Errorf("caller %d: expected 2 lines, got %d", i, results[i])
		}
	}
}

func TestDedupedDecodeDistinctKeysDoNotCollide(t *testing.T) {
	m, _, _, _ := buildStraightSegment(t)
	cfg := config.Default()
	d := &decode.Deduped{Reader: m, Tool: geo.WGS84{}}

	_, err := d.Decode(context.Background(), straightReference(350), cfg, nil)
	if err != nil {
		t.Fatalf("first Decode failed: %v", err)
	}
	_, err = d.Decode(context.Background(), straightReference(5), cfg, nil)
	if err == nil {
		t.Fatal("expected the unreachable-DNP reference to fail independently of the cached success")
	}
}
