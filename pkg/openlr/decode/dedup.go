package decode

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/NERVsystems/openlr-dereferencer/pkg/geo"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/config"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/model"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/observer"
)

// Deduped wraps Decode with golang.org/x/sync/singleflight, the same way
// pkg/tools/geocode.go collapses concurrent identical geocoding lookups
// into one underlying request. It is useful when many callers decode the
// same reference against the same map concurrently -- e.g. a fleet of
// workers re-resolving the same location -- without requiring the core
// decoder itself to become concurrent or stateful (spec.md §5 leaves
// parallelism entirely to the caller).
//
// Deduped does not own reader or tool; they must be safe for concurrent
// use by independent Decode calls, which MapReader's read-only contract
// already requires.
type Deduped struct {
	Reader model.MapReader
	Tool   geo.Tool
	Logger *slog.Logger

	group singleflight.Group
}

// Decode collapses concurrent calls sharing the same (ref, cfg) key into a
// single underlying Decode call, fanning the result out to every waiter.
// obs, if non-nil, is invoked only by the call that actually executes --
// waiters that merely share the result never see its events.
func (d *Deduped) Decode(ctx context.Context, ref model.LineLocationReference, cfg config.Config, obs observer.Observer) (model.LineLocation, error) {
	key, err := dedupKey(ref, cfg)
	if err != nil {
		return model.LineLocation{}, wrapError(CodeInvalidReference, "computing dedup key", err)
	}

	v, err, _ := d.group.Do(key, func() (any, error) {
		return DecodeWithLogger(ctx, ref, d.Reader, cfg, obs, d.Tool, d.Logger)
	})
	if err != nil {
		return model.LineLocation{}, err
	}
	return v.(model.LineLocation), nil
}

func dedupKey(ref model.LineLocationReference, cfg config.Config) (string, error) {
	type keyPayload struct {
		Ref model.LineLocationReference
		Cfg config.Config
	}
	b, err := json.Marshal(keyPayload{Ref: ref, Cfg: cfg})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
