// Package nutrition answers free-text nutrition queries from a local reference
// dataset, a remote lookup service and a shared TTL cache.
package nutrition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// MaxResults caps every result list
	MaxResults = 5
	// MinQueryLength is the shortest normalized query that is looked up
	MinQueryLength = 2
	// LocalSufficientThreshold local matches skip the remote call entirely
	LocalSufficientThreshold = 3

	// DefaultTimeout bounds a remote call when none is configured
	DefaultTimeout = 4 * time.Second

	// TracerName identifies spans emitted by the resolver
	TracerName = "happytummy/nutrition"
)

// Source tags where a result came from
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// Origin describes how a resolution was produced
type Origin string

const (
	OriginInvalidQuery Origin = "invalid_query"
	OriginCache        Origin = "cache"
	OriginLocal        Origin = "local"
	OriginLocalOnly    Origin = "local_only"
	OriginDegraded     Origin = "local_degraded"
	OriginMerged       Origin = "merged"
)

// Result is one nutrition estimate
type Result struct {
	Name               string   `json:"name"`
	Source             Source   `json:"source"`
	Calories           *float64 `json:"calories"`
	Fiber              *float64 `json:"fiber"`
	Sugar              *float64 `json:"sugar"`
	Protein            *float64 `json:"protein"`
	Water              *float64 `json:"water"`
	DefaultServingSize float64  `json:"defaultServingSize"`
	DefaultUnit        string   `json:"defaultUnit"`
	AvailableUnits     []string `json:"availableUnits"`
}

// Resolution is a successful lookup
type Resolution struct {
	Results []Result
	Origin  Origin
}

// LocalFood is a reference dataset item as the resolver sees it
type LocalFood struct {
	Name     string
	Category string
	Calories *float64
	Fiber    *float64
	Sugar    *float64
	Protein  *float64
	Water    *float64
	Quantity *float64
	Unit     *string
}

// LocalSource finds reference foods whose name contains query, case-insensitively
type LocalSource interface {
	SearchLocal(ctx context.Context, query string, limit int) ([]LocalFood, error)
}

// Resolver combines the cache, the local dataset and an optional remote source
type Resolver struct {
	local   LocalSource
	remote  RemoteSource
	cache   *Cache
	timeout time.Duration

	tracer          trace.Tracer
	cacheHits       metric.Int64Counter
	cacheMisses     metric.Int64Counter
	remoteCalls     metric.Int64Counter
	remoteFailures  metric.Int64Counter
	remoteLatencyMs metric.Float64Histogram
}

// NewResolver wires a resolver. remote may be nil when no credential is configured,
// in which case lookups stay local.
func NewResolver(local LocalSource, remote RemoteSource, cache *Cache, timeout time.Duration) *Resolver {
	return NewInstrumentedResolver(local, remote, cache, timeout, otel.Tracer(TracerName), otel.Meter(TracerName))
}

// NewInstrumentedResolver is NewResolver with explicit telemetry providers
func NewInstrumentedResolver(local LocalSource, remote RemoteSource, cache *Cache, timeout time.Duration, tracer trace.Tracer, meter metric.Meter) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	r := &Resolver{
		local:   local,
		remote:  remote,
		cache:   cache,
		timeout: timeout,
		tracer:  tracer,
	}
	var errs []error
	var err error
	r.cacheHits, err = meter.Int64Counter("nutrition_cache_hits_total",
		metric.WithDescription("Nutrition queries answered from cache"))
	errs = append(errs, err)
	r.cacheMisses, err = meter.Int64Counter("nutrition_cache_misses_total",
		metric.WithDescription("Nutrition queries that required a lookup"))
	errs = append(errs, err)
	r.remoteCalls, err = meter.Int64Counter("nutrition_remote_calls_total",
		metric.WithDescription("Calls made to the remote nutrition service"))
	errs = append(errs, err)
	r.remoteFailures, err = meter.Int64Counter("nutrition_remote_failures_total",
		metric.WithDescription("Failed remote nutrition calls by kind"))
	errs = append(errs, err)
	r.remoteLatencyMs, err = meter.Float64Histogram("nutrition_remote_duration_ms",
		metric.WithDescription("Remote nutrition call latency in milliseconds"),
		metric.WithUnit("ms"))
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		slog.Debug("Failed to create nutrition metric instruments", "error", err)
	}
	return r
}

// RemoteEnabled reports whether a remote source is configured
func (r *Resolver) RemoteEnabled() bool {
	return r.remote != nil
}

// Normalize trims and lowercases a query
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Resolve answers query. Failed lookups return a *Failure and are never cached;
// timeouts and request failures degrade to local results when there are any.
func (r *Resolver) Resolve(ctx context.Context, query string) (Resolution, error) {
	key := Normalize(query)
	if utf8.RuneCountInString(key) < MinQueryLength {
		return Resolution{Results: []Result{}, Origin: OriginInvalidQuery}, nil
	}

	ctx, span := r.tracer.Start(ctx, "Resolver.Resolve", trace.WithAttributes(attribute.String("nutrition.query", key)))
	defer span.End()

	var origin Origin
	results, hit, err := r.cache.GetOrCompute(ctx, key, func(ctx context.Context) ([]Result, error) {
		res, o, err := r.lookup(ctx, key)
		origin = o
		return res, err
	})
	if hit {
		origin = OriginCache
		r.cacheHits.Add(ctx, 1)
	} else {
		r.cacheMisses.Add(ctx, 1)
	}

	if err != nil {
		span.SetStatus(codes.Error, "nutrition lookup failed")
		span.RecordError(err)
		return Resolution{}, err
	}

	span.SetAttributes(attribute.String("nutrition.origin", string(origin)), attribute.Int("nutrition.results", len(results)))
	return Resolution{Results: results, Origin: origin}, nil
}

func (r *Resolver) lookup(ctx context.Context, key string) ([]Result, Origin, error) {
	foods, err := r.local.SearchLocal(ctx, key, MaxResults)
	if err != nil {
		return nil, "", &Failure{Kind: KindInternal, Err: fmt.Errorf("failed to search local foods: %w", err)}
	}

	local := make([]Result, 0, len(foods))
	for _, food := range foods {
		local = append(local, localResult(food))
		if len(local) == MaxResults {
			break
		}
	}

	if len(local) >= LocalSufficientThreshold {
		return local, OriginLocal, nil
	}
	if r.remote == nil {
		return local, OriginLocalOnly, nil
	}

	remote, err := r.callRemote(ctx, key)
	if err != nil {
		// A caller that went away is not a remote failure; nothing is cached for it
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, "", &Failure{Kind: KindCanceled, Err: ctx.Err()}
		}

		failure, ok := AsFailure(err)
		if !ok {
			failure = &Failure{Kind: KindRequest, Err: err}
		}
		r.remoteFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(failure.Kind))))

		if failure.Degradable() && len(local) > 0 {
			slog.Warn("Nutrition remote lookup failed, serving local results",
				"query", key, "kind", failure.Kind, "local_results", len(local), "error", failure)
			return local, OriginDegraded, nil
		}
		return nil, "", failure
	}

	merged := append(local, remote...)
	if len(merged) > MaxResults {
		merged = merged[:MaxResults]
	}
	return merged, OriginMerged, nil
}

func (r *Resolver) callRemote(ctx context.Context, key string) ([]Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ctx, span := r.tracer.Start(ctx, "Resolver.callRemote")
	defer span.End()

	start := time.Now()
	r.remoteCalls.Add(ctx, 1)
	results, err := r.remote.Search(ctx, key)
	r.remoteLatencyMs.Record(ctx, float64(time.Since(start).Microseconds())/1000)

	if err != nil {
		// A remote source that ignores its own deadline still reports a timeout
		if _, ok := AsFailure(err); !ok && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = &Failure{Kind: KindTimeout, Err: err}
		}
		span.SetStatus(codes.Error, "remote lookup failed")
		span.RecordError(err)
		return nil, err
	}

	for i := range results {
		results[i].Source = SourceRemote
	}
	return results, nil
}

func localResult(food LocalFood) Result {
	size := float64(fallbackServingSize)
	if food.Quantity != nil && *food.Quantity > 0 {
		size = *food.Quantity
	}
	unit := fallbackServingUnit
	if food.Unit != nil && strings.TrimSpace(*food.Unit) != "" {
		unit = strings.TrimSpace(*food.Unit)
	}

	return Result{
		Name:               food.Name,
		Source:             SourceLocal,
		Calories:           food.Calories,
		Fiber:              food.Fiber,
		Sugar:              food.Sugar,
		Protein:            food.Protein,
		Water:              food.Water,
		DefaultServingSize: size,
		DefaultUnit:        unit,
		AvailableUnits:     UnitsFor(food.Name),
	}
}
