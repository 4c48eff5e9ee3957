package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/huangsam/metricsgraph/schema"
)

// currentCacheVersion defines the version of the cached chart layout
const currentCacheVersion = 1

// cacheTTL bounds how long a cached chart is trusted
const cacheTTL = 7 * 24 * time.Hour

// CachedBuildChart returns the chart for id, reading and filling the chart cache when available.
func CachedBuildChart(mgr contract.CacheManager, reg contract.MetricRegistry, id string, g schema.Geometry) (schema.Chart, error) {
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetChartStore()
	}
	if store == nil {
		// Fallback to direct computation
		return ChartFor(reg, id, g)
	}

	key := chartCacheKey(reg.Fingerprint(), id, g)

	if chart, ok := checkCacheHit(store, key); ok {
		return chart, nil
	}

	// Cache miss: compute and store
	return computeAndStore(store, reg, id, g, key)
}

// checkCacheHit attempts to retrieve and validate a cached chart
func checkCacheHit(store contract.CacheStore, key string) (schema.Chart, bool) {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return schema.Chart{}, false
	}
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > cacheTTL {
		return schema.Chart{}, false
	}

	var chart schema.Chart
	if err := json.Unmarshal(data, &chart); err != nil {
		return schema.Chart{}, false
	}
	return chart, true
}

// computeAndStore builds the chart and stores it in cache
func computeAndStore(store contract.CacheStore, reg contract.MetricRegistry, id string, g schema.Geometry, key string) (schema.Chart, error) {
	chart, err := ChartFor(reg, id, g)
	if err != nil {
		return schema.Chart{}, err
	}

	data, err := json.Marshal(chart)
	if err != nil {
		contract.LogWarn("Cannot encode chart for cache", err)
		return chart, nil
	}
	if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("Cannot write chart to cache", err)
	}
	return chart, nil
}

// chartCacheKey identifies a chart by registry contents, metric and geometry
func chartCacheKey(fingerprint, id string, g schema.Geometry) string {
	key := fmt.Sprintf("%s:%s:%s:%s:%s",
		fingerprint,
		id,
		schema.FormatCoord(g.Width),
		schema.FormatCoord(g.Height),
		schema.FormatCoord(g.Padding),
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
