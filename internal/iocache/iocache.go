// Package iocache persists rendered charts and viewing session history.
package iocache

import (
	"sync"

	"github.com/huangsam/metricsgraph/internal/contract"
)

// CacheStoreManager manages the chart cache and the session store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	charts       contract.CacheStore
	sessions     contract.SessionStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetChartStore returns the chart CacheStore.
func (mgr *CacheStoreManager) GetChartStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.charts
}

// GetSessionStore returns the SessionStore.
func (mgr *CacheStoreManager) GetSessionStore() contract.SessionStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.sessions
}
