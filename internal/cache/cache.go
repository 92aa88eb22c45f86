// Package cache holds the gateway's read-side snapshots of auction state.
// The store is the only writer of truth; snapshots follow last-fetch-wins
// semantics and an invalidation guarantees the next read refetches. A fetch
// that was already in flight when an invalidation happened can never
// overwrite the fresher data: each snapshot carries a generation and stale
// completions are dropped.
package cache

import (
	"sync"

	"github.com/deusex/market-services/auctiongateway/internal/model"
)

type detailEntry struct {
	auction model.Auction
	set     bool
	gen     uint64
}

type AuctionCache struct {
	mu      sync.Mutex
	details map[string]*detailEntry
	list    []model.Auction
	listSet bool
	listGen uint64
}

func NewAuctionCache() *AuctionCache {
	return &AuctionCache{details: make(map[string]*detailEntry)}
}

// BeginDetail records the start of a detail fetch and returns the generation
// the result must be committed against.
func (c *AuctionCache) BeginDetail(auctionID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry(auctionID).gen
}

// CompleteDetail commits a fetched snapshot. Results from before the latest
// invalidation are discarded; the return value is false when that happens.
func (c *AuctionCache) CompleteDetail(auctionID string, gen uint64, auction model.Auction) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(auctionID)
	if e.gen != gen {
		return false
	}
	e.auction = auction
	e.set = true
	return true
}

func (c *AuctionCache) GetDetail(auctionID string) (model.Auction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.details[auctionID]
	if !ok || !e.set {
		return model.Auction{}, false
	}
	return e.auction, true
}

// InvalidateDetail drops the snapshot and bumps the generation so in-flight
// fetches started earlier cannot resurrect it.
func (c *AuctionCache) InvalidateDetail(auctionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(auctionID)
	e.set = false
	e.gen++
}

func (c *AuctionCache) BeginList() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listGen
}

func (c *AuctionCache) CompleteList(gen uint64, auctions []model.Auction) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.listGen != gen {
		return false
	}
	c.list = auctions
	c.listSet = true
	return true
}

func (c *AuctionCache) GetList() ([]model.Auction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.listSet {
		return nil, false
	}
	return c.list, true
}

func (c *AuctionCache) InvalidateList() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.list = nil
	c.listSet = false
	c.listGen++
}

func (c *AuctionCache) entry(auctionID string) *detailEntry {
	e, ok := c.details[auctionID]
	if !ok {
		e = &detailEntry{}
		c.details[auctionID] = e
	}
	return e
}
