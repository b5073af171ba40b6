package lrucache

import (
	"testing"

	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
)

func TestLRUCache(t *testing.T) {
	cache := New(2)
	hashes := []externalapi.DomainHash{{1}, {2}, {3}}
	for i := range hashes {
		cache.Add(&hashes[i], &externalapi.BlockHeader{Height: uint32(i)})
	}

	found := 0
	for i := range hashes {
		header, ok := cache.Get(&hashes[i])
		if ok != cache.Has(&hashes[i]) {
			t.Fatalf("Get and Has disagree on entry %s", hashes[i])
		}
		if !ok {
			continue
		}
		found++
		if header.Height != uint32(i) {
			t.Errorf("entry %s has height %d, want %d", hashes[i], header.Height, i)
		}
	}
	if found != 2 {
		t.Fatalf("found %d entries, want 2", found)
	}

	// Replacing a cached entry does not evict anything
	cached := hashes[0]
	if !cache.Has(&cached) {
		cached = hashes[1]
	}
	cache.Add(&cached, &externalapi.BlockHeader{Height: 7})
	if len(cache.cache) != 2 {
		t.Fatalf("cache holds %d entries after a replacement, want 2", len(cache.cache))
	}
	if header, _ := cache.Get(&cached); header.Height != 7 {
		t.Fatalf("replaced entry has height %d, want 7", header.Height)
	}
}
