package core

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// MediaStatus marks whether an attached resource is still considered valid
// (spec.md §1: "Media registries... are thin CRUD and are mentioned only
// where the workflow runtime depends on them").
type MediaStatus int

const (
	MediaValid MediaStatus = iota
	MediaInvalidated
)

// Media is one attached-resource registry entry, content-addressed by an
// IPFS CID so workflow postprocessing can store an immutable pointer to
// off-chain content (proposal descriptions, vote rationale, attachments)
// rather than inlining it into a storage bucket Value.
type Media struct {
	ID       uint64
	CID      cid.Cid
	Name     string
	Category string
	Status   MediaStatus
}

// NewMediaCID derives a CIDv1 (raw codec, sha2-256) from content bytes, the
// same addressing scheme the DAO uses whenever a DaoActionMediaAdd handler
// needs to mint an identifier for caller-supplied bytes rather than
// accepting a pre-formed CID string.
func NewMediaCID(content []byte) (cid.Cid, error) {
	mh, err := multihash.Sum(content, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, fmt.Errorf("hash media content: %w", err)
	}
	const rawCodec = 0x55
	return cid.NewCidV1(rawCodec, mh), nil
}

// MediaRegistry is the DAO's append-mostly table of Media entries, keyed by
// monotonic id.
type MediaRegistry struct {
	byID  map[uint64]*Media
	nextID uint64
}

func NewMediaRegistry() *MediaRegistry {
	return &MediaRegistry{byID: make(map[uint64]*Media)}
}

func (r *MediaRegistry) Add(c cid.Cid, name, category string) *Media {
	r.nextID++
	m := &Media{ID: r.nextID, CID: c, Name: name, Category: category, Status: MediaValid}
	r.byID[m.ID] = m
	return m
}

func (r *MediaRegistry) Update(id uint64, name, category string) error {
	m, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	m.Name = name
	m.Category = category
	return nil
}

func (r *MediaRegistry) Invalidate(id uint64) error {
	m, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	m.Status = MediaInvalidated
	return nil
}

func (r *MediaRegistry) Get(id uint64) (*Media, bool) {
	m, ok := r.byID[id]
	return m, ok
}
