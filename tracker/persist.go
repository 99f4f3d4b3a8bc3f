// ABOUTME: Persistence boundary for the prospect collection
// ABOUTME: Serializes the whole collection as one JSON blob under a fixed slot key
package tracker

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harperreed/prospector/db"
	"github.com/harperreed/prospector/models"
)

// SlotKey is the storage key holding the serialized collection.
const SlotKey = "sales-manual-prospects-v2"

// ErrNoSavedData means the persister has never been written.
var ErrNoSavedData = errors.New("no saved prospects")

// Persister loads and saves the full prospect collection.
type Persister interface {
	Load() ([]models.Prospect, error)
	Save([]models.Prospect) error
}

// BlobPersister stores the collection in a db.BlobStore slot.
type BlobPersister struct {
	store db.BlobStore
	key   string
}

func NewBlobPersister(store db.BlobStore) *BlobPersister {
	return &BlobPersister{store: store, key: SlotKey}
}

func (p *BlobPersister) Load() ([]models.Prospect, error) {
	data, err := p.store.Get(p.key)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrNoSavedData
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", p.key, err)
	}

	var prospects []models.Prospect
	if err := json.Unmarshal(data, &prospects); err != nil {
		return nil, fmt.Errorf("failed to decode prospects: %w", err)
	}
	return prospects, nil
}

func (p *BlobPersister) Save(prospects []models.Prospect) error {
	if prospects == nil {
		prospects = []models.Prospect{}
	}
	data, err := json.Marshal(prospects)
	if err != nil {
		return fmt.Errorf("failed to encode prospects: %w", err)
	}
	if err := p.store.Put(p.key, data); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", p.key, err)
	}
	return nil
}

func (p *BlobPersister) Close() error {
	return p.store.Close()
}
