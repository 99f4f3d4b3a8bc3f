// ABOUTME: Tests for the prospect tracker lifecycle and persistence contract
// ABOUTME: Uses an in-memory persister so mutation and persistence are checked separately
package tracker

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/prospector/db"
	"github.com/harperreed/prospector/models"
)

type memPersister struct {
	loaded  []models.Prospect
	loadErr error
	saved   [][]models.Prospect
	saveErr error
}

func (m *memPersister) Load() ([]models.Prospect, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return cloneAll(m.loaded), nil
}

func (m *memPersister) Save(p []models.Prospect) error {
	m.saved = append(m.saved, cloneAll(p))
	return m.saveErr
}

func (m *memPersister) last() []models.Prospect {
	if len(m.saved) == 0 {
		return nil
	}
	return m.saved[len(m.saved)-1]
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newTestTracker(t *testing.T, initial []models.Prospect) (*Tracker, *memPersister) {
	t.Helper()
	p := &memPersister{loaded: initial}
	if initial == nil {
		p.loaded = []models.Prospect{}
	}
	clock := &fakeClock{t: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	seq := 0
	tr := Open(p, WithClock(clock.Now), WithIDGenerator(func() string {
		seq++
		return fmt.Sprintf("p-%d", seq)
	}))
	return tr, p
}

func assertCollectionInvariants(t *testing.T, prospects []models.Prospect) {
	t.Helper()
	seen := map[string]bool{}
	for _, p := range prospects {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
		assert.NotEmpty(t, p.History, "prospect %s has empty history", p.ID)
	}
}

func TestLifecycleScenario(t *testing.T) {
	tr, persister := newTestTracker(t, nil)

	p, err := tr.Create(models.ProspectFields{Name: "Ana Torres", Company: "Banco Sur", Status: models.StatusInitialContact})
	require.NoError(t, err)
	require.Len(t, p.History, 1)
	assert.Equal(t, models.InteractionNote, p.History[0].Type)
	assert.Equal(t, "Prospect created.", p.History[0].Content)
	assert.Equal(t, models.StatusInitialContact, p.History[0].StatusAtTheTime)

	p.Status = models.StatusQualification
	p, err = tr.Update(p)
	require.NoError(t, err)
	require.Len(t, p.History, 2)
	last := p.History[1]
	assert.Equal(t, models.InteractionStatusChange, last.Type)
	assert.Equal(t, models.StatusInitialContact, last.StatusAtTheTime)
	assert.Equal(t, "Status changed to Qualification / Email Ask", last.Content)

	entry, err := tr.AddInteraction(p.ID, models.InteractionCall, "Had a great call")
	require.NoError(t, err)
	assert.Equal(t, models.StatusQualification, entry.StatusAtTheTime)

	got, err := tr.Get(p.ID)
	require.NoError(t, err)
	require.Len(t, got.History, 3)
	assert.Equal(t, models.StatusQualification, got.Status)

	assert.True(t, tr.Delete(p.ID))
	_, err = tr.Get(p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	saves := len(persister.saved)
	assert.False(t, tr.Delete(p.ID), "second delete is a no-op")
	assert.Len(t, persister.saved, saves, "no-op delete must not persist")
}

func TestCreateDefaultsAndValidation(t *testing.T) {
	tr, _ := newTestTracker(t, nil)

	p, err := tr.Create(models.ProspectFields{Name: "  Luis  "})
	require.NoError(t, err)
	assert.Equal(t, "Luis", p.Name)
	assert.Equal(t, models.StatusInitialContact, p.Status)
	assert.Equal(t, models.PlatformLinkedIn, p.Platform)
	assert.Equal(t, "p-1", p.ID)

	ai, err := tr.Create(models.ProspectFields{Name: "Parsed", About: "Builder of things"})
	require.NoError(t, err)
	assert.Equal(t, "Prospect created from AI Parser.", ai.History[0].Content)

	_, err = tr.Create(models.ProspectFields{Name: ""})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = tr.Create(models.ProspectFields{Name: "X", Status: "bogus"})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = tr.Create(models.ProspectFields{Name: "X", Platform: "fax"})
	assert.ErrorIs(t, err, ErrInvalid)

	assert.Len(t, tr.List(), 2)
}

func TestUpdateUnknownIDDoesNotInsert(t *testing.T) {
	tr, persister := newTestTracker(t, nil)
	_, err := tr.Create(models.ProspectFields{Name: "Only"})
	require.NoError(t, err)
	saves := len(persister.saved)

	_, err = tr.Update(models.Prospect{ID: "ghost", Name: "Ghost", Status: models.StatusQualification})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, tr.List(), 1)
	assert.Len(t, persister.saved, saves)
}

func TestUpdateWithoutStatusChangeKeepsHistory(t *testing.T) {
	tr, _ := newTestTracker(t, nil)
	p, err := tr.Create(models.ProspectFields{Name: "Sam"})
	require.NoError(t, err)

	p.DealValue = 42000
	p.History = nil
	updated, err := tr.Update(p)
	require.NoError(t, err)
	assert.Len(t, updated.History, 1, "stored history is kept")
	assert.Equal(t, 42000.0, updated.DealValue)
}

func TestUpdateWithStaleCopyKeepsLaterInteractions(t *testing.T) {
	tr, _ := newTestTracker(t, nil)
	created, err := tr.Create(models.ProspectFields{Name: "Sam"})
	require.NoError(t, err)

	stale, err := tr.Get(created.ID)
	require.NoError(t, err)

	call, err := tr.AddInteraction(created.ID, models.InteractionCall, "Intro call")
	require.NoError(t, err)

	stale.Company = "Banco Sur"
	stale.Status = models.StatusQualification
	updated, err := tr.Update(stale)
	require.NoError(t, err)

	require.Len(t, updated.History, 3)
	assert.Equal(t, created.History[0], updated.History[0])
	assert.Equal(t, call, updated.History[1])
	assert.Equal(t, models.InteractionStatusChange, updated.History[2].Type)
	assert.Equal(t, "Banco Sur", updated.Company)
}

func TestUpdateCannotRewriteHistory(t *testing.T) {
	tr, _ := newTestTracker(t, nil)
	created, err := tr.Create(models.ProspectFields{Name: "Sam"})
	require.NoError(t, err)

	emptied := created
	emptied.History = []models.Interaction{}
	updated, err := tr.Update(emptied)
	require.NoError(t, err)
	assert.Equal(t, created.History, updated.History)

	forged := created
	forged.History = []models.Interaction{{ID: "forged", Type: models.InteractionNote, Content: "rewritten"}}
	updated, err = tr.Update(forged)
	require.NoError(t, err)
	assert.Equal(t, created.History, updated.History)

	assertCollectionInvariants(t, tr.List())
}

func TestUpdateInvalidStatus(t *testing.T) {
	tr, _ := newTestTracker(t, nil)
	p, err := tr.Create(models.ProspectFields{Name: "Sam"})
	require.NoError(t, err)

	p.Status = "nope"
	_, err = tr.Update(p)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestTerminalStatusIsNotEnforced(t *testing.T) {
	tr, _ := newTestTracker(t, nil)
	p, err := tr.Create(models.ProspectFields{Name: "Won", Status: models.StatusDealClosed})
	require.NoError(t, err)

	p.Status = models.StatusInitialContact
	p, err = tr.Update(p)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInitialContact, p.Status)
	assert.Equal(t, models.StatusDealClosed, p.History[len(p.History)-1].StatusAtTheTime)
}

func TestEveryStatusChangeAppendsExactlyOneEntry(t *testing.T) {
	tr, _ := newTestTracker(t, nil)
	p, err := tr.Create(models.ProspectFields{Name: "Walker"})
	require.NoError(t, err)

	for _, def := range models.StatusDefinitions() {
		prev := p.Status
		before := len(p.History)
		p.Status = def.Value
		p, err = tr.Update(p)
		require.NoError(t, err)

		if prev == def.Value {
			assert.Len(t, p.History, before)
			continue
		}
		require.Len(t, p.History, before+1)
		entry := p.History[before]
		assert.Equal(t, models.InteractionStatusChange, entry.Type)
		assert.Equal(t, prev, entry.StatusAtTheTime)
	}
}

func TestAddInteractionValidation(t *testing.T) {
	tr, _ := newTestTracker(t, nil)
	p, err := tr.Create(models.ProspectFields{Name: "Mia"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      string
		kind    models.InteractionType
		content string
		want    error
	}{
		{"unknown id", "missing", models.InteractionNote, "hi", ErrNotFound},
		{"bad type", p.ID, "fax", "hi", ErrInvalid},
		{"status change via log", p.ID, models.InteractionStatusChange, "moved", ErrInvalid},
		{"empty content", p.ID, models.InteractionEmail, "", ErrInvalid},
		{"blank content", p.ID, models.InteractionEmail, "   ", ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.AddInteraction(tt.id, tt.kind, tt.content)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	got, err := tr.Get(p.ID)
	require.NoError(t, err)
	assert.Len(t, got.History, 1)
}

func TestInteractionIDsAreUniqueAndOrdered(t *testing.T) {
	tr, _ := newTestTracker(t, nil)
	p, err := tr.Create(models.ProspectFields{Name: "Order"})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := tr.AddInteraction(p.ID, models.InteractionChat, fmt.Sprintf("msg %d", i))
		require.NoError(t, err)
	}
	got, err := tr.Get(p.ID)
	require.NoError(t, err)
	for i := 1; i < len(got.History); i++ {
		assert.Less(t, got.History[i-1].ID, got.History[i].ID)
	}
}

func TestDeleteLeavesOthersUnchanged(t *testing.T) {
	tr, _ := newTestTracker(t, SeedProspects())
	before := tr.List()

	assert.True(t, tr.Delete("2"))
	after := tr.List()
	require.Len(t, after, len(before)-1)

	var expected []models.Prospect
	for _, p := range before {
		if p.ID != "2" {
			expected = append(expected, p)
		}
	}
	if diff := cmp.Diff(expected, after); diff != "" {
		t.Errorf("delete disturbed other prospects (-want +got):\n%s", diff)
	}
}

func TestReadsReturnCopies(t *testing.T) {
	tr, _ := newTestTracker(t, nil)
	p, err := tr.Create(models.ProspectFields{Name: "Copy"})
	require.NoError(t, err)

	list := tr.List()
	list[0].Name = "Mutated"
	list[0].History[0].Content = "Mutated"

	got, err := tr.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Copy", got.Name)
	assert.Equal(t, "Prospect created.", got.History[0].Content)
}

func TestMutationsPersistWholeCollection(t *testing.T) {
	tr, persister := newTestTracker(t, nil)

	a, err := tr.Create(models.ProspectFields{Name: "A"})
	require.NoError(t, err)
	_, err = tr.Create(models.ProspectFields{Name: "B"})
	require.NoError(t, err)
	_, err = tr.AddInteraction(a.ID, models.InteractionNote, "check")
	require.NoError(t, err)

	require.Len(t, persister.saved, 3)
	assert.Len(t, persister.last(), 2)
	if diff := cmp.Diff(tr.List(), persister.last()); diff != "" {
		t.Errorf("persisted collection differs (-mem +saved):\n%s", diff)
	}
}

func TestPersistFailureIsSwallowed(t *testing.T) {
	tr, persister := newTestTracker(t, nil)
	persister.saveErr = errors.New("disk full")

	p, err := tr.Create(models.ProspectFields{Name: "Kept"})
	require.NoError(t, err, "persistence failures must not fail the mutation")

	got, err := tr.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kept", got.Name)

	assert.Error(t, tr.Persist(), "explicit persist still reports the failure")
}

func TestLoadFallsBackToSeed(t *testing.T) {
	tests := []struct {
		name      string
		persister *memPersister
	}{
		{"nothing saved", &memPersister{loadErr: ErrNoSavedData}},
		{"read failure", &memPersister{loadErr: errors.New("corrupt")}},
		{"null collection", &memPersister{loaded: nil}},
		{"duplicate ids", &memPersister{loaded: []models.Prospect{{ID: "x"}, {ID: "x"}}}},
		{"missing id", &memPersister{loaded: []models.Prospect{{Name: "anon"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := Open(tt.persister)
			assert.Len(t, tr.List(), len(SeedProspects()))
		})
	}
}

func TestLoadKeepsEmptyCollection(t *testing.T) {
	tr := Open(&memPersister{loaded: []models.Prospect{}})
	assert.Empty(t, tr.List())
}

func TestResetRestoresSeed(t *testing.T) {
	tr, persister := newTestTracker(t, nil)
	_, err := tr.Create(models.ProspectFields{Name: "Temp"})
	require.NoError(t, err)

	tr.Reset()
	assert.Len(t, tr.List(), len(SeedProspects()))
	assert.Len(t, persister.last(), len(SeedProspects()))
}

func TestFind(t *testing.T) {
	tr, _ := newTestTracker(t, SeedProspects())

	assert.Len(t, tr.Find("bitso"), 1)
	assert.Len(t, tr.Find("CHEN"), 1)
	assert.Len(t, tr.Find(""), len(SeedProspects()))
	assert.Empty(t, tr.Find("nobody"))
}

func TestSeedDataset(t *testing.T) {
	seed := SeedProspects()
	require.Len(t, seed, 10)
	assertCollectionInvariants(t, seed)
	for _, p := range seed {
		assert.True(t, p.Status.IsValid(), "seed %s has invalid status %q", p.ID, p.Status)
		assert.True(t, p.Platform.IsValid(), "seed %s has invalid platform %q", p.ID, p.Platform)
	}

	// Fresh copy every call
	seed[0].Name = "changed"
	assert.NotEqual(t, "changed", SeedProspects()[0].Name)
}

func TestInvariantsAcrossOperationSequence(t *testing.T) {
	tr, _ := newTestTracker(t, SeedProspects())

	created, err := tr.Create(models.ProspectFields{Name: "Seq"})
	require.NoError(t, err)
	_, err = tr.AddInteraction("1", models.InteractionEmail, "Sent deck")
	require.NoError(t, err)
	p, err := tr.Get("4")
	require.NoError(t, err)
	p.Status = models.StatusDealLost
	_, err = tr.Update(p)
	require.NoError(t, err)
	tr.Delete("3")
	tr.Delete(created.ID)
	_, err = tr.Create(models.ProspectFields{Name: "Seq 2"})
	require.NoError(t, err)

	assertCollectionInvariants(t, tr.List())
}

func TestBlobPersisterRoundTrip(t *testing.T) {
	store, err := db.OpenSQLiteStore(filepath.Join(t.TempDir(), "slots.db"))
	require.NoError(t, err)
	persister := NewBlobPersister(store)

	_, err = persister.Load()
	assert.ErrorIs(t, err, ErrNoSavedData)

	seed := SeedProspects()
	require.NoError(t, persister.Save(seed))

	loaded, err := persister.Load()
	require.NoError(t, err)
	if diff := cmp.Diff(seed, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, persister.Close())
}

func TestBlobPersisterMalformedFallsBackToSeed(t *testing.T) {
	store, err := db.OpenBadgerStore(filepath.Join(t.TempDir(), "kv"))
	require.NoError(t, err)
	require.NoError(t, store.Put(SlotKey, []byte("{not json")))

	tr := Open(NewBlobPersister(store))
	assert.Len(t, tr.List(), len(SeedProspects()))
	require.NoError(t, tr.Close())
}

func TestCloseFlushesToStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slots.db")
	store, err := db.OpenSQLiteStore(path)
	require.NoError(t, err)

	tr := Open(NewBlobPersister(store))
	p, err := tr.Create(models.ProspectFields{Name: "Durable"})
	require.NoError(t, err)
	require.NoError(t, tr.Close())

	store, err = db.OpenSQLiteStore(path)
	require.NoError(t, err)
	reopened := Open(NewBlobPersister(store))
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Durable", got.Name)
}
