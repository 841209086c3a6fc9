package files

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dmitrijs2005/sealbox/internal/common"
	"github.com/dmitrijs2005/sealbox/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBadgerRepo(t *testing.T) *BadgerRepository {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewBadgerRepository(db)
}

func mustCreate(t *testing.T, repo *BadgerRepository, owner, name string) *models.File {
	t.Helper()
	f := &models.File{
		OwnerID:         owner,
		Filename:        name,
		StorageKey:      "files/" + owner + "/" + name,
		OwnerWrappedKey: models.WrappedKey("wk-" + owner),
	}
	require.NoError(t, repo.Create(context.Background(), f))
	return f
}

func collect(t *testing.T, repo *BadgerRepository, principal string) []string {
	t.Helper()
	var ids []string
	for f, err := range repo.ListOwnedOrShared(context.Background(), principal) {
		require.NoError(t, err)
		ids = append(ids, f.ID)
	}
	return ids
}

func TestBadgerRepository_CreateAndGet(t *testing.T) {
	repo := newBadgerRepo(t)

	f := mustCreate(t, repo, "alice", "report.pdf")
	require.NotEmpty(t, f.ID)

	got, err := repo.GetByID(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.OwnerID)
	assert.Equal(t, "report.pdf", got.Filename)
	assert.Equal(t, models.WrappedKey("wk-alice"), got.OwnerWrappedKey)
	assert.Empty(t, got.Shares)
}

func TestBadgerRepository_GetMissing(t *testing.T) {
	repo := newBadgerRepo(t)
	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestBadgerRepository_AppendShareKeepsOrder(t *testing.T) {
	repo := newBadgerRepo(t)
	ctx := context.Background()
	f := mustCreate(t, repo, "alice", "report.pdf")

	now := time.Now().UTC()
	require.NoError(t, repo.AppendShare(ctx, f.ID, models.ShareEntry{RecipientID: "bob", WrappedKey: "wk-bob-1", CreatedAt: now}))
	require.NoError(t, repo.AppendShare(ctx, f.ID, models.ShareEntry{RecipientID: "bob", WrappedKey: "wk-bob-2", CreatedAt: now}))

	got, err := repo.GetByID(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, got.Shares, 2)
	assert.Equal(t, models.WrappedKey("wk-bob-1"), got.Shares[0].WrappedKey)
	assert.Equal(t, models.WrappedKey("wk-bob-2"), got.Shares[1].WrappedKey)
}

func TestBadgerRepository_AppendShareMissingFile(t *testing.T) {
	repo := newBadgerRepo(t)
	err := repo.AppendShare(context.Background(), "missing", models.ShareEntry{RecipientID: "bob", WrappedKey: "k"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestBadgerRepository_ConcurrentAppendsAreAllKept(t *testing.T) {
	repo := newBadgerRepo(t)
	ctx := context.Background()
	f := mustCreate(t, repo, "alice", "report.pdf")

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.AppendShare(ctx, f.ID, models.ShareEntry{
				RecipientID: fmt.Sprintf("user-%d", i),
				WrappedKey:  models.WrappedKey(fmt.Sprintf("wk-%d", i)),
				CreatedAt:   time.Now().UTC(),
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := repo.GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Len(t, got.Shares, n)
}

func TestBadgerRepository_ListOwnedOrShared(t *testing.T) {
	repo := newBadgerRepo(t)
	ctx := context.Background()

	own := mustCreate(t, repo, "bob", "mine.txt")
	shared := mustCreate(t, repo, "alice", "shared.txt")
	_ = mustCreate(t, repo, "alice", "private.txt")

	require.NoError(t, repo.AppendShare(ctx, shared.ID, models.ShareEntry{RecipientID: "bob", WrappedKey: "wk"}))
	// a second grant to the same recipient must not duplicate the listing
	require.NoError(t, repo.AppendShare(ctx, shared.ID, models.ShareEntry{RecipientID: "bob", WrappedKey: "wk2"}))

	assert.Equal(t, []string{own.ID, shared.ID}, collect(t, repo, "bob"))
	assert.Len(t, collect(t, repo, "alice"), 2)
	assert.Empty(t, collect(t, repo, "carol"))
}
