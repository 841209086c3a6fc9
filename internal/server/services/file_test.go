package services

import (
	"context"
	"errors"
	"iter"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/sealbox/internal/common"
	"github.com/dmitrijs2005/sealbox/internal/server/access"
	"github.com/dmitrijs2005/sealbox/internal/server/models"
	"github.com/dmitrijs2005/sealbox/internal/server/repositories/files"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fileFixture struct {
	users *UserService
	files *FileService
	store *fakeStore
	m     *testManager
	alice *models.User
	bob   *models.User
	carol *models.User
}

func newFileFixture(t *testing.T) *fileFixture {
	t.Helper()
	m := newTestManager(t)
	cfg := testConfig()
	us := NewUserService(m, cfg)
	st := newFakeStore()
	fs := NewFileService(m, st, us, cfg, nopLogger{})

	reg := func(email string) *models.User {
		u, _, err := us.Register(context.Background(), email, "pw", "age1"+strings.Split(email, "@")[0])
		require.NoError(t, err)
		return u
	}
	return &fileFixture{
		users: us, files: fs, store: st, m: m,
		alice: reg("alice@x.com"),
		bob:   reg("bob@x.com"),
		carol: reg("carol@x.com"),
	}
}

func (fx *fileFixture) upload(t *testing.T, owner *models.User, name string) *models.File {
	t.Helper()
	f, err := fx.files.Upload(context.Background(), owner.ID, name, "text/plain",
		models.WrappedKey("K_"+owner.Email), strings.NewReader("ciphertext"), 10)
	require.NoError(t, err)
	return f
}

func TestNewStorageKey(t *testing.T) {
	at := time.Date(2024, 3, 7, 23, 0, 0, 0, time.UTC)
	k1 := NewStorageKey("u1", at)
	k2 := NewStorageKey("u1", at)

	assert.Regexp(t, regexp.MustCompile(`^files/u1/2024/03/07/[0-9a-f-]{36}$`), k1)
	assert.NotEqual(t, k1, k2)
}

func TestUpload_StoresThenRecords(t *testing.T) {
	fx := newFileFixture(t)

	f := fx.upload(t, fx.alice, "report.pdf")
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, fx.alice.ID, f.OwnerID)
	assert.True(t, strings.HasPrefix(f.StorageKey, "files/"+fx.alice.ID+"/"))
	assert.Equal(t, []byte("ciphertext"), fx.store.objects[f.StorageKey])

	got, err := fx.m.Files().GetByID(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WrappedKey("K_alice@x.com"), got.OwnerWrappedKey)
	assert.Empty(t, got.Shares)
}

func TestUpload_Validation(t *testing.T) {
	fx := newFileFixture(t)
	ctx := context.Background()

	_, err := fx.files.Upload(ctx, fx.alice.ID, " ", "", "K", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = fx.files.Upload(ctx, fx.alice.ID, "a.txt", "", "", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, common.ErrorValidation)

	puts, _ := fx.store.calls()
	assert.Zero(t, puts)
}

func TestUpload_StoreFailureCreatesNoRecord(t *testing.T) {
	fx := newFileFixture(t)
	fx.store.putErr = errors.New("s3 down")

	_, err := fx.files.Upload(context.Background(), fx.alice.ID, "a.txt", "", "K", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, common.ErrorUpstream)

	list, err := fx.files.List(context.Background(), fx.alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

type failingFiles struct {
	files.Repository
	createErr error
	getErr    error
	listErr   error
}

func (f failingFiles) Create(ctx context.Context, file *models.File) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.Repository.Create(ctx, file)
}

func (f failingFiles) GetByID(ctx context.Context, id string) (*models.File, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Repository.GetByID(ctx, id)
}

func (f failingFiles) ListOwnedOrShared(ctx context.Context, id string) iter.Seq2[*models.File, error] {
	if f.listErr != nil {
		return func(yield func(*models.File, error) bool) { yield(nil, f.listErr) }
	}
	return f.Repository.ListOwnedOrShared(ctx, id)
}

func TestUpload_RecordFailureLeavesOrphan(t *testing.T) {
	fx := newFileFixture(t)
	fx.m.files = failingFiles{Repository: fx.m.RepositoryManager.Files(), createErr: errors.New("db down")}

	_, err := fx.files.Upload(context.Background(), fx.alice.ID, "a.txt", "", "K", strings.NewReader("x"), 1)
	require.Error(t, err)
	assert.Len(t, fx.store.objects, 1)
}

func TestDownload_OwnerRecipientStranger(t *testing.T) {
	fx := newFileFixture(t)
	ctx := context.Background()
	f := fx.upload(t, fx.alice, "report.pdf")

	require.NoError(t, fx.files.Share(ctx, f.ID, fx.alice.ID, "bob@x.com", "K_bob"))

	ticket, outcome, err := fx.files.Download(ctx, f.ID, fx.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, access.Allowed, outcome)
	assert.Equal(t, models.WrappedKey("K_alice@x.com"), ticket.WrappedKey)
	assert.Equal(t, "report.pdf", ticket.Filename)
	assert.Contains(t, ticket.URL, f.StorageKey)
	assert.WithinDuration(t, time.Now().Add(time.Hour), ticket.ExpiresAt, time.Minute)
	assert.Equal(t, time.Hour, fx.store.lastTTL)

	ticket, outcome, err = fx.files.Download(ctx, f.ID, fx.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, access.Allowed, outcome)
	assert.Equal(t, models.WrappedKey("K_bob"), ticket.WrappedKey)

	ticket, outcome, err = fx.files.Download(ctx, f.ID, fx.carol.ID)
	require.NoError(t, err)
	assert.Equal(t, access.Forbidden, outcome)
	assert.Nil(t, ticket)
}

func TestDownload_MissingFileDoesNotPresign(t *testing.T) {
	fx := newFileFixture(t)

	ticket, outcome, err := fx.files.Download(context.Background(), "missing", fx.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, access.NotFound, outcome)
	assert.Nil(t, ticket)

	_, presigns := fx.store.calls()
	assert.Zero(t, presigns)
}

func TestDownload_Errors(t *testing.T) {
	fx := newFileFixture(t)
	ctx := context.Background()
	f := fx.upload(t, fx.alice, "a.txt")

	fx.store.presignErr = errors.New("presign broke")
	_, _, err := fx.files.Download(ctx, f.ID, fx.alice.ID)
	assert.ErrorIs(t, err, common.ErrorUpstream)

	fx.m.files = failingFiles{Repository: fx.m.RepositoryManager.Files(), getErr: errors.New("db down")}
	_, _, err = fx.files.Download(ctx, f.ID, fx.alice.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorUpstream)
}

func TestShare_Workflow(t *testing.T) {
	fx := newFileFixture(t)
	ctx := context.Background()
	f := fx.upload(t, fx.alice, "report.pdf")

	t.Run("missing file", func(t *testing.T) {
		err := fx.files.Share(ctx, "missing", fx.alice.ID, "bob@x.com", "K")
		assert.ErrorIs(t, err, common.ErrorNotFound)
		assert.NotErrorIs(t, err, common.ErrorRecipientNotFound)
	})

	t.Run("non-owner with valid recipient", func(t *testing.T) {
		err := fx.files.Share(ctx, f.ID, fx.bob.ID, "carol@x.com", "K")
		assert.ErrorIs(t, err, common.ErrorForbidden)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		err := fx.files.Share(ctx, f.ID, fx.alice.ID, "nobody@x.com", "K")
		assert.ErrorIs(t, err, common.ErrorRecipientNotFound)
	})

	t.Run("empty wrapped key", func(t *testing.T) {
		err := fx.files.Share(ctx, f.ID, fx.alice.ID, "bob@x.com", "")
		assert.ErrorIs(t, err, common.ErrorValidation)
	})

	got, err := fx.m.Files().GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Shares, "failed shares must not leave entries")

	t.Run("owner shares, email case-insensitive", func(t *testing.T) {
		require.NoError(t, fx.files.Share(ctx, f.ID, fx.alice.ID, "Bob@X.com", "K_bob"))
		got, err := fx.m.Files().GetByID(ctx, f.ID)
		require.NoError(t, err)
		require.Len(t, got.Shares, 1)
		assert.Equal(t, fx.bob.ID, got.Shares[0].RecipientID)
		assert.Equal(t, models.WrappedKey("K_bob"), got.Shares[0].WrappedKey)
	})

	t.Run("recipient cannot reshare", func(t *testing.T) {
		err := fx.files.Share(ctx, f.ID, fx.bob.ID, "carol@x.com", "K_carol")
		assert.ErrorIs(t, err, common.ErrorForbidden)
		assert.False(t, access.CanAccess(mustGet(t, fx, f.ID), fx.carol.ID))
	})

	_, presigns := fx.store.calls()
	assert.Zero(t, presigns, "sharing must not touch the object store")
}

func mustGet(t *testing.T, fx *fileFixture, id string) *models.File {
	t.Helper()
	f, err := fx.m.Files().GetByID(context.Background(), id)
	require.NoError(t, err)
	return f
}

func TestShare_DuplicateRecipientKeepsEarliestKey(t *testing.T) {
	fx := newFileFixture(t)
	ctx := context.Background()
	f := fx.upload(t, fx.alice, "a.txt")

	require.NoError(t, fx.files.Share(ctx, f.ID, fx.alice.ID, "bob@x.com", "K_bob_1"))
	require.NoError(t, fx.files.Share(ctx, f.ID, fx.alice.ID, "bob@x.com", "K_bob_2"))

	assert.Len(t, mustGet(t, fx, f.ID).Shares, 2)

	ticket, _, err := fx.files.Download(ctx, f.ID, fx.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WrappedKey("K_bob_1"), ticket.WrappedKey)
}

func TestShare_ConcurrentSharesAreAllRecorded(t *testing.T) {
	fx := newFileFixture(t)
	ctx := context.Background()
	f := fx.upload(t, fx.alice, "a.txt")

	var wg sync.WaitGroup
	for _, email := range []string{"bob@x.com", "carol@x.com"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, fx.files.Share(ctx, f.ID, fx.alice.ID, email, models.WrappedKey("K_"+email)))
		}()
	}
	wg.Wait()

	assert.Len(t, mustGet(t, fx, f.ID).Shares, 2)
	assert.True(t, access.CanAccess(mustGet(t, fx, f.ID), fx.bob.ID))
	assert.True(t, access.CanAccess(mustGet(t, fx, f.ID), fx.carol.ID))
}

func TestList_OwnedAndShared(t *testing.T) {
	fx := newFileFixture(t)
	ctx := context.Background()

	a1 := fx.upload(t, fx.alice, "a1.txt")
	b1 := fx.upload(t, fx.bob, "b1.txt")
	_ = fx.upload(t, fx.alice, "a2.txt")
	require.NoError(t, fx.files.Share(ctx, a1.ID, fx.alice.ID, "bob@x.com", "K"))

	list, err := fx.files.List(ctx, fx.bob.ID)
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, f := range list {
		ids = append(ids, f.ID)
	}
	assert.ElementsMatch(t, []string{a1.ID, b1.ID}, ids)

	list, err = fx.files.List(ctx, fx.carol.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestList_Error(t *testing.T) {
	fx := newFileFixture(t)
	fx.m.files = failingFiles{Repository: fx.m.RepositoryManager.Files(), listErr: errors.New("db down")}

	_, err := fx.files.List(context.Background(), fx.alice.ID)
	require.Error(t, err)
}
