package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Fernando9200/sistema-lembretes/internal/document"
	"github.com/Fernando9200/sistema-lembretes/internal/errs"
	"github.com/Fernando9200/sistema-lembretes/internal/identity"
	"github.com/Fernando9200/sistema-lembretes/internal/model"
	"github.com/Fernando9200/sistema-lembretes/internal/session"
	"github.com/Fernando9200/sistema-lembretes/internal/upload"
)

type stubProvider struct {
	user model.User
}

var _ identity.Provider = (*stubProvider)(nil)

func (p *stubProvider) Register(context.Context, string, string, string) (string, error) {
	return p.user.ID.String(), nil
}

func (p *stubProvider) Authenticate(context.Context, string, string) (*model.User, model.Credential, error) {
	u := p.user
	return &u, model.Credential{AccessToken: "at", RefreshToken: "rt", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (p *stubProvider) Refresh(context.Context, string) (model.Credential, error) {
	return model.Credential{AccessToken: "at2", RefreshToken: "rt2", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (p *stubProvider) Revoke(context.Context, string) error { return nil }

type stubUploader struct {
	fd  model.FileData
	err error
}

var _ upload.Uploader = (*stubUploader)(nil)

func (u *stubUploader) Upload(context.Context, string, string, []byte) (model.FileData, error) {
	return u.fd, u.err
}

func newApp(t *testing.T, up upload.Uploader) (*App, *document.MemStore, *session.Gate) {
	t.Helper()
	user := model.User{ID: uuid.Must(uuid.NewV7()), Email: "ana@example.com"}
	gate := session.New(&stubProvider{user: user}, zap.NewNop())
	docs := document.NewMemStore()
	a := New(gate, docs, up, 20*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	a.Start(ctx)
	return a, docs, gate
}

func signIn(t *testing.T, gate *session.Gate) string {
	t.Helper()
	require.NoError(t, gate.SignIn(context.Background(), "ana@example.com", "pw"))
	return gate.CurrentUser().ID.String()
}

func TestApp_SignInInitializesEmptyAccount(t *testing.T) {
	a, docs, gate := newApp(t, &stubUploader{})
	userID := signIn(t, gate)

	st := a.Reminders().Snapshot()
	require.NotNil(t, st.Data)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Data.Records)
	assert.Equal(t, userID, st.Data.UserID)

	// Both documents were persisted right away so the account reads as
	// initialized from any other device.
	_, err := docs.Get(context.Background(), document.KindReminders, userID)
	require.NoError(t, err)
	_, err = docs.Get(context.Background(), document.KindSavedItems, userID)
	require.NoError(t, err)
}

func TestApp_SignInLoadsExistingDocuments(t *testing.T) {
	a, docs, gate := newApp(t, &stubUploader{})

	// The user ID is minted inside the stub, so sign in once to learn it,
	// sign out, seed the remote document, and sign back in.
	userID := signIn(t, gate)
	gate.SignOut(context.Background())

	c := model.NewCollection[model.Reminder](userID)
	c.Records = []model.Reminder{model.NewReminder("pay electricity bill", "until friday")}
	doc, err := document.EncodeReminders(c)
	require.NoError(t, err)
	require.NoError(t, docs.Set(context.Background(), document.KindReminders, userID, doc))

	signIn(t, gate)
	got := a.Reminders().Display()
	require.Len(t, got, 1)
	assert.Equal(t, "pay electricity bill", got[0].Title)
}

func TestApp_SignOutResetsStores(t *testing.T) {
	a, _, gate := newApp(t, &stubUploader{})
	signIn(t, gate)

	_, err := a.AddReminder("water plants", "")
	require.NoError(t, err)

	gate.SignOut(context.Background())
	st := a.Reminders().Snapshot()
	assert.Nil(t, st.Data)
	assert.False(t, st.NeedsSave)

	// Mutations without a signed-in user are dropped silently.
	_, err = a.AddReminder("ghost", "")
	require.NoError(t, err)
	assert.Nil(t, a.Reminders().Snapshot().Data)
}

func TestApp_TitleValidationAtBoundary(t *testing.T) {
	a, _, gate := newApp(t, &stubUploader{})
	signIn(t, gate)

	_, err := a.AddReminder("   ", "desc")
	require.ErrorIs(t, err, errs.ErrEmptyTitle)

	_, err = a.AddTextItem("\t\n", "body")
	require.ErrorIs(t, err, errs.ErrEmptyTitle)

	r, err := a.AddReminder("  trim me  ", "  and me  ")
	require.NoError(t, err)
	assert.Equal(t, "trim me", r.Title)
	assert.Equal(t, "and me", r.Description)
}

func TestApp_AddFileItemUploadFailureAbortsAdd(t *testing.T) {
	a, _, gate := newApp(t, &stubUploader{err: errors.New("bucket unreachable")})
	signIn(t, gate)

	_, err := a.AddFileItem(context.Background(), "tax form", "", "form.pdf", "application/pdf", []byte("pdf"))
	require.ErrorContains(t, err, "bucket unreachable")
	assert.Empty(t, a.Items().Display(), "a failed upload must not leave a half-made record")
}

func TestApp_AddFileItemEmbedsUploadResult(t *testing.T) {
	fd := model.FileData{
		URL: "https://bucket.s3.us-east-1.amazonaws.com/users/2026/3/7/k", PublicID: "users/2026/3/7/k",
		FileName: "cat.png", FileSize: 3, FileType: "image/png", ResourceType: model.ResourceImage,
	}
	a, _, gate := newApp(t, &stubUploader{fd: fd})
	signIn(t, gate)

	it, err := a.AddFileItem(context.Background(), "cat pic", "", "cat.png", "image/png", []byte("png"))
	require.NoError(t, err)
	require.NotNil(t, it.File)
	assert.Equal(t, fd, *it.File)
	assert.Equal(t, model.ItemFile, it.Type)
}

func TestApp_AutosavePersistsThroughScheduler(t *testing.T) {
	a, docs, gate := newApp(t, &stubUploader{})
	userID := signIn(t, gate)

	_, err := a.AddReminder("pay electricity bill", "")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		raw, err := docs.Get(context.Background(), document.KindReminders, userID)
		if err != nil {
			return false
		}
		c, err := document.DecodeReminders(raw)
		return err == nil && len(c.Records) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool { return !a.Reminders().Snapshot().NeedsSave }, 2*time.Second, 10*time.Millisecond)
}

func TestApp_FlushWritesImmediately(t *testing.T) {
	a, docs, gate := newApp(t, &stubUploader{})
	userID := signIn(t, gate)

	_, err := a.AddTextItem("meeting notes", "discussed roadmap")
	require.NoError(t, err)

	a.Flush(context.Background())

	raw, err := docs.Get(context.Background(), document.KindSavedItems, userID)
	require.NoError(t, err)
	c, err := document.DecodeSavedItems(raw)
	require.NoError(t, err)
	require.Len(t, c.Records, 1)
	assert.Equal(t, "meeting notes", c.Records[0].Title)
}
