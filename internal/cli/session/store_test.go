package session

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ClinicDesk/internal/cli/repo"
	"ClinicDesk/internal/cli/repo/memory"
)

func newTestStore(opts Options) (*Store, *memory.KVStore, *memory.KVStore) {
	durable, tab := memory.NewKVStore(), memory.NewKVStore()
	return NewStore(durable, tab, opts), durable, tab
}

func TestStore_SetPersistent(t *testing.T) {
	s, durable, tab := newTestStore(Options{})
	require.NoError(t, s.SetCredential("tok-1", true))

	tok, ok := s.Credential()
	assert.True(t, ok)
	assert.Equal(t, "tok-1", tok)
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, TierDurable, s.CredentialTier())

	_, err := tab.Get(repo.KeyToken)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	v, _ := durable.Get(repo.KeyToken)
	assert.Equal(t, "tok-1", v)
}

func TestStore_TabOnly(t *testing.T) {
	s, _, tab := newTestStore(Options{})
	require.NoError(t, tab.Set(repo.KeyToken, "tab-token"))

	tok, ok := s.Credential()
	assert.True(t, ok)
	assert.Equal(t, "tab-token", tok)
	assert.Equal(t, TierTab, s.CredentialTier())
}

func TestStore_ClearLogsOut(t *testing.T) {
	s, durable, tab := newTestStore(Options{})
	require.NoError(t, s.SetCredential("d", true))
	require.NoError(t, s.SetIdentity("a@b.c", "a", true))
	require.NoError(t, s.SetCredential("t", false))
	require.NoError(t, s.SetIdentity("x@y.z", "", false))

	require.NoError(t, s.Clear())
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, DefaultDisplayName, s.DisplayIdentity())
	for _, st := range []repo.KVStore{durable, tab} {
		for _, k := range []string{repo.KeyToken, repo.KeyEmail, repo.KeyUsername} {
			_, err := st.Get(k)
			assert.ErrorIs(t, err, repo.ErrNotFound, k)
		}
	}
}

func TestStore_StaleDurableWinsAfterSecondLogin(t *testing.T) {
	s, _, _ := newTestStore(Options{})
	require.NoError(t, s.SetCredential("old-durable", true))
	require.NoError(t, s.SetCredential("fresh-tab", false))

	durable, tab := s.Tiers()
	assert.True(t, durable)
	assert.True(t, tab)
	tok, _ := s.Credential()
	assert.Equal(t, "old-durable", tok)
}

func TestStore_ExclusiveTiersClearsOther(t *testing.T) {
	s, durable, _ := newTestStore(Options{ExclusiveTiers: true})
	require.NoError(t, s.SetCredential("old-durable", true))
	require.NoError(t, s.SetIdentity("old@clinic.test", "", true))
	require.NoError(t, s.SetCredential("fresh-tab", false))

	tok, _ := s.Credential()
	assert.Equal(t, "fresh-tab", tok)
	_, err := durable.Get(repo.KeyEmail)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestStore_SetCredentialRejectsEmpty(t *testing.T) {
	s, _, _ := newTestStore(Options{})
	assert.Error(t, s.SetCredential("", true))
	assert.False(t, s.IsAuthenticated())
}

func TestStore_DisplayIdentity(t *testing.T) {
	t.Run("cached email wins", func(t *testing.T) {
		s, _, _ := newTestStore(Options{})
		require.NoError(t, s.SetCredential("a.b.c", false))
		require.NoError(t, s.SetIdentity("cached@clinic.test", "cached", false))
		assert.Equal(t, "cached@clinic.test", s.DisplayIdentity())
	})
	t.Run("username when no email", func(t *testing.T) {
		s, _, tab := newTestStore(Options{})
		require.NoError(t, tab.Set(repo.KeyUsername, "bob"))
		assert.Equal(t, "bob", s.DisplayIdentity())
	})
	t.Run("decoded from token", func(t *testing.T) {
		s, _, _ := newTestStore(Options{})
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "jwt@clinic.test"}).SignedString([]byte("k"))
		require.NoError(t, err)
		require.NoError(t, s.SetCredential(tok, true))
		assert.Equal(t, "jwt@clinic.test", s.DisplayIdentity())
	})
	t.Run("malformed token", func(t *testing.T) {
		s, _, _ := newTestStore(Options{})
		require.NoError(t, s.SetCredential("not-a-jwt", true))
		assert.NotPanics(t, func() {
			assert.Equal(t, DefaultDisplayName, s.DisplayIdentity())
		})
	})
	t.Run("nothing stored", func(t *testing.T) {
		s, _, _ := newTestStore(Options{})
		assert.Equal(t, DefaultDisplayName, s.DisplayIdentity())
	})
}

func TestStore_SetIdentityDerivesUsername(t *testing.T) {
	s, durable, _ := newTestStore(Options{})
	require.NoError(t, s.SetIdentity("carol@clinic.test", "", true))
	v, err := durable.Get(repo.KeyUsername)
	require.NoError(t, err)
	assert.Equal(t, "carol", v)
}

func TestStore_Email(t *testing.T) {
	s, _, _ := newTestStore(Options{})
	_, err := s.Email()
	assert.ErrorIs(t, err, ErrNoCredential)

	require.NoError(t, s.SetCredential("x.y", true))
	_, err = s.Email()
	assert.ErrorIs(t, err, ErrMalformedToken)

	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{ClaimEmailAddress: "ws@clinic.test"}).SignedString([]byte("k"))
	require.NoError(t, s.SetCredential(tok, true))
	email, err := s.Email()
	require.NoError(t, err)
	assert.Equal(t, "ws@clinic.test", email)
}

type failingStore struct{ repo.KVStore }

func (failingStore) Delete(string) error { return errors.New("disk gone") }
func (failingStore) Set(string, string) error { return errors.New("disk gone") }
func (failingStore) Get(string) (string, error) { return "", errors.New("disk gone") }

func TestStore_StorageErrors(t *testing.T) {
	s := NewStore(failingStore{}, memory.NewKVStore(), Options{})
	assert.Error(t, s.SetCredential("t", true))
	assert.Error(t, s.Clear())
	// read errors behave like an absent credential
	assert.False(t, s.IsAuthenticated())
	require.NoError(t, s.SetCredential("tab", false))
	tok, ok := s.Credential()
	assert.True(t, ok)
	assert.Equal(t, "tab", tok)
}
