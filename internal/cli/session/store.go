// Package session owns the client credential: which storage tier holds it,
// whether the user is logged in, and what name to display for them.
package session

import (
	"errors"
	"fmt"
	"strings"

	"ClinicDesk/internal/cli/repo"
)

// DefaultDisplayName is shown when no identity can be found.
const DefaultDisplayName = "User"

// ErrNoCredential is returned by operations that need a stored credential.
var ErrNoCredential = errors.New("not logged in")

// Tier names a storage tier.
type Tier int

const (
	TierNone Tier = iota
	TierDurable
	TierTab
)

func (t Tier) String() string {
	switch t {
	case TierDurable:
		return "durable"
	case TierTab:
		return "tab"
	default:
		return "none"
	}
}

// Options tunes tier handling.
type Options struct {
	// ExclusiveTiers clears the alternate tier whenever a credential is written.
	ExclusiveTiers bool
}

// Store holds the credential in one of two independent tiers.
// Lookups always consult the durable tier first.
type Store struct {
	durable repo.KVStore
	tab     repo.KVStore
	opts    Options
}

func NewStore(durable, tab repo.KVStore, opts Options) *Store {
	return &Store{durable: durable, tab: tab, opts: opts}
}

func (s *Store) tier(persist bool) (selected, other repo.KVStore) {
	if persist {
		return s.durable, s.tab
	}
	return s.tab, s.durable
}

// SetCredential writes token to the durable tier when persist is true, else to the tab tier.
// The other tier is left untouched unless Options.ExclusiveTiers is set.
func (s *Store) SetCredential(token string, persist bool) error {
	if token == "" {
		return errors.New("empty token")
	}
	selected, other := s.tier(persist)
	if err := selected.Set(repo.KeyToken, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if s.opts.ExclusiveTiers {
		if err := clearTier(other); err != nil {
			return fmt.Errorf("clear other tier: %w", err)
		}
	}
	return nil
}

// SetIdentity caches the display identity next to the credential.
// An empty username is replaced by the local part of email.
func (s *Store) SetIdentity(email, username string, persist bool) error {
	selected, _ := s.tier(persist)
	if username == "" {
		username, _, _ = strings.Cut(email, "@")
	}
	if email != "" {
		if err := selected.Set(repo.KeyEmail, email); err != nil {
			return err
		}
	}
	if username != "" {
		if err := selected.Set(repo.KeyUsername, username); err != nil {
			return err
		}
	}
	return nil
}

// Credential returns the durable token if present, else the tab token.
func (s *Store) Credential() (string, bool) {
	tok, tier := s.lookup(repo.KeyToken)
	return tok, tier != TierNone
}

// CredentialTier reports which tier currently supplies the credential.
func (s *Store) CredentialTier() Tier {
	_, tier := s.lookup(repo.KeyToken)
	return tier
}

// Tiers reports the token presence in each tier independently.
func (s *Store) Tiers() (durable, tab bool) {
	return has(s.durable, repo.KeyToken), has(s.tab, repo.KeyToken)
}

func (s *Store) IsAuthenticated() bool {
	_, ok := s.Credential()
	return ok
}

// Clear removes the credential and cached identity from both tiers.
func (s *Store) Clear() error {
	return errors.Join(clearTier(s.durable), clearTier(s.tab))
}

// DisplayIdentity returns a cached email, then a cached username, then the email
// decoded from the token payload, else DefaultDisplayName.
func (s *Store) DisplayIdentity() string {
	if v, tier := s.lookup(repo.KeyEmail); tier != TierNone {
		return v
	}
	if v, tier := s.lookup(repo.KeyUsername); tier != TierNone {
		return v
	}
	tok, ok := s.Credential()
	if !ok {
		return DefaultDisplayName
	}
	id, err := DecodeIdentity(tok)
	if err != nil || id.Email == "" {
		return DefaultDisplayName
	}
	return id.Email
}

// Email returns the caller's email as the backend knows it, taken from the token payload.
func (s *Store) Email() (string, error) {
	tok, ok := s.Credential()
	if !ok {
		return "", ErrNoCredential
	}
	id, err := DecodeIdentity(tok)
	if err != nil {
		return "", err
	}
	email := id.AnyEmail()
	if email == "" {
		return "", fmt.Errorf("%w: no email claim", ErrMalformedToken)
	}
	return email, nil
}

func (s *Store) lookup(key string) (string, Tier) {
	if v, err := s.durable.Get(key); err == nil && v != "" {
		return v, TierDurable
	}
	if v, err := s.tab.Get(key); err == nil && v != "" {
		return v, TierTab
	}
	return "", TierNone
}

func has(st repo.KVStore, key string) bool {
	v, err := st.Get(key)
	return err == nil && v != ""
}

func clearTier(st repo.KVStore) error {
	var errs []error
	for _, k := range []string{repo.KeyToken, repo.KeyEmail, repo.KeyUsername} {
		if err := st.Delete(k); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", k, err))
		}
	}
	return errors.Join(errs...)
}
