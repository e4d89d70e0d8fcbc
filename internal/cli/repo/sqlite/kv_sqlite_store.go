package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"ClinicDesk/internal/cli/crypto"
	"ClinicDesk/internal/cli/repo"
)

const (
	dbFileName  = "session.sqlite"
	keyFileName = "session.key"
)

// KVStore - durable-уровень сессии в SQLite; значения хранятся зашифрованными.
type KVStore struct {
	db     *sql.DB
	sealer *crypto.Sealer
}

var _ repo.KVStore = (*KVStore)(nil)

// Open открывает (и создаёт при необходимости) БД и ключ шифрования в каталоге dir.
// Вторым значением возвращается путь к БД.
func Open(dir string) (*KVStore, string, error) {
	if dir == "" {
		return nil, "", errors.New("empty store dir")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, "", err
	}
	sealer, err := crypto.NewSealerFromFile(filepath.Join(dir, keyFileName))
	if err != nil {
		return nil, "", err
	}
	dbPath := filepath.Join(dir, dbFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, "", err
	}
	return &KVStore{db: db, sealer: sealer}, dbPath, nil
}

// Close закрывает соединение с БД.
func (s *KVStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Migrate доводит схему до последней версии; повторный вызов ничего не делает.
func (s *KVStore) Migrate() error {
	return migrate(s.db)
}

func (s *KVStore) Get(key string) (string, error) {
	var ct, nonce []byte
	err := s.db.QueryRow(`SELECT value_cipher, value_nonce FROM kv WHERE key = ?`, key).Scan(&ct, &nonce)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", repo.ErrNotFound
		}
		return "", err
	}
	plain, err := s.sealer.Open(ct, nonce, []byte(key))
	if err != nil {
		return "", fmt.Errorf("decrypt %q: %w", key, err)
	}
	if len(plain) == 0 {
		return "", repo.ErrNotFound
	}
	return string(plain), nil
}

func (s *KVStore) Set(key, value string) error {
	if key == "" {
		return errors.New("empty key")
	}
	ct, nonce, err := s.sealer.Seal([]byte(value), []byte(key))
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO kv(key, value_cipher, value_nonce, updated_at) VALUES(?, ?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET value_cipher = excluded.value_cipher,
            value_nonce = excluded.value_nonce, updated_at = excluded.updated_at`,
		key, ct, nonce, time.Now().Unix())
	return err
}

func (s *KVStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}
