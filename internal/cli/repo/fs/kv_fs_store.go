package fs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"ClinicDesk/internal/cli/repo"
)

// AppDirName - имя каталога приложения в конфиг- и temp-каталогах пользователя.
const AppDirName = "ClinicDesk"

// KVStore - файловое хранилище уровня сессии: один файл на ключ внутри Dir.
type KVStore struct {
	Dir string
}

var _ repo.KVStore = KVStore{}

// NewDurable returns the tier that survives restarts: <UserConfigDir>/ClinicDesk.
func NewDurable() (KVStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return KVStore{}, err
	}
	return KVStore{Dir: filepath.Join(dir, AppDirName)}, nil
}

// NewTab returns the tab-scoped tier: a per-terminal directory under the OS temp dir.
// An empty id falls back to the parent process (the shell) PID.
func NewTab(id string) KVStore {
	if id == "" {
		id = strconv.Itoa(os.Getppid())
	}
	return KVStore{Dir: filepath.Join(os.TempDir(), AppDirName, "tab-"+sanitize(id))}
}

var keyRe = regexp.MustCompile(`^[a-z_]+$`)

func (s KVStore) path(key string, create bool) (string, error) {
	if !keyRe.MatchString(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	if s.Dir == "" {
		return "", errors.New("empty store dir")
	}
	if create {
		if err := os.MkdirAll(s.Dir, 0o700); err != nil {
			return "", err
		}
	}
	return filepath.Join(s.Dir, key), nil
}

// Get читает значение ключа из файла.
func (s KVStore) Get(key string) (string, error) {
	p, err := s.path(key, false)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", repo.ErrNotFound
		}
		return "", err
	}
	// обрезаем завершающие переводы строки/пробелы
	v := strings.TrimRight(string(b), " \t\r\n")
	if v == "" {
		return "", repo.ErrNotFound
	}
	return v, nil
}

// Set сохраняет значение ключа в файл с правами 0600.
func (s KVStore) Set(key, value string) error {
	p, err := s.path(key, true)
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(value), 0o600)
}

// Delete удаляет файл ключа; отсутствие файла ошибкой не считается.
func (s KVStore) Delete(key string) error {
	p, err := s.path(key, false)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

var unsafeRe = regexp.MustCompile(`[^A-Za-z0-9._-]`)

func sanitize(id string) string {
	return unsafeRe.ReplaceAllString(id, "_")
}
