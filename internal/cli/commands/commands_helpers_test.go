package commands

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"ClinicDesk/internal/config"
)

// withTempConfig переопределяет пользовательские каталоги на время теста,
// чтобы оба уровня сессии создавались в temp.
func withTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
		t.Setenv("TMP", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
		t.Setenv("HOME", dir)
		t.Setenv("TMPDIR", dir)
	}
	return dir
}

// newTestEnv поднимает фейковый API и возвращает конфиг клиента, указывающий на него.
func newTestEnv(t *testing.T, h http.Handler) *config.Config {
	t.Helper()
	withTempConfig(t)
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return &config.Config{
		APIURL:         ts.URL + "/api",
		DurableBackend: "fs",
		TabBackend:     "fs",
		TabID:          "test",
	}
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

// withStdin подменяет источник ввода для подсказок пароля.
func withStdin(t *testing.T, input string) {
	t.Helper()
	old := In
	In = strings.NewReader(input)
	t.Cleanup(func() { In = old })
}

// tokenFor выпускает JWT с email в claims, как это делает бэкенд.
func tokenFor(t *testing.T, email string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": email}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}
