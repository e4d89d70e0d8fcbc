package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

var log = zap.NewNop().Sugar()

// SetLogger задаёт логгер для всех middleware пакета.
func SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		log = l
	}
}

type responseData struct {
	status int
	size   int
}

// loggingResponseWriter запоминает код ответа и размер тела.
type loggingResponseWriter struct {
	http.ResponseWriter
	responseData *responseData
}

func (r *loggingResponseWriter) Write(b []byte) (int, error) {
	size, err := r.ResponseWriter.Write(b)
	r.responseData.size += size
	return size, err
}

func (r *loggingResponseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.responseData.status = statusCode
}

// WithLogging пишет в лог метод, путь, статус, размер, длительность и X-Request-ID.
func WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rd := &responseData{status: http.StatusOK}
		lw := &loggingResponseWriter{ResponseWriter: w, responseData: rd}

		next.ServeHTTP(lw, r)

		log.Infow("request",
			"method", r.Method,
			"uri", r.RequestURI,
			"status", rd.status,
			"size", rd.size,
			"duration", time.Since(start),
			"request_id", r.Header.Get("X-Request-ID"),
		)
	})
}
