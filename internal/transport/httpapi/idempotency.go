package httpapi

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour

	// maxRequestBodyBytes ограничивает тело мутирующего запроса.
	maxRequestBodyBytes = 1 << 20
)

// responseRecorder буферизует ответ обработчика, чтобы сохранить его
// в кэше идемпотентности до отправки клиенту.
type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (rec *responseRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *responseRecorder) Write(p []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	rec.body.Write(p)
	return rec.ResponseWriter.Write(p)
}

// idempotencyMiddleware обслуживает заголовок Idempotency-Key на
// мутирующих маршрутах: повторный запрос с тем же ключом и тем же телом
// получает сохранённый ответ, не выполняя операцию второй раз.
func (h *Handler) idempotencyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(idempotencyHeader)
		if h.idempotency == nil || key == "" {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
		if err != nil {
			h.respondBadRequest(w, "failed to read request body")
			return
		}
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		reqHash := requestHash(r.Method, r.URL.Path, body)

		record, err := h.idempotency.CreateProcessing(key, reqHash, time.Now().UTC().Add(idempotencyTTL))
		if err != nil {
			h.replayIdempotency(w, err, record)
			return
		}

		rec := &responseRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		h.cacheIdempotencyResult(key, rec)
	})
}

func (h *Handler) replayIdempotency(w http.ResponseWriter, createErr error, record domain.IdempotencyRecord) {
	switch {
	case errors.Is(createErr, domain.ErrIdempotencyHashMismatch):
		h.respondJSON(w, http.StatusConflict, errorResponse{
			Error: "idempotency key is already used with different request payload",
		})
	case errors.Is(createErr, domain.ErrIdempotencyKeyAlreadyExists):
		switch record.Status {
		case domain.IdempotencyStatusDone, domain.IdempotencyStatusFailed:
			h.writeCachedResponse(w, record)
		case domain.IdempotencyStatusProcessing:
			h.respondJSON(w, http.StatusConflict, errorResponse{
				Error: "request with the same idempotency key is already processing",
			})
		default:
			h.respondJSON(w, http.StatusInternalServerError, errorResponse{
				Error: "unknown idempotency record status",
			})
		}
	default:
		h.logger.WithError(createErr).Warn("failed to create idempotency record")
		h.respondJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "failed to initialize idempotent request",
		})
	}
}

func (h *Handler) writeCachedResponse(w http.ResponseWriter, record domain.IdempotencyRecord) {
	status := record.HTTPStatus
	if status == 0 {
		status = http.StatusOK
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Idempotency-Replayed", "true")
	w.WriteHeader(status)
	if len(record.ResponseBody) > 0 {
		if _, err := w.Write(record.ResponseBody); err != nil {
			h.logger.WithError(err).WithField("idempotency_key", record.Key).
				Warn("failed to write cached idempotent response")
		}
	}
}

func (h *Handler) cacheIdempotencyResult(key string, rec *responseRecorder) {
	status := rec.status
	if status == 0 {
		status = http.StatusOK
	}

	var err error
	if status < http.StatusBadRequest {
		err = h.idempotency.MarkDone(key, rec.body.Bytes(), status)
	} else {
		err = h.idempotency.MarkFailed(key, rec.body.Bytes(), status)
	}
	if err != nil {
		h.logger.WithError(err).WithField("idempotency_key", key).
			Warn("failed to store idempotent response")
	}
}

func requestHash(method, path string, body []byte) string {
	sum := sha256.New()
	sum.Write([]byte(method))
	sum.Write([]byte{0})
	sum.Write([]byte(path))
	sum.Write([]byte{0})
	sum.Write(body)
	return hex.EncodeToString(sum.Sum(nil))
}
