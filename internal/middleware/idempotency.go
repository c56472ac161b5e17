package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/segyhp/fundease/pkg/errors"
	"github.com/segyhp/fundease/pkg/response"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"

	// provisionalLockTTL bounds how long an unfinished request holds its key.
	provisionalLockTTL = 60 * time.Second
	storeTimeout       = 2 * time.Second
	maxKeyLength       = 255
	// maxBodyBytes matches the handlers' JSON body cap.
	maxBodyBytes       = 1 << 20
)

type entry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	ContentType string    `json:"content_type,omitempty"`
	Body        []byte    `json:"body,omitempty"`
	BodySHA256  string    `json:"body_sha256"`
	CreatedAt   time.Time `json:"created_at"`
}

// Idempotency replays the stored response when a mutating request is repeated
// with the same Idempotency-Key. Requests without the header pass through.
type Idempotency struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewIdempotency(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Idempotency {
	if logger == nil {
		logger = slog.Default()
	}
	return &Idempotency{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (m *Idempotency) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		idemKey := strings.TrimSpace(r.Header.Get(HeaderIdempotencyKey))
		if idemKey == "" {
			next.ServeHTTP(w, r)
			return
		}
		if len(idemKey) > maxKeyLength {
			response.BadRequest(w, "Idempotency-Key must be at most 255 characters")
			return
		}

		var body []byte
		if r.Body != nil {
			var err error
			if body, err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes)); err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					response.Error(w, http.StatusRequestEntityTooLarge, apperrors.ErrCodeValidation, "request body too large")
					return
				}
				response.BadRequest(w, "unable to read request body")
				return
			}
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		hash := bodyHash(body)

		key := buildKey(r.Method, r.URL.Path, idemKey)
		ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
		defer cancel()

		ok, err := m.provisionalSet(ctx, key, entry{InProgress: true, BodySHA256: hash, CreatedAt: nowUTC()})
		if err != nil {
			m.logger.ErrorContext(r.Context(), "idempotency store unavailable", "key", key, "error", err)
			response.Error(w, http.StatusServiceUnavailable, apperrors.ErrCodeCache, "idempotency store unavailable")
			return
		}

		if !ok {
			m.replay(ctx, w, r, key, hash)
			return
		}

		rec := &recorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)

		saveCtx, saveCancel := context.WithTimeout(context.WithoutCancel(r.Context()), storeTimeout)
		defer saveCancel()

		// server failures release the key so the client can retry
		if rec.code >= http.StatusInternalServerError {
			if err := m.client.Del(saveCtx, key).Err(); err != nil {
				m.logger.WarnContext(r.Context(), "releasing idempotency key failed", "key", key, "error", err)
			}
			return
		}

		final := entry{
			Code:        rec.code,
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.buf.Bytes(),
			BodySHA256:  hash,
			CreatedAt:   nowUTC(),
		}
		if err := m.saveFinal(saveCtx, key, final); err != nil {
			m.logger.WarnContext(r.Context(), "storing idempotent response failed", "key", key, "error", err)
		}
	})
}

func (m *Idempotency) replay(ctx context.Context, w http.ResponseWriter, r *http.Request, key, hash string) {
	cur, err := m.loadEntry(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			response.Error(w, http.StatusConflict, apperrors.ErrCodeInvalidState, "request is already in progress")
			return
		}
		m.logger.ErrorContext(r.Context(), "loading idempotent response failed", "key", key, "error", err)
		response.Error(w, http.StatusServiceUnavailable, apperrors.ErrCodeCache, "idempotency store unavailable")
		return
	}

	if cur.BodySHA256 != hash {
		response.Error(w, http.StatusConflict, apperrors.ErrCodeInvalidState, "Idempotency-Key reused with a different body")
		return
	}
	if cur.InProgress {
		response.Error(w, http.StatusConflict, apperrors.ErrCodeInvalidState, "request is already in progress")
		return
	}

	if cur.ContentType != "" {
		w.Header().Set("Content-Type", cur.ContentType)
	}
	w.Header().Set(HeaderReplayed, "true")
	w.WriteHeader(cur.Code)
	_, _ = w.Write(cur.Body)
}

func (m *Idempotency) provisionalSet(ctx context.Context, key string, e entry) (bool, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	return m.client.SetNX(ctx, key, payload, provisionalLockTTL).Result()
}

func (m *Idempotency) loadEntry(ctx context.Context, key string) (entry, error) {
	var e entry
	v, err := m.client.Get(ctx, key).Bytes()
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(v, &e)
	return e, err
}

func (m *Idempotency) saveFinal(ctx context.Context, key string, e entry) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return m.client.Set(ctx, key, payload, m.ttl).Err()
}

type recorder struct {
	http.ResponseWriter
	buf  bytes.Buffer
	code int
}

func (r *recorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *recorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func bodyHash(b []byte) string {
	s := sha256.Sum256(b)
	return hex.EncodeToString(s[:])
}

func nowUTC() time.Time { return time.Now().UTC() }

func buildKey(method, path, idemKey string) string {
	return "idempotency:" + strings.ToLower(method) + ":" + path + ":" + idemKey
}
