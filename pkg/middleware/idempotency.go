package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ravkun27/nftix/pkg/response"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency key
	IdempotencyKeyHeader = "Idempotency-Key"
	// ContextKeyIdempotencyKey is the context key for idempotency key
	ContextKeyIdempotencyKey = "idempotency_key"
	// DefaultIdempotencyTTL keeps completed records long enough for client retries
	DefaultIdempotencyTTL = 10 * time.Minute
	// DefaultProcessingTTL bounds how long an abandoned request blocks its key
	DefaultProcessingTTL = time.Minute
	// IdempotencyKeyPrefix is the Redis key prefix for idempotency records
	IdempotencyKeyPrefix = "idempotency:"
)

// IdempotencyStatus represents the status of an idempotency record
type IdempotencyStatus string

const (
	StatusProcessing IdempotencyStatus = "processing"
	StatusCompleted  IdempotencyStatus = "completed"
)

// IdempotencyRecord stores the state of an idempotent request
type IdempotencyRecord struct {
	Key          string            `json:"key"`
	Status       IdempotencyStatus `json:"status"`
	RequestHash  string            `json:"request_hash"`
	ResponseCode int               `json:"response_code"`
	ResponseBody string            `json:"response_body"`
	CreatedAt    time.Time         `json:"created_at"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
}

// RedisClient is the subset of go-redis the middleware needs
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// IdempotencyConfig holds configuration for idempotency middleware
type IdempotencyConfig struct {
	Redis RedisClient
	// TTL for completed records
	TTL time.Duration
	// ProcessingTTL for records whose request is still running
	ProcessingTTL time.Duration
	// Scope namespaces keys by caller identity, so two wallets sending the
	// same key never share a record
	Scope func(*gin.Context) string
}

// DefaultIdempotencyConfig returns default configuration
func DefaultIdempotencyConfig(client RedisClient) *IdempotencyConfig {
	return &IdempotencyConfig{
		Redis:         client,
		TTL:           DefaultIdempotencyTTL,
		ProcessingTTL: DefaultProcessingTTL,
	}
}

// Idempotency replays the stored response when a request repeats its
// Idempotency-Key. Requests without the header pass through untouched, and
// Redis failures fail open. Server errors are not stored, so the client can
// retry them under the same key.
func Idempotency(config *IdempotencyConfig) gin.HandlerFunc {
	if config.TTL <= 0 {
		config.TTL = DefaultIdempotencyTTL
	}
	if config.ProcessingTTL <= 0 {
		config.ProcessingTTL = DefaultProcessingTTL
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || config.Redis == nil {
			c.Next()
			return
		}
		c.Set(ContextKeyIdempotencyKey, key)

		ctx := c.Request.Context()
		scope := ""
		if config.Scope != nil {
			scope = config.Scope(c)
		}
		redisKey := idempotencyRedisKey(scope, key)
		requestHash, err := hashRequest(c)
		if err != nil {
			response.BadRequest(c, "Failed to read request body")
			c.Abort()
			return
		}

		existing, err := getIdempotencyRecord(ctx, config.Redis, redisKey)
		if err != nil && !errors.Is(err, redis.Nil) {
			c.Next()
			return
		}
		if existing != nil {
			replay(c, existing, requestHash)
			return
		}

		record := &IdempotencyRecord{
			Key:         key,
			Status:      StatusProcessing,
			RequestHash: requestHash,
			CreatedAt:   time.Now(),
		}
		if !trySetIdempotencyRecord(ctx, config.Redis, redisKey, record, config.ProcessingTTL) {
			// lost the race to another request with the same key
			if existing, _ = getIdempotencyRecord(ctx, config.Redis, redisKey); existing != nil {
				replay(c, existing, requestHash)
				return
			}
		}

		rw := &idempotencyResponseWriter{ResponseWriter: c.Writer, body: bytes.NewBuffer(nil)}
		c.Writer = rw

		c.Next()

		// the request context may already be cancelled by now
		saveCtx := context.WithoutCancel(ctx)
		status := rw.Status()
		if status >= http.StatusInternalServerError {
			_ = config.Redis.Del(saveCtx, redisKey).Err()
			return
		}

		now := time.Now()
		record.Status = StatusCompleted
		record.ResponseCode = status
		record.ResponseBody = rw.body.String()
		record.CompletedAt = &now
		_ = saveIdempotencyRecord(saveCtx, config.Redis, redisKey, record, config.TTL)
	}
}

// GetIdempotencyKey extracts idempotency key from gin context
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	key, exists := c.Get(ContextKeyIdempotencyKey)
	if !exists {
		return "", false
	}
	k, ok := key.(string)
	return k, ok
}

func replay(c *gin.Context, record *IdempotencyRecord, requestHash string) {
	switch {
	case record.RequestHash != requestHash:
		response.Error(c, http.StatusUnprocessableEntity, "IDEMPOTENCY_KEY_REUSED",
			"Idempotency key already used with a different request", "")
	case record.Status == StatusProcessing:
		response.Error(c, http.StatusConflict, "REQUEST_IN_PROGRESS",
			"A request with this idempotency key is already being processed", "")
	default:
		c.Header("Idempotent-Replayed", "true")
		c.Data(record.ResponseCode, "application/json; charset=utf-8", []byte(record.ResponseBody))
	}
	c.Abort()
}

// idempotencyResponseWriter captures response for caching
type idempotencyResponseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *idempotencyResponseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func idempotencyRedisKey(scope, key string) string {
	if scope == "" {
		return IdempotencyKeyPrefix + key
	}
	return IdempotencyKeyPrefix + scope + ":" + key
}

// hashRequest fingerprints method, path and body. The body is restored for
// the handler.
func hashRequest(c *gin.Context) (string, error) {
	var body []byte
	if c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(c.Request.Body)
		if err != nil {
			return "", err
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}

	h := sha256.New()
	h.Write([]byte(c.Request.Method))
	h.Write([]byte(c.Request.URL.Path))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil)), nil
}

func getIdempotencyRecord(ctx context.Context, client RedisClient, key string) (*IdempotencyRecord, error) {
	result, err := client.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var record IdempotencyRecord
	if err := json.Unmarshal([]byte(result), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func trySetIdempotencyRecord(ctx context.Context, client RedisClient, key string, record *IdempotencyRecord, ttl time.Duration) bool {
	data, err := json.Marshal(record)
	if err != nil {
		return false
	}

	ok, err := client.SetNX(ctx, key, string(data), ttl).Result()
	return err == nil && ok
}

func saveIdempotencyRecord(ctx context.Context, client RedisClient, key string, record *IdempotencyRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, string(data), ttl).Err()
}
