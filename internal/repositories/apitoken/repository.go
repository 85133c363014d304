package apitoken

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/d-krupke/thesis-manager/pkg/database"
	"github.com/d-krupke/thesis-manager/pkg/models"
	"github.com/d-krupke/thesis-manager/pkg/tracing"
)

// Repository handles API token persistence. Tokens are stored as SHA-256
// digests; the plaintext key exists only in the Create response.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new API token repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create issues a token for the given username and returns the plaintext key
func (r *Repository) Create(ctx context.Context, username string) (string, *models.APIToken, error) {
	ctx, span := tracing.StartSpan(ctx, "apitoken.Repository.Create")
	defer span.End()

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to generate token")
	}
	key := hex.EncodeToString(raw)

	token := models.APIToken{
		ID:        uuid.New().String(),
		Username:  username,
		Digest:    digest(key),
		CreatedAt: time.Now().UTC(),
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("api_tokens")
	sb.Cols("id", "username", "digest", "created_at")
	sb.Values(token.ID, token.Username, token.Digest, token.CreatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"username": username}).Error("Failed to create api token")
		return "", nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create api token")
	}

	return key, &token, nil
}

// Verify resolves a plaintext key to its username and touches last_used_at.
// It satisfies the authentication middleware's TokenVerifier.
func (r *Repository) Verify(ctx context.Context, key string) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "apitoken.Repository.Verify")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "username", "digest", "created_at", "last_used_at")
	sb.From("api_tokens")
	sb.Where(sb.Equal("digest", digest(key)))

	query, args := sb.Build()
	var token models.APIToken
	if err := r.db.GetContext(ctx, &token, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return "", httperror.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to verify api token")
		return "", httperror.NewHTTPError(http.StatusInternalServerError, "failed to verify token")
	}

	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update("api_tokens")
	ub.Set(ub.Assign("last_used_at", time.Now().UTC()))
	ub.Where(ub.Equal("id", token.ID))

	query, args = ub.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		// a failed touch does not invalidate the request
		r.logger.WithContext(ctx).WithError(err).Warn("Failed to update token last_used_at")
	}

	return token.Username, nil
}

// Revoke deletes the token with the given ID
func (r *Repository) Revoke(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "apitoken.Repository.Revoke")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	sb.DeleteFrom("api_tokens")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to revoke api token")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to revoke token")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, "token not found")
	}

	return nil
}

func digest(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
