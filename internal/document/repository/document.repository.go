package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quickshare/internal/common"
	"quickshare/internal/document/model"
	"quickshare/pkg/logger"

	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint breach.
const uniqueViolation = "23505"

type DocumentRepository struct {
	DB *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

// Create persists a new document row. A short_id collision surfaces as
// common.ErrShortIDConflict so the caller can retry with a fresh id.
func (r *DocumentRepository) Create(ctx context.Context, doc *model.Document) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO documents (id, short_id, content, owner_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NOW(), NOW())`,
		doc.ID, doc.ShortID, doc.Content, doc.OwnerHash)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return common.ErrShortIDConflict
		}
		logger.Sugar.Errorf("Failed to create document %s: %v", doc.ShortID, err)
		return fmt.Errorf("%w: %v", common.ErrStore, err)
	}
	return nil
}

// GetContent returns the current content for a short id. Public read, no
// credential involved.
func (r *DocumentRepository) GetContent(ctx context.Context, shortID string) (string, error) {
	var content string
	err := r.DB.QueryRowContext(ctx,
		"SELECT content FROM documents WHERE short_id = $1", shortID).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", common.ErrNotFound
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to read document %s: %v", shortID, err)
		return "", fmt.Errorf("%w: %v", common.ErrStore, err)
	}
	return content, nil
}

// GetForOwner returns content and stored owner digest so the service can run
// the authorization check before handing content to an editor.
func (r *DocumentRepository) GetForOwner(ctx context.Context, shortID string) (string, []byte, error) {
	var content string
	var ownerHash []byte
	err := r.DB.QueryRowContext(ctx,
		"SELECT content, owner_hash FROM documents WHERE short_id = $1", shortID).Scan(&content, &ownerHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, common.ErrNotFound
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to read document %s for owner: %v", shortID, err)
		return "", nil, fmt.Errorf("%w: %v", common.ErrStore, err)
	}
	return content, ownerHash, nil
}

// GetOwnerHash returns only the stored owner digest for a short id.
func (r *DocumentRepository) GetOwnerHash(ctx context.Context, shortID string) ([]byte, error) {
	var ownerHash []byte
	err := r.DB.QueryRowContext(ctx,
		"SELECT owner_hash FROM documents WHERE short_id = $1", shortID).Scan(&ownerHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to get owner hash for %s: %v", shortID, err)
		return nil, fmt.Errorf("%w: %v", common.ErrStore, err)
	}
	return ownerHash, nil
}

// UpdateContent replaces the whole content of a document and bumps updated_at.
// The write is a single atomic statement; readers see either the old or the
// new content, never a mixture.
func (r *DocumentRepository) UpdateContent(ctx context.Context, shortID, content string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE documents SET content = $1, updated_at = NOW() WHERE short_id = $2`,
		content, shortID)
	if err != nil {
		logger.Sugar.Errorf("Failed to update content for %s: %v", shortID, err)
		return fmt.Errorf("%w: %v", common.ErrStore, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStore, err)
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}
