package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"

	"quickshare/internal/common"
	"quickshare/internal/document/model"
	"quickshare/pkg/credential"
	"quickshare/socket"

	"github.com/google/uuid"
)

// shortIDBytes gives 128 bits of entropy per short id; collisions are left to
// the storage unique constraint, not to probability alone.
const shortIDBytes = 16

// maxCreateAttempts bounds short id regeneration on storage conflicts.
const maxCreateAttempts = 5

// Repository is the slice of the document store the service needs.
type Repository interface {
	Create(ctx context.Context, doc *model.Document) error
	GetContent(ctx context.Context, shortID string) (string, error)
	GetForOwner(ctx context.Context, shortID string) (string, []byte, error)
	GetOwnerHash(ctx context.Context, shortID string) ([]byte, error)
	UpdateContent(ctx context.Context, shortID, content string) error
}

type DocumentService struct {
	Repo Repository
	Hub  *socket.Hub
}

func NewDocumentService(repo Repository, hub *socket.Hub) *DocumentService {
	return &DocumentService{Repo: repo, Hub: hub}
}

// Publish stores new content owned by the supplied credential and returns the
// generated short id. The raw credential never touches storage; only its
// digest does.
func (s *DocumentService) Publish(ctx context.Context, content, creatorSecret string) (string, error) {
	if err := validateContent(content); err != nil {
		return "", err
	}
	if !credential.WellFormed(creatorSecret) {
		return "", fmt.Errorf("%w: missing or malformed creator_hash", common.ErrValidation)
	}

	ownerHash := credential.Hash(creatorSecret)
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		shortID, err := generateShortID()
		if err != nil {
			return "", fmt.Errorf("%w: %v", common.ErrStore, err)
		}
		doc := &model.Document{
			ID:        uuid.NewString(),
			ShortID:   shortID,
			Content:   content,
			OwnerHash: ownerHash,
		}
		err = s.Repo.Create(ctx, doc)
		if err == nil {
			return shortID, nil
		}
		if errors.Is(err, common.ErrShortIDConflict) {
			continue
		}
		return "", err
	}
	return "", fmt.Errorf("%w: could not allocate a unique short id", common.ErrStore)
}

// View returns the content for a short id. Reading is public: possession of
// the short id is the read capability.
func (s *DocumentService) View(ctx context.Context, shortID string) (string, error) {
	return s.Repo.GetContent(ctx, shortID)
}

// FetchForEdit returns content only after the credential check passes, so a
// stale or wrong credential fails loudly before the user starts editing
// instead of at save time.
func (s *DocumentService) FetchForEdit(ctx context.Context, shortID, creatorSecret string) (string, error) {
	if !credential.WellFormed(creatorSecret) {
		return "", fmt.Errorf("%w: missing or malformed creator_hash", common.ErrValidation)
	}
	content, ownerHash, err := s.Repo.GetForOwner(ctx, shortID)
	if err != nil {
		return "", err
	}
	if !credential.Verify(creatorSecret, ownerHash) {
		return "", common.ErrUnauthorized
	}
	return content, nil
}

// Update replaces the whole content of a document after re-verifying the
// credential. Last writer wins; there is no merge.
func (s *DocumentService) Update(ctx context.Context, shortID, creatorSecret, content string) error {
	if err := validateContent(content); err != nil {
		return err
	}
	if !credential.WellFormed(creatorSecret) {
		return fmt.Errorf("%w: missing or malformed creator_hash", common.ErrValidation)
	}

	ownerHash, err := s.Repo.GetOwnerHash(ctx, shortID)
	if err != nil {
		return err
	}
	if !credential.Verify(creatorSecret, ownerHash) {
		return common.ErrUnauthorized
	}

	if err := s.Repo.UpdateContent(ctx, shortID, content); err != nil {
		return err
	}

	if s.Hub != nil {
		s.Hub.Notify(shortID, content)
	}
	return nil
}

func validateContent(content string) error {
	if content == "" {
		return fmt.Errorf("%w: content must not be empty", common.ErrValidation)
	}
	// The bound is in characters, not bytes: multibyte content must not be
	// rejected early.
	if utf8.RuneCountInString(content) > model.MaxContentLength {
		return fmt.Errorf("%w: content exceeds %d characters", common.ErrValidation, model.MaxContentLength)
	}
	return nil
}

func generateShortID() (string, error) {
	b := make([]byte, shortIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
