package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/storage"
	"github.com/google/uuid"
)

// AvatarService stores business card and link hub avatars for owned tags.
type AvatarService struct {
	tags    *TagService
	storage *storage.AvatarStorage
}

func NewAvatarService(tags *TagService, storage *storage.AvatarStorage) *AvatarService {
	return &AvatarService{tags: tags, storage: storage}
}

func (s *AvatarService) Upload(ctx context.Context, owner, tagID uuid.UUID, data []byte) (string, error) {
	if _, err := s.tags.owned(ctx, owner, tagID); err != nil {
		return "", err
	}
	return s.storage.Save(tagID, data)
}

func (s *AvatarService) Remove(ctx context.Context, owner, tagID uuid.UUID, avatarURL string) error {
	if _, err := s.tags.owned(ctx, owner, tagID); err != nil {
		return err
	}
	return s.storage.Delete(tagID, avatarURL)
}
