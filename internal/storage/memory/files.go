package memory

import (
	"context"
	"errors"

	"github.com/goliatone/go-groupbadges/pkg/domain"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/store"
	"github.com/google/uuid"
)

type FileRepository struct {
	base baseMemoryRepo[domain.File]
}

func NewFileRepository() *FileRepository {
	return &FileRepository{
		base: newBaseMemoryRepo("file", func(f *domain.File) *domain.RecordMeta { return &f.RecordMeta }),
	}
}

func (r *FileRepository) Create(ctx context.Context, record *domain.File) error {
	if record == nil {
		return store.ErrNotFound
	}
	if record.Name == "" || record.URL == "" {
		return errors.New("file name and url are required")
	}
	return r.base.create(ctx, record, func(existing *domain.File) bool {
		return existing.Name != record.Name
	})
}

func (r *FileRepository) Update(ctx context.Context, record *domain.File) error {
	return r.base.update(ctx, record)
}

func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.File, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *FileRepository) GetByName(ctx context.Context, name string) (*domain.File, error) {
	return r.base.find(ctx, func(f *domain.File) bool { return f.Name == name })
}

func (r *FileRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.File], error) {
	return r.base.list(ctx, opts)
}

func (r *FileRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}
