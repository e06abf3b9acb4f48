package bunrepo

import (
	"context"
	"errors"

	"github.com/goliatone/go-groupbadges/pkg/domain"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type FileRepository struct {
	base baseRepository[domain.File]
}

func NewFileRepository(db *bun.DB) *FileRepository {
	handlers := repository.ModelHandlers[*domain.File]{
		NewRecord: func() *domain.File { return &domain.File{} },
		GetID:     func(f *domain.File) uuid.UUID { return f.ID },
		SetID: func(f *domain.File, id uuid.UUID) {
			f.ID = id
		},
		GetIdentifier:      func() string { return "name" },
		GetIdentifierValue: func(f *domain.File) string { return f.Name },
	}
	return &FileRepository{
		base: newBaseRepository[domain.File](db, handlers, func(f *domain.File) *domain.RecordMeta { return &f.RecordMeta }),
	}
}

func (r *FileRepository) Create(ctx context.Context, file *domain.File) error {
	if file == nil {
		return store.ErrNotFound
	}
	if file.Name == "" || file.URL == "" {
		return errors.New("file name and url are required")
	}
	return r.base.createUnique(ctx, file, withField("name", file.Name))
}

func (r *FileRepository) Update(ctx context.Context, file *domain.File) error {
	return r.base.update(ctx, file)
}

func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.File, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *FileRepository) GetByName(ctx context.Context, name string) (*domain.File, error) {
	return r.base.first(ctx, withField("name", name))
}

func (r *FileRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.File], error) {
	return r.base.list(ctx, opts)
}

func (r *FileRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}
