package repositoryimpl

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kazz187/goalboard/internal/goal"
	"github.com/kazz187/goalboard/pkg/cerr"
	"github.com/kazz187/goalboard/pkg/storage"
)

var _ goal.DocumentRepository = (*YAMLRepository)(nil)

const boardsPrefix = "boards"

type YAMLRepository struct {
	storage storage.Storage
	key     string
}

// NewYAMLRepository stores the document under boards/<key>.yaml.
func NewYAMLRepository(s storage.Storage, key string) *YAMLRepository {
	if key == "" {
		key = "default"
	}
	return &YAMLRepository{storage: s, key: key}
}

func (r *YAMLRepository) path() string {
	return fmt.Sprintf("%s/%s.yaml", boardsPrefix, r.key)
}

func (r *YAMLRepository) Load(ctx context.Context) (*goal.Document, error) {
	data, err := r.storage.Read(ctx, r.path())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, cerr.NewError(cerr.NotFound, fmt.Sprintf("no board saved as %q", r.key), err)
		}
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to read board %s: %w", r.key, err))
	}
	var doc goal.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to unmarshal board: %w", err))
	}
	return &doc, nil
}

func (r *YAMLRepository) Save(ctx context.Context, doc *goal.Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal board: %w", err))
	}
	if err := r.storage.Write(ctx, r.path(), data); err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to write board %s: %w", r.key, err))
	}
	return nil
}
