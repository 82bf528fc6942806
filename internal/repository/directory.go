package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/openscholar/reviewd/internal/model"
)

// EditorRepository resolves editorial board members. Editors are external
// entities; papers reference them by id only.
type EditorRepository interface {
	// GetByLogin resolves an editor by handle.
	GetByLogin(ctx context.Context, login string) (*model.Editor, error)
	// GetByID loads an editor by id.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Editor, error)
}

// TrackRepository resolves subject tracks.
type TrackRepository interface {
	// GetByID loads a track by id.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Track, error)
}
