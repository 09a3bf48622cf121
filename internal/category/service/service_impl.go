package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/picksmart/storesync/internal/category/domain"
	"github.com/picksmart/storesync/internal/clock"
	"github.com/picksmart/storesync/internal/config"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Importer *config.ImporterConfigHolder
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     domain.Repository
	genID    *snowflake.Node
	clock    clock.Clock
	importer *config.ImporterConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("category.service"),
		repo:     p.Repo,
		genID:    p.GenID,
		clock:    p.Clock,
		importer: p.Importer,
	}
}

func (s *Service) EnsureTree(ctx context.Context, paths []string) (domain.EnsureResult, error) {
	separator := s.importer.Get().CategorySeparator

	// Expand every breadcrumb into its full prefix set so ancestors exist
	// even when no product references them directly.
	pathSet := make(map[string]struct{})
	for _, raw := range paths {
		segments := splitPath(raw, separator)
		for i := 1; i <= len(segments); i++ {
			pathSet[strings.Join(segments[:i], separator)] = struct{}{}
		}
	}
	if len(pathSet) == 0 {
		return domain.EnsureResult{}, nil
	}

	// Lexicographic order puts every proper prefix before its extensions,
	// so parents are always persisted before their children.
	ordered := make([]string, 0, len(pathSet))
	for path := range pathSet {
		ordered = append(ordered, path)
	}
	sort.Strings(ordered)

	var result domain.EnsureResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, path := range ordered {
			created, err := s.ensureNode(ctx, tx, path, separator)
			if err != nil {
				return fmt.Errorf("ensure category %q: %w", path, err)
			}
			if created {
				result.Created++
			} else {
				result.Existed++
			}
		}
		return nil
	})
	if err != nil {
		return domain.EnsureResult{}, err
	}

	s.log.Info("category tree ensured",
		zap.Int("created", result.Created),
		zap.Int("existed", result.Existed),
	)
	return result, nil
}

func (s *Service) ensureNode(ctx context.Context, tx *gorm.DB, path, separator string) (bool, error) {
	if _, err := s.repo.FindByPath(ctx, tx, path); err == nil {
		return false, nil
	} else if err != domain.ErrNotFound {
		return false, err
	}

	segments := strings.Split(path, separator)
	name := segments[len(segments)-1]
	level := len(segments) - 1

	var parent *domain.Category
	if level > 0 {
		parentPath := strings.Join(segments[:len(segments)-1], separator)
		found, err := s.repo.FindByPath(ctx, tx, parentPath)
		if err != nil {
			return false, err
		}
		parent = found
	}

	finalName, err := s.resolveName(ctx, tx, name, parent)
	if err != nil {
		return false, err
	}

	now := s.clock.Now()
	category := &domain.Category{
		ID:        s.genID.Generate().Int64(),
		Name:      finalName,
		Slug:      slug.Make(finalName),
		Path:      path,
		Level:     level,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if parent != nil {
		parentID := parent.ID
		category.ParentID = &parentID
	}

	if err := s.repo.Create(ctx, tx, category); err != nil {
		return false, err
	}
	return true, nil
}

// resolveName keeps category names globally unique. A leaf whose name is
// already taken by a node on a different path gets qualified with its parent
// name, e.g. "Mats" under "Fitness" becomes "Fitness Mats".
func (s *Service) resolveName(ctx context.Context, tx *gorm.DB, name string, parent *domain.Category) (string, error) {
	_, err := s.repo.FindByName(ctx, tx, name)
	if err == domain.ErrNotFound {
		return name, nil
	}
	if err != nil {
		return "", err
	}

	if parent == nil {
		return "", fmt.Errorf("%w: root name %q already taken", domain.ErrInvalidPath, name)
	}

	qualified := parent.Name + " " + name
	if _, err := s.repo.FindByName(ctx, tx, qualified); err == domain.ErrNotFound {
		s.log.Debug("category name qualified",
			zap.String("name", name),
			zap.String("qualified", qualified),
		)
		return qualified, nil
	} else if err != nil {
		return "", err
	}
	return "", fmt.Errorf("%w: name %q already taken even after qualification", domain.ErrInvalidPath, qualified)
}

func (s *Service) ResolveLeaf(ctx context.Context, path string) (int64, error) {
	separator := s.importer.Get().CategorySeparator
	segments := splitPath(path, separator)
	if len(segments) == 0 {
		return 0, domain.ErrInvalidPath
	}

	category, err := s.repo.FindByPath(ctx, s.db, strings.Join(segments, separator))
	if err != nil {
		return 0, err
	}
	return category.ID, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx, s.db)
}

// splitPath normalizes one raw breadcrumb into trimmed, non-empty segments.
func splitPath(raw, separator string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, separator)
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
