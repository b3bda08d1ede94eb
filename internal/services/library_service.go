package services

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"holoframe-backend/internal/apierr"
	"holoframe-backend/internal/logger"
	"holoframe-backend/internal/models"
	"holoframe-backend/internal/supabase"
)

type ObjectLister interface {
	List(folder string, limit int) ([]supabase.StoredObject, error)
	Remove(paths ...string) error
	PublicURL(path string) string
}

type NicknameStore interface {
	NicknamesByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// LibraryService reads the bucket back out: the public video archive and
// the admin file browser.
type LibraryService struct {
	objects   ObjectLister
	nicknames NicknameStore
	log       *logger.Logger
}

func NewLibraryService(objects ObjectLister, nicknames NicknameStore, log *logger.Logger) *LibraryService {
	if log == nil {
		log = logger.Nop()
	}
	return &LibraryService{objects: objects, nicknames: nicknames, log: log}
}

// Archive lists stored videos newest first. The owner is the name prefix
// before the first underscore; nicknames fall back to that prefix.
func (s *LibraryService) Archive(ctx context.Context, limit int) ([]models.ArchiveVideo, error) {
	if limit <= 0 {
		limit = 100
	}
	objects, err := s.objects.List(FolderVideos, limit)
	if err != nil {
		return nil, err
	}

	videos := make([]models.ArchiveVideo, 0, len(objects))
	var ids []uuid.UUID
	seen := map[uuid.UUID]bool{}
	for _, o := range objects {
		if !strings.HasSuffix(o.Name, ".mp4") {
			continue
		}
		owner := strings.SplitN(strings.TrimSuffix(o.Name, ".mp4"), "_", 2)[0]
		videos = append(videos, models.ArchiveVideo{
			Name:      o.Name,
			URL:       s.objects.PublicURL(o.Path),
			UserID:    owner,
			Nickname:  owner,
			CreatedAt: o.CreatedAt,
		})
		if id, err := uuid.Parse(owner); err == nil && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 || s.nicknames == nil {
		return videos, nil
	}
	names, err := s.nicknames.NicknamesByID(ctx, ids)
	if err != nil {
		s.log.Warn("Nickname lookup failed, using user ids", "error", err)
		return videos, nil
	}
	for i := range videos {
		id, err := uuid.Parse(videos[i].UserID)
		if err != nil {
			continue
		}
		if name := names[id]; name != "" {
			videos[i].Nickname = name
		}
	}
	return videos, nil
}

// ListFiles lists one folder, or every known folder concurrently when
// folder is empty.
func (s *LibraryService) ListFiles(ctx context.Context, folder string) ([]models.AdminFile, error) {
	folders := Folders
	if folder = strings.Trim(folder, "/"); folder != "" {
		if !knownFolder(folder) {
			return nil, apierr.Validation("unknown folder " + folder)
		}
		folders = []string{folder}
	}

	results := make([][]supabase.StoredObject, len(folders))
	g, _ := errgroup.WithContext(ctx)
	for i, f := range folders {
		g.Go(func() error {
			objects, err := s.objects.List(f, 1000)
			if err != nil {
				return err
			}
			results[i] = objects
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var files []models.AdminFile
	for i, objects := range results {
		for _, o := range objects {
			files = append(files, models.AdminFile{
				Folder:    folders[i],
				Name:      o.Name,
				Path:      o.Path,
				URL:       s.objects.PublicURL(o.Path),
				Size:      o.Size,
				CreatedAt: o.CreatedAt,
			})
		}
	}
	if files == nil {
		files = []models.AdminFile{}
	}
	return files, nil
}

// DeleteFile removes one object from a known folder.
func (s *LibraryService) DeleteFile(ctx context.Context, filePath string) error {
	filePath = strings.Trim(strings.TrimSpace(filePath), "/")
	folder, name, ok := strings.Cut(filePath, "/")
	if !ok || name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
		return apierr.Validation("path must be {folder}/{file}")
	}
	if !knownFolder(folder) {
		return apierr.Validation("unknown folder " + folder)
	}

	if err := s.objects.Remove(filePath); err != nil {
		return err
	}
	s.log.Info("File deleted", "path", filePath)
	return nil
}

func knownFolder(folder string) bool {
	return slices.Contains(Folders, folder)
}
