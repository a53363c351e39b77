package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// uploadAPI is the slice of the blob store the photo service needs. Faked in tests.
type uploadAPI interface {
	Upload(ctx context.Context, file io.Reader, folder, publicID string) (url string, id string, err error)
	Destroy(ctx context.Context, publicID string) error
}

type cloudinaryAPI struct {
	cld *cloudinary.Cloudinary
}

func (a *cloudinaryAPI) Upload(ctx context.Context, file io.Reader, folder, publicID string) (string, string, error) {
	result, err := a.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return "", "", err
	}
	return result.SecureURL, result.PublicID, nil
}

func (a *cloudinaryAPI) Destroy(ctx context.Context, publicID string) error {
	_, err := a.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}

// PhotoService uploads journal photos to the blob store under a per-user,
// per-entry folder and returns durable public URLs.
type PhotoService struct {
	api uploadAPI
	log *zap.Logger
}

// NewPhotoService initializes the Cloudinary-backed photo service.
func NewPhotoService(cloudName, apiKey, apiSecret string, logger *zap.Logger) (*PhotoService, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &PhotoService{api: &cloudinaryAPI{cld: cld}, log: logger}, nil
}

func newPhotoServiceWithAPI(api uploadAPI, logger *zap.Logger) *PhotoService {
	return &PhotoService{api: api, log: logger}
}

// PhotoFolder returns the storage folder for one entry's photos.
func PhotoFolder(userID, entryID string) string {
	return fmt.Sprintf("users/%s/journals/%s", userID, entryID)
}

func photoFilename() string {
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// UploadAll uploads every file concurrently and returns the resulting URLs in
// the same order as the input, regardless of completion order. If any upload
// fails the whole batch fails and the siblings that already reached the store
// are destroyed, so a failed batch leaves no orphaned objects behind.
func (s *PhotoService) UploadAll(ctx context.Context, files []io.Reader, userID, entryID string) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	folder := PhotoFolder(userID, entryID)
	urls := make([]string, len(files))
	publicIDs := make([]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			url, id, err := s.api.Upload(gctx, file, folder, photoFilename())
			if err != nil {
				return fmt.Errorf("upload photo %d: %w", i+1, err)
			}
			urls[i] = url
			publicIDs[i] = id
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.destroyUploaded(publicIDs)
		return nil, err
	}

	s.log.Info("uploaded photo batch",
		zap.Int("count", len(urls)),
		zap.String("folder", folder))
	return urls, nil
}

// destroyUploaded removes the objects a failed batch already committed.
// Uses a fresh context: the batch context may already be canceled.
func (s *PhotoService) destroyUploaded(publicIDs []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, id := range publicIDs {
		if id == "" {
			continue
		}
		if err := s.api.Destroy(ctx, id); err != nil {
			s.log.Warn("failed to clean up uploaded photo",
				zap.String("public_id", id),
				zap.Error(err))
		}
	}
}
