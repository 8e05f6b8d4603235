package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/woodkari/woodkari-backend/pkg/cloudinary"
	"github.com/woodkari/woodkari-backend/pkg/enums"
	pkgerrors "github.com/woodkari/woodkari-backend/pkg/errors"
	"github.com/woodkari/woodkari-backend/pkg/logger"
)

// MaxUploadBytes caps accepted image uploads at 10 MB.
const MaxUploadBytes = 10 * 1024 * 1024

var allowedMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/avif": {},
}

// UploadInput carries a decoded multipart file.
type UploadInput struct {
	Data        []byte
	ContentType string
	Folder      enums.MediaFolder
}

// UploadOutput is the hosted asset reference returned to the dashboard.
type UploadOutput struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

type uploader interface {
	Upload(ctx context.Context, dataURI, folder string) (*cloudinary.UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
	Namespace() string
}

// Service validates uploads and owns cleanup of hosted assets.
type Service struct {
	provider uploader
	logg     *logger.Logger
}

// NewService constructs a media service backed by the provider client.
func NewService(provider uploader, logg *logger.Logger) (*Service, error) {
	if provider == nil {
		return nil, fmt.Errorf("media provider is required")
	}
	return &Service{provider: provider, logg: logg}, nil
}

// Upload validates the file and pushes it to the provider as a data URI.
func (s *Service) Upload(ctx context.Context, input UploadInput) (*UploadOutput, error) {
	if len(input.Data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no file provided")
	}
	if _, ok := allowedMIMETypes[input.ContentType]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only JPEG, PNG, WebP or AVIF images are allowed")
	}
	if len(input.Data) > MaxUploadBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file size must be under 10 MB")
	}

	folder := input.Folder
	if !folder.IsValid() {
		folder = enums.MediaFolderProducts
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", input.ContentType, base64.StdEncoding.EncodeToString(input.Data))

	result, err := s.provider.Upload(ctx, dataURI, folder.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeMediaUpload, err, "image upload failed")
	}
	return &UploadOutput{URL: result.URL, PublicID: result.PublicID}, nil
}

// ExtractPublicID maps a hosted URL back to its provider public id. URLs
// outside the managed namespace return false and are left alone.
func (s *Service) ExtractPublicID(url string) (string, bool) {
	return extractPublicID(url, s.provider.Namespace())
}

// CleanupURLs best-effort deletes every managed URL. Failures are logged and
// never propagated; catalog deletes must not hinge on provider availability.
func (s *Service) CleanupURLs(ctx context.Context, urls []string) {
	for _, url := range urls {
		publicID, ok := s.ExtractPublicID(url)
		if !ok {
			continue
		}
		if err := s.provider.Destroy(ctx, publicID); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "public_id", publicID), "media cleanup failed: "+err.Error())
		}
	}
}

func extractPublicID(url, namespace string) (string, bool) {
	if namespace == "" {
		return "", false
	}
	marker := "/" + namespace + "/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return "", false
	}

	// Path from the namespace onward, with the file extension stripped.
	publicID := url[idx+1:]
	if dot := strings.LastIndex(publicID, "."); dot > strings.LastIndex(publicID, "/") {
		publicID = publicID[:dot]
	}
	if publicID == "" {
		return "", false
	}
	return publicID, true
}
