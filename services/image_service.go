package services

import (
	"context"
	"net/http"
	"path"
	"strings"
	"time"

	awspkg "bakery-service/pkg/aws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const imageUploadExpiry = 15 * time.Minute

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageUpload tells the admin console where to PUT a product photo and what
// to store as the product's image_url afterwards.
type ImageUpload struct {
	UploadURL string `json:"upload_url"`
	Method    string `json:"method"`
	Key       string `json:"key"`
	ImageURL  string `json:"image_url"`
	ExpiresIn int    `json:"expires_in"`
}

type ImageService interface {
	PresignUpload(ctx context.Context, filename, contentType string) (*ImageUpload, *ServiceError)
}

type imageServiceImpl struct {
	presigner awspkg.ObjectPresigner
	logger    *zap.Logger
}

func NewImageService(presigner awspkg.ObjectPresigner, logger *zap.Logger) ImageService {
	return &imageServiceImpl{presigner: presigner, logger: logger}
}

func (s *imageServiceImpl) PresignUpload(ctx context.Context, filename, contentType string) (*ImageUpload, *ServiceError) {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, validationError("content_type must be image/jpeg, image/png or image/webp", nil)
	}

	// keep a readable stem but never trust the client's path
	stem := strings.TrimSuffix(path.Base(strings.ReplaceAll(filename, "\\", "/")), path.Ext(filename))
	stem = sanitizeStem(stem)
	key := "products/" + uuid.NewString()
	if stem != "" {
		key += "-" + stem
	}
	key += ext

	url, err := s.presigner.PresignPut(ctx, key, contentType, imageUploadExpiry)
	if err != nil {
		s.logger.Error("Failed to presign image upload", zap.Error(err), zap.String("key", key))
		svcErr := transientError("Image uploads are temporarily unavailable", err)
		svcErr.StatusCode = http.StatusServiceUnavailable
		return nil, svcErr
	}
	return &ImageUpload{
		UploadURL: url,
		Method:    http.MethodPut,
		Key:       key,
		ImageURL:  s.presigner.PublicURL(key),
		ExpiresIn: int(imageUploadExpiry.Seconds()),
	}, nil
}

func sanitizeStem(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ' || r == '_' || r == '.':
			b.WriteRune('-')
		}
		if b.Len() >= 40 {
			break
		}
	}
	return strings.Trim(b.String(), "-")
}
