package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/contactx/contactx/internal/client/client"
	"github.com/contactx/contactx/internal/client/models"
	"github.com/contactx/contactx/internal/common"
)

// MaxImageSize caps uploads; the body grows by a third once base64 encoded.
const MaxImageSize = 5 << 20

type ImageUploadService interface {
	UploadImage(ctx context.Context, data []byte, kind models.ImageKind) (*models.Envelope, error)
	UploadFile(ctx context.Context, path string, kind models.ImageKind) (*models.Envelope, error)
}

type imageUploadService struct {
	client client.Doer
}

func NewImageUploadService(c client.Doer) ImageUploadService {
	return &imageUploadService{client: c}
}

// DataURI sniffs the content type and returns data as a base64 data URI.
func DataURI(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image: %w", common.ErrInvalidData)
	}
	if len(data) > MaxImageSize {
		return "", ErrImageTooLarge
	}
	mime, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (s *imageUploadService) UploadImage(ctx context.Context, data []byte, kind models.ImageKind) (*models.Envelope, error) {
	if _, err := models.ParseImageKind(string(kind)); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidData, err)
	}
	uri, err := DataURI(data)
	if err != nil {
		return nil, err
	}
	return send(ctx, s.client, client.NewRequest(http.MethodPost, "/card/upload-image", map[string]any{
		"image": uri,
		"type":  kind,
	}))
}

func (s *imageUploadService) UploadFile(ctx context.Context, path string, kind models.ImageKind) (*models.Envelope, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxImageSize {
		return nil, ErrImageTooLarge
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return s.UploadImage(ctx, data, kind)
}
