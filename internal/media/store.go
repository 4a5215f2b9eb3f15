package media

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	domain "cargram/internal/model"
)

// Store persists uploaded images on the local filesystem.
// Files are normalized to JPEG and named by a fresh uuid so that
// uploading the same picture twice never collides.
type Store struct {
	baseDir string
}

// NewStore creates the image directory if needed and returns a Store.
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("missing image directory configuration")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image dir: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// SavePostImage enforces size/type, downscales wide images, and writes the
// JPEG to disk. Returns the stored file name.
func (s *Store) SavePostImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	data, _, err := readAndValidateImage(file, header, domain.MaxPostImageSize)
	if err != nil {
		return "", err
	}

	jpegBytes, err := normalizeToJPEG(data, domain.PostImageMaxWidth, 85)
	if err != nil {
		return "", err
	}

	name := uuid.NewString() + domain.ImageExt
	if err := s.writeFile(name, jpegBytes); err != nil {
		return "", err
	}
	return name, nil
}

// SaveAvatar enforces size/type, crops to a square thumbnail, and writes the
// JPEG to disk. Returns the stored file name.
func (s *Store) SaveAvatar(file multipart.File, header *multipart.FileHeader) (string, error) {
	data, _, err := readAndValidateImage(file, header, domain.MaxAvatarSizeBytes)
	if err != nil {
		return "", err
	}

	jpegBytes, err := cropToJPEG(data, domain.AvatarWidth, domain.AvatarHeight, 85)
	if err != nil {
		return "", err
	}

	name := uuid.NewString() + domain.ImageExt
	if err := s.writeFile(name, jpegBytes); err != nil {
		return "", err
	}
	return name, nil
}

// Open returns a reader for a stored image. The name must be a bare file
// name as returned by the save methods.
func (s *Store) Open(name string) (io.ReadCloser, error) {
	cleaned := filepath.Base(name)
	if cleaned != name || name == "" || name == "." {
		return nil, fmt.Errorf("invalid image name %q", name)
	}
	return os.Open(filepath.Join(s.baseDir, cleaned))
}

// Remove deletes a stored image. Missing files are not an error.
func (s *Store) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.baseDir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}

// Path returns the absolute path of a stored image.
func (s *Store) Path(name string) string {
	return filepath.Join(s.baseDir, filepath.Base(name))
}

func (s *Store) writeFile(name string, data []byte) error {
	path := filepath.Join(s.baseDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	return nil
}

// readAndValidateImage loads the upload into memory with size and type checks.
func readAndValidateImage(file multipart.File, header *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	if header.Size > maxSize {
		return nil, "", domain.ErrFileTooLarge
	}

	limitedReader := io.LimitReader(file, maxSize+1)
	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, "", domain.ErrFileTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" && len(data) > 0 {
		contentType = http.DetectContentType(data[:min(len(data), 512)])
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if !domain.IsAllowedImageType(contentType) {
		return nil, "", domain.ErrInvalidImageType
	}

	return data, contentType, nil
}

// normalizeToJPEG downscales images wider than maxWidth and encodes as JPEG.
func normalizeToJPEG(data []byte, maxWidth, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	return buf.Bytes(), nil
}

// cropToJPEG centers/crops to target size and encodes as JPEG.
func cropToJPEG(data []byte, width, height, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	return buf.Bytes(), nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
