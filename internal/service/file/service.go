package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoding support
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nomitake/timeclock-backend-go/internal/pkg/storage"
	"golang.org/x/image/draw"
)

// ErrFileNotFound signals that a stored path no longer resolves to a file.
var ErrFileNotFound = errors.New("file not found in storage")

type FileService interface {
	// UploadPunchProof stores a proof-of-presence photo for a punch and
	// returns the stored path, which becomes the punch's proof reference.
	UploadPunchProof(ctx context.Context, staffID string, businessDate string, file io.Reader, filename string) (string, error)

	// Generic operations
	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadPunchProof compresses the photo to a 50KB-150KB JPEG and stores
// it under the punch's business day.
func (s *fileServiceImpl) UploadPunchProof(ctx context.Context, staffID string, businessDate string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", fmt.Errorf("invalid file type: only jpg, jpeg, png allowed")
	}

	buffer, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	compressed, err := compressImage(buffer, 150*1024, 50*1024)
	if err != nil {
		return "", fmt.Errorf("failed to compress image: %w", err)
	}

	// Path: punches/{businessDate}/{staffID}-{uuid}.jpg. Always JPEG
	// after compression.
	newFilename := fmt.Sprintf("%s-%s.jpg", staffID, uuid.New().String())
	path := filepath.Join("punches", businessDate, newFilename)

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(compressed), path, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload punch proof: %w", err)
	}

	return uploadedPath, nil
}

// DeleteFile deletes a file. Deleting a file that is already gone is a
// no-op, so cleanup paths can retry safely.
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	exists, err := s.storage.Exists(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to check file existence: %w", err)
	}
	if !exists {
		return nil
	}
	return s.storage.Delete(ctx, path)
}

// GetFileURL generates URL to access file
func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	exists, err := s.storage.Exists(ctx, path)
	if err != nil {
		return "", fmt.Errorf("failed to check file existence: %w", err)
	}
	if !exists {
		return "", ErrFileNotFound
	}
	return s.storage.GetURL(ctx, path, expiry)
}

// compressImage compresses an image into the [minSize, maxSize] byte
// range, first by lowering JPEG quality, then by downscaling.
func compressImage(buffer []byte, maxSize int, minSize int) ([]byte, error) {
	if len(buffer) <= maxSize && len(buffer) >= minSize {
		return buffer, nil
	}

	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	originalWidth := bounds.Dx()
	originalHeight := bounds.Dy()

	quality := 85
	var compressed []byte

	for quality >= 50 {
		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		compressed = buf.Bytes()

		if len(compressed) <= maxSize && len(compressed) >= minSize {
			return compressed, nil
		}
		if len(compressed) > maxSize {
			quality -= 5
			continue
		}
		if len(compressed) < minSize && quality <= 60 {
			return compressed, nil
		}
		break
	}

	// Quality reduction alone was not enough; downscale toward the
	// middle of the target range.
	if len(compressed) > maxSize {
		targetSize := 100 * 1024
		ratio := math.Sqrt(float64(targetSize) / float64(len(compressed)))
		newWidth := int(float64(originalWidth) * ratio)
		newHeight := int(float64(originalHeight) * ratio)

		if newWidth < 600 {
			newWidth = 600
		}
		if newHeight < 400 {
			newHeight = 400
		}

		resized := resizeImage(img, newWidth, newHeight)

		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: 70}); err != nil {
			return nil, fmt.Errorf("failed to encode resized image: %w", err)
		}
		compressed = buf.Bytes()
	}

	return compressed, nil
}

// resizeImage resizes an image to the specified dimensions using
// high-quality interpolation.
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
