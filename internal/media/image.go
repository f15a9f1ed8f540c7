package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

// ErrInvalidImage is returned when an image payload cannot be decoded or its
// bytes are not a recognized image format.
var ErrInvalidImage = errors.New("invalid image")

// Decode accepts a raw bytes payload, a bare base64 string, or a data-URI
// string and returns the decoded bytes plus an inferred file extension.
func Decode(data string) ([]byte, string, error) {
	// "data:image/png;base64,...." → keep only the encoded part
	if strings.Contains(data, "data:") && strings.Contains(data, ";base64,") {
		_, data, _ = strings.Cut(data, ";base64,")
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	ext, err := Extension(decoded)
	if err != nil {
		return nil, "", err
	}

	return decoded, ext, nil
}

// Extension sniffs the image signature of decoded bytes. A detected jpeg
// signature maps to the "jpg" extension.
func Extension(decoded []byte) (string, error) {
	kind, err := filetype.Match(decoded)
	if err != nil || kind == filetype.Unknown || !filetype.IsImage(decoded) {
		return "", ErrInvalidImage
	}

	ext := kind.Extension
	if ext == "jpeg" {
		ext = "jpg"
	}
	return ext, nil
}

// Store writes decoded image bytes under dir with a generated name and returns
// the stored file name. 12 characters of a UUID are more than enough.
type Store struct {
	Dir string
}

func (s *Store) Save(decoded []byte, ext string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create media dir: %w", err)
	}

	name := fmt.Sprintf("%s.%s", uuid.NewString()[:12], ext)
	if err := os.WriteFile(filepath.Join(s.Dir, name), decoded, 0644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	return name, nil
}
