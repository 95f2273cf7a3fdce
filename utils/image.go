package utils

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/webp" // register WebP decoder
)

// EncodePNG decodes any registered image format and re-encodes it as PNG.
func EncodePNG(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("empty image body")
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, fmt.Errorf("encode %s as png: %w", format, err)
	}
	return out.Bytes(), nil
}

// SavePNG converts data to PNG and writes it to dir/name. The directory is
// created if needed and the file is replaced atomically.
func SavePNG(dir, name string, data []byte) (string, error) {
	encoded, err := EncodePNG(data)
	if err != nil {
		return "", err
	}
	if err := writeFileAtomic(dir, name, encoded); err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	return filepath.Join(dir, name), nil
}

func writeFileAtomic(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	// Temp file in the same directory so the rename stays on one filesystem.
	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, filepath.Join(dir, name))
}
