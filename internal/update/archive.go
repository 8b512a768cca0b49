// internal/update/archive.go

package update

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "customTools/internal/error"
)

// Extract unpacks zipPath into destDir and returns destDir/root, which must
// exist after extraction.
func Extract(zipPath, destDir, root string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", apperrors.New(apperrors.UpdateError, "error extracting zip", err)
	}
	defer r.Close()

	cleanDest := filepath.Clean(destDir) + string(os.PathSeparator)
	for _, f := range r.File {
		target := filepath.Join(destDir, f.Name)
		if target != filepath.Clean(destDir) && !strings.HasPrefix(target, cleanDest) {
			return "", apperrors.New(apperrors.UpdateError, fmt.Sprintf("illegal path in archive: %s", f.Name), nil)
		}
		if err := extractFile(f, target); err != nil {
			return "", apperrors.New(apperrors.UpdateError, "error extracting zip", err)
		}
	}

	extracted := filepath.Join(destDir, root)
	if info, err := os.Stat(extracted); err != nil || !info.IsDir() {
		return "", apperrors.New(apperrors.UpdateError, fmt.Sprintf("could not find %s folder in extracted zip", root), err)
	}
	return extracted, nil
}

func extractFile(f *zip.File, target string) error {
	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
