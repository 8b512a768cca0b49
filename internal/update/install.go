// internal/update/install.go

package update

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const backupSuffix = ".old"

// ReplaceFolder swaps dst for a copy of src. The previous dst is kept as
// dst.old until the copy succeeds and is restored if it fails.
func ReplaceFolder(src, dst string) error {
	backup := dst + backupSuffix

	if err := os.RemoveAll(backup); err != nil {
		return fmt.Errorf("error removing old backup %s: %w", backup, err)
	}

	hadOriginal := false
	if _, err := os.Stat(dst); err == nil {
		if err := os.Rename(dst, backup); err != nil {
			return fmt.Errorf("error creating backup of %s: %w", dst, err)
		}
		hadOriginal = true
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot stat %s: %w", dst, err)
	}

	if err := copyTree(src, dst); err != nil {
		_ = os.RemoveAll(dst)
		if hadOriginal {
			if restoreErr := os.Rename(backup, dst); restoreErr != nil {
				return fmt.Errorf("copy failed: %v; restore from %s failed: %w", err, backup, restoreErr)
			}
		}
		return fmt.Errorf("error copying %s: %w", filepath.Base(dst), err)
	}

	if hadOriginal {
		if err := os.RemoveAll(backup); err != nil {
			return fmt.Errorf("error removing backup %s: %w", backup, err)
		}
	}
	return nil
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm()|0700)
		}
		return copyFile(path, target, info.Mode().Perm())
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
