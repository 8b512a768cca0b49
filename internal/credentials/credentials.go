// internal/credentials/credentials.go

package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	apperrors "customTools/internal/error"
	"customTools/internal/models"
)

const (
	DefaultFileName = "credentials.txt"
	template        = "username\npassword"
)

// ErrTemplateCreated is returned (wrapped in a ConfigError) when the file was
// missing and a template has just been written.
var ErrTemplateCreated = errors.New("credentials template created")

// Load reads line 1 as the username and line 2 as the password. When the file
// does not exist a template is written and a ConfigError is returned so the
// caller can stop and tell the operator what to edit.
func Load(path string) (models.Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if werr := os.WriteFile(path, []byte(template), 0600); werr != nil {
				return models.Credential{}, apperrors.New(apperrors.ConfigError,
					fmt.Sprintf("credentials file not found at %s and template could not be created", path), werr)
			}
			return models.Credential{}, apperrors.New(apperrors.ConfigError,
				fmt.Sprintf("credentials template created at %s; fill it with your credentials and run again", path),
				ErrTemplateCreated)
		}
		return models.Credential{}, apperrors.New(apperrors.ConfigError, "error reading credentials", err)
	}

	lines := strings.Split(strings.ReplaceAll(strings.TrimSpace(string(data)), "\r\n", "\n"), "\n")
	if len(lines) < 2 {
		return models.Credential{}, apperrors.New(apperrors.ConfigError,
			"credentials file must contain at least 2 lines: username and password", nil)
	}

	cred := models.Credential{
		Username: strings.TrimSpace(lines[0]),
		Password: strings.TrimSpace(lines[1]),
	}
	if !cred.Valid() {
		return models.Credential{}, apperrors.New(apperrors.ConfigError, "username and password cannot be empty", nil)
	}
	return cred, nil
}
