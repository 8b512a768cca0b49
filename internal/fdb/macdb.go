// internal/fdb/macdb.go

package fdb

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	apperrors "customTools/internal/error"
)

const ouiLength = 6

// MACDatabase maps OUI prefixes (first three octets) to the vendor line
// they were read from. File format: "<prefix> <vendor ...>" per line.
type MACDatabase struct {
	mu      sync.RWMutex
	vendors map[string]string
}

func NewMACDatabase() *MACDatabase {
	return &MACDatabase{vendors: make(map[string]string)}
}

// LoadMACDatabase reads path. A missing file yields an empty database and a
// FileError so the caller can warn and continue.
func LoadMACDatabase(path string) (*MACDatabase, error) {
	db := NewMACDatabase()

	file, err := os.Open(path)
	if err != nil {
		return db, apperrors.New(apperrors.FileError, fmt.Sprintf("failed to open MAC database %s", path), err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		db.Add(fields[0], line)
	}
	if err := scanner.Err(); err != nil {
		return db, apperrors.New(apperrors.FileError, fmt.Sprintf("failed to read MAC database %s", path), err)
	}
	return db, nil
}

func ouiOf(mac string) string {
	n := NormalizeMAC(mac)
	if len(n) < ouiLength {
		return ""
	}
	return n[:ouiLength]
}

// Add registers a prefix. The first entry for a prefix wins.
func (db *MACDatabase) Add(prefix, description string) {
	oui := ouiOf(prefix)
	if oui == "" {
		return
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.vendors[oui]; !exists {
		db.vendors[oui] = description
	}
}

// Lookup returns the database line whose prefix matches mac's OUI.
func (db *MACDatabase) Lookup(mac string) (string, bool) {
	oui := ouiOf(mac)
	if oui == "" {
		return "", false
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	vendor, ok := db.vendors[oui]
	return vendor, ok
}

func (db *MACDatabase) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.vendors)
}
