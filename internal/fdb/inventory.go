// internal/fdb/inventory.go

package fdb

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	apperrors "customTools/internal/error"
	"customTools/internal/models"

	"github.com/fsnotify/fsnotify"
)

const DefaultInventoryHeaderRow = 31

// Inventory is the device sheet exported as CSV. Rows above headerRow are
// title rows and are skipped; columns A..F map onto models.InventoryItem.
type Inventory struct {
	path      string
	headerRow int
	logger    *slog.Logger

	mu    sync.RWMutex
	items []models.InventoryItem
}

func NewInventory(path string, headerRow int, logger *slog.Logger) *Inventory {
	if headerRow < 1 {
		headerRow = DefaultInventoryHeaderRow
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Inventory{path: path, headerRow: headerRow, logger: logger}
}

func (inv *Inventory) Path() string {
	return inv.path
}

// Reload rereads the CSV. On failure the previous rows are kept.
func (inv *Inventory) Reload() error {
	items, err := readInventory(inv.path, inv.headerRow)
	if err != nil {
		return err
	}

	inv.mu.Lock()
	inv.items = items
	inv.mu.Unlock()

	inv.logger.Info("inventory loaded", "path", inv.path, "items", len(items))
	return nil
}

func readInventory(path string, headerRow int) ([]models.InventoryItem, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.New(apperrors.FileError, fmt.Sprintf("failed to open inventory %s", path), err)
	}
	defer file.Close()

	// Title rows are counted as physical lines; csv.Reader drops blank ones.
	br := bufio.NewReader(file)
	for line := 0; line < headerRow; line++ {
		if _, err := br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, apperrors.New(apperrors.FileError, fmt.Sprintf("failed to read inventory %s", path), err)
		}
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var items []models.InventoryItem
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.New(apperrors.FileError, fmt.Sprintf("failed to parse inventory %s", path), err)
		}
		if len(record) == 0 || record[0] == "" {
			continue
		}
		items = append(items, models.InventoryItem{
			ServerName: column(record, 0),
			DeviceName: column(record, 1),
			IPAddress:  column(record, 2),
			Model:      column(record, 3),
			MACAddress: column(record, 4),
			SwitchPort: column(record, 5),
		})
	}
	return items, nil
}

func column(record []string, idx int) string {
	if idx < len(record) {
		return record[idx]
	}
	return ""
}

func (inv *Inventory) Items() []models.InventoryItem {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	out := make([]models.InventoryItem, len(inv.items))
	copy(out, inv.items)
	return out
}

func (inv *Inventory) Len() int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return len(inv.items)
}

// FindByMAC compares MACs with separators removed and case folded.
func (inv *Inventory) FindByMAC(mac string) (models.InventoryItem, bool) {
	needle := NormalizeMAC(mac)
	if needle == "" {
		return models.InventoryItem{}, false
	}

	inv.mu.RLock()
	defer inv.mu.RUnlock()
	for _, item := range inv.items {
		if NormalizeMAC(item.MACAddress) == needle {
			return item, true
		}
	}
	return models.InventoryItem{}, false
}

// Watch reloads the inventory whenever its file is written or replaced,
// until ctx is done. The directory is watched so that editors which save by
// rename are picked up too.
func (inv *Inventory) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	dir := filepath.Dir(inv.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target, _ := filepath.Abs(inv.path)
	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if name, _ := filepath.Abs(event.Name); name != target {
					continue
				}
				if err := inv.Reload(); err != nil {
					inv.logger.Warn("inventory reload failed", "path", inv.path, "error", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				inv.logger.Warn("inventory watcher error", "error", err)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
