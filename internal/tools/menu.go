// internal/tools/menu.go

package tools

import (
	"context"
	"errors"
	"fmt"

	"customTools/internal/ui"
)

const menuTitle = "CustomTools Main Menu"

// Chooser shows the menu and returns the picked index, -1 to redraw, or
// ui.ErrMenuClosed.
type Chooser func(title string, items []ui.MenuItem) (int, error)

func MenuItems(entries []Entry) []ui.MenuItem {
	items := make([]ui.MenuItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, ui.MenuItem{Key: e.Key, Title: e.Tool.Name()})
	}
	return items
}

// Loop runs tools until Exit is picked, the menu is closed or ctx ends.
// A failing tool is reported and the menu comes back.
func Loop(ctx context.Context, env *Env, entries []Entry, choose Chooser) error {
	items := MenuItems(entries)
	logger := env.logger()

	for ctx.Err() == nil {
		title := fmt.Sprintf("%s [%d active]", menuTitle, env.Pool.Len())
		idx, err := choose(title, items)
		if errors.Is(err, ui.ErrMenuClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(entries) {
			continue
		}

		tool := entries[idx].Tool
		logger.Info("running tool", "tool", tool.Name())
		err = tool.Run(ctx, env)
		if errors.Is(err, ErrExit) {
			return nil
		}
		if err != nil {
			logger.Error("tool failed", "tool", tool.Name(), "error", err)
			ui.Error(env.Out, "%s failed: %v", tool.Name(), err)
		}
	}
	return nil
}
