package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebelice/opsgrid/internal/config"
	"github.com/rebelice/opsgrid/internal/export"
	"github.com/rebelice/opsgrid/internal/filter"
	"github.com/rebelice/opsgrid/internal/history"
	"github.com/rebelice/opsgrid/internal/logger"
	"github.com/rebelice/opsgrid/internal/models"
	"github.com/rebelice/opsgrid/internal/source"
	"github.com/rebelice/opsgrid/internal/ui/components"
)

const storeTimeout = 5 * time.Second

type popularLoadedMsg struct {
	entries []history.Entry
}

// loadRows opens the configured source, loads every row and completes the
// schema. The source is closed before returning.
func (a *App) loadRows() tea.Cmd {
	cfg := a.config
	return func() tea.Msg {
		timeout := cfg.Data.LoadTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var (
			rows   []models.Row
			schema models.TableSchema
		)
		err := logger.Timed("load rows", func() error {
			src, err := source.Open(ctx, cfg)
			if err != nil {
				return err
			}
			defer src.Close()

			rows, err = src.Load(ctx)
			if err != nil {
				return err
			}
			schema, err = source.Schema(ctx, src, cfg.Schema(), rows)
			return err
		})
		if err != nil {
			return RowsLoadedMsg{Err: err}
		}
		logger.Infof("loaded %d rows into %s (%d columns)", len(rows), schema.Name, len(schema.Columns))
		return RowsLoadedMsg{Schema: schema, Rows: rows}
	}
}

// watchConfig starts the file watcher once and then waits for the next
// reload. The watcher callback runs on fsnotify's goroutine, so it only
// hands the result over the channel.
func (a *App) watchConfig() tea.Cmd {
	if a.loader == nil {
		return nil
	}
	if a.loader.File() == "" {
		return nil
	}
	ch := a.configCh
	if !a.watching {
		a.watching = true
		a.loader.Watch(func(cfg *config.Config, err error) {
			select {
			case ch <- ConfigReloadedMsg{Config: cfg, Err: err}:
			default:
				logger.Debugf("config reload dropped, previous one pending")
			}
		})
	}
	return func() tea.Msg {
		return <-ch
	}
}

func (a *App) account() string {
	if a.state.Account != "" {
		return a.state.Account
	}
	return a.brands.DefaultAccount()
}

// recordHistory counts one use of the current descriptor
func (a *App) recordHistory() tea.Cmd {
	if a.history == nil || a.table == nil {
		return nil
	}
	store := a.history
	table := a.table.Schema().Name
	account := a.account()
	d := a.table.Descriptor()
	summary := a.table.Summary()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := store.Record(ctx, table, account, d, summary); err != nil {
			logger.Warnf("failed to record filter history: %v", err)
		}
		return nil
	}
}

func (a *App) loadPopular() tea.Cmd {
	if a.history == nil || a.table == nil {
		return nil
	}
	store := a.history
	table := a.table.Schema().Name
	account := a.account()
	limit := a.config.History.PopularLimit
	if limit <= 0 {
		limit = 5
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		entries, err := store.Popular(ctx, table, account, limit)
		if err != nil {
			return ErrorMsg{Title: "History", Message: err.Error()}
		}
		return popularLoadedMsg{entries: entries}
	}
}

func (a *App) forgetHistory(id int) tea.Cmd {
	if a.history == nil {
		return nil
	}
	store := a.history
	return tea.Sequence(func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := store.Forget(ctx, id); err != nil {
			return ErrorMsg{Title: "History", Message: err.Error()}
		}
		return nil
	}, a.loadPopular())
}

// reloadPresetLists refreshes the presets tab and queries the popular tab
func (a *App) reloadPresetLists() tea.Cmd {
	if a.table == nil {
		return nil
	}
	if a.presets != nil {
		a.presetsDialog.SetPresets(a.presets.ForTable(a.table.Schema().Name))
	}
	return a.loadPopular()
}

func (a *App) applyDescriptor(msg components.ApplyDescriptorMsg) tea.Cmd {
	if a.table == nil {
		return nil
	}
	a.table.LoadDescriptor(msg.Descriptor)
	if msg.PresetID != "" && a.presets != nil {
		if err := a.presets.RecordUsage(msg.PresetID); err != nil {
			logger.Warnf("failed to record preset usage: %v", err)
		}
	}
	a.state.Focus = models.FocusTable
	a.refresh()
	a.status = "applied " + a.table.Summary()
	return a.recordHistory()
}

func (a *App) savePreset(msg components.SavePresetMsg) tea.Cmd {
	if a.presets == nil || a.table == nil {
		a.presetsDialog.SetError(fmt.Errorf("presets are not available"))
		return nil
	}
	p, err := a.presets.Add(a.table.Schema().Name, msg.Name, msg.Description, a.table.Descriptor())
	if err != nil {
		cmd := a.presetsDialog.BeginSave()
		a.presetsDialog.SetError(err)
		return cmd
	}
	a.presetsDialog.SetError(nil)
	a.status = fmt.Sprintf("saved preset %q", p.Name)
	return a.reloadPresetLists()
}

func (a *App) copyCell() tea.Cmd {
	row, ok := a.tableView.SelectedRowData()
	if !ok {
		return nil
	}
	col, ok := a.tableView.SelectedColumn()
	if !ok {
		return nil
	}
	raw, _ := row.Get(col.Key)
	text := filter.ToString(raw)
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrorMsg{Title: "Clipboard", Message: err.Error()}
		}
		return StatusMsg("copied " + col.Title())
	}
}

func (a *App) copyRow() tea.Cmd {
	if _, ok := a.tableView.SelectedRowData(); !ok {
		return nil
	}
	d := a.detail
	return func() tea.Msg {
		if err := d.CopyContent(); err != nil {
			return ErrorMsg{Title: "Clipboard", Message: err.Error()}
		}
		return StatusMsg("copied row")
	}
}

// exportRows writes the visible rows, in display order, to the working
// directory
func (a *App) exportRows(format export.Format) tea.Cmd {
	if a.table == nil {
		return nil
	}
	rows := a.table.Visible()
	columns := a.table.Schema().Columns
	name := a.table.Schema().Name
	return func() tea.Msg {
		dir, err := os.Getwd()
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		path := export.DefaultPath(dir, name, format, time.Now())
		err = logger.Timed("export "+strings.ToLower(string(format)), func() error {
			return export.ToFile(format, rows, columns, path)
		})
		return ExportDoneMsg{Path: path, Err: err}
	}
}
