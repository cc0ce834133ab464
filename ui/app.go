package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"hostmon/collector"
	"hostmon/models"
)

const (
	RedrawInterval = 250 * time.Millisecond
	hostEvery      = 20 // redraw ticks between host info reads
)

var columns = []string{"PID", "Name", "CPU %", "Mem %", "Status"}

// App is the terminal front end. It only reads published snapshots and
// calls Monitor.Refresh / Monitor.Kill.
type App struct {
	*tview.Application

	mon *collector.Monitor
	ctx context.Context

	header  *tview.TextView
	cpuView *tview.TextView
	memView *tview.TextView
	search  *tview.InputField
	message *tview.TextView
	table   *tview.Table

	// owned by the tview event goroutine
	query string
	host  models.HostInfo
	shown *models.ProcessSnapshot
}

func New(mon *collector.Monitor) *App {
	a := &App{
		Application: tview.NewApplication(),
		mon:         mon,
		header:      tview.NewTextView().SetDynamicColors(true),
		cpuView:     tview.NewTextView().SetDynamicColors(true),
		memView:     tview.NewTextView().SetDynamicColors(true),
		search:      tview.NewInputField().SetLabel("Search: ").SetFieldWidth(20),
		message:     tview.NewTextView().SetDynamicColors(true),
		table:       tview.NewTable().SetSelectable(true, false).SetFixed(1, 0),
	}

	a.cpuView.SetBorder(true).SetBorderColor(tcell.ColorDarkCyan)
	a.memView.SetBorder(true).SetBorderColor(tcell.ColorDarkCyan)
	a.table.SetBorder(true).SetBorderColor(tcell.ColorDarkCyan).SetTitle(" Processes ")
	a.search.SetDoneFunc(a.searchDone)

	for i, name := range columns {
		a.table.SetCell(0, i, tview.NewTableCell(name).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetExpansion(1))
	}

	return a
}

// Run blocks until the operator quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.ctx = ctx

	controls := tview.NewFlex().
		AddItem(a.search, 30, 0, false).
		AddItem(a.message, 0, 1, false)
	stats := tview.NewFlex().
		AddItem(a.cpuView, 0, 1, false).
		AddItem(a.memView, 0, 1, false)
	footer := tview.NewTextView().SetDynamicColors(true).
		SetText("[yellow]q[-] Quit  [yellow]r[-] Refresh  [yellow]k[-] Kill  [yellow]s[-] Search  [yellow]c[-] Clear  [yellow]Esc[-] Dismiss")

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.header, 1, 0, false).
		AddItem(controls, 1, 0, false).
		AddItem(stats, 12, 0, false).
		AddItem(a.table, 0, 1, true).
		AddItem(footer, 1, 0, false)

	a.SetInputCapture(a.inputCapture)

	go a.poll(ctx)
	go func() {
		<-ctx.Done()
		a.Stop()
	}()

	return a.SetRoot(root, true).EnableMouse(true).Run()
}

func (a *App) poll(ctx context.Context) {
	tick := time.NewTicker(RedrawInterval)
	defer tick.Stop()

	n := 0
	for {
		var host *models.HostInfo
		if n%hostEvery == 0 {
			h := collector.CollectHostInfo(ctx)
			host = &h
		}
		n++

		a.QueueUpdateDraw(func() {
			if host != nil {
				a.host = *host
			}
			a.redraw()
		})

		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
	}
}

// redraw runs on the event goroutine
func (a *App) redraw() {
	a.header.SetText(renderHeader(a.host, time.Now()))
	a.cpuView.SetText(renderCPU(a.mon.CPU()))
	a.memView.SetText(renderMemory(a.mon.Memory()))

	if snap := a.mon.Processes(); snap != nil && snap != a.shown {
		a.showProcesses(snap)
	}
}

func (a *App) showProcesses(snap *models.ProcessSnapshot) {
	selected, hasSelection := a.selectedPID()

	for row := a.table.GetRowCount() - 1; row > 0; row-- {
		a.table.RemoveRow(row)
	}
	for i, rec := range snap.Records {
		for col, text := range processRow(rec) {
			a.table.SetCell(i+1, col, tview.NewTableCell(text).SetExpansion(1))
		}
	}
	a.shown = snap

	row := 1
	if hasSelection {
		for i, rec := range snap.Records {
			if rec.PID == selected {
				row = i + 1
				break
			}
		}
	}
	if snap.Len() > 0 {
		a.table.Select(row, 0)
	}
}

func (a *App) selectedPID() (int, bool) {
	row, _ := a.table.GetSelection()
	return a.shown.PIDAt(row - 1)
}

func (a *App) inputCapture(event *tcell.EventKey) *tcell.EventKey {
	if a.search.HasFocus() {
		if event.Key() == tcell.KeyEscape {
			a.SetFocus(a.table)
			return nil
		}
		return event
	}

	switch event.Key() {
	case tcell.KeyEscape:
		a.showMessage("", false)
		return nil
	case tcell.KeyCtrlC:
		a.Stop()
		return nil
	case tcell.KeyRune:
	default:
		return event
	}

	switch event.Rune() {
	case 'q':
		a.Stop()
	case 'r':
		a.refresh("Refreshed")
	case 'k':
		a.killSelected()
	case 's', '/':
		a.SetFocus(a.search)
	case 'c':
		a.search.SetText("")
		a.query = ""
		a.refresh("Search cleared")
	default:
		return event
	}
	return nil
}

func (a *App) searchDone(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	a.query = a.search.GetText()
	msg := "Showing all"
	if a.query != "" {
		msg = "Filtered by: " + a.query
	}
	a.refresh(msg)
	a.SetFocus(a.table)
}

// refresh rebuilds the table off the event goroutine and reports msg when
// it succeeds.
func (a *App) refresh(msg string) {
	query := a.query
	go func() {
		snap, err := a.mon.Refresh(a.ctx, query)
		a.QueueUpdateDraw(func() {
			if err != nil {
				log.Warn().Err(err).Msg("refresh failed")
				a.showMessage(fmt.Sprintf("Error: %v", err), true)
				return
			}
			a.showProcesses(snap)
			if msg != "" {
				a.showMessage(msg, false)
			}
		})
	}()
}

func (a *App) killSelected() {
	pid, ok := a.selectedPID()
	if !ok {
		a.showMessage("No process selected", true)
		return
	}

	query := a.query
	go func() {
		outcome, snap, err := a.mon.KillAndRefresh(a.ctx, pid, query)
		a.QueueUpdateDraw(func() {
			if snap != nil {
				a.showProcesses(snap)
			}
			if err != nil && !outcome.OK() {
				a.showMessage(fmt.Sprintf("Error: %v", err), true)
				return
			}
			if err != nil {
				log.Warn().Err(err).Int("pid", pid).Msg("refresh after kill failed")
			}
			a.showMessage(outcome.Message(), !outcome.OK())
		})
	}()
}

func (a *App) showMessage(text string, isErr bool) {
	if text == "" {
		a.message.SetText("")
		return
	}
	color := "green"
	if isErr {
		color = "red"
	}
	a.message.SetText(fmt.Sprintf("[%s]→ %s[-]", color, tview.Escape(text)))
}
