// Package tui provides a k9s-style terminal UI for a kubesim cluster.
package tui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"gopkg.in/yaml.v3"

	v1 "github.com/klubi/kubesim/pkg/apis/v1"
	"github.com/klubi/kubesim/pkg/client"
)

// view describes one switchable table of the dashboard.
type view struct {
	key   rune
	title string
	kind  string // empty for the events view
}

var views = []view{
	{'1', "Pods", v1.KindPod},
	{'2', "Deployments", v1.KindDeployment},
	{'3', "Services", v1.KindService},
	{'4', "Claims", v1.KindPersistentVolumeClaim},
	{'5', "Events", ""},
}

// App is the main TUI application. It polls the kubesim REST API and
// displays resources and events in a navigable table view.
type App struct {
	app         *tview.Application
	pages       *tview.Pages
	header      *tview.TextView
	footer      *tview.TextView
	table       *tview.Table
	filterInput *tview.InputField
	detailView  *tview.TextView
	layout      *tview.Flex

	client     *client.Client
	serverAddr string

	current   view
	namespace string
	filter    string

	// Cached data from the last successful refresh.
	objects []v1.Object
	events  []v1.Event
	lastErr error

	mu sync.Mutex

	// mainFlex is the outermost vertical flex (header + content + footer).
	mainFlex *tview.Flex

	describeOpen bool
	filterOpen   bool
}

// NewApp creates a new TUI application connected to the given kubesim API
// server.
func NewApp(serverAddr string) *App {
	a := &App{
		app:        tview.NewApplication(),
		client:     client.New(serverAddr),
		serverAddr: serverAddr,
		current:    views[0],
		namespace:  "default",
	}

	// -- Header --
	a.header = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	a.header.SetBackgroundColor(tcell.ColorDarkBlue)

	// -- Footer --
	a.footer = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	a.footer.SetBackgroundColor(tcell.ColorDarkBlue)

	// -- Table --
	a.table = tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0). // header row stays fixed
		SetSeparator(tview.Borders.Vertical)
	a.table.SetBorder(false)
	a.table.SetBorderPadding(0, 0, 1, 1)

	// -- Filter input --
	a.filterInput = tview.NewInputField().
		SetLabel(" Filter: ").
		SetFieldWidth(40).
		SetFieldBackgroundColor(tcell.ColorBlack).
		SetLabelColor(tcell.ColorYellow)

	a.filterInput.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			a.mu.Lock()
			a.filter = a.filterInput.GetText()
			a.mu.Unlock()
			a.hideFilter()
			a.updateTable()
			a.app.SetFocus(a.table)
		case tcell.KeyEscape:
			a.mu.Lock()
			a.filter = ""
			a.mu.Unlock()
			a.filterInput.SetText("")
			a.hideFilter()
			a.updateTable()
			a.app.SetFocus(a.table)
		}
	})

	// -- Detail / Describe view --
	a.detailView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	a.detailView.SetBorder(true).
		SetTitle(" Describe ").
		SetBorderColor(tcell.ColorDodgerBlue)

	// contentFlex holds the table (and optionally the detail panel).
	contentFlex := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(a.table, 0, 1, true)

	// mainFlex is the full vertical layout: header, content, footer.
	a.mainFlex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.header, 1, 0, false).
		AddItem(contentFlex, 0, 1, true).
		AddItem(a.footer, 1, 0, false)

	a.layout = contentFlex

	a.pages = tview.NewPages().
		AddPage("main", a.mainFlex, true, true)

	a.updateHeader()
	a.updateFooter()
	a.setupKeyBindings()

	a.app.SetRoot(a.pages, true).SetFocus(a.table)

	return a
}

// Run starts the background refresh goroutine and runs the TUI event loop.
func (a *App) Run() error {
	// Initial synchronous refresh so the table is populated before the
	// first render.
	a.refresh()

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				a.refresh()
				a.app.QueueUpdateDraw(func() {
					a.updateTable()
				})
			}
		}
	}()

	err := a.app.Run()
	close(done)
	return err
}

// ---------------------------------------------------------------------------
// Key bindings
// ---------------------------------------------------------------------------

func (a *App) setupKeyBindings() {
	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// When the filter input has focus, let it handle its own keys.
		if a.filterOpen {
			return event
		}

		if a.describeOpen && event.Key() == tcell.KeyEscape {
			a.hideDescribe()
			return nil
		}

		switch event.Key() {
		case tcell.KeyRune:
			for _, v := range views {
				if event.Rune() == v.key {
					a.switchView(v)
					return nil
				}
			}
			switch event.Rune() {
			case 'n':
				a.cycleNamespace()
				return nil
			case '/':
				a.showFilter()
				return nil
			case 'q':
				a.app.Stop()
				return nil
			case 'r':
				go a.refreshAndDraw()
				return nil
			case 'd':
				a.confirmDelete()
				return nil
			case 'j':
				row, _ := a.table.GetSelection()
				if row < a.table.GetRowCount()-1 {
					a.table.Select(row+1, 0)
				}
				return nil
			case 'k':
				row, _ := a.table.GetSelection()
				if row > 1 { // row 0 is the header
					a.table.Select(row-1, 0)
				}
				return nil
			}
		case tcell.KeyEnter:
			a.showDescribe()
			return nil
		case tcell.KeyEscape:
			if a.filter != "" {
				a.mu.Lock()
				a.filter = ""
				a.mu.Unlock()
				a.updateTable()
			}
			return nil
		}

		return event
	})
}

// ---------------------------------------------------------------------------
// View and namespace switching
// ---------------------------------------------------------------------------

func (a *App) switchView(v view) {
	a.mu.Lock()
	a.current = v
	a.mu.Unlock()

	a.updateHeader()
	go a.refreshAndDraw()
}

// cycleNamespace advances to the next known namespace.
func (a *App) cycleNamespace() {
	namespaces, err := a.client.Namespaces()
	if err != nil || len(namespaces) == 0 {
		return
	}

	a.mu.Lock()
	next := namespaces[0]
	for i, ns := range namespaces {
		if ns == a.namespace {
			next = namespaces[(i+1)%len(namespaces)]
			break
		}
	}
	a.namespace = next
	a.mu.Unlock()

	a.updateHeader()
	go a.refreshAndDraw()
}

func (a *App) refreshAndDraw() {
	a.refresh()
	a.app.QueueUpdateDraw(func() {
		a.updateTable()
	})
}

// ---------------------------------------------------------------------------
// Data refresh
// ---------------------------------------------------------------------------

func (a *App) refresh() {
	a.mu.Lock()
	current := a.current
	namespace := a.namespace
	a.mu.Unlock()

	if current.kind == "" {
		events, err := a.client.Events()
		a.mu.Lock()
		a.events = events
		a.lastErr = err
		a.mu.Unlock()
		return
	}

	objects, err := a.client.List(namespace, current.kind, "")
	a.mu.Lock()
	a.objects = objects
	a.lastErr = err
	a.mu.Unlock()
}

// ---------------------------------------------------------------------------
// Table rendering
// ---------------------------------------------------------------------------

func (a *App) updateTable() {
	a.table.Clear()

	a.mu.Lock()
	current := a.current
	filter := strings.ToLower(a.filter)
	err := a.lastErr
	a.mu.Unlock()

	if err != nil {
		a.setTableHeaders([]string{"ERROR"})
		a.table.SetCell(1, 0,
			tview.NewTableCell(fmt.Sprintf("Error: %v", err)).
				SetTextColor(tcell.ColorRed))
		return
	}

	if current.kind == "" {
		a.renderEvents(filter)
	} else {
		a.renderObjects(current.kind, filter)
	}

	if a.table.GetRowCount() > 1 {
		a.table.Select(1, 0)
	}
}

func (a *App) setTableHeaders(headers []string) {
	for col, h := range headers {
		cell := tview.NewTableCell(h).
			SetTextColor(tcell.ColorWhite).
			SetBackgroundColor(tcell.ColorDarkCyan).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false).
			SetExpansion(1)
		a.table.SetCell(0, col, cell)
	}
}

// matchesFilter returns true if any of the values contain the filter string.
func matchesFilter(filter string, values ...string) bool {
	if filter == "" {
		return true
	}
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), filter) {
			return true
		}
	}
	return false
}

func (a *App) renderObjects(kind string, filter string) {
	a.setTableHeaders(objectHeaders(kind))

	a.mu.Lock()
	objects := a.objects
	a.mu.Unlock()

	row := 1
	for _, obj := range objects {
		cells := objectRow(kind, obj)
		if !matchesFilter(filter, cells...) {
			continue
		}
		for col, text := range cells {
			cell := tview.NewTableCell(text).SetExpansion(1)
			if col == phaseColumn(kind) {
				cell.SetTextColor(phaseColor(text))
			}
			a.table.SetCell(row, col, cell)
		}
		row++
	}
}

func (a *App) renderEvents(filter string) {
	a.setTableHeaders([]string{"TIME", "NAMESPACE", "KIND", "NAME", "ACTION"})

	a.mu.Lock()
	events := a.events
	a.mu.Unlock()

	row := 1
	// Newest last in the log; show newest first.
	for i := len(events) - 1; i >= 0; i-- {
		event := events[i]
		namespace := event.Namespace
		if namespace == "" {
			namespace = "<cluster>"
		}
		cells := []string{
			formatAge(event.Timestamp),
			namespace,
			event.Kind,
			event.Name,
			string(event.Action),
		}
		if !matchesFilter(filter, cells...) {
			continue
		}
		for col, text := range cells {
			cell := tview.NewTableCell(text).SetExpansion(1)
			if col == 4 {
				cell.SetTextColor(actionColor(event.Action))
			}
			a.table.SetCell(row, col, cell)
		}
		row++
	}
}

// objectHeaders returns the column headers for a kind's table.
func objectHeaders(kind string) []string {
	switch kind {
	case v1.KindPod:
		return []string{"NAME", "PHASE", "READY", "AGE"}
	case v1.KindDeployment:
		return []string{"NAME", "READY", "AGE"}
	case v1.KindService:
		return []string{"NAME", "TYPE", "CLUSTER-IP", "AGE"}
	case v1.KindPersistentVolumeClaim:
		return []string{"NAME", "PHASE", "STORAGE", "AGE"}
	default:
		return []string{"NAME", "AGE"}
	}
}

// objectRow converts one object into its table cells.
func objectRow(kind string, obj v1.Object) []string {
	meta := obj.GetObjectMeta()
	age := formatAge(meta.CreationTimestamp)

	switch resource := obj.(type) {
	case *v1.Pod:
		ready := 0
		for _, status := range resource.Status.ContainerStatuses {
			if status.Ready {
				ready++
			}
		}
		return []string{
			meta.Name,
			string(resource.Status.Phase),
			fmt.Sprintf("%d/%d", ready, len(resource.Status.ContainerStatuses)),
			age,
		}
	case *v1.Deployment:
		return []string{
			meta.Name,
			fmt.Sprintf("%d/%d", resource.Status.ReadyReplicas, resource.Status.Replicas),
			age,
		}
	case *v1.Service:
		return []string{meta.Name, resource.Spec.Type, resource.Spec.ClusterIP, age}
	case *v1.PersistentVolumeClaim:
		return []string{meta.Name, string(resource.Status.Phase), resource.Spec.Storage, age}
	default:
		return []string{meta.Name, age}
	}
}

// phaseColumn returns the index of the column carrying a phase, or -1.
func phaseColumn(kind string) int {
	switch kind {
	case v1.KindPod, v1.KindPersistentVolumeClaim:
		return 1
	default:
		return -1
	}
}

// ---------------------------------------------------------------------------
// Describe (detail panel)
// ---------------------------------------------------------------------------

func (a *App) showDescribe() {
	row, _ := a.table.GetSelection()
	if row < 1 || row >= a.table.GetRowCount() {
		return
	}

	a.mu.Lock()
	current := a.current
	namespace := a.namespace
	a.mu.Unlock()
	if current.kind == "" {
		return
	}

	name := a.table.GetCell(row, 0).Text

	a.detailView.Clear()

	var detail string
	obj, err := a.client.Get(namespace, current.kind, name)
	if err != nil {
		detail = fmt.Sprintf("[red]Error: %v[-]", err)
	} else if rendered, err := yaml.Marshal(obj); err != nil {
		detail = fmt.Sprintf("[red]Error: %v[-]", err)
	} else {
		detail = string(rendered)
	}

	a.detailView.SetTitle(fmt.Sprintf(" %s/%s ", current.kind, name))
	a.detailView.SetText(detail)

	if !a.describeOpen {
		a.layout.AddItem(a.detailView, 0, 1, false)
		a.describeOpen = true
	}
}

func (a *App) hideDescribe() {
	if a.describeOpen {
		a.layout.RemoveItem(a.detailView)
		a.describeOpen = false
		a.app.SetFocus(a.table)
	}
}

// ---------------------------------------------------------------------------
// Filter
// ---------------------------------------------------------------------------

func (a *App) showFilter() {
	if a.filterOpen {
		return
	}
	a.filterOpen = true
	a.filterInput.SetText(a.filter)

	// Replace footer with filter input in the main vertical flex.
	a.mainFlex.RemoveItem(a.footer)
	a.mainFlex.AddItem(a.filterInput, 1, 0, true)
	a.app.SetFocus(a.filterInput)
}

func (a *App) hideFilter() {
	if !a.filterOpen {
		return
	}
	a.filterOpen = false

	a.mainFlex.RemoveItem(a.filterInput)
	a.mainFlex.AddItem(a.footer, 1, 0, false)
	a.app.SetFocus(a.table)
}

// ---------------------------------------------------------------------------
// Delete with confirmation
// ---------------------------------------------------------------------------

func (a *App) confirmDelete() {
	row, _ := a.table.GetSelection()
	if row < 1 || row >= a.table.GetRowCount() {
		return
	}

	a.mu.Lock()
	current := a.current
	a.mu.Unlock()
	if current.kind == "" {
		return
	}

	name := a.table.GetCell(row, 0).Text

	modal := tview.NewModal().
		SetText(fmt.Sprintf("Delete %s \"%s\" and its dependents?", current.kind, name)).
		AddButtons([]string{"Delete", "Cancel"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			if buttonLabel == "Delete" {
				a.deleteResource(current.kind, name)
			}
			a.pages.RemovePage("confirm")
			a.app.SetFocus(a.table)
		})
	modal.SetBackgroundColor(tcell.ColorDarkRed)

	a.pages.AddPage("confirm", modal, true, true)
}

func (a *App) deleteResource(kind, name string) {
	a.mu.Lock()
	namespace := a.namespace
	a.mu.Unlock()

	if err := a.client.Delete(namespace, kind, name); err != nil {
		a.footer.SetText(fmt.Sprintf(" [red]Delete failed: %v[-]", err))
		go func() {
			time.Sleep(3 * time.Second)
			a.app.QueueUpdateDraw(func() {
				a.updateFooter()
			})
		}()
		return
	}

	go a.refreshAndDraw()
}

// ---------------------------------------------------------------------------
// Header & Footer
// ---------------------------------------------------------------------------

func (a *App) updateHeader() {
	a.mu.Lock()
	current := a.current
	namespace := a.namespace
	filter := a.filter
	a.mu.Unlock()

	var parts []string
	for _, v := range views {
		if v.key == current.key {
			parts = append(parts, fmt.Sprintf("[::b]<%c>[%s][::-]", v.key, v.title))
		} else {
			parts = append(parts, fmt.Sprintf("<%c>%s", v.key, v.title))
		}
	}

	filterInfo := ""
	if filter != "" {
		filterInfo = fmt.Sprintf(" | [yellow]filter: %s[-]", filter)
	}

	a.header.SetText(fmt.Sprintf(" [::b]Kubesim[::-] | %s | ns:%s | %s%s",
		a.serverAddr, namespace, strings.Join(parts, "  "), filterInfo))
}

func (a *App) updateFooter() {
	a.footer.SetText(" [yellow]<enter>[white]Describe  [yellow]<d>[white]Delete  [yellow]<n>[white]Namespace  [yellow]</>[white]Filter  [yellow]<q>[white]Quit  [yellow]<r>[white]Refresh  [yellow]<esc>[white]Back")
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// formatAge returns a human-readable duration string since the given time.
func formatAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// phaseColor returns the tcell color appropriate for a phase string.
func phaseColor(phase string) tcell.Color {
	switch phase {
	case "Running", "Bound", "Succeeded":
		return tcell.ColorGreen
	case "Pending":
		return tcell.ColorYellow
	case "Failed":
		return tcell.ColorRed
	default:
		return tcell.ColorWhite
	}
}

// actionColor returns the tcell color for an event action.
func actionColor(action v1.EventAction) tcell.Color {
	switch action {
	case v1.ActionCreated:
		return tcell.ColorGreen
	case v1.ActionUpdated:
		return tcell.ColorYellow
	case v1.ActionDeleted:
		return tcell.ColorRed
	default:
		return tcell.ColorWhite
	}
}
