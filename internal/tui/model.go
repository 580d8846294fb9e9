// Package tui provides the BubbleTea-based terminal catalogue browser.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/ivalero/montaje/internal/config"
	"github.com/ivalero/montaje/internal/model"
	"github.com/ivalero/montaje/internal/store"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeList Mode = iota
	ModeDetail
	ModeSearch
	ModeHelp
	ModeConfirmDelete
)

// View selects which catalogue the list shows.
type View int

const (
	ViewProducts View = iota
	ViewKits
)

// Model is the main TUI model.
type Model struct {
	// Configuration
	cfg   *config.Config
	store *store.Store

	// Current mode and catalogue
	mode Mode
	view View

	// Components
	list        list.Model
	viewport    viewport.Model
	searchInput textinput.Model
	help        help.Model

	// State
	products    []model.Product
	kits        []model.Kit
	selected    list.Item
	searchQuery string
	width       int
	height      int
	ready       bool

	// Key bindings
	keys KeyMap

	// Status message
	statusMsg string
	statusErr bool

	// Refresh channel from the database watcher
	refreshCh <-chan struct{}
}

// productItem wraps a product for the list component.
type productItem struct {
	product model.Product
}

func (i productItem) Title() string {
	return i.product.Code
}

func (i productItem) Description() string {
	return fmt.Sprintf("[%s] %s - %.1f min, T%d",
		i.product.Department.Label(),
		i.product.Description,
		i.product.OptimalMinutes,
		i.product.WorkerType)
}

func (i productItem) FilterValue() string {
	return i.product.Code + " " + i.product.Description
}

// kitItem wraps a kit for the list component.
type kitItem struct {
	kit model.Kit
}

func (i kitItem) Title() string {
	return i.kit.Code
}

func (i kitItem) Description() string {
	return i.kit.Description
}

func (i kitItem) FilterValue() string {
	return i.kit.Code + " " + i.kit.Description
}

// New creates a new TUI model.
func New(cfg *config.Config, s *store.Store, refreshCh <-chan struct{}) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Product Catalogue"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	searchInput := textinput.New()
	searchInput.Placeholder = "Search..."
	searchInput.CharLimit = 100

	return Model{
		cfg:         cfg,
		store:       s,
		mode:        ModeList,
		view:        ViewProducts,
		list:        l,
		searchInput: searchInput,
		help:        help.New(),
		keys:        DefaultKeyMap(),
		refreshCh:   refreshCh,
	}
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadCatalogue,
		m.watchForChanges,
	)
}

type loadCatalogueMsg struct{}

func (m Model) loadCatalogue() tea.Msg {
	return loadCatalogueMsg{}
}

type refreshMsg struct{}

// watchForChanges waits for a database change event.
func (m Model) watchForChanges() tea.Msg {
	if m.refreshCh == nil {
		return nil
	}
	<-m.refreshCh
	return refreshMsg{}
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

type itemDeletedMsg struct {
	text string
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		m.list.SetSize(msg.Width, msg.Height-2)
		m.viewport = viewport.New(msg.Width, msg.Height-4)
		m.viewport.YPosition = 2

		return m, nil

	case loadCatalogueMsg:
		m.fetchCatalogue()
		m.list.SetItems(m.buildListItems())
		return m, nil

	case refreshMsg:
		m.fetchCatalogue()
		m.list.SetItems(m.buildListItems())
		return m, m.watchForChanges

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, func() tea.Msg {
				return statusMsg{text: "Copy failed: " + msg.err.Error(), isErr: true}
			}
		}
		return m, func() tea.Msg {
			return statusMsg{text: "Copied to clipboard", isErr: false}
		}

	case itemDeletedMsg:
		// Reload right away instead of waiting for the file watcher.
		m.fetchCatalogue()
		m.list.SetItems(m.buildListItems())
		return m, func() tea.Msg {
			return statusMsg{text: msg.text, isErr: false}
		}
	}

	// Update child components
	switch m.mode {
	case ModeList:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	case ModeDetail:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	case ModeSearch:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModeList
		} else if m.mode != ModeConfirmDelete {
			m.mode = ModeHelp
		}
		return m, nil
	}

	switch m.mode {
	case ModeList:
		return m.handleListKey(msg)
	case ModeDetail:
		return m.handleDetailKey(msg)
	case ModeSearch:
		return m.handleSearchKey(msg)
	case ModeConfirmDelete:
		return m.handleConfirmKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeList
		}
		return m, nil
	}

	return m, nil
}

// handleListKey handles keys in list mode.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Enter):
		if item := m.list.SelectedItem(); item != nil {
			m.selected = item
			m.mode = ModeDetail
			m.viewport.SetContent(m.renderDetail(item))
			m.viewport.GotoTop()
		}
		return m, nil

	case key.Matches(msg, m.keys.SwitchView):
		if m.view == ViewProducts {
			m.view = ViewKits
			m.list.Title = "Kit Catalogue"
		} else {
			m.view = ViewProducts
			m.list.Title = "Product Catalogue"
		}
		m.list.SetItems(m.buildListItems())
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if item := m.list.SelectedItem(); item != nil {
			data, err := json.MarshalIndent(itemValue(item), "", "  ")
			if err != nil {
				return m, errStatus("Failed to marshal JSON: " + err.Error())
			}
			return m, m.copyToClipboard(string(data))
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyAllJSON):
		data, err := json.MarshalIndent(m.visibleValues(), "", "  ")
		if err != nil {
			return m, errStatus("Failed to marshal JSON: " + err.Error())
		}
		return m, m.copyToClipboard(string(data))

	case key.Matches(msg, m.keys.CopyAllYAML):
		data, err := yaml.Marshal(m.visibleValues())
		if err != nil {
			return m, errStatus("Failed to marshal YAML: " + err.Error())
		}
		return m, m.copyToClipboard(string(data))

	case key.Matches(msg, m.keys.Delete):
		if item := m.list.SelectedItem(); item != nil {
			m.selected = item
			m.mode = ModeConfirmDelete
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.list.SetItems(m.buildListItems())
		m.mode = ModeSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadCatalogue
	}

	// Pass to list
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleDetailKey handles keys in detail mode.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = ModeList
		m.selected = nil
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if m.selected != nil {
			data, err := json.MarshalIndent(itemValue(m.selected), "", "  ")
			if err != nil {
				return m, errStatus("Failed to marshal JSON: " + err.Error())
			}
			return m, m.copyToClipboard(string(data))
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.selected = nil
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.list.SetItems(m.buildListItems())
		m.mode = ModeSearch
		m.searchInput.Focus()
		return m, textinput.Blink
	}

	// Pass to viewport
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleSearchKey handles keys in search mode.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		// Esc exits search mode and clears search
		m.mode = ModeList
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.list.SetItems(m.buildListItems())
		return m, nil

	case tea.KeyEnter:
		if item := m.list.SelectedItem(); item != nil {
			m.selected = item
			m.mode = ModeDetail
			m.searchInput.Blur()
			m.viewport.SetContent(m.renderDetail(item))
			m.viewport.GotoTop()
		}
		return m, nil

	case tea.KeyUp, tea.KeyDown:
		// Allow navigating the list while searching
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	// Pass to text input
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	// Live filtering: update search query and rebuild list on each keystroke
	m.searchQuery = m.searchInput.Value()
	m.list.SetItems(m.buildListItems())

	return m, cmd
}

// handleConfirmKey handles the delete confirmation prompt.
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		item := m.selected
		m.selected = nil
		m.mode = ModeList
		return m, m.deleteItem(item)
	default:
		m.selected = nil
		m.mode = ModeList
		return m, nil
	}
}

func (m Model) deleteItem(item list.Item) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var err error
		var what string
		switch it := item.(type) {
		case productItem:
			what = "Product " + it.product.Code
			err = m.store.DeleteProduct(ctx, it.product.Code)
		case kitItem:
			what = "Kit " + it.kit.Code
			err = m.store.DeleteKit(ctx, it.kit.Code)
		}
		if err != nil {
			return statusMsg{text: "Delete failed: " + err.Error(), isErr: true}
		}
		return itemDeletedMsg{text: what + " deleted"}
	}
}

func errStatus(text string) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: true}
	}
}

// fetchCatalogue reloads products and kits from the store.
func (m *Model) fetchCatalogue() {
	if m.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if products, err := m.store.SearchProducts(ctx, ""); err == nil {
		m.products = products
	}
	if kits, err := m.store.SearchKits(ctx, ""); err == nil {
		m.kits = kits
	}
}

// buildListItems creates list items for the active view and search.
func (m Model) buildListItems() []list.Item {
	var items []list.Item
	switch m.view {
	case ViewProducts:
		for _, p := range m.products {
			if m.matches(p.Code, p.Description) {
				items = append(items, productItem{product: p})
			}
		}
	case ViewKits:
		for _, k := range m.kits {
			if m.matches(k.Code, k.Description) {
				items = append(items, kitItem{kit: k})
			}
		}
	}
	return items
}

func (m Model) matches(fields ...string) bool {
	if m.searchQuery == "" {
		return true
	}
	for _, f := range fields {
		if containsIgnoreCase(f, m.searchQuery) {
			return true
		}
	}
	return false
}

// visibleValues returns the underlying values of the visible items.
func (m Model) visibleValues() []any {
	items := m.list.Items()
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, itemValue(item))
	}
	return out
}

func itemValue(item list.Item) any {
	switch it := item.(type) {
	case productItem:
		return it.product
	case kitItem:
		return it.kit
	}
	return nil
}

// renderDetail renders the detail view for a product or kit.
func (m Model) renderDetail(item list.Item) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	var s string
	switch it := item.(type) {
	case productItem:
		p := m.loadProduct(it.product)
		s += headerStyle.Render(p.Code) + "\n\n"
		s += labelStyle.Render("Description: ") + p.Description + "\n"
		s += labelStyle.Render("Department:  ") + p.Department.Label() + "\n"
		s += labelStyle.Render("Worker type: ") + fmt.Sprintf("T%d", p.WorkerType) + "\n"
		s += labelStyle.Render("Minutes:     ") + fmt.Sprintf("%.2f", p.OptimalMinutes) + "\n"
		if p.Location != "" {
			s += labelStyle.Render("Location:    ") + p.Location + "\n"
		}
		if len(p.Parts) > 0 {
			s += "\n" + labelStyle.Render("Sub-parts:") + "\n"
			for _, part := range p.Parts {
				s += fmt.Sprintf("  %-30s %6.2f min  T%d\n", part.Description, part.Minutes, part.WorkerType)
			}
		}

	case kitItem:
		k := m.loadKit(it.kit.Code)
		s += headerStyle.Render(k.Code) + "\n\n"
		s += labelStyle.Render("Description: ") + k.Description + "\n"
		if len(k.Items) > 0 {
			s += "\n" + labelStyle.Render("Contents:") + "\n"
			totalMinutes := 0.0
			totalItems := 0
			for _, item := range k.Items {
				line := fmt.Sprintf("  %-20s x%d", item.ProductCode, item.Quantity)
				if p := m.findProduct(item.ProductCode); p != nil {
					minutes := p.OptimalMinutes * float64(item.Quantity)
					totalMinutes += minutes
					line += fmt.Sprintf("  %8.2f min", minutes)
				}
				totalItems += item.Quantity
				s += line + "\n"
			}
			s += "\n" + labelStyle.Render("Totals:      ") +
				fmt.Sprintf("%d items, %.2f min per unit", totalItems, totalMinutes) + "\n"
		}
	}
	return s
}

// loadProduct fetches the product with its sub-parts; the list rows
// carry the header columns only.
func (m Model) loadProduct(p model.Product) model.Product {
	if m.store == nil || !p.HasParts {
		return p
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if full, err := m.store.GetProduct(ctx, p.Code); err == nil {
		return *full
	}
	return p
}

// findProduct looks up a product in the loaded catalogue.
func (m Model) findProduct(code string) *model.Product {
	for i := range m.products {
		if m.products[i].Code == code {
			return &m.products[i]
		}
	}
	return nil
}

// loadKit fetches the kit with its items, falling back to the list row.
func (m Model) loadKit(code string) model.Kit {
	if m.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if k, err := m.store.GetKit(ctx, code); err == nil {
			return *k
		}
	}
	for _, k := range m.kits {
		if k.Code == code {
			return k
		}
	}
	return model.Kit{Code: code}
}

// copyToClipboard copies text to the system clipboard.
func (m Model) copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		err := copyText(text, m.cfg)
		return copyResultMsg{err: err}
	}
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeList:
		return m.viewList()
	case ModeDetail:
		return m.viewDetail()
	case ModeSearch:
		return m.viewSearch()
	case ModeHelp:
		return m.viewHelp()
	case ModeConfirmDelete:
		return m.viewConfirm()
	default:
		return ""
	}
}

func (m Model) viewList() string {
	var s string
	s += m.list.View()

	// Status bar
	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		s += "\n" + statusStyle.Render(m.statusMsg)
	} else {
		s += "\n" + m.buildKeybindBar(m.width, "list")
	}

	return s
}

func (m Model) viewDetail() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1)

	title := "Product Detail"
	if _, ok := m.selected.(kitItem); ok {
		title = "Kit Detail"
	}
	header := headerStyle.Render(title)

	return header + "\n" + m.viewport.View() + "\n" + m.buildKeybindBar(m.width, "detail")
}

func (m Model) viewSearch() string {
	matchCount := len(m.list.Items())
	countStr := fmt.Sprintf("(%d matches)", matchCount)

	searchBar := "Search: " + m.searchInput.View() + " " +
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(countStr)

	return searchBar + "\n" + m.list.View() + "\n" + m.buildKeybindBar(m.width, "search")
}

func (m Model) viewConfirm() string {
	var what string
	switch it := m.selected.(type) {
	case productItem:
		what = "product " + it.product.Code
	case kitItem:
		what = "kit " + it.kit.Code
	}

	promptStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("9"))

	return m.list.View() + "\n" +
		promptStyle.Render(fmt.Sprintf("Delete %s? (y/N)", what))
}

func (m Model) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	s := titleStyle.Render("Keyboard Shortcuts") + "\n\n"

	s += sectionStyle.Render("Navigation") + "\n"
	s += keyStyle.Render("  j/k, ↑/↓") + "     Move up/down\n"
	s += keyStyle.Render("  g/G") + "          Go to top/bottom\n"
	s += keyStyle.Render("  pgup/pgdn") + "    Page up/down\n"
	s += keyStyle.Render("  tab") + "          Switch products/kits\n"
	s += "\n"

	s += sectionStyle.Render("Actions") + "\n"
	s += keyStyle.Render("  enter") + "        View details\n"
	s += keyStyle.Render("  c") + "            Copy selected as JSON\n"
	s += keyStyle.Render("  C") + "            Copy all visible as JSON\n"
	s += keyStyle.Render("  alt+c") + "        Copy all visible as YAML\n"
	s += keyStyle.Render("  D") + "            Delete (with confirmation)\n"
	s += keyStyle.Render("  /") + "            Search\n"
	s += keyStyle.Render("  r") + "            Refresh from database\n"
	s += "\n"

	s += sectionStyle.Render("General") + "\n"
	s += keyStyle.Render("  ?") + "            Toggle this help\n"
	s += keyStyle.Render("  esc") + "          Back / Cancel\n"
	s += keyStyle.Render("  q") + "            Quit\n"

	s += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(
		"Press ? or esc to return")

	return s
}

// containsIgnoreCase checks if s contains substr (case-insensitive).
func containsIgnoreCase(s, substr string) bool {
	return len(s) >= len(substr) &&
		(s == substr ||
			len(substr) == 0 ||
			findIgnoreCase(s, substr))
}

func findIgnoreCase(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if equalFoldAt(s, i, substr) {
			return true
		}
	}
	return false
}

func equalFoldAt(s string, start int, substr string) bool {
	for j := 0; j < len(substr); j++ {
		c1 := s[start+j]
		c2 := substr[j]
		if c1 == c2 {
			continue
		}
		// Simple ASCII case folding
		if c1 >= 'A' && c1 <= 'Z' {
			c1 += 32
		}
		if c2 >= 'A' && c2 <= 'Z' {
			c2 += 32
		}
		if c1 != c2 {
			return false
		}
	}
	return true
}

// keybind represents a single keybind with priority for the status bar.
type keybind struct {
	key      string
	desc     string
	priority int // lower = more important (shown first)
}

// buildKeybindBar builds a keybind bar that fits within the given width.
// mode determines which keybinds are shown: "list", "detail", "search"
func (m Model) buildKeybindBar(width int, mode string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	var binds []keybind

	switch mode {
	case "list":
		// Priority order for list mode (most important first)
		binds = []keybind{
			{"q", "quit", 1},
			{"enter", "view", 2},
			{"tab", "switch", 3},
			{"?", "help", 4},
			{"/", "search", 5},
			{"c", "copy", 6},
			{"D", "delete", 7},
			{"r", "refresh", 8},
		}
	case "detail":
		binds = []keybind{
			{"q", "quit", 1},
			{"esc", "back", 2},
			{"/", "search", 3},
			{"c", "copy", 4},
			{"j/k", "scroll", 5},
		}
	case "search":
		binds = []keybind{
			{"enter", "view", 1},
			{"esc", "close", 2},
			{"↑/↓", "navigate", 3},
		}
	}

	// Build the bar, adding keybinds until we run out of space
	const separator = "  "
	result := ""
	for _, b := range binds {
		item := keyStyle.Render(b.key) + " " + b.desc
		plainItem := b.key + " " + b.desc
		testLen := len(result) + len(separator) + len(plainItem)
		if result != "" {
			testLen = len(stripANSI(result)) + len(separator) + len(plainItem)
		}

		if width > 0 && testLen > width {
			break
		}
		if result != "" {
			result += separator
		}
		result += item
	}

	return style.Render(result)
}

// stripANSI removes ANSI escape codes for length calculation.
func stripANSI(s string) string {
	result := make([]byte, 0, len(s))
	inEscape := false
	for i := 0; i < len(s); i++ {
		if s[i] == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if s[i] == 'm' {
				inEscape = false
			}
			continue
		}
		result = append(result, s[i])
	}
	return string(result)
}

// Run starts the TUI against the given store, watching the database
// file for outside changes.
func Run(cfg *config.Config, s *store.Store) error {
	refreshCh := make(chan struct{}, 1)
	watcher, err := store.NewFileWatcher(s, func() {
		select {
		case refreshCh <- struct{}{}:
		default:
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to create file watcher: %v\n", err)
	} else if err := watcher.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to start file watcher: %v\n", err)
	}

	m := New(cfg, s, refreshCh)
	p := tea.NewProgram(m, tea.WithAltScreen())

	_, err = p.Run()

	if watcher != nil {
		_ = watcher.Stop()
	}

	return err
}
