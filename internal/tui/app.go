// Package tui provides the interactive Bubble Tea prediction explorer for budgetify.
package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kingPercy11/Budgetify/internal/cli"
	"github.com/kingPercy11/Budgetify/internal/features"
	"github.com/kingPercy11/Budgetify/internal/log"
	"github.com/kingPercy11/Budgetify/internal/model"
	"github.com/kingPercy11/Budgetify/internal/pipeline"
	"github.com/kingPercy11/Budgetify/internal/store"
	"github.com/kingPercy11/Budgetify/internal/tui/components"
	"github.com/kingPercy11/Budgetify/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LoadedMsg is sent when the model and run history finish loading.
type LoadedMsg struct {
	Predictor *pipeline.Predictor
	Runs      []store.Run
	Err       error
	LoadTime  time.Duration
}

// ProgressMsg reports run history loading progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// Predict tab fields, in focus order.
const (
	fieldIncome = iota
	fieldAge
	fieldDependents
	fieldCityTier
	fieldOccupation
	numFields
)

const (
	tabPredict = iota
	tabModel
	tabRuns
)

const (
	minTerminalWidth = 80
	compactWidth     = 110
	maxContentWidth  = 160
	minContentHeight = 5

	runHistoryLimit = 50
)

// App is the root Bubble Tea model.
type App struct {
	// Data
	predictor *pipeline.Predictor
	runs      []store.Run
	loaded    bool
	loadErr   error
	loadTime  time.Duration

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Predict tab
	inputs     []textinput.Model
	focus      int
	tierIdx    int
	occIdx     int
	prediction *model.Prediction
	predErr    error

	// Runs tab
	runCursor int

	// Loading
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg

	artifactDir string
	logger      *log.Logger
}

// NewApp creates the explorer for the artifacts in artifactDir, with the
// predict form seeded from initial.
func NewApp(artifactDir string, initial model.Profile, logger *log.Logger) App {
	if logger == nil {
		logger = log.Discard()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	inputs := make([]textinput.Model, fieldCityTier)
	values := []string{
		strconv.FormatFloat(initial.Income, 'f', -1, 64),
		strconv.Itoa(initial.Age),
		strconv.Itoa(initial.Dependents),
	}
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 12
		ti.Width = 14
		ti.SetValue(values[i])
		inputs[i] = ti
	}
	inputs[fieldIncome].Focus()

	return App{
		inputs:      inputs,
		tierIdx:     indexOr(features.CityTiers(), initial.CityTier),
		occIdx:      indexOr(features.Occupations(), initial.Occupation),
		spinner:     sp,
		loadSub:     make(chan tea.Msg, 1),
		artifactDir: artifactDir,
		logger:      logger.WithComponent(log.ComponentApp),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.artifactDir, a.logger, a.loadSub),
		a.spinner.Tick,
	)
}

// recompute re-runs the prediction for the current form values.
func (a *App) recompute() {
	a.prediction = nil
	a.predErr = nil
	if a.predictor == nil {
		return
	}

	vals := a.profileValues()
	p, err := vals.Profile()
	if err != nil {
		a.predErr = err
		return
	}

	pred, err := a.predictor.PredictProfile(p)
	if err != nil {
		a.predErr = err
		return
	}
	a.prediction = &pred
}

func (a App) profileValues() ProfileValues {
	return ProfileValues{
		Income:     a.inputs[fieldIncome].Value(),
		Age:        a.inputs[fieldAge].Value(),
		Dependents: a.inputs[fieldDependents].Value(),
		CityTier:   features.CityTiers()[a.tierIdx],
		Occupation: features.Occupations()[a.occIdx],
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.loadErr != nil || a.showHelp {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabRuns && a.runCursor > 0 {
				a.runCursor--
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabRuns && a.runCursor < len(a.runs)-1 {
				a.runCursor++
			}
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case spinner.TickMsg:
		if a.loaded {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case LoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.loadErr = msg.Err
		a.predictor = msg.Predictor
		a.runs = msg.Runs
		a.recompute()
		return a, nil
	}

	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}
	if a.loadErr != nil {
		if key == "q" || key == "esc" || key == "enter" {
			return a, tea.Quit
		}
		return a, nil
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if a.activeTab == tabPredict {
		if next, cmd, handled := a.updatePredictKey(msg); handled {
			return next, cmd
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(key) == 1 {
		if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	if a.activeTab == tabRuns {
		switch key {
		case "j", "down":
			if a.runCursor < len(a.runs)-1 {
				a.runCursor++
			}
		case "k", "up":
			if a.runCursor > 0 {
				a.runCursor--
			}
		case "g", "home":
			a.runCursor = 0
		case "G", "end":
			if len(a.runs) > 0 {
				a.runCursor = len(a.runs) - 1
			}
		}
	}

	return a, nil
}

// updatePredictKey handles keys owned by the predict form. Letters fall
// through to the global bindings since the text fields are numeric.
func (a App) updatePredictKey(msg tea.KeyMsg) (App, tea.Cmd, bool) {
	key := msg.String()

	switch key {
	case "tab", "down", "enter":
		a.setFocus((a.focus + 1) % numFields)
		return a, nil, true
	case "shift+tab", "up":
		a.setFocus((a.focus - 1 + numFields) % numFields)
		return a, nil, true
	}

	if a.focus == fieldCityTier || a.focus == fieldOccupation {
		step := 0
		switch key {
		case "left", "h":
			step = -1
		case "right", "l", " ":
			step = 1
		}
		if step == 0 {
			return a, nil, false
		}
		if a.focus == fieldCityTier {
			a.tierIdx = cycle(a.tierIdx, step, len(features.CityTiers()))
		} else {
			a.occIdx = cycle(a.occIdx, step, len(features.Occupations()))
		}
		a.recompute()
		return a, nil, true
	}

	if !isNumericKey(msg) {
		return a, nil, false
	}
	var cmd tea.Cmd
	a.inputs[a.focus], cmd = a.inputs[a.focus].Update(msg)
	a.recompute()
	return a, cmd, true
}

func (a *App) setFocus(f int) {
	a.focus = f
	for i := range a.inputs {
		if i == f {
			a.inputs[i].Focus()
		} else {
			a.inputs[i].Blur()
		}
	}
}

func isNumericKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyCtrlU, tea.KeyCtrlW:
		return true
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if (r < '0' || r > '9') && r != '.' {
				return false
			}
		}
		return len(msg.Runes) > 0
	}
	return false
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.loadErr != nil {
		return a.viewLoadError()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  budgetify needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ budgetify"))
	b.WriteString(subtitleStyle.Render(" · Expense Explorer"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	if a.progressMax > 0 {
		b.WriteString(subtitleStyle.Render(" Loading run history\n\n"))
		b.WriteString(components.ProgressBar(float64(a.progress)/float64(a.progressMax), 30))
	} else {
		b.WriteString(subtitleStyle.Render(" Loading model from " + a.artifactDir))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoadError() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Red).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Could not load model"))
	b.WriteString("\n\n")
	b.WriteString(textStyle.Render(a.loadErr.Error()))
	b.WriteString("\n\n")
	if errors.Is(a.loadErr, model.ErrMissingFile) {
		b.WriteString(dimStyle.Render("Run `budgetify train` first."))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("Press q to quit"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"p m r", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move through runs"},
		}},
		{"Predict", []struct{ key, desc string }{
			{"Tab ↑ ↓", "Move between fields"},
			{"0-9 .", "Edit income, age, dependents"},
			{"← →", "Change city tier / occupation"},
		}},
		{"General", []struct{ key, desc string }{
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	hints := "[?]help  [q]uit"
	if a.activeTab == tabPredict {
		hints = "[tab]field  [←→]choose  " + hints
	}
	right := ""
	if a.predictor != nil {
		meta := a.predictor.Metadata()
		right = fmt.Sprintf("%s · R² %s · loaded in %s",
			cli.FormatLabel(meta.Family), cli.FormatScore(meta.Performance.R2), cli.FormatDuration(a.loadTime))
	}
	statusBar := components.RenderStatusBar(w, hints, right)

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabPredict:
		content = a.renderPredictTab(cw)
	case tabModel:
		content = a.renderModelTab(cw)
	case tabRuns:
		content = a.renderRunsTab(cw, contentH)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

// loadDataCmd loads the artifacts and run history in a background goroutine.
// It streams ProgressMsg updates and a final LoadedMsg through sub.
func loadDataCmd(artifactDir string, logger *log.Logger, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			reg, meta, err := store.LoadArtifacts(artifactDir)
			if err != nil {
				sub <- LoadedMsg{Err: err, LoadTime: time.Since(start)}
				return
			}
			pred, err := pipeline.NewPredictor(reg, meta, logger)
			if err != nil {
				sub <- LoadedMsg{Err: err, LoadTime: time.Since(start)}
				return
			}

			// Run history is optional; a missing or broken registry leaves it empty.
			runs, err := loadRuns(filepath.Join(artifactDir, store.RegistryFile), func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			})
			if err != nil {
				logger.Warn("run history unavailable", log.FieldError, err)
			}

			sub <- LoadedMsg{Predictor: pred, Runs: runs, LoadTime: time.Since(start)}
		}()

		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

func loadRuns(dbPath string, progressFn pipeline.ProgressFunc) ([]store.Run, error) {
	registry, err := store.OpenRegistry(dbPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = registry.Close() }()

	list, err := registry.ListRuns(runHistoryLimit)
	if err != nil {
		return nil, err
	}
	runs := make([]store.Run, 0, len(list))
	for i, r := range list {
		full, err := registry.GetRun(r.ID)
		if err != nil {
			return runs, err
		}
		runs = append(runs, full)
		if progressFn != nil {
			progressFn(i+1, len(list))
		}
	}
	return runs, nil
}

func cycle(idx, step, n int) int {
	return ((idx+step)%n + n) % n
}

func indexOr(values []string, v string) int {
	for i, s := range values {
		if s == v {
			return i
		}
	}
	return 0
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
