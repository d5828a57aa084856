// Package ui renders the terminal dashboard.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skycast/skycast/internal/location"
	"github.com/skycast/skycast/internal/prefs"
	"github.com/skycast/skycast/internal/session"
)

// AppState represents the current screen.
type AppState int

const (
	StateSearch    AppState = iota // free-text location search
	StateResults                   // candidate location list
	StateLoading                   // snapshot fetch in flight
	StateDashboard                 // weather dashboard
	StateSettings                  // preference editing
	StateError                     // fatal fetch error, no data to show
)

// Config holds the model's collaborators and tuning.
type Config struct {
	Session  *session.Session
	Resolver *location.Resolver
	Locator  location.Locator

	// DebounceWindow is the idle time before a search query fires.
	DebounceWindow time.Duration

	// FetchTimeout bounds each background operation.
	FetchTimeout time.Duration
}

// Model is the bubbletea application model.
type Model struct {
	state  AppState
	width  int
	height int
	err    error

	sess           *session.Session
	resolver       *location.Resolver
	locator        location.Locator
	debounceWindow time.Duration
	fetchTimeout   time.Duration

	// Search
	searchInput textinput.Model
	searchSeq   int // debounce sequence; only the latest tick fires
	searching   bool
	query       string

	// Results
	resultList list.Model
	results    []location.Location

	// Dashboard
	prefs      prefs.Preferences
	styles     styles
	spinner    spinner.Model
	statusLine string // transient non-fatal error shown on the dashboard
}

// NewModel creates the application model.
func NewModel(cfg Config) Model {
	ti := textinput.New()
	ti.Placeholder = "Search for a city..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 50

	p := cfg.Session.Preferences()
	st := newStyles(p.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	debounce := cfg.DebounceWindow
	if debounce <= 0 {
		debounce = 400 * time.Millisecond
	}
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return Model{
		state:          StateSearch,
		sess:           cfg.Session,
		resolver:       cfg.Resolver,
		locator:        cfg.Locator,
		debounceWindow: debounce,
		fetchTimeout:   timeout,
		searchInput:    ti,
		prefs:          p,
		styles:         st,
		spinner:        sp,
	}
}

// Init starts the first fetch: the restored location when one was persisted,
// otherwise the preferred default location.
func (m Model) Init() tea.Cmd {
	if m.sess.SelectedLocation() != nil {
		return tea.Batch(m.spinner.Tick, refreshSnapshot(m.sess, m.fetchTimeout), m.enterLoading())
	}
	return tea.Batch(m.spinner.Tick, m.selectAndFetch(m.prefs.DefaultLocation), m.enterLoading())
}

// enterLoading is a no-op cmd used so Init can flag the loading state without
// mutating the value receiver.
func (m Model) enterLoading() tea.Cmd {
	return func() tea.Msg { return loadingMsg{} }
}

type loadingMsg struct{}

// selectAndFetch persists the selection and starts the snapshot fetch.
func (m Model) selectAndFetch(loc location.Location) tea.Cmd {
	sess := m.sess
	timeout := m.fetchTimeout
	return func() tea.Msg {
		if err := sess.SelectLocation(loc); err != nil {
			return refreshedMsg{err: err}
		}
		return refreshSnapshot(sess, timeout)()
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		if m.state == StateResults {
			m.resultList.SetSize(msg.Width-4, msg.Height-10)
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case loadingMsg:
		m.state = StateLoading
		return m, nil

	case debounceMsg:
		// Only the most recently armed tick may fire.
		if msg.seq != m.searchSeq || m.state != StateSearch {
			return m, nil
		}
		query := strings.TrimSpace(m.searchInput.Value())
		if query == "" {
			return m, nil
		}
		m.searching = true
		m.query = query
		return m, searchLocations(m.resolver, query, m.fetchTimeout)

	case searchResultsMsg:
		// A newer query may have superseded this result.
		if msg.query != m.query {
			return m, nil
		}
		m.searching = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if len(msg.results) == 0 {
			m.err = fmt.Errorf("no locations found for %q", msg.query)
			return m, nil
		}
		m.err = nil
		m.results = msg.results
		m.resultList = newResultList(msg.results, m.width-4, m.height-10)
		m.state = StateResults
		return m, nil

	case locatedMsg:
		if msg.err != nil {
			// Geolocation failures fall back to the default location.
			m.statusLine = msg.err.Error()
			return m, tea.Batch(m.selectAndFetch(m.prefs.DefaultLocation), m.enterLoading())
		}
		return m, tea.Batch(m.selectAndFetch(msg.loc), m.enterLoading())

	case refreshedMsg:
		if msg.err != nil {
			if m.sess.Snapshot() != nil {
				// Keep showing the stale dashboard with a notice.
				m.statusLine = msg.err.Error()
				m.state = StateDashboard
				return m, nil
			}
			m.err = msg.err
			m.state = StateError
			return m, nil
		}
		m.statusLine = ""
		m.err = nil
		m.state = StateDashboard
		return m, nil

	case BackgroundRefreshMsg:
		// Periodic refresh completed behind the UI; just repaint.
		if m.state == StateDashboard {
			m.statusLine = ""
		}
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.state {
		case StateSearch:
			return m.handleSearchKey(keyMsg)
		case StateResults:
			return m.handleResultsKey(msg, keyMsg)
		case StateDashboard:
			return m.handleDashboardKey(keyMsg)
		case StateSettings:
			return m.handleSettingsKey(keyMsg)
		case StateError:
			if keyMsg.String() == "q" {
				return m, tea.Quit
			}
			m.state = StateSearch
			m.err = nil
			m.searchInput.Focus()
			return m, textinput.Blink
		}
	}

	switch m.state {
	case StateSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case StateResults:
		m.resultList, cmd = m.resultList.Update(msg)
	}

	return m, cmd
}

// handleSearchKey handles keyboard input in the search state.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil && msg.Type != tea.KeyEnter {
		m.err = nil
	}

	switch {
	case msg.Type == tea.KeyEnter:
		// Enter bypasses the debounce.
		query := strings.TrimSpace(m.searchInput.Value())
		if query == "" {
			return m, nil
		}
		m.searchSeq++
		m.searching = true
		m.query = query
		return m, searchLocations(m.resolver, query, m.fetchTimeout)

	case msg.Type == tea.KeyEsc:
		if m.sess.Snapshot() != nil {
			m.state = StateDashboard
			return m, nil
		}
		return m, nil

	case msg.String() == "ctrl+g":
		m.searching = true
		return m, locateDevice(m.locator, m.resolver, m.fetchTimeout)
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	// Every edit re-arms the debounce window.
	m.searchSeq++
	return m, tea.Batch(cmd, debounceTick(m.searchSeq, m.debounceWindow))
}

// handleResultsKey handles keyboard input in the result list state.
func (m Model) handleResultsKey(msg tea.Msg, keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMsg.Type == tea.KeyEnter:
		if item, ok := m.resultList.SelectedItem().(resultItem); ok {
			return m, tea.Batch(m.selectAndFetch(item.loc), m.enterLoading())
		}
		return m, nil

	case keyMsg.Type == tea.KeyEsc, keyMsg.String() == "s":
		m.state = StateSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case keyMsg.String() == "q":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.resultList, cmd = m.resultList.Update(msg)
	return m, cmd
}

// handleDashboardKey handles keyboard input on the dashboard.
func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "s", "/":
		m.state = StateSearch
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		return m, textinput.Blink

	case "r":
		return m, tea.Batch(refreshSnapshot(m.sess, m.fetchTimeout), m.enterLoading())

	case "g":
		return m, locateDevice(m.locator, m.resolver, m.fetchTimeout)

	case "u":
		return m.toggleUnit()

	case "t":
		return m.toggleTheme()

	case "f":
		if loc := m.sess.SelectedLocation(); loc != nil {
			p, err := m.sess.ToggleSavedLocation(*loc)
			if err != nil {
				m.statusLine = err.Error()
				return m, nil
			}
			m.prefs = p
		}
		return m, nil

	case "o":
		m.state = StateSettings
		return m, nil
	}

	// Number keys jump to saved locations.
	if n := savedIndex(msg.String()); n >= 0 && n < len(m.prefs.SavedLocations) {
		return m, tea.Batch(m.selectAndFetch(m.prefs.SavedLocations[n]), m.enterLoading())
	}

	return m, nil
}

// handleSettingsKey handles keyboard input on the settings screen.
func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "esc", "o":
		m.state = StateDashboard
		return m, nil

	case "u":
		return m.toggleUnit()

	case "t":
		return m.toggleTheme()

	case "1", "2", "3", "4":
		d := m.prefs.Dashboard
		switch msg.String() {
		case "1":
			d.ShowCurrentWeather = !d.ShowCurrentWeather
		case "2":
			d.ShowHourlyForecast = !d.ShowHourlyForecast
		case "3":
			d.ShowDailyForecast = !d.ShowDailyForecast
		case "4":
			d.ShowExtendedInfo = !d.ShowExtendedInfo
		}
		return m.applyUpdate(prefs.Update{Dashboard: &d})
	}

	return m, nil
}

// toggleUnit flips the temperature unit preference.
func (m Model) toggleUnit() (tea.Model, tea.Cmd) {
	unit := prefs.UnitFahrenheit
	if m.prefs.TemperatureUnit == prefs.UnitFahrenheit {
		unit = prefs.UnitCelsius
	}
	return m.applyUpdate(prefs.Update{TemperatureUnit: &unit})
}

// toggleTheme flips the theme preference and rebuilds the styles.
func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	theme := prefs.ThemeDark
	if m.prefs.Theme == prefs.ThemeDark {
		theme = prefs.ThemeLight
	}
	return m.applyUpdate(prefs.Update{Theme: &theme})
}

// applyUpdate persists a preference change and refreshes the cached copy.
func (m Model) applyUpdate(u prefs.Update) (tea.Model, tea.Cmd) {
	p, err := m.sess.UpdatePreferences(u)
	if err != nil {
		m.statusLine = err.Error()
		return m, nil
	}
	m.prefs = p
	m.styles = newStyles(p.Theme)
	return m, nil
}

// savedIndex maps number keys to saved location slots, "1" being the first.
func savedIndex(key string) int {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return -1
	}
	return int(key[0] - '1')
}

// resultItem wraps a location for the result list.
type resultItem struct {
	loc location.Location
}

func (r resultItem) FilterValue() string { return r.loc.DisplayName() }

func (r resultItem) Title() string { return r.loc.DisplayName() }

func (r resultItem) Description() string {
	return fmt.Sprintf("%.4f, %.4f", r.loc.Lat, r.loc.Lon)
}

// newResultList builds the candidate list.
func newResultList(results []location.Location, width, height int) list.Model {
	items := make([]list.Item, len(results))
	for i, loc := range results {
		items[i] = resultItem{loc: loc}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = "Select a location"
	l.SetShowHelp(true)
	l.SetFilteringEnabled(false)
	return l
}
