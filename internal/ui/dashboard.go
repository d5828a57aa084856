package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/skycast/skycast/internal/alerts"
	"github.com/skycast/skycast/internal/weather"
)

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.state {
	case StateSearch:
		return m.viewSearch()
	case StateResults:
		return m.viewResults()
	case StateLoading:
		return m.viewLoading()
	case StateDashboard:
		return m.viewDashboard()
	case StateSettings:
		return m.viewSettings()
	case StateError:
		return m.viewError()
	}

	return ""
}

// viewSearch renders the location search screen.
func (m Model) viewSearch() string {
	title := m.styles.title.Render("☀ Skycast")
	subtitle := m.styles.muted.Render("Weather dashboard")

	searchBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2).
		Width(56).
		Render(m.searchInput.View())

	sections := []string{title, subtitle, "", searchBox}

	if m.searching {
		sections = append(sections, "", m.styles.muted.Render(m.spinner.View()+" Searching..."))
	}
	if m.err != nil {
		sections = append(sections, "", m.styles.errorText.Render("✗ "+m.err.Error()))
	}

	sections = append(sections, "",
		m.styles.help.Render("Enter: Search • Ctrl+G: Use my location • Esc: Back • Ctrl+C: Quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewResults renders the candidate location list.
func (m Model) viewResults() string {
	title := m.styles.title.Render("☀ Skycast")
	subtitle := m.styles.muted.Render(fmt.Sprintf("%d matches for %q", len(m.results), m.query))
	help := m.styles.help.Render("↑/↓: Navigate • Enter: Select • S/Esc: Back to search • Q: Quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title, subtitle, "", m.resultList.View(), "", help)
}

// viewLoading renders the loading screen.
func (m Model) viewLoading() string {
	where := ""
	if loc := m.sess.SelectedLocation(); loc != nil {
		where = " for " + loc.DisplayName()
	}
	return fmt.Sprintf("\n  %s Fetching weather%s...\n", m.spinner.View(), where)
}

// viewError renders a fetch failure with nothing else to show.
func (m Model) viewError() string {
	msg := "Failed to fetch weather data"
	if m.err != nil {
		msg = m.err.Error()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.errorText.Render("✗ "+msg),
		"",
		m.styles.help.Render("Press any key to search • Q: Quit"),
	)
}

// viewDashboard renders the main dashboard.
func (m Model) viewDashboard() string {
	snapshot := m.sess.Snapshot()
	if snapshot == nil {
		return m.viewLoading()
	}

	var sections []string

	header := m.styles.title.Render("☀ Skycast")
	if loc := m.sess.SelectedLocation(); loc != nil {
		name := loc.DisplayName()
		if m.prefs.IsSaved(*loc) {
			name += " ★"
		}
		header += "  " + m.styles.value.Render(name)
	}
	sections = append(sections, header)
	sections = append(sections, m.styles.muted.Render(
		"Updated "+snapshot.FetchedAt.Format("15:04")))

	if m.statusLine != "" {
		sections = append(sections, m.styles.errorText.Render("✗ "+m.statusLine))
	}

	if fired := m.sess.Alerts(); len(fired) > 0 {
		sections = append(sections, m.renderAlerts(fired))
	}

	if m.prefs.Dashboard.ShowCurrentWeather {
		sections = append(sections,
			m.styles.sectionHeader.Render("CURRENT"),
			m.renderCurrent(snapshot))
	}
	if m.prefs.Dashboard.ShowHourlyForecast {
		sections = append(sections,
			m.styles.sectionHeader.Render("NEXT HOURS"),
			m.renderHourly(snapshot))
	}
	if m.prefs.Dashboard.ShowDailyForecast {
		sections = append(sections,
			m.styles.sectionHeader.Render("DAILY"),
			m.renderDaily(snapshot))
	}
	if m.prefs.Dashboard.ShowExtendedInfo {
		sections = append(sections,
			m.styles.sectionHeader.Render("DETAILS"),
			m.renderExtended(snapshot))
	}

	sections = append(sections, m.styles.help.Render(
		"S: Search • G: My location • R: Refresh • F: Save • U: Units • T: Theme • O: Settings • Q: Quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderAlerts renders the active alert banner.
func (m Model) renderAlerts(fired []alerts.Alert) string {
	lines := make([]string, 0, len(fired))
	for _, a := range fired {
		style := m.styles.alertMinor
		switch a.Severity {
		case alerts.SeveritySevere:
			style = m.styles.alertSevere
		case alerts.SeverityModerate:
			style = m.styles.alertModerate
		}
		lines = append(lines, style.Render(fmt.Sprintf("⚠ %s — %s", a.Type, a.Description)))
	}
	return strings.Join(lines, "\n")
}

// renderCurrent renders the current conditions pane.
func (m Model) renderCurrent(snapshot *weather.Snapshot) string {
	cur := snapshot.Current
	cond := cur.PrimaryCondition()
	unit := m.prefs.TemperatureUnit

	temp := fmt.Sprintf("%s %s  %s",
		conditionGlyph(cond.Main),
		formatTemp(cur.Temp, unit),
		cond.Description)
	feels := fmt.Sprintf("Feels like %s", formatTemp(cur.FeelsLike, unit))

	return m.styles.pane.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.value.Render(temp),
		m.styles.muted.Render(feels),
		"",
		m.kv("Humidity", fmt.Sprintf("%.0f%%", cur.Humidity)),
		m.kv("Wind", formatWind(cur.WindSpeed, cur.WindDirection)),
	))
}

// renderHourly renders the hourly strip.
func (m Model) renderHourly(snapshot *weather.Snapshot) string {
	hourly := snapshot.Hourly
	n := len(hourly)
	if n > 8 {
		n = 8 // one strip row fits eight 3-hour slots, a full day
	}

	cols := make([]string, 0, n)
	for _, h := range hourly[:n] {
		cond := ""
		if len(h.Conditions) > 0 {
			cond = conditionGlyph(h.Conditions[0].Main)
		}
		cols = append(cols, lipgloss.JoinVertical(lipgloss.Center,
			m.styles.muted.Render(formatHour(h.Dt)),
			cond,
			m.styles.value.Render(formatTemp(h.Temp, m.prefs.TemperatureUnit)),
		))
	}

	return m.styles.pane.Render(lipgloss.JoinHorizontal(lipgloss.Top, joinWithGap(cols)...))
}

// renderDaily renders the multi-day outlook.
func (m Model) renderDaily(snapshot *weather.Snapshot) string {
	lines := make([]string, 0, len(snapshot.Daily))
	for _, d := range snapshot.Daily {
		cond := ""
		if len(d.Conditions) > 0 {
			cond = conditionGlyph(d.Conditions[0].Main)
		}
		lines = append(lines, fmt.Sprintf("%s  %s  %s / %s  %s",
			m.styles.label.Render(formatDay(d.Dt)),
			cond,
			m.styles.value.Render(formatTemp(d.Temp.Max, m.prefs.TemperatureUnit)),
			m.styles.muted.Render(formatTemp(d.Temp.Min, m.prefs.TemperatureUnit)),
			m.styles.muted.Render(fmt.Sprintf("💧%.0f%%", d.Precipitation)),
		))
	}
	return m.styles.pane.Render(strings.Join(lines, "\n"))
}

// renderExtended renders pressure, visibility, sun times, and air quality.
func (m Model) renderExtended(snapshot *weather.Snapshot) string {
	cur := snapshot.Current

	lines := []string{
		m.kv("Pressure", fmt.Sprintf("%.0f hPa", cur.Pressure)),
		m.kv("Visibility", fmt.Sprintf("%.0f km", cur.VisibilityKM)),
		m.kv("UV index", fmt.Sprintf("%.0f", cur.UVIndex)),
		m.kv("Sunrise", formatClock(cur.Sunrise)),
		m.kv("Sunset", formatClock(cur.Sunset)),
		m.kv("Air quality", aqiLabel(cur.AirQuality)),
	}

	if cur.AirQuality.Known() {
		c := cur.AirQuality.Components
		lines = append(lines, m.styles.muted.Render(fmt.Sprintf(
			"  PM2.5 %.1f • PM10 %.1f • NO₂ %.1f • O₃ %.1f µg/m³",
			c.PM25, c.PM10, c.NO2, c.O3)))
	}

	return m.styles.pane.Render(strings.Join(lines, "\n"))
}

// viewSettings renders the preference editor.
func (m Model) viewSettings() string {
	d := m.prefs.Dashboard

	rows := []string{
		m.styles.title.Render("Settings"),
		"",
		m.kv("U  Temperature unit", string(m.prefs.TemperatureUnit)),
		m.kv("T  Theme", string(m.prefs.Theme)),
		"",
		m.kv("1  Current weather", onOff(d.ShowCurrentWeather)),
		m.kv("2  Hourly forecast", onOff(d.ShowHourlyForecast)),
		m.kv("3  Daily forecast", onOff(d.ShowDailyForecast)),
		m.kv("4  Extended info", onOff(d.ShowExtendedInfo)),
	}

	if len(m.prefs.SavedLocations) > 0 {
		rows = append(rows, "", m.styles.label.Render("Saved locations"))
		for i, loc := range m.prefs.SavedLocations {
			rows = append(rows, m.styles.value.Render(
				fmt.Sprintf("  %d. %s", i+1, loc.DisplayName())))
		}
	}

	rows = append(rows, "", m.styles.help.Render("Esc/O: Back • Q: Quit"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// kv renders a label/value pair.
func (m Model) kv(label, value string) string {
	return m.styles.label.Render(label+": ") + m.styles.value.Render(value)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// joinWithGap inserts spacing between horizontal columns.
func joinWithGap(cols []string) []string {
	out := make([]string, 0, len(cols)*2)
	for i, c := range cols {
		if i > 0 {
			out = append(out, "   ")
		}
		out = append(out, c)
	}
	return out
}
