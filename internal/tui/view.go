package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kunal-511/weekendly/internal/constants"
	"github.com/kunal-511/weekendly/internal/insights"
	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/scheduler"
)

const (
	cellWidth  = 22
	meterWidth = 8
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateClash:
		content = m.viewClash()
	case constants.StateNotes:
		content = m.viewNotes()
	case constants.StateInsights:
		content = docStyle.Render(m.report.View())
	case constants.StateConfirmClear:
		content = m.viewConfirmClear()
	default:
		content = lipgloss.JoinHorizontal(lipgloss.Top,
			docStyle.Render(m.list.View()),
			m.viewGrid(),
		)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("weekendly"),
		content,
		m.viewStatus(),
		m.help.View(m.keys),
	)
}

func (m Model) viewGrid() string {
	schedule := m.planner.Schedule()

	header := []string{lipgloss.NewStyle().Width(12).Render("")}
	for _, day := range models.AllDays {
		style := dayStyle
		if !schedule.IsActive(day) {
			style = inactiveStyle
		}
		header = append(header, style.Width(cellWidth+4).Render(day.Title()))
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}

	for s, slot := range models.AllTimeSlots {
		info := m.sched.SlotInfo(slot)
		label := lipgloss.NewStyle().Width(12).Render(fmt.Sprintf("%s\n%s", slot.Title(), dimStyle.Render(hourRange(info))))
		cells := []string{label}
		for d := range models.AllDays {
			cells = append(cells, m.viewCell(schedule, d, s))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func hourRange(info scheduler.TimeSlotInfo) string {
	return fmt.Sprintf("%02d-%02d", info.StartHour, info.EndHour)
}

func (m Model) viewCell(schedule models.WeekendSchedule, d, s int) string {
	at := models.Placement{Day: models.AllDays[d], TimeSlot: models.AllTimeSlots[s]}
	isCursor := m.pane == paneGrid && d == m.day && s == m.slot

	style := cellStyle
	if isCursor {
		style = cursorCellStyle
	}
	style = style.Width(cellWidth)

	if !schedule.IsActive(at.Day) {
		return style.Render(inactiveStyle.Render("not planned"))
	}

	used := m.sched.SlotDuration(schedule, at.Day, at.TimeSlot)
	capacity := m.sched.Capacity(at.TimeSlot)
	lines := []string{fmt.Sprintf("%s %s/%sh",
		meter(used, capacity, m.sched.Utilization(schedule, at.Day, at.TimeSlot)),
		scheduler.FormatHours(used),
		scheduler.FormatHours(capacity))}

	for i, entry := range schedule.Slot(at.Day, at.TimeSlot) {
		line := truncate(fmt.Sprintf("%s %s", entry.Icon, entry.Title), cellWidth-2)
		switch {
		case m.carrying != nil && m.carrying.entry.ID == entry.ID:
			line = warningStyle.Render(line)
		case isCursor && i == m.item:
			line = selectedItemStyle.Render(line)
		}
		lines = append(lines, line)
	}

	if isCursor {
		if mark := m.previewMark(); mark != "" {
			lines = append(lines, mark)
		}
	}
	return style.Render(strings.Join(lines, "\n"))
}

// previewMark is the would-fit or would-clash hint under the cursor.
func (m Model) previewMark() string {
	clash, title, ok := m.preview()
	if !ok {
		return ""
	}
	if clash == nil {
		return okStyle.Render(truncate("+ "+title+" fits", cellWidth-2))
	}
	return dangerStyle.Render(fmt.Sprintf("! over by %sh", scheduler.FormatHours(clash.OverflowHours)))
}

// meter draws utilization, which is already capped at 100 percent.
func meter(used, capacity, utilization float64) string {
	filled := int(utilization / 100 * meterWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", meterWidth-filled)
	switch {
	case used > capacity:
		return dangerStyle.Render(bar)
	case utilization >= 75:
		return warningStyle.Render(bar)
	}
	return okStyle.Render(bar)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

func (m Model) viewClash() string {
	p := m.proposal
	lines := []string{
		dangerStyle.Render("Time clash"),
		"",
		lipgloss.NewStyle().Width(60).Render(m.sched.FormatClashMessage(*p.Clash, p.Activity)),
		"",
	}
	for i, c := range m.choices {
		if i == m.choice {
			lines = append(lines, selectedItemStyle.Render("> "+c.label))
		} else {
			lines = append(lines, "  "+c.label)
		}
	}
	lines = append(lines, "", dimStyle.Render("↑/↓ choose · enter confirm · esc cancel"))

	return m.center(dialogStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

func (m Model) viewNotes() string {
	title := ""
	if m.editing != nil {
		title = fmt.Sprintf("Notes for %s (%s)", m.editing.entry.Title, m.editing.from.Label())
	}
	return m.center(dialogStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		m.notes.View(),
		"",
		dimStyle.Render("enter save · esc cancel"),
	)))
}

func (m Model) viewConfirmClear() string {
	return m.center(lipgloss.JoinVertical(lipgloss.Center,
		dangerStyle.Render("Clear every activity from the plan?"),
		"",
		"[y] Yes",
		"[n] No",
	))
}

func (m Model) center(s string) string {
	if m.width == 0 || m.height == 0 {
		return s
	}
	return lipgloss.Place(m.width, max(0, m.height-4), lipgloss.Center, lipgloss.Center, s)
}

func (m Model) viewStatus() string {
	var parts []string
	if m.status != "" {
		if m.statusErr {
			parts = append(parts, dangerStyle.Render(m.status))
		} else {
			parts = append(parts, m.status)
		}
	}
	if m.saver != nil {
		if err := m.saver.Err(); err != nil {
			parts = append(parts, warningStyle.Render("⚠ saving failed: "+err.Error()))
		} else if m.saver.Pending() {
			parts = append(parts, dimStyle.Render("● saving"))
		}
	}
	return strings.Join(parts, "  ")
}

func renderReport(report *insights.Report) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Weekend insights"))
	fmt.Fprintf(&b, "\n%d activities, %sh planned\n\n", report.TotalActivities, scheduler.FormatHours(report.TotalHours))

	b.WriteString(dayStyle.Render("Energy") + "\n")
	for _, e := range models.AllEnergies {
		fmt.Fprintf(&b, "  %-8s %d\n", e, report.Energy[e])
	}
	b.WriteString(dayStyle.Render("Social") + "\n")
	for _, s := range models.AllSocials {
		fmt.Fprintf(&b, "  %-8s %d\n", s, report.Social[s])
	}
	b.WriteString(dayStyle.Render("Categories") + "\n")
	for _, share := range report.Categories {
		fmt.Fprintf(&b, "  %-14s %d (%sh)\n", share.Category.Name, share.Count, scheduler.FormatHours(share.Hours))
	}

	for _, rec := range report.Recommendations {
		b.WriteString("\n" + warningStyle.Render(rec.Title) + "\n")
		fmt.Fprintf(&b, "  %s\n", rec.Description)
		for _, a := range rec.Activities {
			fmt.Fprintf(&b, "    %s %s (%sh)\n", a.Icon, a.Title, scheduler.FormatHours(a.Duration))
		}
	}
	return b.String()
}
