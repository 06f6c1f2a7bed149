package printers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Behyna/sms-scheduler/internal/model"
	"github.com/Behyna/sms-scheduler/internal/stats"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	bodyWidth  = 40
	barWidth   = 30
	none       = "-"
	colWidth   = 80
)

var statusColors = map[model.MessageStatus]*color.Color{
	model.MessageStatusQueued:    color.New(color.FgCyan),
	model.MessageStatusAccepted:  color.New(color.FgBlue),
	model.MessageStatusSent:      color.New(color.FgYellow),
	model.MessageStatusDelivered: color.New(color.FgGreen),
	model.MessageStatusReceived:  color.New(color.FgHiGreen, color.Bold),
	model.MessageStatusFailed:    color.New(color.FgRed, color.Bold),
	model.MessageStatusCanceled:  color.New(color.Faint),
}

// PrettyPrint renders controller state for a terminal. Times are shown in
// Location, which defaults to the local zone.
type PrettyPrint struct {
	Out      io.Writer
	Location *time.Location
}

func New(out io.Writer) *PrettyPrint {
	if out == nil {
		out = color.Output
	}
	return &PrettyPrint{Out: out, Location: time.Local}
}

func (pp *PrettyPrint) Messages(msgs []model.ScheduledMessage, selectedID string) {
	if len(msgs) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(pp.Out, " no messages")
		return
	}

	tbl := newTable()
	tbl.AddRow("", bold("ID"), bold("TO"), bold("STATUS"), bold("SCHEDULED"), bold("ATTEMPTS"), bold("BODY"))

	for _, m := range msgs {
		marker := ""
		if m.ID == selectedID {
			marker = ">"
		}
		tbl.AddRow(marker, m.ID, m.ToHandle, Status(m.Status), pp.instant(m.ScheduledFor), m.AttemptCount,
			truncate(m.Body, bodyWidth))
	}
	tbl.RightAlign(5)

	_, _ = fmt.Fprintln(pp.Out, tbl)
	_, _ = color.New(color.Faint).Fprintf(pp.Out, "%d %s\n", len(msgs), plural(len(msgs), "message", "messages"))
}

// Message prints one record with its event history.
func (pp *PrettyPrint) Message(m model.ScheduledMessage) {
	tbl := newTable()
	tbl.Wrap = true

	tbl.AddRow(bold("ID"), m.ID)
	tbl.AddRow(bold("To"), m.ToHandle)
	tbl.AddRow(bold("Status"), Status(m.Status))
	tbl.AddRow(bold("Scheduled"), pp.instant(m.ScheduledFor))
	tbl.AddRow(bold("Created"), pp.instant(m.CreatedAt))
	tbl.AddRow(bold("Updated"), pp.instant(m.UpdatedAt))
	tbl.AddRow(bold("Attempts"), m.AttemptCount)
	if m.Claimed() {
		tbl.AddRow(bold("Claimed"), fmt.Sprintf("%s by %s", pp.instant(*m.ClaimedAt), *m.ClaimedBy))
	}
	if m.LastError != nil {
		tbl.AddRow(bold("Last error"), color.New(color.FgRed).Sprint(*m.LastError))
	}
	tbl.AddRow(bold("Body"), m.Body)

	_, _ = fmt.Fprintln(pp.Out, tbl)

	if !m.HasEvents() {
		return
	}

	_, _ = fmt.Fprintln(pp.Out, color.New(color.Bold, color.Underline).Sprint("\nEvents"))

	events := newTable()
	for _, e := range m.Events {
		detail := e.Detail.String()
		if detail == "" {
			detail = none
		}
		events.AddRow(e.ID, pp.instant(e.Timestamp), Status(e.Status), detail)
	}
	_, _ = fmt.Fprintln(pp.Out, events)
}

// Stats prints one bar per status, scaled to the largest count.
func (pp *PrettyPrint) Stats(counts stats.Counts) {
	largest := 0
	for _, n := range counts {
		largest = max(largest, n)
	}

	tbl := newTable()
	for _, entry := range counts.Entries() {
		width := 0
		if largest > 0 {
			width = entry.Count * barWidth / largest
		}
		if entry.Count > 0 && width == 0 {
			width = 1
		}
		tbl.AddRow(Status(entry.Status), entry.Count, colorFor(entry.Status).Sprint(strings.Repeat("█", width)))
	}
	tbl.RightAlign(1)
	tbl.AddRow(bold("TOTAL"), counts.Total(), "")

	_, _ = fmt.Fprintln(pp.Out, tbl)
}

func (pp *PrettyPrint) Notice(format string, args ...any) {
	_, _ = color.New(color.FgHiBlack, color.Italic).Fprintf(pp.Out, format+"\n", args...)
}

func (pp *PrettyPrint) instant(t time.Time) string {
	if t.IsZero() {
		return none
	}
	loc := pp.Location
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(timeLayout)
}

// Status renders a status pill.
func Status(s model.MessageStatus) string {
	return colorFor(s).Sprint(string(s))
}

func colorFor(s model.MessageStatus) *color.Color {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return color.New(color.FgMagenta)
}

func newTable() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = colWidth
	return tbl
}

func bold(s string) string {
	return color.New(color.Bold).Sprint(s)
}

func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
