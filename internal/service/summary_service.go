package service

import (
	"fmt"
	"html"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/glebk/sati-bot/internal/domain"
)

const (
	topTagLimit = 3
	sampleLimit = 3
	dateLayout  = "2006-01-02"
)

// RowSource is anything that can list stored rows oldest first.
type RowSource interface {
	All() ([]domain.Row, error)
}

// TagCount is a category and how many events carried it.
type TagCount struct {
	Tag   string
	Count int
}

// PeriodStats aggregates the events of one chat over a date range.
type PeriodStats struct {
	Count    int
	AvgDiss  float64
	AvgReact float64
	TopTags  []TagCount
	Samples  []string
}

// Report is a period summary with the preceding period of equal length.
type Report struct {
	Start    time.Time
	End      time.Time
	Current  PeriodStats
	Previous PeriodStats
}

// MeditationStats aggregates the meditation sessions of one chat over a day.
type MeditationStats struct {
	Day      time.Time
	Count    int
	TotalMin int
}

// AvgMin is the mean session length, zero when there are no sessions.
func (m *MeditationStats) AvgMin() float64 {
	if m.Count == 0 {
		return 0
	}
	return float64(m.TotalMin) / float64(m.Count)
}

// SummaryService computes period summaries from the stored records.
// Every call rescans the backing files.
type SummaryService struct {
	events      RowSource
	meditations RowSource
	loc         *time.Location
}

// NewSummaryService creates a new SummaryService. Dates are interpreted in loc.
func NewSummaryService(events, meditations RowSource, loc *time.Location) *SummaryService {
	if loc == nil {
		loc = time.Local
	}
	return &SummaryService{
		events:      events,
		meditations: meditations,
		loc:         loc,
	}
}

// Summarize aggregates the chat's events between start and end (both
// inclusive, by calendar day) and over the period of the same length right
// before it.
func (s *SummaryService) Summarize(chatID int64, start, end time.Time) (*Report, error) {
	start, end = s.day(start), s.day(end)
	if end.Before(start) {
		return nil, fmt.Errorf("invalid range: %s is after %s", start.Format(dateLayout), end.Format(dateLayout))
	}

	rows, err := s.events.All()
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	span := spanDays(start, end)
	prevEnd := start.AddDate(0, 0, -1)
	prevStart := prevEnd.AddDate(0, 0, -(span - 1))

	return &Report{
		Start:    start,
		End:      end,
		Current:  aggregate(s.between(rows, chatID, start, end)),
		Previous: aggregate(s.between(rows, chatID, prevStart, prevEnd)),
	}, nil
}

// MeditationDay aggregates the chat's meditation sessions on day.
// Durations that do not parse count as zero minutes.
func (s *SummaryService) MeditationDay(chatID int64, day time.Time) (*MeditationStats, error) {
	day = s.day(day)

	rows, err := s.meditations.All()
	if err != nil {
		return nil, fmt.Errorf("failed to load meditations: %w", err)
	}

	stats := &MeditationStats{Day: day}
	for _, row := range s.between(rows, chatID, day, day) {
		stats.Count++
		if dur, err := strconv.Atoi(strings.TrimSpace(row.Get(domain.ColDurationMin))); err == nil {
			stats.TotalMin += dur
		}
	}
	return stats, nil
}

// day truncates t to midnight of its calendar day in the service location.
func (s *SummaryService) day(t time.Time) time.Time {
	y, m, d := t.In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

// between keeps the rows of chatID whose timestamp falls on a day in
// [start, end]. Rows with an unreadable timestamp are skipped.
func (s *SummaryService) between(rows []domain.Row, chatID int64, start, end time.Time) []domain.Row {
	chat := strconv.FormatInt(chatID, 10)

	var out []domain.Row
	for _, row := range rows {
		if row.Get(domain.ColChatID) != chat {
			continue
		}
		ts, ok := row.Time(s.loc)
		if !ok {
			continue
		}
		d := s.day(ts)
		if d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func spanDays(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Hours()/24)) + 1
}

func aggregate(rows []domain.Row) PeriodStats {
	stats := PeriodStats{Count: len(rows)}
	if len(rows) == 0 {
		return stats
	}

	stats.AvgDiss = mean(rows, domain.ColDissatisfactionScore)
	stats.AvgReact = mean(rows, domain.ColReactionScore)

	counts := make(map[string]int)
	var order []string
	for _, row := range rows {
		tag := row.Get(domain.ColTag)
		if _, seen := counts[tag]; !seen {
			order = append(order, tag)
		}
		counts[tag]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	for _, tag := range order[:min(topTagLimit, len(order))] {
		stats.TopTags = append(stats.TopTags, TagCount{Tag: tag, Count: counts[tag]})
	}

	for _, row := range rows[:min(sampleLimit, len(rows))] {
		stats.Samples = append(stats.Samples, row.Get(domain.ColEventDesc))
	}
	return stats
}

// mean averages the numeric values of column. Missing or non-numeric values
// are left out of the denominator.
func mean(rows []domain.Row, column string) float64 {
	var sum float64
	var n int
	for _, row := range rows {
		if v, ok := row.Number(column); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// pctChange renders the relative change from prev to current.
func pctChange(current, prev float64) string {
	if prev == 0 {
		return "—"
	}
	return fmt.Sprintf("%.0f%%", (current-prev)/prev*100)
}

func rangeLabel(start, end time.Time) string {
	if start.Equal(end) {
		return start.Format(dateLayout)
	}
	return start.Format(dateLayout) + " - " + end.Format(dateLayout)
}

// RenderReport formats a report as an HTML chat message.
func RenderReport(r *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 <b>สรุปเหตุการณ์</b> (%s)\n", rangeLabel(r.Start, r.End))

	cur, prev := r.Current, r.Previous
	if cur.Count == 0 {
		b.WriteString("ยังไม่มีบันทึกในช่วงนี้ครับ")
		return b.String()
	}

	fmt.Fprintf(&b, "จำนวนบันทึก: %d (ก่อนหน้า: %d | เปลี่ยน: %s)\n",
		cur.Count, prev.Count, pctChange(float64(cur.Count), float64(prev.Count)))
	fmt.Fprintf(&b, "ความไม่พอใจ (avg): %.1f/10 (ก่อนหน้า: %.1f | เปลี่ยน: %s)\n",
		cur.AvgDiss, prev.AvgDiss, pctChange(cur.AvgDiss, prev.AvgDiss))
	fmt.Fprintf(&b, "React (avg): %.1f/10 (ก่อนหน้า: %.1f | เปลี่ยน: %s)\n",
		cur.AvgReact, prev.AvgReact, pctChange(cur.AvgReact, prev.AvgReact))

	tags := make([]string, 0, len(cur.TopTags))
	for _, tc := range cur.TopTags {
		tags = append(tags, fmt.Sprintf("%s (%d)", html.EscapeString(domain.OrDash(tc.Tag)), tc.Count))
	}
	fmt.Fprintf(&b, "แท็กยอดนิยม: %s\n\n", domain.OrDash(strings.Join(tags, ", ")))

	b.WriteString("ตัวอย่างเหตุการณ์:")
	for _, s := range cur.Samples {
		b.WriteString("\n• " + html.EscapeString(domain.OrDash(s)))
	}
	return b.String()
}

// RenderMeditationDay formats a meditation day summary as an HTML chat message.
func RenderMeditationDay(m *MeditationStats) string {
	head := fmt.Sprintf("🧘‍♂️ <b>สรุปสมาธิวันนี้</b> (%s)\n", m.Day.Format(dateLayout))
	if m.Count == 0 {
		return head + "ยังไม่มีบันทึกสมาธิวันนี้ครับ"
	}
	return head + fmt.Sprintf("จำนวนครั้ง: %d\nรวมเวลา: %d นาที\nเฉลี่ยต่อครั้ง: %.1f นาที",
		m.Count, m.TotalMin, m.AvgMin())
}
