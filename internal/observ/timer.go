package observ

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// Phase is one timed step of a run. Entries started with BeginIn belong to a
// top-level phase, typically one entry per lowered file.
type Phase struct {
	Name   string
	Start  time.Time
	Dur    time.Duration
	Note   string
	parent int
}

// Timer records phase durations. It is safe for concurrent use so per-file
// workers can share one timer.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a top-level phase and returns its index.
func (t *Timer) Begin(name string) int {
	return t.BeginIn(-1, name)
}

// BeginIn starts an entry under the top-level phase at parent. An index that
// does not name a top-level phase starts a top-level phase instead.
func (t *Timer) BeginIn(parent int, name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if parent < 0 || parent >= len(t.phases) || t.phases[parent].parent >= 0 {
		parent = -1
	}
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now(), parent: parent})
	return len(t.phases) - 1
}

// End finishes the phase or entry at idx. Unknown indexes are ignored.
func (t *Timer) End(idx int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// PhaseReport is the serializable form of a phase.
type PhaseReport struct {
	Name       string        `json:"name"`
	DurationMS float64       `json:"duration_ms"`
	Note       string        `json:"note,omitempty"`
	Items      []PhaseReport `json:"items,omitempty"`
}

// Report aggregates the recorded phases. TotalMS sums top-level phases only;
// nested entries overlap their phase and may overlap each other.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var report Report
	var total time.Duration
	top := make(map[int]int, len(t.phases))
	for i, p := range t.phases {
		pr := PhaseReport{Name: p.Name, DurationMS: durationToMillis(p.Dur), Note: p.Note}
		if p.parent < 0 {
			top[i] = len(report.Phases)
			report.Phases = append(report.Phases, pr)
			total += p.Dur
			continue
		}
		pos := top[p.parent]
		report.Phases[pos].Items = append(report.Phases[pos].Items, pr)
	}
	report.TotalMS = durationToMillis(total)
	return report
}

// summaryItems bounds the nested entries Summary prints per phase.
const summaryItems = 5

// Summary renders the report as an aligned table. Nested entries are listed
// slowest first.
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	line := func(indent, name string, ms float64, note string) {
		fmt.Fprintf(&sb, "%s%-*s %8.2f ms", indent, 26-len(indent), name, ms)
		if note != "" {
			sb.WriteString("  // " + note)
		}
		sb.WriteString("\n")
	}
	for _, p := range report.Phases {
		line("  ", p.Name, p.DurationMS, p.Note)
		items := slices.Clone(p.Items)
		slices.SortStableFunc(items, func(a, b PhaseReport) int {
			return cmp.Compare(b.DurationMS, a.DurationMS)
		})
		for i, it := range items {
			if i == summaryItems {
				fmt.Fprintf(&sb, "    ... %d more\n", len(items)-summaryItems)
				break
			}
			line("    ", it.Name, it.DurationMS, it.Note)
		}
	}
	line("  ", "total", report.TotalMS, "")
	return sb.String()
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
