package experiment

import (
	"github.com/ayusman/limber/internal/classify"
	"github.com/ayusman/limber/internal/smooth"
)

// Note is one chart entry: a head direction expected at a point in time.
type Note struct {
	At  float64            `json:"at"` // seconds from chart start
	Dir classify.Direction `json:"dir"`
}

// HitWindow is how far from a note's timestamp (seconds, either side) a
// gesture still counts as a hit.
const HitWindow = 0.4

// headSmoothingAlpha tames the frame-to-frame jitter of the facial
// transformation matrix before thresholding.
const headSmoothingAlpha = 0.5

// DefaultChart returns a short practice chart.
func DefaultChart() []Note {
	return []Note{
		{At: 2, Dir: classify.DirLeft},
		{At: 4, Dir: classify.DirRight},
		{At: 6, Dir: classify.DirUp},
		{At: 8, Dir: classify.DirDown},
		{At: 10, Dir: classify.DirLeft},
		{At: 11, Dir: classify.DirRight},
	}
}

// Rhythm is the head-gesture rhythm game: nod or turn in time with the
// chart. Input is edge-triggered; holding a direction never fires twice.
type Rhythm struct {
	chart []Note

	elapsed float64
	next    int
	score   int
	combo   int
	hits    int
	misses  int
	done    bool

	debouncer classify.Debouncer
	pitch     *smooth.ValueSmoother
	yaw       *smooth.ValueSmoother
	lastDir   classify.Direction
}

// NewRhythm creates the rhythm experiment for the given chart.
func NewRhythm(chart []Note) *Rhythm {
	if len(chart) == 0 {
		chart = DefaultChart()
	}
	return &Rhythm{
		chart: chart,
		pitch: smooth.NewValueSmoother(headSmoothingAlpha),
		yaw:   smooth.NewValueSmoother(headSmoothingAlpha),
	}
}

// Name implements Experiment.
func (r *Rhythm) Name() string { return "rhythm" }

// Update implements Experiment.
func (r *Rhythm) Update(frame Frame) []Event {
	if r.done {
		return nil
	}

	r.elapsed += frame.DT

	var events []Event

	// Expire notes whose window has passed.
	for r.next < len(r.chart) && r.elapsed > r.chart[r.next].At+HitWindow {
		r.misses++
		r.combo = 0
		events = append(events, Event{
			Kind:   EventNoteMiss,
			Detail: map[string]any{"dir": string(r.chart[r.next].Dir), "at": r.chart[r.next].At},
		})
		r.next++
	}

	if frame.Face != nil {
		rawPitch, rawYaw := frame.Face.HeadAngles()
		dir := classify.HeadDirection(r.pitch.Update(rawPitch), r.yaw.Update(rawYaw))
		r.lastDir = dir

		if fired, ok := r.debouncer.Step(dir); ok {
			events = append(events, r.judge(fired)...)
		}
	} else {
		r.lastDir = classify.DirNone
	}

	if r.next >= len(r.chart) {
		r.done = true
		events = append(events, Event{
			Kind: EventChartComplete,
			Detail: map[string]any{
				"score":  r.score,
				"hits":   r.hits,
				"misses": r.misses,
				"notes":  len(r.chart),
			},
		})
	}

	return events
}

// judge scores one fired gesture against the current note.
func (r *Rhythm) judge(dir classify.Direction) []Event {
	if r.next >= len(r.chart) {
		return nil
	}

	note := r.chart[r.next]
	offset := r.elapsed - note.At
	if offset < -HitWindow || offset > HitWindow {
		// Early flailing outside any window just breaks the combo.
		r.combo = 0
		return nil
	}

	if dir != note.Dir {
		r.misses++
		r.combo = 0
		r.next++
		return []Event{{
			Kind:   EventNoteMiss,
			Detail: map[string]any{"dir": string(note.Dir), "got": string(dir), "at": note.At},
		}}
	}

	r.hits++
	r.combo++
	r.score += 100 * r.combo
	r.next++
	return []Event{{
		Kind:   EventNoteHit,
		Detail: map[string]any{"dir": string(dir), "offset": offset, "combo": r.combo},
	}}
}

// Status implements Experiment.
func (r *Rhythm) Status() map[string]any {
	return map[string]any{
		"elapsed": r.elapsed,
		"score":   r.score,
		"combo":   r.combo,
		"hits":    r.hits,
		"misses":  r.misses,
		"next":    r.next,
		"notes":   len(r.chart),
		"dir":     string(r.lastDir),
		"done":    r.done,
	}
}

// Reset implements Experiment.
func (r *Rhythm) Reset() {
	r.elapsed = 0
	r.next = 0
	r.score = 0
	r.combo = 0
	r.hits = 0
	r.misses = 0
	r.done = false
	r.debouncer.Reset()
	r.pitch.Reset()
	r.yaw.Reset()
	r.lastDir = classify.DirNone
}
