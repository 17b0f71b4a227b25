package telemetry

import (
	"log/slog"
	"time"
)

// Phase identifies one stage of a frame.
type Phase int

const (
	PhaseInput Phase = iota
	PhaseReload
	PhaseField
	PhaseDraw
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{"input", "reload", "field", "draw", "telemetry"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// Phases returns every phase in frame order.
func Phases() []Phase {
	out := make([]Phase, numPhases)
	for i := range out {
		out[i] = Phase(i)
	}
	return out
}

// PhaseDurations holds one duration per phase.
type PhaseDurations [numPhases]time.Duration

// frameSample is the timing of one finished frame.
type frameSample struct {
	total     time.Duration
	phases    PhaseDurations
	particles int
}

// PerfCollector times frame phases over a rolling window of frames and
// relates the field step to the number of particles it moved.
type PerfCollector struct {
	now     func() time.Time
	samples []frameSample
	next    int
	count   int

	cur        frameSample
	inFrame    bool
	phase      Phase
	inPhase    bool
	frameStart time.Time
	phaseStart time.Time
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	return NewPerfCollectorWithClock(windowSize, time.Now)
}

// NewPerfCollectorWithClock is NewPerfCollector with a custom time source.
func NewPerfCollectorWithClock(windowSize int, now func() time.Time) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		now:     now,
		samples: make([]frameSample, windowSize),
	}
}

// BeginFrame starts timing a frame. An unfinished frame is discarded.
func (p *PerfCollector) BeginFrame() {
	p.cur = frameSample{}
	p.inFrame = true
	p.inPhase = false
	p.frameStart = p.now()
}

// Enter closes the open phase and starts timing phase.
// Entering a phase twice in one frame accumulates.
func (p *PerfCollector) Enter(phase Phase) {
	if !p.inFrame || phase < 0 || phase >= numPhases {
		return
	}
	now := p.now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
	p.inPhase = true
}

// SetParticles records how many particles the field stepped this frame.
func (p *PerfCollector) SetParticles(n int) {
	if p.inFrame {
		p.cur.particles = n
	}
}

// EndFrame closes the open phase and adds the frame to the window.
func (p *PerfCollector) EndFrame() {
	if !p.inFrame {
		return
	}
	now := p.now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.frameStart)
	p.inFrame = false

	p.samples[p.next] = p.cur
	p.next = (p.next + 1) % len(p.samples)
	if p.count < len(p.samples) {
		p.count++
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
		p.inPhase = false
	}
}

// PerfStats holds frame timing averaged over the window.
type PerfStats struct {
	Frames   int
	AvgFrame time.Duration
	MaxFrame time.Duration
	PhaseAvg PhaseDurations

	// Particles is the mean particle count per frame.
	Particles int
	// FieldNsPerParticle is field phase time divided by particles stepped.
	FieldNsPerParticle float64
}

// PhasePct returns the share of the average frame spent in phase, in percent.
func (s PerfStats) PhasePct(phase Phase) float64 {
	if s.AvgFrame <= 0 || phase < 0 || phase >= numPhases {
		return 0
	}
	return float64(s.PhaseAvg[phase]) / float64(s.AvgFrame) * 100
}

// Stats aggregates the frames currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	if p.count == 0 {
		return PerfStats{}
	}

	var total, maxFrame time.Duration
	var phaseSum PhaseDurations
	var particles int
	var fieldWithParticles time.Duration
	for _, s := range p.samples[:p.count] {
		total += s.total
		if s.total > maxFrame {
			maxFrame = s.total
		}
		for i, d := range s.phases {
			phaseSum[i] += d
		}
		if s.particles > 0 {
			particles += s.particles
			fieldWithParticles += s.phases[PhaseField]
		}
	}

	n := time.Duration(p.count)
	stats := PerfStats{
		Frames:    p.count,
		AvgFrame:  total / n,
		MaxFrame:  maxFrame,
		Particles: particles / p.count,
	}
	for i, sum := range phaseSum {
		stats.PhaseAvg[i] = sum / n
	}
	if particles > 0 {
		stats.FieldNsPerParticle = float64(fieldWithParticles.Nanoseconds()) / float64(particles)
	}
	return stats
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "perf", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("frames", s.Frames),
		slog.Int64("avg_frame_us", s.AvgFrame.Microseconds()),
		slog.Int64("max_frame_us", s.MaxFrame.Microseconds()),
		slog.Int("particles", s.Particles),
		slog.Float64("field_ns_per_particle", s.FieldNsPerParticle),
	}
	for _, phase := range Phases() {
		if pct := s.PhasePct(phase); pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase.String()+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd          int32   `csv:"window_end"`
	Frames             int     `csv:"frames"`
	AvgFrameUS         int64   `csv:"avg_frame_us"`
	MaxFrameUS         int64   `csv:"max_frame_us"`
	Particles          int     `csv:"particles"`
	FieldNsPerParticle float64 `csv:"field_ns_per_particle"`
	InputPct           float64 `csv:"input_pct"`
	ReloadPct          float64 `csv:"reload_pct"`
	FieldPct           float64 `csv:"field_pct"`
	DrawPct            float64 `csv:"draw_pct"`
	TelemetryPct       float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:          windowEnd,
		Frames:             s.Frames,
		AvgFrameUS:         s.AvgFrame.Microseconds(),
		MaxFrameUS:         s.MaxFrame.Microseconds(),
		Particles:          s.Particles,
		FieldNsPerParticle: s.FieldNsPerParticle,
		InputPct:           s.PhasePct(PhaseInput),
		ReloadPct:          s.PhasePct(PhaseReload),
		FieldPct:           s.PhasePct(PhaseField),
		DrawPct:            s.PhasePct(PhaseDraw),
		TelemetryPct:       s.PhasePct(PhaseTelemetry),
	}
}
