package logging

import "strings"

// DefaultProgressStep is the percent step between sampled progress events.
const DefaultProgressStep = 5

// ProgressSampler picks the export progress events worth logging: the first
// event of each phase, one event per step of progress, and the event that
// completes the phase. One sampler serves one export session at a time.
type ProgressSampler struct {
	step     float64
	phase    string
	bucket   int
	finished bool
}

// NewProgressSampler constructs a sampler. A step of zero or less selects
// DefaultProgressStep.
func NewProgressSampler(step float64) *ProgressSampler {
	if step <= 0 {
		step = DefaultProgressStep
	}
	s := &ProgressSampler{step: step}
	s.Reset()
	return s
}

// Sample reports whether a progress event should be logged. A negative
// percent means unknown progress, which only a phase change reports.
func (s *ProgressSampler) Sample(phase string, percent float64) bool {
	if s == nil {
		return true
	}
	phase = strings.TrimSpace(phase)
	if phase != s.phase {
		s.phase = phase
		s.bucket = s.bucketOf(percent)
		s.finished = percent >= 100
		return true
	}
	if s.finished || percent < 0 {
		return false
	}
	if percent >= 100 {
		s.finished = true
		return true
	}
	bucket := s.bucketOf(percent)
	if bucket <= s.bucket {
		return false
	}
	s.bucket = bucket
	return true
}

// Reset forgets the previous session so its last phase does not hide the
// first event of the next one.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.phase = ""
	s.bucket = -1
	s.finished = false
}

func (s *ProgressSampler) bucketOf(percent float64) int {
	if percent < 0 {
		return -1
	}
	return int(min(percent, 100) / s.step)
}
