package logging

import "testing"

func TestNewProgressSamplerStep(t *testing.T) {
	tests := []struct {
		name string
		step float64
		want float64
	}{
		{"zero selects default", 0, DefaultProgressStep},
		{"negative selects default", -3, DefaultProgressStep},
		{"custom", 25, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewProgressSampler(tt.step).step; got != tt.want {
				t.Fatalf("step = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProgressSamplerNil(t *testing.T) {
	var s *ProgressSampler
	if !s.Sample("render", 50) {
		t.Fatal("nil sampler should log everything")
	}
	s.Reset()
}

func TestProgressSamplerRenderThenArchive(t *testing.T) {
	s := NewProgressSampler(25)
	steps := []struct {
		phase   string
		percent float64
		want    bool
	}{
		{"render", 10, true},
		{"render", 20, false},
		{"render", 30, true},
		{"render", 45, false},
		{"render", 80, true},
		{"render", 100, true},
		{"render", 100, false},
		{"archive", 0, true},
		{"archive", 10, false},
		{"archive", 60, true},
		{"archive", 100, true},
		{"done", 100, true},
	}
	for _, step := range steps {
		if got := s.Sample(step.phase, step.percent); got != step.want {
			t.Fatalf("Sample(%s, %v) = %v, want %v", step.phase, step.percent, got, step.want)
		}
	}
}

func TestProgressSamplerUnknownPercent(t *testing.T) {
	s := NewProgressSampler(10)
	if !s.Sample("archive", -1) {
		t.Fatal("first event of a phase should log")
	}
	if s.Sample("archive", -1) {
		t.Fatal("unknown progress within a phase should not log")
	}
	if !s.Sample("archive", 5) {
		t.Fatal("first known percent after unknown progress should log")
	}
}

func TestProgressSamplerResetBetweenSessions(t *testing.T) {
	s := NewProgressSampler(10)
	s.Sample("done", 100)
	if s.Sample("done", 100) {
		t.Fatal("repeated completion should not log")
	}
	s.Reset()
	if !s.Sample("done", 100) {
		t.Fatal("completion of the next session should log after reset")
	}
}
