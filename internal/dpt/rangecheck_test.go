package dpt

import (
	"errors"
	"testing"
)

type recordingLogger struct {
	warnings []string
	args     [][]any
}

func (l *recordingLogger) Warn(msg string, args ...any) {
	l.warnings = append(l.warnings, msg)
	l.args = append(l.args, args)
}

func TestRange_Contains(t *testing.T) {
	r := NewRange[int64](0, 255)

	tests := []struct {
		v    int64
		want bool
	}{
		{-1, false},
		{0, true},
		{128, true},
		{255, true},
		{256, false},
	}

	for _, tt := range tests {
		if got := r.Contains(tt.v); got != tt.want {
			t.Errorf("%v.Contains(%d) = %v, want %v", r, tt.v, got, tt.want)
		}
	}
}

func TestRange_Check(t *testing.T) {
	r := NewRange(-273.0, 670760.0)

	if err := r.Check(-273); err != nil {
		t.Errorf("Check(lower) error = %v", err)
	}
	if err := r.Check(670760); err != nil {
		t.Errorf("Check(upper) error = %v", err)
	}
	if err := r.Check(-273.01); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Check(below) error = %v, want ErrOutOfRange", err)
	}
}

func TestRange_Advise(t *testing.T) {
	r := NewRange(0.0, 100.0)
	log := &recordingLogger{}

	if !r.Advise(log, "1/2/3", 50) {
		t.Error("Advise(50) = false, want true")
	}
	if len(log.warnings) != 0 {
		t.Errorf("Advise(50) logged %v", log.warnings)
	}

	if r.Advise(log, "1/2/3", 150) {
		t.Error("Advise(150) = true, want false")
	}
	if len(log.warnings) != 1 || log.warnings[0] != "value outside expected range" {
		t.Fatalf("warnings = %v, want one", log.warnings)
	}
	if log.args[0][0] != "subject" || log.args[0][1] != "1/2/3" {
		t.Errorf("warning args = %v", log.args[0])
	}

	// A nil logger only reports.
	if r.Advise(nil, "x", -1) {
		t.Error("Advise(nil, -1) = true, want false")
	}
}

func TestRange_String(t *testing.T) {
	if got := NewRange(1, 7).String(); got != "[1, 7]" {
		t.Errorf("String() = %q", got)
	}
}
