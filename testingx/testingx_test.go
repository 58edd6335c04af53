package testingx

import (
	"errors"
	"testing"

	emberrors "github.com/emberlab/ember/core/errors"

	"github.com/emberlab/ember/bootx"
)

func TestMockLogger_CapturesEntries(t *testing.T) {
	logger := NewMockLogger(t)

	logger.Info("service started", "port", 8080)
	logger.Error(errors.New("boom"), "request failed")

	entries := logger.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Level != "INFO" || entries[0].Message != "service started" {
		t.Errorf("entries[0] = %+v, want INFO/service started", entries[0])
	}
	if entries[1].Error == nil {
		t.Error("entries[1].Error = nil, want error")
	}

	logger.AssertLogged("ERROR", "request failed")

	if !logger.Contains("request failed") {
		t.Error("Contains(request failed) = false, want true")
	}
	if logger.Contains("never logged") {
		t.Error("Contains(never logged) = true, want false")
	}

	logger.Clear()
	if len(logger.Entries()) != 0 {
		t.Error("Entries() not empty after Clear")
	}
}

func TestAssertError(t *testing.T) {
	err := emberrors.New(emberrors.CodeInvalidArgument, "bad input")

	AssertError(t, err, emberrors.CodeInvalidArgument)
	AssertNoError(t, nil)
}

func TestRecordingListener_InjectsErrors(t *testing.T) {
	boom := errors.New("boom")
	listener := &RecordingListener{
		ErrOn: map[bootx.Phase]error{bootx.PhaseStarted: boom},
	}

	if err := listener.Starting(); err != nil {
		t.Errorf("Starting() = %v, want nil", err)
	}
	if err := listener.Started(nil); !errors.Is(err, boom) {
		t.Errorf("Started() = %v, want boom", err)
	}

	listener.Failed(nil, boom)

	phases := listener.Phases()
	want := []bootx.Phase{bootx.PhaseStarting, bootx.PhaseStarted, bootx.PhaseFailed}
	if len(phases) != len(want) {
		t.Fatalf("Phases() = %v, want %v", phases, want)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("Phases()[%d] = %v, want %v", i, phases[i], want[i])
		}
	}
	if !errors.Is(listener.FailureCause(), boom) {
		t.Errorf("FailureCause() = %v, want boom", listener.FailureCause())
	}
}
