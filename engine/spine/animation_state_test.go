package spine

import (
	"errors"
	"testing"
)

func TestAnimationStateSetAnimation(t *testing.T) {
	state := NewAnimationState(mustSkeletonData(t))

	entry, err := state.SetAnimationByName(0, "run", true)
	if err != nil {
		t.Fatalf("set run: %v", err)
	}
	if state.Current(0) != entry || entry.Animation.Name != "run" {
		t.Fatalf("run should be current on track 0")
	}

	state.Update(0.6)
	if entry.IsComplete() {
		t.Fatalf("looping entries never complete")
	}
	if got := entry.AnimationTime(); !approx(got, 0.6-0.5333) {
		t.Fatalf("expected wrapped time, got %v", got)
	}

	if _, err := state.SetAnimationByName(2, "idle", false); err != nil {
		t.Fatalf("set idle on track 2: %v", err)
	}
	if len(state.Tracks()) != 3 || state.Current(1) != nil {
		t.Fatalf("tracks should grow with an empty gap: %+v", state.Tracks())
	}

	if _, err := state.SetAnimationByName(0, "fly", true); !errors.Is(err, ErrAnimationNotFound) {
		t.Fatalf("expected ErrAnimationNotFound, got %v", err)
	}
	if _, err := state.SetAnimationByName(-1, "run", true); !errors.Is(err, ErrNegativeTrackIndex) {
		t.Fatalf("expected ErrNegativeTrackIndex, got %v", err)
	}
}

func TestAnimationStateQueue(t *testing.T) {
	state := NewAnimationState(mustSkeletonData(t))

	shoot, err := state.AddAnimationByName(0, "shoot", false, 0)
	if err != nil {
		t.Fatalf("add shoot: %v", err)
	}
	if state.Current(0) != shoot {
		t.Fatalf("adding to an empty track should start immediately")
	}

	idle, err := state.AddAnimationByName(0, "idle", true, 0)
	if err != nil {
		t.Fatalf("add idle: %v", err)
	}
	if !approx(idle.Delay, 0.1) || shoot.Next() != idle {
		t.Fatalf("idle should be queued at the end of shoot: delay %v", idle.Delay)
	}

	state.Update(0.05)
	if state.Current(0) != shoot {
		t.Fatalf("shoot should still be playing")
	}

	state.Update(0.1)
	if state.Current(0) != idle {
		t.Fatalf("idle should have started")
	}
	if !approx(idle.TrackTime, 0.05) {
		t.Fatalf("overshoot should carry into idle, got %v", idle.TrackTime)
	}

	state.ClearTrack(0)
	if state.Current(0) != nil {
		t.Fatalf("track should be cleared")
	}
	state.ClearTracks()
	if len(state.Tracks()) != 0 {
		t.Fatalf("all tracks should be cleared")
	}
}

func TestAnimationStateTimeScale(t *testing.T) {
	state := NewAnimationState(mustSkeletonData(t))
	entry, _ := state.SetAnimationByName(0, "idle", false)
	state.TimeScale = 2

	state.Update(1)
	if !entry.IsComplete() || entry.AnimationTime() != entry.Animation.Duration {
		t.Fatalf("idle should be complete and clamped: %+v", entry)
	}
}
