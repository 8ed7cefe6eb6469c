package spine

import (
	"fmt"
	"math"
)

// TrackEntry is an animation queued or playing on a track.
type TrackEntry struct {
	Animation  *Animation
	TrackIndex int
	Loop       bool
	// Delay is the track time of the previous entry at which this entry starts.
	Delay float32
	// TrackTime is the time this entry has been playing, scaled by the state time scale.
	TrackTime float32

	next *TrackEntry
}

// AnimationTime returns the animation-local time, wrapped for looping entries.
func (e *TrackEntry) AnimationTime() float32 {
	d := e.Animation.Duration
	if e.Loop && d > 0 {
		return float32(math.Mod(float64(e.TrackTime), float64(d)))
	}
	return min(e.TrackTime, d)
}

// IsComplete reports whether a non-looping entry played through once. Looping entries never complete.
func (e *TrackEntry) IsComplete() bool {
	return !e.Loop && e.TrackTime >= e.Animation.Duration
}

// Next returns the entry queued after this one, or nil.
func (e *TrackEntry) Next() *TrackEntry {
	return e.next
}

// AnimationState advances queued animations on independent tracks. It only tracks timing;
// applying poses is left to the consumer.
type AnimationState struct {
	data   *SkeletonData
	tracks []*TrackEntry

	TimeScale float32
}

// NewAnimationState creates an empty animation state for a template.
func NewAnimationState(data *SkeletonData) *AnimationState {
	return &AnimationState{data: data, TimeScale: 1}
}

// Tracks returns the current entry of every track; empty tracks are nil.
func (s *AnimationState) Tracks() []*TrackEntry {
	return s.tracks
}

// Current returns the entry playing on a track, or nil.
func (s *AnimationState) Current(track int) *TrackEntry {
	if track < 0 || track >= len(s.tracks) {
		return nil
	}
	return s.tracks[track]
}

// SetAnimationByName replaces whatever is on the track with the named animation.
//
// Parameters:
//   - track: the track index
//   - name: the animation name
//   - loop: whether the animation repeats
//
// Returns:
//   - *TrackEntry: the new entry
//   - error: error wrapping ErrAnimationNotFound or ErrNegativeTrackIndex
func (s *AnimationState) SetAnimationByName(track int, name string, loop bool) (*TrackEntry, error) {
	anim := s.data.FindAnimation(name)
	if anim == nil {
		return nil, fmt.Errorf("%w: %s", ErrAnimationNotFound, name)
	}
	return s.SetAnimation(track, anim, loop)
}

// SetAnimation replaces whatever is on the track with anim.
func (s *AnimationState) SetAnimation(track int, anim *Animation, loop bool) (*TrackEntry, error) {
	if track < 0 {
		return nil, ErrNegativeTrackIndex
	}
	s.ensureTrack(track)
	entry := &TrackEntry{Animation: anim, TrackIndex: track, Loop: loop}
	s.tracks[track] = entry
	return entry, nil
}

// AddAnimationByName queues the named animation after the last entry on the track. A delay <= 0
// is relative to the end of the previous entry's animation. An empty track starts immediately.
//
// Parameters:
//   - track: the track index
//   - name: the animation name
//   - loop: whether the animation repeats
//   - delay: seconds after the previous entry starts, or <= 0 for relative to its end
//
// Returns:
//   - *TrackEntry: the queued entry
//   - error: error wrapping ErrAnimationNotFound or ErrNegativeTrackIndex
func (s *AnimationState) AddAnimationByName(track int, name string, loop bool, delay float32) (*TrackEntry, error) {
	anim := s.data.FindAnimation(name)
	if anim == nil {
		return nil, fmt.Errorf("%w: %s", ErrAnimationNotFound, name)
	}
	if track < 0 {
		return nil, ErrNegativeTrackIndex
	}
	s.ensureTrack(track)

	last := s.tracks[track]
	if last == nil {
		return s.SetAnimation(track, anim, loop)
	}
	for last.next != nil {
		last = last.next
	}

	if delay <= 0 {
		delay = max(last.Animation.Duration+delay, 0)
	}
	entry := &TrackEntry{Animation: anim, TrackIndex: track, Loop: loop, Delay: delay}
	last.next = entry
	return entry, nil
}

// ClearTrack removes the current and queued entries of a track.
func (s *AnimationState) ClearTrack(track int) {
	if track >= 0 && track < len(s.tracks) {
		s.tracks[track] = nil
	}
}

// ClearTracks removes every entry on every track.
func (s *AnimationState) ClearTracks() {
	s.tracks = s.tracks[:0]
}

// Update advances every track by delta seconds and moves queued entries in once their delay
// elapses, carrying the overshoot into the next entry.
func (s *AnimationState) Update(delta float32) {
	delta *= s.TimeScale
	for i, entry := range s.tracks {
		if entry == nil {
			continue
		}
		entry.TrackTime += delta
		for entry.next != nil && entry.TrackTime >= entry.next.Delay {
			next := entry.next
			next.TrackTime = entry.TrackTime - next.Delay
			entry = next
		}
		s.tracks[i] = entry
	}
}

func (s *AnimationState) ensureTrack(track int) {
	for len(s.tracks) <= track {
		s.tracks = append(s.tracks, nil)
	}
}
