package audio

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func testClip(n int) Clip {
	return Clip{Samples: make([]float32, n), SampleRate: SpeechSampleRate}
}

func TestMockPlayerFinishCallsDone(t *testing.T) {
	mp := DefaultMockPlayer()

	var done atomic.Int32
	if err := mp.Play(testClip(10), func() { done.Add(1) }); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !mp.IsPlaying() {
		t.Fatal("expected playing state")
	}
	if !mp.Finish() {
		t.Fatal("Finish reported nothing playing")
	}
	if done.Load() != 1 {
		t.Errorf("done called %d times", done.Load())
	}
	if mp.Finish() {
		t.Error("second Finish should report nothing playing")
	}
	if done.Load() != 1 {
		t.Errorf("done called %d times after second Finish", done.Load())
	}
}

func TestMockPlayerStopSuppressesDone(t *testing.T) {
	mp := DefaultMockPlayer()

	called := false
	_ = mp.Play(testClip(10), func() { called = true })
	_ = mp.Stop()

	if mp.Finish() {
		t.Error("Finish after Stop should be a no-op")
	}
	if called {
		t.Error("done called after Stop")
	}
	if mp.GetState() != StateStopped {
		t.Errorf("state = %s", mp.GetState())
	}
}

func TestMockPlayerPauseResume(t *testing.T) {
	var pauses, resumes int
	mp := NewMockPlayer(MockCallbacks{
		OnPause:  func() { pauses++ },
		OnResume: func() { resumes++ },
	})

	_ = mp.Play(testClip(10), nil)
	_ = mp.Pause()
	if mp.GetState() != StatePaused {
		t.Fatalf("state = %s, want paused", mp.GetState())
	}
	if mp.Finish() {
		t.Error("paused clip should not finish")
	}
	_ = mp.Resume()
	if mp.GetState() != StatePlaying {
		t.Fatalf("state = %s, want playing", mp.GetState())
	}
	if pauses != 1 || resumes != 1 {
		t.Errorf("callbacks: pauses=%d resumes=%d", pauses, resumes)
	}
}

func TestMockPlayerRecords(t *testing.T) {
	mp := DefaultMockPlayer()

	_ = mp.Play(testClip(1), nil)
	_ = mp.Play(testClip(2), nil)
	_ = mp.PlayEffect(testClip(3))

	played := mp.Played()
	if len(played) != 2 || len(played[1].Samples) != 2 {
		t.Errorf("played = %v", played)
	}
	if len(mp.Effects()) != 1 {
		t.Errorf("effects = %d", len(mp.Effects()))
	}
	cur, ok := mp.Current()
	if !ok || len(cur.Samples) != 2 {
		t.Errorf("current = %v %v", cur, ok)
	}
	m := mp.GetMetrics()
	if m.PlayCount != 2 || m.EffectCount != 1 {
		t.Errorf("metrics = %+v", m)
	}
}

func TestMockPlayerRejects(t *testing.T) {
	mp := DefaultMockPlayer()
	if err := mp.Play(Clip{}, nil); !errors.Is(err, ErrEmptyAudio) {
		t.Errorf("empty clip error = %v", err)
	}
	if err := mp.SetVolume(1.5); err == nil {
		t.Error("expected volume error")
	}
	_ = mp.Close()
	if err := mp.Play(testClip(1), nil); !errors.Is(err, ErrPlayerClosed) {
		t.Errorf("closed player error = %v", err)
	}
}

func TestMutedPlayerCompletes(t *testing.T) {
	m := NewMutedPlayer()

	done := make(chan struct{})
	// 240 samples at 24kHz is 10ms.
	if err := m.Play(testClip(240), func() { close(done) }); err != nil {
		t.Fatalf("Play: %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("muted clip never completed")
	}
}

func TestMutedPlayerStop(t *testing.T) {
	m := NewMutedPlayer()

	var called atomic.Bool
	_ = m.Play(testClip(240), func() { called.Store(true) })
	_ = m.Stop()
	time.Sleep(50 * time.Millisecond)
	if called.Load() {
		t.Error("done called after Stop")
	}
}

func TestMutedPlayerPauseHoldsCompletion(t *testing.T) {
	m := NewMutedPlayer()

	var called atomic.Bool
	_ = m.Play(testClip(480), func() { called.Store(true) })
	_ = m.Pause()
	time.Sleep(60 * time.Millisecond)
	if called.Load() {
		t.Fatal("done called while paused")
	}
	_ = m.Resume()

	deadline := time.Now().Add(2 * time.Second)
	for !called.Load() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !called.Load() {
		t.Error("done not called after Resume")
	}
}

func TestPlayerConfigValidation(t *testing.T) {
	tests := []struct {
		name      string
		config    PlayerConfig
		expectErr bool
	}{
		{"default", DefaultPlayerConfig(), false},
		{"48k", PlayerConfig{SampleRate: 48000, Channels: 1, Volume: 0.5}, false},
		{"rate too low", PlayerConfig{SampleRate: 100, Channels: 1}, true},
		{"stereo", PlayerConfig{SampleRate: 24000, Channels: 2}, true},
		{"negative buffer", PlayerConfig{SampleRate: 24000, Channels: 1, BufferSize: -1}, true},
		{"loud", PlayerConfig{SampleRate: 24000, Channels: 1, Volume: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(tt.config)
			if (err != nil) != tt.expectErr {
				t.Errorf("validateConfig() error = %v, expectErr %v", err, tt.expectErr)
			}
		})
	}
}
