package audio

// Output is a voice track plus an effects mixer. Player, MutedPlayer and
// MockPlayer all implement it.
type Output interface {
	Play(clip Clip, done func()) error
	PlayEffect(clip Clip) error
	Stop() error
	Pause() error
	Resume() error
	Close() error
}

var (
	_ Output = (*Player)(nil)
	_ Output = (*MutedPlayer)(nil)
	_ Output = (*MockPlayer)(nil)
)
