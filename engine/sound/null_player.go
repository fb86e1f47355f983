package sound

// NullPlayer discards every sound. It is the player used by headless sessions.
type NullPlayer struct{}

// PlaySound does nothing and reports success.
func (NullPlayer) PlaySound(string) error {
	return nil
}
