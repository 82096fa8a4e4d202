package alarm

import "time"

// Sounder plays the looping alarm sound. Implementations degrade silently:
// a failed PlayLoop is reported as an error for fallback selection, and Stop
// must tolerate being called when nothing is playing.
type Sounder interface {
	PlayLoop() error
	Stop()
}

// Vibrator triggers the device vibration pattern when the capability exists.
type Vibrator interface {
	Vibrate(pattern []time.Duration) error
	Stop()
}

// NopSounder is the silent sounder used when no audio backend is available.
type NopSounder struct{}

func (NopSounder) PlayLoop() error { return nil }
func (NopSounder) Stop()           {}

// FallbackSounder chains a preferred sounder with a fallback: PlayLoop tries
// the primary first and switches to the fallback when the primary fails
// (asset missing, playback rejected). A single Stop silences whichever path
// is active, tolerating either being inactive.
type FallbackSounder struct {
	Primary  Sounder
	Fallback Sounder
}

func (f *FallbackSounder) PlayLoop() error {
	if f.Primary != nil {
		if err := f.Primary.PlayLoop(); err == nil {
			return nil
		}
	}
	if f.Fallback != nil {
		return f.Fallback.PlayLoop()
	}
	return nil
}

func (f *FallbackSounder) Stop() {
	if f.Primary != nil {
		f.Primary.Stop()
	}
	if f.Fallback != nil {
		f.Fallback.Stop()
	}
}
