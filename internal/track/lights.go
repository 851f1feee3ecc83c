package track

// LightWriter receives every light on/off command the sequencer emits. The
// rendering side of the world lives behind this interface.
type LightWriter interface {
	SetLight(zone int, on bool)
}

// LightWriterFunc adapts a function into a LightWriter.
type LightWriterFunc func(zone int, on bool)

// SetLight implements LightWriter.
func (f LightWriterFunc) SetLight(zone int, on bool) {
	if f == nil {
		return
	}
	f(zone, on)
}

type nopLightWriter struct{}

func (nopLightWriter) SetLight(int, bool) {}

// MultiLightWriter fans commands out to every writer in order.
func MultiLightWriter(writers ...LightWriter) LightWriter {
	live := make([]LightWriter, 0, len(writers))
	for _, w := range writers {
		if w != nil {
			live = append(live, w)
		}
	}
	return multiLightWriter(live)
}

type multiLightWriter []LightWriter

func (m multiLightWriter) SetLight(zone int, on bool) {
	for _, w := range m {
		w.SetLight(zone, on)
	}
}
