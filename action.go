package vterm

// Handler is the capability set a Parser drives. It has no identity of
// its own — the parser calls into it without knowing what's on the other
// side. Interpreter implements Handler in terms of Surface operations;
// tests can implement it directly to assert on the raw action stream.
type Handler interface {
	Print(r rune)
	Execute(b byte)
	Hook(params []CsiParam, intermediates []byte, truncated bool, final byte)
	Put(b byte)
	Unhook()
	EscDispatch(intermediates []byte, final byte)
	CsiDispatch(params []CsiParam, intermediates []byte, truncated bool, final byte)
	OscDispatch(fields [][]byte, final byte)
}

// NopHandler implements Handler with no-op methods; embed it to satisfy
// the interface while overriding only the calls a particular test cares
// about.
type NopHandler struct{}

func (NopHandler) Print(rune)                                              {}
func (NopHandler) Execute(byte)                                            {}
func (NopHandler) Hook([]CsiParam, []byte, bool, byte)                     {}
func (NopHandler) Put(byte)                                                {}
func (NopHandler) Unhook()                                                 {}
func (NopHandler) EscDispatch([]byte, byte)                                {}
func (NopHandler) CsiDispatch([]CsiParam, []byte, bool, byte)              {}
func (NopHandler) OscDispatch([][]byte, byte)                              {}
