package vterm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputRouterArrowKeysSwitchOnAppCursorMode(t *testing.T) {
	r := NewInputRouter(ModSuper)

	res := r.ResolveKey(KeyEvent{Key: KeyUp}, Mode(0))
	assert.Equal(t, []byte("\x1b[A"), res.Bytes)

	res = r.ResolveKey(KeyEvent{Key: KeyUp}, ModeAppCursor)
	assert.Equal(t, []byte("\x1bOA"), res.Bytes)
}

func TestInputRouterCtrlLetterEncodesC0(t *testing.T) {
	r := NewInputRouter(ModSuper)
	res := r.ResolveKey(KeyEvent{Rune: 'c', Mods: ModCtrl}, Mode(0))
	require.Len(t, res.Bytes, 1)
	assert.Equal(t, byte(0x03), res.Bytes[0])
}

func TestInputRouterPlainRuneFallsBackToUTF8Bytes(t *testing.T) {
	r := NewInputRouter(ModSuper)
	res := r.ResolveKey(KeyEvent{Rune: 'é'}, Mode(0))
	assert.Equal(t, []byte("é"), res.Bytes)
}

func TestInputRouterPlatformModifierResolvesEditorAction(t *testing.T) {
	r := NewInputRouter(ModSuper)
	res := r.ResolveKey(KeyEvent{Rune: 'c', Mods: ModSuper}, Mode(0))
	assert.Equal(t, ActionCopy, res.Action)
	assert.Nil(t, res.Bytes)
}

func TestInputRouterMouseOpenLinkRequiresLinkUnderCursor(t *testing.T) {
	r := NewInputRouter(ModSuper)
	ev := MouseEvent{Button: MouseLeft, Action: MousePress, Mods: ModSuper}

	res := r.ResolveMouse(ev, Mode(0), true)
	assert.Equal(t, ActionOpenLink, res.Action)

	res = r.ResolveMouse(ev, Mode(0), false)
	assert.Equal(t, Resolution{}, res)
}

func TestInputRouterFunctionKeys(t *testing.T) {
	r := NewInputRouter(ModSuper)
	res := r.ResolveKey(KeyEvent{Key: KeyF5}, Mode(0))
	assert.Equal(t, []byte("\x1b[15~"), res.Bytes)
}

func TestCtrlControlBytePunctuation(t *testing.T) {
	b, ok := ctrlControlByte('[')
	require.True(t, ok)
	assert.Equal(t, byte(0x1B), b)

	_, ok = ctrlControlByte('1')
	assert.False(t, ok)
}
