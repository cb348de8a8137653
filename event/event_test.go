package event

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/edgetracker/format"
)

func TestTypes(t *testing.T) {
	for ev, typ := range map[Event]Type{
		&Caps{Structure: format.NewVideoStructure(2, 2, format.PixelLayoutBGR)}: TypeCaps,
		&EOS{}:        TypeEOS,
		&FlushStart{}: TypeFlushStart,
		&FlushStop{}:  TypeFlushStop,
		&Custom{Structure: format.NewStructure("application/x-test")}: TypeCustom,
	} {
		require.Equal(t, typ, ev.Type(), ev.String())
		require.NotContains(t, typ.String(), "unknown")
	}
	require.Contains(t, (&Caps{Structure: format.NewVideoStructure(2, 2, format.PixelLayoutBGR)}).String(), "width=(int)2")
}
