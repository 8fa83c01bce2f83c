package strokemesh

import (
	"errors"

	"github.com/gogpu/strokemesh/internal/glyph"
	"github.com/gogpu/strokemesh/internal/stroke"
)

var (
	// ErrNoSavedState is returned by Restore without a matching Save.
	ErrNoSavedState = errors.New("strokemesh: restore without matching save")

	// ErrBudgetExceeded reports a stroke primitive that needs more
	// attributes or indices than one draw may use. The draw went ahead
	// without it.
	ErrBudgetExceeded = stroke.ErrBudgetExceeded

	// ErrAtlasFull reports that the glyph atlas could not take a glyph.
	// DrawGlyphs returns it with the index of the first glyph not drawn.
	ErrAtlasFull = glyph.ErrAtlasFull

	// ErrNoDevice is returned by GPU backends created without a device.
	ErrNoDevice = errors.New("strokemesh: no GPU device")

	// ErrNotBegun is returned by End without Begin.
	ErrNotBegun = errors.New("strokemesh: painter not begun")
)
