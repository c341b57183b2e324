package engine

import (
	"github.com/spaghettifunk/resin/engine/math"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	// Hierarchy is set by the engine before FnInitialize runs.
	Hierarchy    *math.Hierarchy
	State        interface{}
	FnBoot       Boot
	FnInitialize Initialize
	FnUpdate     Update
	FnRender     Render
	FnShutdown   Shutdown
}

type Boot func() error
type Initialize func() error
type Update func(deltaTime float64) error
type Render func(packet *RenderPacket) error
type Shutdown func() error
