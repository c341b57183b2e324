package engine

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/resin/engine/core"
	"github.com/spaghettifunk/resin/engine/math"
)

type ApplicationConfig struct {
	// The application name used in logs.
	Name string
	// Path of the TOML config to watch for changes. Empty disables hot reload.
	ConfigPath string
	Config     core.Config
}

// RenderItem is the per-frame snapshot of a transform handed to the renderer.
type RenderItem struct {
	Handle math.Handle
	Model  mgl32.Mat4
}

type RenderPacket struct {
	DeltaTime float64
	Frame     uint64
	Items     []RenderItem
}
