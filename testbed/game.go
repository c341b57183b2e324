package testbed

import (
	m "math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/resin/engine"
	"github.com/spaghettifunk/resin/engine/core"
	"github.com/spaghettifunk/resin/engine/math"
)

// logEvery is the number of frames between two position reports.
const logEvery = 60

var axisY = mgl32.Vec3{0, 1, 0}

// TestGame is a small orbit scene: a spinning sun carries planets, each planet
// carries a tilted moon. Only the roots are animated; everything else follows
// through the hierarchy.
type TestGame struct {
	*engine.Game
}

type gameState struct {
	sun     *math.Transform
	planets []*math.Transform
	moons   []*math.Transform
	elapsed float64
}

func NewTestGame(config core.Config, configPath string) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				Name:       "Resin Testbed",
				ConfigPath: configPath,
				Config:     config,
			},
			State: &gameState{},
		},
	}

	tg.FnBoot = tg.Boot
	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Boot() error {
	core.LogInfo("booting testbed...")
	return nil
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	state := g.State.(*gameState)
	h := g.Hierarchy

	state.sun = h.New(WithUniformScale(2))
	satellites := g.ApplicationConfig.Config.Testbed.Satellites
	for i := 0; i < satellites; i++ {
		angle := 2 * m.Pi * float64(i) / float64(satellites)
		distance := float32(4 + 3*i)
		planet := h.New(
			math.WithPosition(mgl32.Vec3{distance * float32(m.Cos(angle)), 0, distance * float32(m.Sin(angle))}),
			WithUniformScale(0.25),
		)
		if err := planet.SetParent(state.sun); err != nil {
			return err
		}

		moon := h.New(
			math.WithPosition(mgl32.Vec3{0, 0, 3}),
			math.WithRotation(mgl32.QuatRotate(mgl32.DegToRad(23.5), mgl32.Vec3{1, 0, 0})),
			WithUniformScale(0.5),
		)
		if err := moon.SetParent(planet); err != nil {
			return err
		}

		state.planets = append(state.planets, planet)
		state.moons = append(state.moons, moon)
	}
	return nil
}

func WithUniformScale(s float32) math.TransformOption {
	return math.WithScale(mgl32.Vec3{s, s, s})
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	state.elapsed += deltaTime

	state.sun.Rotate(axisY, float32(0.5*deltaTime))
	for i, planet := range state.planets {
		// inner planets spin faster
		planet.RotateLocal(mgl32.QuatRotate(float32(deltaTime)/float32(i+1), axisY))
	}
	return nil
}

func (g *TestGame) Render(packet *engine.RenderPacket) error {
	if packet.Frame%logEvery != 0 {
		return nil
	}
	state := g.State.(*gameState)
	for i, moon := range state.moons {
		pos := moon.Position()
		front := moon.Front()
		core.LogInfo("frame %d moon %d at [%.3f, %.3f, %.3f] facing [%.3f, %.3f, %.3f]",
			packet.Frame, i, pos.X(), pos.Y(), pos.Z(), front.X(), front.Y(), front.Z())
	}
	stats := g.Hierarchy.Stats()
	core.LogDebug("%d render items, %d world recomputes, %d dirty marks so far",
		len(packet.Items), stats.WorldRecomputes, stats.DirtyMarks)
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.State.(*gameState)
	core.LogInfo("shutting down testbed after %.2fs", state.elapsed)
	// planets and moons survive the sun as roots
	return state.sun.Destroy()
}
