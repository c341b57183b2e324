package engine

import (
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/resin/engine/core"
	"github.com/spaghettifunk/resin/engine/math"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

const targetFrameSeconds float64 = 1.0 / 60.0

// Engine owns the transform hierarchy and drives it once per frame: the game
// mutates transforms in its update, then the engine resolves every world
// matrix into a render packet.
type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    atomic.Bool
	hierarchy    *math.Hierarchy
	clock        *core.Clock
	metrics      *core.FrameMetrics
	watcher      *core.ConfigWatcher
	lastTime     float64
	frame        uint64
	// reused between frames
	packet *RenderPacket
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, core.ErrMissingAppConfig
	}
	cfg := g.ApplicationConfig.Config
	if err := cfg.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	e := &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		hierarchy:    math.NewHierarchy(cfg.Hierarchy),
		clock:        core.NewClock(),
		metrics:      core.NewFrameMetrics(),
		packet:       &RenderPacket{},
	}
	e.isRunning.Store(true)
	return e, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageBooting
	config := e.gameInstance.ApplicationConfig
	if err := config.Config.Apply(); err != nil {
		return err
	}

	if e.gameInstance.FnBoot != nil {
		if err := e.gameInstance.FnBoot(); err != nil {
			core.LogError("failed to boot %s", config.Name)
			return err
		}
	}
	e.currentStage = EngineStageBootComplete

	e.currentStage = EngineStageInitializing
	if config.ConfigPath != "" {
		w, err := core.WatchConfig(config.ConfigPath, func(cfg core.Config) {
			// only the logger is safe to touch from the watcher goroutine
			if err := cfg.Apply(); err != nil {
				core.LogWarn("failed to apply reloaded config: %s", err)
			}
		})
		if err != nil {
			return err
		}
		e.watcher = w
	}

	e.gameInstance.Hierarchy = e.hierarchy
	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageInitialized
	core.LogInfo("%s initialized with %d transforms", config.Name, e.hierarchy.Len())
	return nil
}

// Run steps frames until Shutdown is called or the configured number of frames
// has elapsed (zero means no limit).
func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	maxFrames := uint64(e.gameInstance.ApplicationConfig.Config.Testbed.Frames)

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning.Load() {
		if maxFrames != 0 && e.frame >= maxFrames {
			break
		}
		frameStart := time.Now()

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(delta); err != nil {
				core.LogError("Game update failed, shutting down: %s", err)
				return err
			}
		}

		e.buildPacket(delta)
		if e.gameInstance.FnRender != nil {
			if err := e.gameInstance.FnRender(e.packet); err != nil {
				core.LogError("Game render failed, shutting down: %s", err)
				return err
			}
		}

		frameElapsed := time.Since(frameStart).Seconds()
		if remaining := targetFrameSeconds - frameElapsed; remaining > 0 {
			time.Sleep(time.Duration(remaining * float64(time.Second)))
		}
		e.metrics.Update(time.Since(frameStart).Seconds())

		e.lastTime = currentTime
		e.frame++
	}

	e.currentStage = EngineStageShuttingDown
	fps, frameTime := e.metrics.Frame()
	core.LogInfo("ran %d frames (%.1f fps, %.2f ms/frame)", e.frame, fps, frameTime)
	return nil
}

// buildPacket resolves the world matrix of every transform, roots first.
func (e *Engine) buildPacket(delta float64) {
	e.packet.DeltaTime = delta
	e.packet.Frame = e.frame
	e.packet.Items = e.packet.Items[:0]
	for _, root := range e.hierarchy.Roots() {
		e.hierarchy.Walk(root, func(t *math.Transform) bool {
			e.packet.Items = append(e.packet.Items, RenderItem{
				Handle: t.Handle(),
				Model:  t.LocalToWorldMatrix(),
			})
			return true
		})
	}
}

func (e *Engine) Shutdown() error {
	e.isRunning.Store(false)
	return nil
}

// Close releases what Initialize acquired. Call it after Run returns.
func (e *Engine) Close() error {
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			return err
		}
	}
	if e.watcher != nil {
		return e.watcher.Close()
	}
	return nil
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) Hierarchy() *math.Hierarchy {
	return e.hierarchy
}

func (e *Engine) Stats() math.Stats {
	return e.hierarchy.Stats()
}
