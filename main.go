/*
This is an example of application that drives the debug draw
system with an animated scene to test things out
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/gizmo/engine/core"
	"github.com/spaghettifunk/gizmo/engine/debug"
	"github.com/spaghettifunk/gizmo/engine/math"
	"github.com/spaghettifunk/gizmo/engine/platform"
	"github.com/spaghettifunk/gizmo/engine/renderer"
)

const configPath = "assets/debugdraw.toml"

func main() {
	cfg, err := debug.LoadConfig(configPath)
	if err != nil {
		core.LogWarn("using default config: %s", err)
		cfg = debug.DefaultConfig()
	}

	system, err := debug.New(cfg)
	if err != nil {
		panic(err)
	}

	watcher, err := debug.WatchConfig(configPath, system.StageConfig)
	if err != nil {
		core.LogWarn("config hot reload disabled: %s", err)
	} else {
		defer watcher.Close()
	}

	p, err := platform.New()
	if err != nil {
		panic(err)
	}
	if err := p.Startup("Gizmo Debug Draw", 100, 100, 1280, 720); err != nil {
		panic(err)
	}
	defer p.Shutdown()

	backend := renderer.NewHeadless()
	r, err := renderer.New(backend, system.Meshes())
	if err != nil {
		panic(err)
	}
	defer r.Shutdown()

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	go func() {
		<-sigCh
		p.Window.SetShouldClose(true)
	}()

	view := math.NewMat4LookAt(math.NewVec3(0, 3, -8), math.NewVec3Zero(), math.NewVec3Up())
	proj := math.NewMat4Perspective(math.DegToRad(45), 1280.0/720.0, 0.1, 1000.0)

	clock := core.NewClock()
	clock.Start()
	clock.Update()

	lastTime := clock.ElapsedSeconds()
	lastStats := lastTime

	for !p.ShouldClose() {
		p.PumpMessages()

		clock.Update()
		now := clock.ElapsedSeconds()
		delta := now - lastTime
		lastTime = now

		submitScene(system, float32(now))

		system.Update(delta)
		system.Extract()
		system.Prepare()

		batch := system.Batch()
		if err := r.DrawFrame(batch, system.Prepared(), view, proj); err != nil {
			core.LogError("draw frame: %s", err)
			break
		}

		if now-lastStats >= 1.0 {
			stats := system.Stats()
			core.LogInfo("frame: %d instances, %d line vertices, %d timed pending, %d dropped",
				stats.Instances, stats.LineVertices, stats.TimedPending, stats.Dropped)
			lastStats = now
		}
	}
}

// submitScene draws an orbiting shape ring plus world axes every frame, and
// drops a fading marker sphere once a second.
func submitScene(s *debug.System, t float32) {
	red := math.NewVec4(1, 0.2, 0.2, 1)
	green := math.NewVec4(0.2, 1, 0.2, 1)
	blue := math.NewVec4(0.2, 0.4, 1, 1)
	yellow := math.NewVec4(1, 1, 0.2, 1)

	s.DrawArrow(math.NewVec3Zero(), math.NewVec3(1, 0, 0), 2, red, 0, true)
	s.DrawArrow(math.NewVec3Zero(), math.NewVec3(0, 1, 0), 2, green, 0, true)
	s.DrawArrow(math.NewVec3Zero(), math.NewVec3(0, 0, 1), 2, blue, 0, true)

	spin := math.NewQuatFromAxisAngle(math.NewVec3Up(), t, true)
	orbit := math.NewVec3(math.Cos(t)*3, 1, math.Sin(t)*3)

	s.DrawSphere(orbit, 0.4, yellow, 0, true)
	s.DrawCube(math.NewVec3(-0.5, 0, -0.5), math.NewVec3(0.5, 1, 0.5), spin, blue, 0, true)
	s.DrawCapsule(math.NewVec3(2, 1, 0), spin, 0.3, 1.2, green, 0, false)
	s.DrawCylinder(math.NewVec3(-2, 0.5, 0), math.NewQuatIdentity(), 0.5, 1, red, 0, true)
	s.DrawCone(math.NewVec3(0, 0.5, 2), math.NewQuatIdentity(), 0.4, 1, yellow, 0, true)
	s.DrawCircle(math.NewVec3Zero(), math.NewQuatIdentity(), 3, math.NewVec4One(), 0, false)
	s.DrawQuad(math.NewVec3(0, 0, -2), math.NewQuatIdentity(), math.NewVec2(1.5, 1.5), green, 0, true)

	s.DrawBounds(math.Extents3D{
		Min: math.NewVec3(-4, 0, -4),
		Max: math.NewVec3(4, 3, 4),
	}, math.NewVec4(0.6, 0.6, 0.6, 1), 0, true)

	// Timed marker once a second, left to fade over three seconds.
	if math.Abs(t-float32(int(t))) < 0.016 {
		s.DrawSphere(math.NewVec3(0, 2.5, 0), 0.2, red, 3.0, false)
	}
}
