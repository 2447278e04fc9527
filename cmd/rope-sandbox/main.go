package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/ropebridge/audio"
	"github.com/lixenwraith/ropebridge/navigation"
	"github.com/lixenwraith/ropebridge/observability"
	"github.com/lixenwraith/ropebridge/rope"
	"github.com/lixenwraith/ropebridge/vmath"
)

const (
	frameInterval = 16 * time.Millisecond
	paymentStep   = 0.1 // Fraction of a paid bridge's total cost per keypress

	// World window mapped onto the terminal
	viewMinX, viewMaxX = -700.0, 1700.0
	viewMinY, viewMaxY = -700.0, 700.0
)

var (
	logPath     = flag.String("log", "rope-sandbox.log", "Debug log file, empty disables logging")
	metricsAddr = flag.String("metrics", "", "Serve Prometheus metrics on this address, e.g. :9090")
	seedFlag    = flag.Int64("seed", 1, "Seed for paid bridge split joints")
)

// Fixed scene: a gap between two cliffs, a floating shelf to grapple and a floor under the left cliff
var (
	leftLedge  = vmath.V2(0, 0)
	rightLedge = vmath.V2(1000, 0)
	shelfLedge = vmath.V2(300, -500)
	thrower    = vmath.V2(-100, -30)
	landing    = vmath.V2(1200, 0)
	floorSpot  = vmath.V2(-5, 560)
)

func buildTerrain(g *navigation.Graph) {
	g.AddTerrain([]vmath.Vec2{vmath.V2(-600, 0), leftLedge}, true, navigation.TagStone)
	g.AddTerrain([]vmath.Vec2{leftLedge, vmath.V2(0, 600)}, false, navigation.TagStone)
	g.AddTerrain([]vmath.Vec2{rightLedge, vmath.V2(1600, 0)}, true, navigation.TagStone)
	g.AddTerrain([]vmath.Vec2{rightLedge, vmath.V2(1000, 600)}, false, navigation.TagStone)
	g.AddTerrain([]vmath.Vec2{shelfLedge, vmath.V2(700, -500)}, true, navigation.TagDirt)
	g.AddTerrain([]vmath.Vec2{vmath.V2(-600, 560), vmath.V2(-1, 560)}, true, navigation.TagDirt)
}

type Sandbox struct {
	screen        tcell.Screen
	width, height int

	graph   *navigation.Graph
	system  *rope.System
	sounds  *audio.SoundManager
	log     *slog.Logger
	status  string
	lastTic time.Time
}

func NewSandbox(cfg rope.Config, logger *slog.Logger, metrics rope.MetricsRecorder) (*Sandbox, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	graph := navigation.NewGraph()
	buildTerrain(graph)
	system, err := rope.NewSystem(cfg, graph,
		rope.WithLogger(logger),
		rope.WithMetrics(metrics),
		rope.WithSeed(*seedFlag),
	)
	if err != nil {
		screen.Fini()
		return nil, err
	}

	sb := &Sandbox{
		screen:  screen,
		graph:   graph,
		system:  system,
		log:     logger,
		status:  "b bridge, p paid, + pay, space build, g grapple, k kill thrower, l ladder, c cancel, r reset, esc quit",
		lastTic: time.Now(),
	}
	sb.width, sb.height = screen.Size()

	// Non-fatal, the sandbox runs silent without a device
	sb.sounds = audio.NewSoundManager(audio.LoadAudioConfig())
	if err := sb.sounds.Initialize(); err != nil {
		logger.Warn("audio initialization failed", "error", err)
	}
	system.Register(audio.NewDispatcher[*rope.System](sb.sounds))

	return sb, nil
}

// newest returns the most recently spawned live instrument of kind
func (sb *Sandbox) newest(kind rope.Kind) rope.Instrument {
	insts := sb.system.Instruments()
	for i := len(insts) - 1; i >= 0; i-- {
		if insts[i].Kind() == kind {
			return insts[i]
		}
	}
	return nil
}

func (sb *Sandbox) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		return false
	}
	if ev.Key() != tcell.KeyRune {
		return true
	}

	switch ev.Rune() {
	case 'b':
		if tb, rej := sb.system.SpawnTimedBridge(leftLedge, rightLedge); tb != nil {
			tb.SetBuilding(true)
			sb.status = "timed bridge building"
		} else {
			sb.status = "bridge rejected: " + rej.String()
		}
	case 'p':
		if _, rej := sb.system.SpawnPaidBridge(leftLedge, rightLedge, 0); rej != rope.RejectNone {
			sb.status = "paid bridge rejected: " + rej.String()
		} else {
			sb.status = "paid bridge placed, + to pay"
		}
	case '+', '=':
		if pb, ok := sb.newest(rope.KindPaidBridge).(*rope.PaidBridge); ok {
			pb.Build(pb.TotalCost()*paymentStep, 1)
			sb.status = fmt.Sprintf("paid %.0f%%", pb.Paid()*100)
		}
	case ' ':
		if tb, ok := sb.newest(rope.KindTimedBridge).(*rope.TimedBridge); ok {
			tb.SetBuilding(!tb.Building())
		}
	case 'g':
		if _, rej := sb.system.SpawnGrapple(thrower, shelfLedge, landing); rej != rope.RejectNone {
			sb.status = "grapple rejected: " + rej.String()
		}
	case 'k':
		if gr, ok := sb.newest(rope.KindGrapple).(*rope.GrappleRope); ok && gr.State() == rope.StateActive {
			gr.OwnerDied()
			sb.status = "thrower died, rope severed"
		}
	case 'l':
		l := sb.system.SpawnLadder(leftLedge, floorSpot)
		if !l.Valid() {
			sb.status = "ladder placed invalid"
		}
	case 'c':
		insts := sb.system.Instruments()
		if len(insts) > 0 {
			sb.system.Cancel(insts[len(insts)-1].ID())
		}
	case 'r':
		sb.system.Teardown()
		sb.status = "reset"
	}
	return true
}

func (sb *Sandbox) tick() {
	now := time.Now()
	dt := now.Sub(sb.lastTic).Seconds()
	sb.lastTic = now
	// Clamp stalls so a paused terminal does not fast-forward construction
	if dt > 0.1 {
		dt = 0.1
	}
	sb.system.Update(dt)
}

func (sb *Sandbox) toScreen(p vmath.Vec2) (int, int) {
	x := (p.X - viewMinX) / (viewMaxX - viewMinX) * float64(sb.width)
	y := (p.Y - viewMinY) / (viewMaxY - viewMinY) * float64(sb.height-1)
	return int(math.Round(x)), int(math.Round(y))
}

func (sb *Sandbox) plot(p vmath.Vec2, r rune, style tcell.Style) {
	x, y := sb.toScreen(p)
	if x >= 0 && x < sb.width && y >= 0 && y < sb.height-1 {
		sb.screen.SetContent(x, y, r, nil, style)
	}
}

func (sb *Sandbox) line(a, b vmath.Vec2, r rune, style tcell.Style) {
	ax, ay := sb.toScreen(a)
	bx, by := sb.toScreen(b)
	steps := max(abs(bx-ax), abs(by-ay), 1)
	for i := 0; i <= steps; i++ {
		sb.plot(vmath.Lerp(a, b, float64(i)/float64(steps)), r, style)
	}
}

func pieceStyle(pc rope.Piece) tcell.Style {
	switch pc.Tint {
	case rope.TintPending:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	case rope.TintInvalid:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	}
	return tcell.StyleDefault.Foreground(tcell.ColorSaddleBrown)
}

// pieceRune picks a glyph from the smoothed piece angle
func pieceRune(angle float64) rune {
	a := math.Mod(angle+math.Pi, math.Pi)
	switch {
	case a < math.Pi/8 || a >= 7*math.Pi/8:
		return '─'
	case a < 3*math.Pi/8:
		return '╲'
	case a < 5*math.Pi/8:
		return '│'
	}
	return '╱'
}

func (sb *Sandbox) draw() {
	sb.screen.Clear()

	terrain := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for _, e := range sb.graph.Edges(navigation.MaskSolid) {
		for i := 1; i < len(e.Points); i++ {
			sb.line(e.Points[i-1], e.Points[i], '█', terrain)
		}
	}

	for _, inst := range sb.system.Instruments() {
		for _, pc := range inst.Pieces() {
			if !pc.Visible {
				continue
			}
			half := vmath.V2(math.Cos(pc.Angle), math.Sin(pc.Angle)).Scale(pc.Length / 2)
			sb.line(pc.Pos.Sub(half), pc.Pos.Add(half), pieceRune(pc.Angle), pieceStyle(pc))
		}
	}

	path := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	for _, e := range sb.graph.Edges(navigation.MaskWalk | navigation.MaskClimb) {
		for _, p := range e.Points {
			sb.plot(p, '·', path)
		}
	}
	sb.plot(thrower, '@', tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true))

	info := fmt.Sprintf("%s | instruments %d | chains %d", sb.status, sb.system.Len(), sb.system.World().ActiveChains())
	for i, r := range info {
		if i >= sb.width {
			break
		}
		sb.screen.SetContent(i, sb.height-1, r, nil, tcell.StyleDefault.Reverse(true))
	}

	sb.screen.Show()
}

func (sb *Sandbox) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- sb.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !sb.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				sb.width, sb.height = sb.screen.Size()
				sb.screen.Sync()
			}
		case <-ticker.C:
			sb.tick()
			sb.draw()
		}
	}
}

func (sb *Sandbox) cleanup() {
	sb.system.Teardown()
	sb.sounds.Cleanup()
	sb.screen.Fini()
}

func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { f.Close() }, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func main() {
	flag.Parse()

	logger, closeLog, err := newLogger(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	cfg, err := rope.LoadConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	collector, err := observability.NewRopeCollector(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to register metrics: %v\n", err)
		os.Exit(1)
	}
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error("metrics server stopped", "addr", *metricsAddr, "error", err)
			}
		}()
	}

	sb, err := NewSandbox(cfg, logger, collector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer sb.cleanup()

	sb.run()
}
