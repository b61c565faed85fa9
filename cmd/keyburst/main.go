// Package main is the interactive demo for the keyburst effects overlay:
// a minimal editor whose keystrokes, deletions, saves, and selections feed
// an effects session.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/keyburst/internal/config"
	"github.com/dshills/keyburst/internal/document"
	"github.com/dshills/keyburst/internal/effects/session"
	"github.com/dshills/keyburst/internal/host"
	"github.com/dshills/keyburst/internal/sound"
	"github.com/dshills/keyburst/internal/term"
	"github.com/dshills/keyburst/internal/timer"
)

const welcome = "keyburst demo - type away!\n" +
	"Backspace deletes, Ctrl+W vaporizes a word, Ctrl+S saves,\n" +
	"Ctrl+V anchors a selection, Ctrl+D toggles demo mode, Ctrl+Q quits.\n\n"

type options struct {
	configPath string
	scriptPath string
	logPath    string
	demo       bool
	mute       bool
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to a JSON intensity config")
	flag.StringVar(&opts.scriptPath, "script", "", "path to a Lua intensity script")
	flag.StringVar(&opts.logPath, "log", "", "write debug logs to this file")
	flag.BoolVar(&opts.demo, "demo", false, "fire every eligible effect on every action")
	flag.BoolVar(&opts.mute, "mute", false, "disable sound playback")
	flag.Parse()
	return opts
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	log := zap.NewNop()
	if opts.logPath != "" {
		zcfg := zap.NewDevelopmentConfig()
		zcfg.OutputPaths = []string{opts.logPath}
		built, err := zcfg.Build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open log: %v\n", err)
			return 1
		}
		log = built
		defer func() { _ = log.Sync() }()
	}

	intensity, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.scriptPath != "" {
		src, err := os.ReadFile(opts.scriptPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: read script: %v\n", err)
			return 1
		}
		intensity, err = config.ApplyScript(intensity, string(src))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	if opts.demo {
		intensity.Demo = true
	}
	store := config.NewStore(intensity)

	var player host.Sound = host.NopSound{}
	if !opts.mute && intensity.EnableSound {
		sp, err := sound.NewPlayer(log)
		if err != nil {
			log.Warn("sound unavailable", zap.Error(err))
		}
		defer sp.Close()
		player = sp
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init screen: %v\n", err)
		return 1
	}
	defer screen.Fini()

	clock := timer.New()
	defer clock.Stop()

	buf := document.New(welcome)
	display := term.NewDisplay(screen, buf, clock)

	sess, err := session.New(session.Options{
		Document: buf,
		Timer:    clock,
		Screen:   display,
		Sound:    player,
		Config:   store,
		Log:      log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer sess.Disable()

	ed := &editor{
		buf:     buf,
		sess:    sess,
		store:   store,
		display: display,
		cursor:  buf.Len(),
		anchor:  -1,
	}
	return ed.loop(screen, clock)
}

// editor is the demo's input state: a cursor and an optional selection
// anchor.
type editor struct {
	buf     *document.Buffer
	sess    *session.Session
	store   *config.Store
	display *term.Display
	cursor  int
	anchor  int
}

func (e *editor) loop(screen tcell.Screen, clock *timer.Service) int {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	redraw := make(chan struct{}, 1)
	requestRedraw := func() {
		select {
		case redraw <- struct{}{}:
		default:
		}
	}
	var scheduleFrame func()
	scheduleFrame = func() {
		clock.Schedule(33*time.Millisecond, func() { // ~30fps repaint for animations
			requestRedraw()
			scheduleFrame()
		})
	}
	scheduleFrame()

	e.render()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return 0
			}
			switch tev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				if quit := e.handleKey(tev); quit {
					return 0
				}
			}
			e.render()
		case <-redraw:
			e.render()
		}
	}
}

// handleKey applies one keystroke to the buffer and feeds the session.
// Returns true on quit.
func (e *editor) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyCtrlQ:
		return true
	case tcell.KeyEscape:
		e.anchor = -1
	case tcell.KeyRune:
		e.insert(string(ev.Rune()), ev.Rune())
	case tcell.KeyEnter:
		e.insert("\n", '\n')
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		e.deleteBack(1)
	case tcell.KeyCtrlW:
		e.deleteWord()
	case tcell.KeyCtrlS:
		e.sess.Saved(e.cursor)
	case tcell.KeyCtrlV:
		if e.anchor < 0 {
			e.anchor = e.cursor
		} else {
			e.anchor = -1
		}
	case tcell.KeyCtrlD:
		e.store.Update(func(i *config.Intensity) { i.Demo = !i.Demo })
	case tcell.KeyLeft:
		if e.cursor > 0 {
			e.cursor--
		}
	case tcell.KeyRight:
		if e.cursor < e.buf.Len() {
			e.cursor++
		}
	}
	e.sess.SelectionChanged(e.anchor >= 0, e.selection())
	return false
}

func (e *editor) insert(text string, r rune) {
	at := e.cursor
	e.cursor = e.buf.Insert(at, text)
	e.sess.KeyTyped(at, r)
}

func (e *editor) deleteBack(n int) {
	start := e.cursor - n
	if start < 0 {
		start = 0
	}
	removed := e.buf.Delete(host.Range{Start: start, End: e.cursor})
	if removed != "" {
		e.cursor = start
		e.sess.TextDeleted(start, removed)
	}
}

// deleteWord removes back to the previous space, long enough to trigger
// the vaporize bundle on real words.
func (e *editor) deleteWord() {
	text := []rune(e.buf.String())
	start := e.cursor
	for start > 0 && text[start-1] == ' ' {
		start--
	}
	for start > 0 && text[start-1] != ' ' && text[start-1] != '\n' {
		start--
	}
	if start == e.cursor {
		return
	}
	removed := e.buf.Delete(host.Range{Start: start, End: e.cursor})
	e.cursor = start
	e.sess.TextDeleted(start, removed)
}

func (e *editor) selection() host.Range {
	if e.anchor < 0 {
		return host.Range{}
	}
	if e.anchor <= e.cursor {
		return host.Range{Start: e.anchor, End: e.cursor}
	}
	return host.Range{Start: e.cursor, End: e.anchor}
}

func (e *editor) render() {
	mode := ""
	if e.store.Snapshot().Demo {
		mode = " [demo]"
	}
	status := fmt.Sprintf(" keyburst%s  combo:%d  fx:%d  Ctrl+Q quits",
		mode, e.sess.ComboCount(), e.sess.LiveAnnotations())
	e.display.Render(e.cursor, status)
}
