// Command gomeboy is the desktop front end: it loads a cartridge (and
// an optional boot ROM), opens a fyne window, and runs the emulator
// until the window is closed.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"golang.org/x/image/bmp"

	"github.com/thelolagemann/gomeboy/internal/gameboy"
	"github.com/thelolagemann/gomeboy/internal/joypad"
	"github.com/thelolagemann/gomeboy/internal/ppu"
	"github.com/thelolagemann/gomeboy/pkg/log"
	"github.com/thelolagemann/gomeboy/pkg/rom"
)

// shades is the classic DMG four-tone green palette, indexed by the
// 2-bit value DrawLine receives for each pixel.
var shades = [4]color.RGBA{
	{R: 0xE0, G: 0xF8, B: 0xD0, A: 0xFF},
	{R: 0x88, G: 0xC0, B: 0x70, A: 0xFF},
	{R: 0x34, G: 0x68, B: 0x56, A: 0xFF},
	{R: 0x08, G: 0x18, B: 0x20, A: 0xFF},
}

var keyMap = map[fyne.KeyName]joypad.Button{
	fyne.KeyA:         joypad.ButtonA,
	fyne.KeyS:         joypad.ButtonB,
	fyne.KeyUp:        joypad.ButtonUp,
	fyne.KeyDown:      joypad.ButtonDown,
	fyne.KeyLeft:      joypad.ButtonLeft,
	fyne.KeyRight:     joypad.ButtonRight,
	fyne.KeyReturn:    joypad.ButtonStart,
	fyne.KeyBackspace: joypad.ButtonSelect,
}

// fyneHost presents the assembled frame in a window and reports the
// button transitions observed since the previous frame. DrawLine runs
// on the emulation goroutine; the key callbacks run on fyne's own, so
// the pending transition lists are guarded by mu.
type fyneHost struct {
	img    *image.RGBA
	raster *canvas.Raster

	mu       sync.Mutex
	down     map[joypad.Button]bool
	pressed  []joypad.Button
	released []joypad.Button

	screenshot chan struct{}
	quit       chan struct{}
}

func newFyneHost(win fyne.Window) *fyneHost {
	img := image.NewRGBA(image.Rect(0, 0, ppu.ScreenWidth, ppu.ScreenHeight))
	raster := canvas.NewRasterFromImage(img)
	raster.ScaleMode = canvas.ImageScalePixels
	win.SetContent(raster)

	h := &fyneHost{
		img:        img,
		raster:     raster,
		down:       make(map[joypad.Button]bool),
		screenshot: make(chan struct{}, 1),
		quit:       make(chan struct{}),
	}

	if desk, ok := win.Canvas().(desktop.Canvas); ok {
		desk.SetOnKeyDown(func(e *fyne.KeyEvent) { h.setKey(e.Name, true) })
		desk.SetOnKeyUp(func(e *fyne.KeyEvent) { h.setKey(e.Name, false) })
	}
	win.Canvas().SetOnTypedKey(func(e *fyne.KeyEvent) {
		if e.Name == fyne.KeyF12 {
			select {
			case h.screenshot <- struct{}{}:
			default:
			}
		}
	})
	win.SetCloseIntercept(func() {
		close(h.quit)
		win.Close()
	})

	return h
}

func (h *fyneHost) setKey(name fyne.KeyName, down bool) {
	button, ok := keyMap[name]
	if !ok {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	was := h.down[button]
	h.down[button] = down
	switch {
	case down && !was:
		h.pressed = append(h.pressed, button)
	case !down && was:
		h.released = append(h.released, button)
	}
}

// DrawLine satisfies ppu.Host, painting one scanline's worth of 2-bit
// palette indices into the backing image. The raster only needs
// refreshing once a full frame has landed.
func (h *fyneHost) DrawLine(pixels [ppu.ScreenWidth]uint8, ly uint8) {
	for x, idx := range pixels {
		h.img.SetRGBA(x, int(ly), shades[idx&0x3])
	}
	if ly == ppu.ScreenHeight-1 {
		h.raster.Refresh()
	}
}

// Update satisfies gameboy.Host: it hands back the button transitions
// collected since the previous call, services a pending screenshot
// request, and reports whether the window has been closed.
func (h *fyneHost) Update() (joypad.Inputs, gameboy.RunResult) {
	h.mu.Lock()
	inputs := joypad.Inputs{Pressed: h.pressed, Released: h.released}
	h.pressed, h.released = nil, nil
	h.mu.Unlock()

	select {
	case <-h.screenshot:
		if err := h.saveScreenshot("screenshot.bmp"); err != nil {
			fmt.Fprintf(os.Stderr, "gomeboy: screenshot: %v\n", err)
		}
	default:
	}

	select {
	case <-h.quit:
		return inputs, gameboy.Stop
	default:
		return inputs, gameboy.Continue
	}
}

func (h *fyneHost) saveScreenshot(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return bmp.Encode(f, h.img)
}

func main() {
	romFile := flag.String("rom", "", "the cartridge ROM to load (.gb, .gbc, .zip, .7z, .gz)")
	bootFile := flag.String("boot", "", "an optional boot ROM to run before the cartridge")
	trace := flag.Bool("trace", false, "log an instruction trace")
	scale := flag.Float64("scale", 4.0, "window scale factor")
	flag.Parse()

	if *romFile == "" {
		fmt.Fprintln(os.Stderr, "gomeboy: -rom is required")
		os.Exit(1)
	}

	logger := log.New()

	cartridgeData, err := rom.Load(*romFile)
	if err != nil {
		logger.Errorf("loading rom: %v", err)
		os.Exit(1)
	}

	var bootData []byte
	if *bootFile != "" {
		bootData, err = rom.Load(*bootFile)
		if err != nil {
			logger.Errorf("loading boot rom: %v", err)
			os.Exit(1)
		}
	}

	emu, err := gameboy.New(cartridgeData, bootData, logger)
	if err != nil {
		logger.Errorf("creating emulator: %v", err)
		os.Exit(1)
	}
	emu.SetTracing(*trace)

	fyneApp := app.NewWithID("com.gomeboy.emulator")
	win := fyneApp.NewWindow("gomeboy")
	win.Resize(fyne.NewSize(float32(ppu.ScreenWidth)*float32(*scale), float32(ppu.ScreenHeight)*float32(*scale)))
	win.SetPadded(false)

	host := newFyneHost(win)
	win.Show()

	go emu.Run(host)

	fyneApp.Run()
}
