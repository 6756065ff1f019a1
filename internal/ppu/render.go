package ppu

import (
	"github.com/cespare/xxhash"
	"github.com/thelolagemann/gomeboy/internal/bits"
)

// tileSize is the number of bytes one 8x8 tile occupies in VRAM.
const tileSize = 16

// canvasSize is the edge length, in pixels, of the persistent background
// and window canvases: 32x32 tiles of 8x8 pixels each.
const canvasSize = 256

// tileCanvas is a persistent 256x256 raw-pixel-index canvas built from a
// tile map and tile-data window, redrawn one 8x8 cell at a time only
// when the tile it displays has actually changed. The invariant it
// maintains is that it always equals what a full redraw would produce;
// the per-cell counter and content hash are purely a performance
// optimization.
type tileCanvas struct {
	pixels [canvasSize][canvasSize]uint8

	cellCounter [32][32]uint32
	cellHash    [32][32]uint64
	cellTile    [32][32]uint16
	primed      [32][32]bool

	mapBase uint16
	signed  bool
}

// ensure redraws every cell of the canvas whose backing tile has changed
// since the canvas was last built for this (mapBase, signed) pair. A
// change of map or addressing mode invalidates the whole canvas, since
// a cell's tile identity depends on both.
func (tc *tileCanvas) ensure(p *PPU, mapBase uint16, signed bool) {
	if tc.mapBase != mapBase || tc.signed != signed {
		tc.mapBase = mapBase
		tc.signed = signed
		tc.primed = [32][32]bool{}
	}

	for cellY := 0; cellY < 32; cellY++ {
		for cellX := 0; cellX < 32; cellX++ {
			tileIndex := p.ReadVRAM(mapBase + uint16(cellY*32+cellX))
			tileNumber := resolveTileNumber(tileIndex, signed)
			counter := p.tileWrites[tileNumber]

			if tc.primed[cellY][cellX] && tc.cellTile[cellY][cellX] == tileNumber && tc.cellCounter[cellY][cellX] == counter {
				continue
			}

			data := p.tileBytes(tileNumber)
			hash := xxhash.Sum64(data)
			tc.cellCounter[cellY][cellX] = counter
			tc.cellTile[cellY][cellX] = tileNumber
			if tc.primed[cellY][cellX] && tc.cellHash[cellY][cellX] == hash {
				continue // same bytes rewritten; nothing actually changed
			}
			tc.cellHash[cellY][cellX] = hash
			tc.primed[cellY][cellX] = true
			tc.drawCell(cellX, cellY, data)
		}
	}
}

func (tc *tileCanvas) drawCell(cellX, cellY int, data []uint8) {
	for row := 0; row < 8; row++ {
		lo, hi := data[row*2], data[row*2+1]
		for col := 0; col < 8; col++ {
			shift := 7 - col
			idx := (lo>>shift)&1 | (hi>>shift)&1<<1
			tc.pixels[cellY*8+row][cellX*8+col] = idx
		}
	}
}

// resolveTileNumber maps a tile-map byte to a 0-383 index into the flat
// tile-data array, per the two addressing modes LCDC.4 selects between:
// unsigned (tileIdx 0-255 directly) or signed (tileIdx interpreted as a
// signed offset from tile 256, aliasing tiles 128-255 of the other mode).
func resolveTileNumber(tileIndex uint8, signed bool) uint16 {
	if !signed {
		return uint16(tileIndex)
	}
	return uint16(256 + int(int8(tileIndex)))
}

// tileBytes returns the 16 raw bytes backing the given flat tile number.
func (p *PPU) tileBytes(tileNumber uint16) []uint8 {
	off := tileNumber * tileSize
	return p.vram[off : off+tileSize]
}

func (p *PPU) applyPalette(index uint8, palette uint8) uint8 {
	return (palette >> (index * 2)) & 0x03
}

// renderLine produces and delivers the one completed scanline at ly.
func (p *PPU) renderLine(ly uint8) {
	var bgRaw [ScreenWidth]uint8

	bgMapBase := uint16(0x9800)
	if bits.Test(p.lcdc, 3) {
		bgMapBase = 0x9C00
	}
	signed := !bits.Test(p.lcdc, 4)

	if bits.Test(p.lcdc, 0) {
		p.cache.bg.ensure(p, bgMapBase, signed)
		py := (int(p.scy) + int(ly)) & 0xFF
		for x := 0; x < ScreenWidth; x++ {
			px := (int(p.scx) + x) & 0xFF
			bgRaw[x] = p.cache.bg.pixels[py][px]
		}

		if bits.Test(p.lcdc, 5) && ly >= p.wy {
			winMapBase := uint16(0x9800)
			if bits.Test(p.lcdc, 6) {
				winMapBase = 0x9C00
			}
			p.cache.window.ensure(p, winMapBase, signed)
			wy := int(ly - p.wy)
			startX := int(p.wx) - 7
			for x := 0; x < ScreenWidth; x++ {
				wx := x - startX
				if wx < 0 || wx >= canvasSize {
					continue
				}
				bgRaw[x] = p.cache.window.pixels[wy&0xFF][wx]
			}
		}
	}

	var out [ScreenWidth]uint8
	for x := 0; x < ScreenWidth; x++ {
		out[x] = p.applyPalette(bgRaw[x], p.bgp)
	}

	if bits.Test(p.lcdc, 1) {
		p.renderSprites(&out, bgRaw, ly)
	}

	if p.host != nil {
		p.host.DrawLine(out, ly)
	}
}

// spriteCandidate is one OAM entry known to intersect the current line.
type spriteCandidate struct {
	y, x     int
	tile     uint8
	attr     uint8
	oamIndex int
}

// renderSprites composes up to ten sprites (the hardware's per-line
// limit) onto out, using bgRaw to resolve BG-over-sprite priority.
// Lower-X sprites draw on top of higher-X ones; ties are broken by OAM
// order, lower index on top — both are realized by drawing candidates
// in increasing priority order so the highest-priority sprite is
// painted last.
func (p *PPU) renderSprites(out *[ScreenWidth]uint8, bgRaw [ScreenWidth]uint8, ly uint8) {
	height := 8
	if bits.Test(p.lcdc, 2) {
		height = 16
	}

	var candidates []spriteCandidate
	for i := 0; i < 40 && len(candidates) < 10; i++ {
		base := i * 4
		sy := int(p.oam[base]) - 16
		sx := int(p.oam[base+1]) - 8
		if int(ly) < sy || int(ly) >= sy+height {
			continue
		}
		candidates = append(candidates, spriteCandidate{
			y: sy, x: sx,
			tile: p.oam[base+2], attr: p.oam[base+3],
			oamIndex: i,
		})
	}

	// Draw lowest priority first: sort descending by X, then by OAM
	// index descending, so the loop below paints in increasing
	// priority order.
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0; j-- {
			a, b := candidates[j-1], candidates[j]
			if a.x < b.x || (a.x == b.x && a.oamIndex < b.oamIndex) {
				candidates[j-1], candidates[j] = candidates[j], candidates[j-1]
			}
		}
	}

	for _, s := range candidates {
		lineInSprite := int(ly) - s.y
		if bits.Test(s.attr, 6) {
			lineInSprite = height - 1 - lineInSprite
		}

		tileNumber := uint16(s.tile)
		if height == 16 {
			tileNumber &^= 1
			if lineInSprite >= 8 {
				tileNumber++
				lineInSprite -= 8
			}
		}
		data := p.tileBytes(tileNumber)
		lo, hi := data[lineInSprite*2], data[lineInSprite*2+1]

		palette := p.obp0
		paletteSelect := uint8(0)
		if bits.Test(s.attr, 4) {
			palette = p.obp1
			paletteSelect = 1
		}
		behindBG := bits.Test(s.attr, 7)

		for col := 0; col < 8; col++ {
			c := col
			if bits.Test(s.attr, 5) {
				c = 7 - col
			}
			shift := 7 - c
			colorIdx := (lo>>shift)&1 | (hi>>shift)&1<<1
			if colorIdx == 0 {
				continue
			}
			screenX := s.x + col
			if screenX < 0 || screenX >= ScreenWidth {
				continue
			}
			if behindBG && bgRaw[screenX] != 0 {
				continue
			}
			out[screenX] = 4 + paletteSelect*4 + p.applyPalette(colorIdx, palette)
		}
	}
}

// backgroundCache holds the two persistent canvases (background and
// window) that feed scanline rendering.
type backgroundCache struct {
	bg     tileCanvas
	window tileCanvas
}
