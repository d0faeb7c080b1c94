package heatmap

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/dcyfr/dcyfr-labs-sub003/internal/models"
)

const (
	cellSize = 12
	cellGap  = 2
	margin   = 4
	weekRows = 7
)

// Intensity ramp from empty to busiest, GitHub-contribution style.
var ramp = []color.NRGBA{
	{0xeb, 0xed, 0xf0, 0xff},
	{0x9b, 0xe9, 0xa8, 0xff},
	{0x40, 0xc4, 0x63, 0xff},
	{0x30, 0xa1, 0x4e, 0xff},
	{0x21, 0x6e, 0x39, 0xff},
}

// RenderPNG writes the stats as a week-column heatmap raster. One column per
// seven days, oldest day top-left.
func RenderPNG(stats models.ActivityHeatmapStats, w io.Writer) error {
	cols := (len(stats.Days) + weekRows - 1) / weekRows
	if cols == 0 {
		cols = 1
	}

	width := margin*2 + cols*cellSize + (cols-1)*cellGap
	height := margin*2 + weekRows*cellSize + (weekRows-1)*cellGap
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.SetNRGBA(x, y, color.NRGBA{0xff, 0xff, 0xff, 0xff})
		}
	}

	for i, day := range stats.Days {
		col := i / weekRows
		row := i % weekRows
		x0 := margin + col*(cellSize+cellGap)
		y0 := margin + row*(cellSize+cellGap)
		c := ramp[rampIndex(day.Count, stats.MaxCount)]
		for x := x0; x < x0+cellSize; x++ {
			for y := y0; y < y0+cellSize; y++ {
				img.SetNRGBA(x, y, c)
			}
		}
	}

	return png.Encode(w, img)
}

func rampIndex(count, max int) int {
	if count == 0 || max == 0 {
		return 0
	}
	idx := 1 + (count-1)*(len(ramp)-1)/max
	if idx >= len(ramp) {
		idx = len(ramp) - 1
	}
	return idx
}
