package views

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// segmentsPerChar is the vertical resolution of one character cell.
const segmentsPerChar = 8

// RenderWaveform draws data in [-1, 1] as a mirrored block waveform of the
// given size. The newest value is on the right.
func RenderWaveform(width, height int, data []float64) string {
	if width < 1 || height < 1 {
		return ""
	}
	virtualHeight := height * segmentsPerChar
	grid := make([][]bool, virtualHeight)
	for i := range grid {
		grid[i] = make([]bool, width)
	}

	center := virtualHeight / 2
	cols := resample(data, width)
	for x, v := range cols {
		v = min(max(v, -1), 1)
		y := center - int(v*float64(center))
		y = min(max(y, 0), virtualHeight-1)
		lo, hi := min(y, center), max(y, center)
		if hi >= virtualHeight {
			hi = virtualHeight - 1
		}
		for j := lo; j <= hi; j++ {
			grid[j][x] = true
		}
	}

	var sb strings.Builder
	centerY := height / 2
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if y < centerY {
				sb.WriteString(getUpperHalfChar(grid, x, y))
			} else {
				sb.WriteString(getLowerHalfChar(grid, x, y))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// resample right-aligns data into width columns, keeping the peak of each
// bucket when there is more data than columns.
func resample(data []float64, width int) []float64 {
	out := make([]float64, width)
	if len(data) == 0 {
		return out
	}
	if len(data) <= width {
		copy(out[width-len(data):], data)
		return out
	}
	per := float64(len(data)) / float64(width)
	for x := range out {
		lo := int(float64(x) * per)
		hi := min(int(float64(x+1)*per), len(data))
		peak := 0.0
		for _, v := range data[lo:hi] {
			if abs(v) > abs(peak) {
				peak = v
			}
		}
		out[x] = peak
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// getUpperHalfChar returns the block for a cell above the centre line. The
// wave grows up from the bottom of the cell.
func getUpperHalfChar(grid [][]bool, x, y int) string {
	baseY := y * segmentsPerChar
	extent := 0
	for i := segmentsPerChar - 1; i >= 0; i-- {
		segY := baseY + i
		if segY >= len(grid) || !grid[segY][x] {
			break
		}
		extent++
	}

	switch extent {
	case 0:
		return " "
	case 1:
		return "▁"
	case 2:
		return "▂"
	case 3:
		return "▃"
	case 4:
		return "▄"
	case 5:
		return "▅"
	case 6:
		return "▆"
	case 7:
		return "▇"
	default:
		return "█"
	}
}

// getLowerHalfChar returns the block for a cell below the centre line. The
// wave hangs down from the top of the cell.
func getLowerHalfChar(grid [][]bool, x, y int) string {
	baseY := y * segmentsPerChar
	extent := 0
	for i := 0; i < segmentsPerChar; i++ {
		segY := baseY + i
		if segY >= len(grid) || !grid[segY][x] {
			break
		}
		extent++
	}

	switch extent {
	case 0:
		return " "
	case 1:
		return "▔"
	case 2:
		return "🮂"
	case 3:
		return "🮃"
	case 4:
		return "▀"
	case 5:
		return "🮄"
	case 6:
		return "🮅"
	case 7:
		return "🮆"
	default:
		return "█"
	}
}

// generateTimestampRuler creates a timestamp ruler for the window [start, end]
func generateTimestampRuler(width int, start, end float64) string {
	duration := end - start
	if width < 1 || duration <= 0 {
		return "\n\n"
	}

	// Determine the precision based on the duration
	var precision int
	var interval float64

	if duration < 0.1 {
		precision = 4
		interval = 0.01
	} else if duration < 1.0 {
		precision = 3
		interval = 0.05
	} else if duration < 10.0 {
		precision = 2
		interval = 0.5
	} else if duration < 60.0 {
		precision = 1
		interval = 2.0
	} else {
		precision = 0
		interval = 10.0
	}

	numTimestamps := int(duration / interval)
	if numTimestamps < 5 {
		numTimestamps = 5
		interval = duration / float64(numTimestamps)
	} else if numTimestamps > 15 {
		numTimestamps = 12
		interval = duration / float64(numTimestamps)
	}

	tickLine := []rune(strings.Repeat(" ", width))
	timestamps := make(map[int]string)

	for i := 0; i <= numTimestamps; i++ {
		t := min(start+float64(i)*interval, end)
		pos := int(float64(width-1) * (t - start) / duration)
		if pos >= 0 && pos < width {
			tickLine[pos] = '|'
			timestamps[pos] = fmt.Sprintf("%.*f", precision, t)
		}
	}

	var sb strings.Builder
	sb.WriteString(string(tickLine))
	sb.WriteString("\n")

	labelLine := []rune(strings.Repeat(" ", width))
	for _, pos := range slices.Sorted(maps.Keys(timestamps)) {
		label := timestamps[pos]
		// Center the label on the tick mark
		startPos := pos - len(label)/2
		if startPos+len(label) > width {
			startPos = width - len(label)
		}
		if startPos < 0 {
			startPos = 0
		}
		for i, ch := range label {
			if startPos+i < width {
				labelLine[startPos+i] = ch
			}
		}
	}

	sb.WriteString(string(labelLine))
	sb.WriteString("\n")

	return sb.String()
}
