// SPDX-License-Identifier: MIT
package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"eqscope/internal/plot"
	"eqscope/internal/response"
	"eqscope/internal/scope"
)

// cellKind orders what a chart cell shows; higher kinds draw over lower ones.
type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellGrid
	cellLeft
	cellRight
	cellBoth
	cellResponse
)

var cellRunes = [...]rune{
	cellEmpty:    ' ',
	cellGrid:     '·',
	cellLeft:     '•',
	cellRight:    '•',
	cellBoth:     '•',
	cellResponse: '─',
}

var cellStyles = [...]lipgloss.Style{
	cellEmpty:    lipgloss.NewStyle(),
	cellGrid:     gridStyle,
	cellLeft:     leftStyle,
	cellRight:    rightStyle,
	cellBoth:     bothStyle,
	cellResponse: responseStyle,
}

// chart is a character-cell rendering of the response component: the gain
// and frequency grid, one spectrum marker per column and channel, and the
// response curve on top.
type chart struct {
	cols, rows int
	cells      []cellKind
}

func newChart(cols, rows int) *chart {
	return &chart{cols: cols, rows: rows, cells: make([]cellKind, cols*rows)}
}

func (c *chart) set(col, row int, k cellKind) {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return
	}
	i := row*c.cols + col
	switch {
	case k == cellLeft && c.cells[i] == cellRight, k == cellRight && c.cells[i] == cellLeft:
		c.cells[i] = cellBoth
	case k > c.cells[i]:
		c.cells[i] = k
	}
}

func (c *chart) at(col, row int) cellKind {
	return c.cells[row*c.cols+col]
}

// gainRow maps a response level onto a row, +24 dB at the top.
func (c *chart) gainRow(db float64) int {
	return int(math.Round(plot.Jmap(db, response.MinDecibels, response.MaxDecibels, float64(c.rows-1), 0)))
}

// freqCol maps a frequency onto a column.
func (c *chart) freqCol(freq float64) int {
	return int(math.Round(plot.MapFromLog10(freq, plot.MinFrequency, plot.MaxFrequency) * float64(c.cols-1)))
}

func (c *chart) drawGrid() {
	for _, db := range plot.GainGrid {
		row := c.gainRow(db)
		for col := range c.cols {
			c.set(col, row, cellGrid)
		}
	}
	for _, freq := range plot.FrequencyGrid {
		col := c.freqCol(freq)
		for row := range c.rows {
			c.set(col, row, cellGrid)
		}
	}
}

// drawPath scales a path in area coordinates onto the cells, keeping the
// highest point of every column.
func (c *chart) drawPath(path plot.Path, area plot.Rect, k cellKind) {
	if area.Width <= 0 || area.Height <= 0 {
		return
	}
	top := make([]int, c.cols)
	for i := range top {
		top[i] = c.rows
	}
	for _, p := range path.Points {
		col := int((p.X - area.Left()) / area.Width * float64(c.cols))
		row := int((p.Y - area.Top()) / area.Height * float64(c.rows))
		if col < 0 || col >= c.cols || row < 0 {
			continue
		}
		top[col] = min(top[col], row)
	}
	for col, row := range top {
		if row < c.rows {
			c.set(col, row, k)
		}
	}
}

// drawResponse places one curve cell per column. Levels beyond the display
// range are not drawn.
func (c *chart) drawResponse(dbs []float64) {
	for col, db := range dbs {
		if col >= c.cols || db < response.MinDecibels || db > response.MaxDecibels {
			continue
		}
		c.set(col, c.gainRow(db), cellResponse)
	}
}

// plain returns the chart without styling.
func (c *chart) plain() string {
	var b strings.Builder
	for row := range c.rows {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := range c.cols {
			b.WriteRune(cellRunes[c.at(col, row)])
		}
	}
	return b.String()
}

// render returns the chart styled run by run.
func (c *chart) render() string {
	var b strings.Builder
	for row := range c.rows {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < c.cols; {
			k := c.at(col, row)
			end := col
			for end < c.cols && c.at(end, row) == k {
				end++
			}
			b.WriteString(cellStyles[k].Render(strings.Repeat(string(cellRunes[k]), end-col)))
			col = end
		}
	}
	return b.String()
}

// frequencyAxis lays out the grid labels under the chart.
func frequencyAxis(cols int) string {
	line := []rune(strings.Repeat(" ", cols))
	c := chart{cols: cols}
	next := 0
	for _, freq := range plot.FrequencyGrid {
		label := []rune(plot.FrequencyLabel(freq))
		start := min(c.freqCol(freq), cols-len(label))
		if start < next || start < 0 {
			continue
		}
		copy(line[start:], label)
		next = start + len(label) + 1
	}
	return string(line)
}

// renderFrame draws a full frame into a cols x rows chart.
func renderFrame(f *scope.Frame, responseDB []float64, cols, rows int) *chart {
	c := newChart(cols, rows)
	c.drawGrid()
	if f.AnalysisEnabled {
		c.drawPath(f.Left, f.Area, cellLeft)
		c.drawPath(f.Right, f.Area, cellRight)
	}
	c.drawResponse(responseDB)
	return c
}
