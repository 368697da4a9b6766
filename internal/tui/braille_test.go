package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanvasLine(t *testing.T) {
	cv := newCanvas(2, 1)
	cv.line(0, 0, 3, 0)
	rows := strings.Split(cv.String(), "\n")
	assert.Len(t, rows, 1)
	// top dot row of both cells
	assert.Equal(t, string([]rune{0x2800 + 0x09, 0x2800 + 0x09}), rows[0])
}

func TestCanvasIgnoresOffCanvasDots(t *testing.T) {
	cv := newCanvas(1, 1)
	cv.dot(-1, 0)
	cv.dot(2, 0)
	cv.dot(0, 4)
	assert.Equal(t, " ", cv.String())
}

func TestCanvasFillLeavesHolesEmpty(t *testing.T) {
	cv := newCanvas(10, 5)
	shell := [][2]int{{0, 0}, {19, 0}, {19, 19}, {0, 19}}
	hole := [][2]int{{6, 6}, {13, 6}, {13, 13}, {6, 13}}
	cv.fill([][][2]int{shell, hole})
	assert.NotZero(t, cv.dots[0][0])
	assert.Zero(t, cv.dots[2][4], "inside the hole")
}

func TestCanvasMarkWins(t *testing.T) {
	cv := newCanvas(2, 1)
	cv.line(0, 0, 3, 3)
	cv.markAt(0, 0, "x", dimStyle)
	cv.markAt(9, 9, "y", dimStyle)
	assert.True(t, strings.HasPrefix(cv.String(), dimStyle.Render("x")))
	assert.NotContains(t, cv.String(), "y")
}
