package plot

import (
	"fmt"
	"image/color"
	"slices"
	"strconv"
	"strings"
	"sync"
)

var (
	lineStyles = []string{"None", "-", "--", "-.", ":"}
	markers    = []string{"None", ".", "+", "x"}
)

// DefaultColour is the initial line and marker colour of a series.
var DefaultColour = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}

// LineStyles lists the accepted line styles.
func LineStyles() []string { return slices.Clone(lineStyles) }

// Markers lists the accepted marker symbols.
func Markers() []string { return slices.Clone(markers) }

// SeriesControls holds the appearance settings of one series.
type SeriesControls struct {
	mu           sync.RWMutex
	lineStyle    string
	marker       string
	lineColour   color.RGBA
	markerColour color.RGBA
}

// NewSeriesControls returns controls for a solid line without markers.
func NewSeriesControls() *SeriesControls {
	return &SeriesControls{
		lineStyle:    "-",
		marker:       "None",
		lineColour:   DefaultColour,
		markerColour: DefaultColour,
	}
}

// Title implements ControlPanel.
func (c *SeriesControls) Title() string { return "Series" }

func (c *SeriesControls) LineStyle() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lineStyle
}

// SetLineStyle selects one of LineStyles.
func (c *SeriesControls) SetLineStyle(style string) error {
	if !slices.Contains(lineStyles, style) {
		return fmt.Errorf("%w: line style %q", ErrInvalidChoice, style)
	}
	c.mu.Lock()
	c.lineStyle = style
	c.mu.Unlock()
	return nil
}

func (c *SeriesControls) Marker() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.marker
}

// SetMarker selects one of Markers.
func (c *SeriesControls) SetMarker(marker string) error {
	if !slices.Contains(markers, marker) {
		return fmt.Errorf("%w: marker %q", ErrInvalidChoice, marker)
	}
	c.mu.Lock()
	c.marker = marker
	c.mu.Unlock()
	return nil
}

func (c *SeriesControls) LineColour() color.RGBA {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lineColour
}

// SetLineColour accepts an HTML colour of the form #rrggbb.
func (c *SeriesControls) SetLineColour(hex string) error {
	rgba, err := ParseColour(hex)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.lineColour = rgba
	c.mu.Unlock()
	return nil
}

func (c *SeriesControls) MarkerColour() color.RGBA {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.markerColour
}

// SetMarkerColour accepts an HTML colour of the form #rrggbb.
func (c *SeriesControls) SetMarkerColour(hex string) error {
	rgba, err := ParseColour(hex)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.markerColour = rgba
	c.mu.Unlock()
	return nil
}

// ParseColour parses #rrggbb into an opaque colour.
func ParseColour(hex string) (color.RGBA, error) {
	if len(hex) != 7 || hex[0] != '#' {
		return color.RGBA{}, fmt.Errorf("%w: colour %q", ErrInvalidChoice, hex)
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: colour %q", ErrInvalidChoice, hex)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// FormatColour renders c as #rrggbb, ignoring alpha.
func FormatColour(c color.RGBA) string {
	return strings.ToLower(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
