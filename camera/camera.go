// Package camera provides a 2D camera for viewing the tank.
package camera

// Camera controls the viewport into the tank.
// The tank is bounded, so the camera center is clamped to keep the view
// inside the walls whenever the view is smaller than the tank.
type Camera struct {
	// Position is the camera center in world units
	X, Y float32

	// Zoom level on top of the base scale (1.0 = whole-tank fit)
	Zoom float32

	// Scale is screen pixels per world unit at zoom 1
	Scale float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Tank dimensions in world units
	WorldW, WorldH float32

	// Zoom constraints
	MinZoom, MaxZoom float32

	// FollowRate is the fraction of the distance to a followed target
	// covered per Follow call.
	FollowRate float32
}

// New creates a camera centered on the tank. pixelsPerUnit is the base scale;
// when zero the scale is chosen so the whole tank fits the viewport.
func New(viewportW, viewportH, worldW, worldH, pixelsPerUnit float32) *Camera {
	c := &Camera{
		X:          worldW / 2,
		Y:          worldH / 2,
		Zoom:       1.0,
		ViewportW:  viewportW,
		ViewportH:  viewportH,
		WorldW:     worldW,
		WorldH:     worldH,
		MinZoom:    0.5,
		MaxZoom:    6.0,
		FollowRate: 0.1,
	}
	c.Scale = pixelsPerUnit
	if c.Scale <= 0 {
		c.Scale = fitScale(viewportW, viewportH, worldW, worldH)
	}
	return c
}

// fitScale returns the pixels per unit that fits the whole tank on screen.
func fitScale(viewportW, viewportH, worldW, worldH float32) float32 {
	sx := viewportW / worldW
	sy := viewportH / worldH
	if sy < sx {
		return sy
	}
	return sx
}

// PixelsPerUnit returns the effective screen pixels per world unit.
func (c *Camera) PixelsPerUnit() float32 {
	return c.Scale * c.Zoom
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	ppu := c.PixelsPerUnit()
	sx = c.ViewportW/2 + (wx-c.X)*ppu
	sy = c.ViewportH/2 + (wy-c.Y)*ppu
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	ppu := c.PixelsPerUnit()
	wx = c.X + (sx-c.ViewportW/2)/ppu
	wy = c.Y + (sy-c.ViewportH/2)/ppu
	return wx, wy
}

// WorldLength converts a world distance to screen pixels.
func (c *Camera) WorldLength(d float32) float32 {
	return d * c.PixelsPerUnit()
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	ppu := c.PixelsPerUnit()
	halfW := c.ViewportW/(2*ppu) + radius
	halfH := c.ViewportH/(2*ppu) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.clampCenter()
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	ppu := c.PixelsPerUnit()
	c.X += dx / ppu
	c.Y += dy / ppu
	c.clampCenter()
}

// Follow moves the camera a step towards a world position.
func (c *Camera) Follow(wx, wy float32) {
	c.X += (wx - c.X) * c.FollowRate
	c.Y += (wy - c.Y) * c.FollowRate
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	ppu := c.PixelsPerUnit()
	halfW := c.ViewportW / (2 * ppu)
	halfH := c.ViewportH / (2 * ppu)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// clampCenter keeps the view inside the tank on each axis where the view
// is smaller than the tank, and centers the tank otherwise.
func (c *Camera) clampCenter() {
	ppu := c.PixelsPerUnit()
	c.X = clampAxis(c.X, c.ViewportW/(2*ppu), c.WorldW)
	c.Y = clampAxis(c.Y, c.ViewportH/(2*ppu), c.WorldH)
}

func clampAxis(center, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return clamp(center, half, size-half)
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
