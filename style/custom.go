package style

// CustomRendering hands the drawing of a geometry to user code.
//
// Render draws the geometry. HitDetection draws its hit silhouette and
// defaults to Render; set NoHitDetection to make the geometry unhittable.
// Extent, when set, reports the pixel area the drawing covers and is
// called before Render. A CustomRendering with a nil Render draws nothing.
type CustomRendering struct {
	Render         RenderFunc
	HitDetection   RenderFunc
	NoHitDetection bool
	Extent         ExtentFunc
	Hooks
}

// HitDetectionFunc returns the function used to draw hit silhouettes.
func (c *CustomRendering) HitDetectionFunc() RenderFunc {
	if c.NoHitDetection {
		return nil
	}
	if c.HitDetection != nil {
		return c.HitDetection
	}
	return c.Render
}
