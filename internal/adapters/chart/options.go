package chart

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithSize sets the PNG dimensions in pixels.
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 && height > 0 {
			r.width = width
			r.height = height
		}
	}
}

// WithRORAxisMax pins the secondary axis to [0, max]. Zero keeps autoscaling.
func WithRORAxisMax(max float64) Option {
	return func(r *Renderer) {
		if max > 0 {
			r.rorAxisMax = max
		}
	}
}

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(r *Renderer) {
		r.title = title
	}
}
