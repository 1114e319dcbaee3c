// Package chart assembles declarative figure descriptions for the frontend
// renderer. A Figure is a plain data bundle (traces + layout); no rendering
// happens server-side.
package chart

// Trace is one data series of a figure.
type Trace struct {
	Type          string    `json:"type"`
	Name          string    `json:"name,omitempty"`
	Mode          string    `json:"mode,omitempty"`
	X             []string  `json:"x,omitempty"`
	Y             []float64 `json:"y,omitempty"`
	Base          []float64 `json:"base,omitempty"`
	Labels        []string  `json:"labels,omitempty"`
	Values        []float64 `json:"values,omitempty"`
	Text          []string  `json:"text,omitempty"`
	TextPosition  string    `json:"textposition,omitempty"`
	HoverTemplate string    `json:"hovertemplate,omitempty"`
	Line          *Line     `json:"line,omitempty"`
	Marker        *Marker   `json:"marker,omitempty"`
}

// Line styles a scatter trace.
type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
}

// Marker styles trace points or bars. Colors is used by pie traces.
type Marker struct {
	Color  string   `json:"color,omitempty"`
	Colors []string `json:"colors,omitempty"`
	Size   float64  `json:"size,omitempty"`
}

// Annotation is free-positioned layout text (used for the accounting
// identity caption on the structure chart).
type Annotation struct {
	Text      string  `json:"text"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	XRef      string  `json:"xref,omitempty"`
	YRef      string  `json:"yref,omitempty"`
	ShowArrow bool    `json:"showarrow"`
}

// Axis holds the title and optional fixed range of one axis.
type Axis struct {
	Title string    `json:"title,omitempty"`
	Range []float64 `json:"range,omitempty"`
}

// Layout is the figure-level presentation metadata.
type Layout struct {
	Title       string       `json:"title"`
	XAxis       *Axis        `json:"xaxis,omitempty"`
	YAxis       *Axis        `json:"yaxis,omitempty"`
	BarMode     string       `json:"barmode,omitempty"`
	Height      int          `json:"height,omitempty"`
	Template    string       `json:"template,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Figure is the complete serializable chart description.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}
