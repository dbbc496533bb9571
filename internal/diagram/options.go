package diagram

// NodeLook is the emphasis applied to one class of node on top of its
// equipment style.
type NodeLook struct {
	Style    string
	PenWidth string
	Width    string
	Height   string
	FontSize string
}

func (l NodeLook) attrs(shape, fill string) Attrs {
	a := Attrs{
		"shape":     shape,
		"fillcolor": fill,
		"style":     l.Style,
		"width":     l.Width,
		"height":    l.Height,
		"fontsize":  l.FontSize,
	}
	if l.PenWidth != "" {
		a["penwidth"] = l.PenWidth
	}
	return a
}

type Options struct {
	Graph        Attrs
	NodeDefaults Attrs
	EdgeDefaults Attrs

	Plain     NodeLook
	Mixing    NodeLook
	Splitting NodeLook

	Stream  Attrs
	Recycle Attrs
}

type Quality string

const (
	QualityStandard Quality = "standard"
	QualityHigh     Quality = "high"
)

func OptionsFor(q Quality) Options {
	if q == QualityHigh {
		return HighQuality()
	}
	return Standard()
}

func Standard() Options {
	return Options{
		Graph: Attrs{
			"rankdir":     "LR",
			"size":        "18,12",
			"dpi":         "300",
			"ratio":       "fill",
			"ranksep":     "1.5",
			"nodesep":     "1.2",
			"concentrate": "true",
			"splines":     "ortho",
			"overlap":     "scale",
			"pack":        "true",
			"packmode":    "node",
			"margin":      "0.5",
			"pad":         "0.3",
		},
		NodeDefaults: Attrs{"fontname": "Arial", "fontsize": "10", "fixedsize": "false"},
		EdgeDefaults: Attrs{"fontname": "Arial", "fontsize": "9", "arrowsize": "1.0", "labelfloat": "false"},

		Plain:     NodeLook{Style: "filled", Width: "1.6", Height: "1.0", FontSize: "10"},
		Mixing:    NodeLook{Style: "filled,bold", PenWidth: "3.0", Width: "1.8", Height: "1.2", FontSize: "10"},
		Splitting: NodeLook{Style: "filled,dashed", PenWidth: "2.5", Width: "1.8", Height: "1.2", FontSize: "10"},

		Stream: Attrs{"constraint": "true", "fontsize": "9", "penwidth": "2.0"},
		Recycle: Attrs{
			"style":      "dashed",
			"color":      "red",
			"fontcolor":  "red",
			"penwidth":   "2.5",
			"fontsize":   "9",
			"constraint": "false",
			"dir":        "back",
		},
	}
}

// HighQuality is the print preset: bigger canvas, higher dpi, larger type.
func HighQuality() Options {
	o := Standard()
	o.Graph = merge(o.Graph, Attrs{
		"size":     "24,16",
		"dpi":      "600",
		"ranksep":  "1.8",
		"nodesep":  "1.5",
		"bgcolor":  "white",
		"fontname": "Arial",
		"fontsize": "12",
	})
	o.NodeDefaults = Attrs{"fontname": "Arial", "fontsize": "12", "fixedsize": "false", "style": "filled", "penwidth": "2"}
	o.EdgeDefaults = Attrs{"fontname": "Arial", "fontsize": "10", "arrowsize": "1.2", "labelfloat": "false", "penwidth": "2"}

	o.Plain = NodeLook{Style: "filled", Width: "1.8", Height: "1.2", FontSize: "12"}
	o.Mixing = NodeLook{Style: "filled,bold", PenWidth: "3.5", Width: "2.0", Height: "1.4", FontSize: "12"}
	o.Splitting = NodeLook{Style: "filled,dashed", PenWidth: "3.0", Width: "2.0", Height: "1.4", FontSize: "12"}

	o.Stream = Attrs{"constraint": "true", "fontsize": "10", "penwidth": "2.5"}
	o.Recycle = merge(o.Recycle, Attrs{"penwidth": "3.0", "fontsize": "10"})
	return o
}
