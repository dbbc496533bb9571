// Package style maps free-form equipment types to diagram shapes and colors.
package style

import "strings"

type Style struct {
	Shape     string
	FillColor string
}

var Default = Style{Shape: "box", FillColor: "#F5F5F5"}

type Rule struct {
	Keyword string
	Style   Style
}

func (r Rule) Matches(folded string) bool {
	return strings.Contains(folded, r.Keyword)
}

var (
	reactor    = Style{Shape: "rectangle", FillColor: "lightblue"}
	column     = Style{Shape: "cylinder", FillColor: "lightgreen"}
	exchanger  = Style{Shape: "ellipse", FillColor: "lightyellow"}
	compressor = Style{Shape: "triangle", FillColor: "orange"}
	pump       = Style{Shape: "invtriangle", FillColor: "pink"}
	vessel     = Style{Shape: "cylinder", FillColor: "lightgrey"}
	cooler     = Style{Shape: "ellipse", FillColor: "lightcyan"}
	heater     = Style{Shape: "ellipse", FillColor: "lightcoral"}
	junction   = Style{Shape: "circle", FillColor: "lightgray"}
)

// Rules is evaluated top to bottom and the first match wins, so the order is
// part of the contract: "heater" contains "heat" and resolves as an exchanger.
var Rules = []Rule{
	{"reactor", reactor},
	{"distillation", column},
	{"column", column},
	{"exchanger", exchanger},
	{"heat", exchanger},
	{"compressor", compressor},
	{"pump", pump},
	{"separator", vessel},
	{"vessel", vessel},
	{"tank", vessel},
	{"condenser", cooler},
	{"cooler", cooler},
	{"heater", heater},
	{"mixer", junction},
	{"splitter", junction},
}

func Lookup(equipType string) Style {
	folded := strings.ToLower(equipType)
	for _, r := range Rules {
		if r.Matches(folded) {
			return r.Style
		}
	}
	return Default
}
