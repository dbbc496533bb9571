package assistant

import (
	"strings"
)

type Improvement struct {
	Advantages    []string `json:"advantages"`
	Disadvantages []string `json:"disadvantages"`
	Alternatives  []string `json:"alternatives"`
}

func (i Improvement) Markdown() string {
	var b strings.Builder
	for _, sec := range []struct {
		title string
		items []string
	}{
		{"Advantages", i.Advantages},
		{"Disadvantages", i.Disadvantages},
		{"Alternatives", i.Alternatives},
	} {
		b.WriteString("### " + sec.title + ":\n")
		for _, it := range sec.items {
			b.WriteString("- " + it + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

var improvements = map[string]Improvement{
	"pump": {
		Advantages: []string{
			"Variable speed drives for energy savings",
			"Improved impeller design for higher efficiency",
			"Better materials for corrosion resistance",
			"Smart monitoring systems",
		},
		Disadvantages: []string{
			"Higher initial cost",
			"Complexity in control systems",
			"Requires skilled maintenance",
		},
		Alternatives: []string{
			"Positive displacement pumps for high viscosity",
			"Centrifugal pumps for high flow rates",
			"Peristaltic pumps for shear-sensitive fluids",
		},
	},
	"heat_exchanger": {
		Advantages: []string{
			"Plate heat exchangers for compact design",
			"Enhanced surface area for better heat transfer",
			"Fouling-resistant materials",
			"Thermal expansion compensation",
		},
		Disadvantages: []string{
			"Higher pressure drop",
			"Gasket maintenance requirements",
			"Potential for leakage",
		},
		Alternatives: []string{
			"Spiral heat exchangers for viscous fluids",
			"Air-cooled heat exchangers for water scarcity",
			"Double pipe heat exchangers for small applications",
		},
	},
	"distillation_column": {
		Advantages: []string{
			"Structured packing for higher efficiency",
			"Advanced control systems",
			"Heat integration with other units",
			"Improved tray designs",
		},
		Disadvantages: []string{
			"High energy consumption",
			"Complex control requirements",
			"Large footprint",
		},
		Alternatives: []string{
			"Packed columns for lower pressure drop",
			"Extractive distillation for azeotropes",
			"Pressure swing distillation for separation",
		},
	},
	"compressor": {
		Advantages: []string{
			"Variable speed drives for capacity control",
			"Improved blade design for efficiency",
			"Advanced sealing systems",
			"Condition monitoring capabilities",
		},
		Disadvantages: []string{
			"High power consumption",
			"Vibration and noise",
			"Complex maintenance",
		},
		Alternatives: []string{
			"Centrifugal for high flow, low pressure",
			"Reciprocating for high pressure, low flow",
			"Screw compressors for medium applications",
		},
	},
}

var genericImprovement = Improvement{
	Advantages:    []string{"Efficiency improvements", "Smart monitoring", "Material upgrades"},
	Disadvantages: []string{"Higher cost", "Complexity", "Maintenance needs"},
	Alternatives:  []string{"Alternative equipment types available"},
}

// Improvements returns upgrade notes for an equipment type, falling back to
// generic notes for types without a dedicated entry.
func Improvements(equipType string) Improvement {
	key := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(strings.TrimSpace(equipType)))
	if imp, ok := improvements[key]; ok {
		return imp
	}
	return genericImprovement
}

var improvementVerbs = []string{"improve", "replace", "alternative"}

// searched in this order; the first mention wins
var improvementTypes = []string{"pump", "compressor", "heat exchanger", "distillation column", "reactor", "separator", "tank"}

func improvementTarget(question string) (string, bool) {
	q := strings.ToLower(question)
	asks := false
	for _, v := range improvementVerbs {
		if strings.Contains(q, v) {
			asks = true
			break
		}
	}
	if !asks {
		return "", false
	}
	for _, t := range improvementTypes {
		if strings.Contains(q, t) {
			return t, true
		}
	}
	return "", false
}
