package chart

import (
	"fmt"
	"strconv"

	"dartlens/pkg/core/calc"
)

// ValidationError reports rejected builder input (empty or mismatched series).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "chart: " + e.Reason
}

// seriesStyle is the fixed per-kind presentation metadata of a time series.
type seriesStyle struct {
	Title string
	Color string
	Unit  string
}

// seriesStyles keys are the chart_type query vocabulary. Unknown kinds fall
// back to the revenue style.
var seriesStyles = map[string]seriesStyle{
	"revenue": {Title: "매출액 추이", Color: "#2E86AB", Unit: "억원"},
	"profit":  {Title: "순이익 추이", Color: "#A23B72", Unit: "억원"},
	"assets":  {Title: "총자산 추이", Color: "#F18F01", Unit: "억원"},
	"equity":  {Title: "자본 추이", Color: "#C73E1D", Unit: "억원"},
}

// StyleFor returns the presentation metadata for a series kind.
func StyleFor(kind string) (title, color, unit string) {
	s, ok := seriesStyles[kind]
	if !ok {
		s = seriesStyles["revenue"]
	}
	return s.Title, s.Color, s.Unit
}

// BuildTimeSeries produces one line-style series of (year, value) pairs with
// the fixed styling for the series kind. Both slices must be non-empty and of
// equal length.
func BuildTimeSeries(years []int, values []float64, seriesKind string) (*Figure, error) {
	if len(years) == 0 || len(values) == 0 {
		return nil, &ValidationError{Reason: "years and values must be non-empty"}
	}
	if len(years) != len(values) {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("years (%d) and values (%d) length mismatch", len(years), len(values)),
		}
	}

	title, color, unit := StyleFor(seriesKind)

	x := make([]string, len(years))
	for i, y := range years {
		x[i] = strconv.Itoa(y)
	}

	fig := &Figure{
		Data: []Trace{{
			Type:          "scatter",
			Mode:          "lines+markers",
			Name:          title,
			X:             x,
			Y:             values,
			Line:          &Line{Color: color, Width: 3},
			Marker:        &Marker{Color: color, Size: 8},
			HoverTemplate: fmt.Sprintf("<b>%%{x}년</b><br>%s: %%{y:,.0f}%s<extra></extra>", title, unit),
		}},
		Layout: Layout{
			Title:    title,
			XAxis:    &Axis{Title: "연도"},
			YAxis:    &Axis{Title: fmt.Sprintf("%s (%s)", title, unit)},
			Template: "plotly_white",
			Height:   400,
		},
	}
	return fig, nil
}

// BuildCompositionChart produces the two-slice liabilities/equity proportion
// chart. Figures are expected in 억원 (hundred-million won) units.
func BuildCompositionChart(m calc.MetricSet) *Figure {
	return &Figure{
		Data: []Trace{{
			Type:          "pie",
			Labels:        []string{"부채", "자본"},
			Values:        []float64{toEok(m.TotalLiabilities), toEok(m.TotalEquity)},
			Marker:        &Marker{Colors: []string{"#FF6B6B", "#4ECDC4"}},
			HoverTemplate: "<b>%{label}</b><br>금액: %{value:,.0f}억원<br>비율: %{percent}<extra></extra>",
		}},
		Layout: Layout{
			Title:    "자산 구성",
			Template: "plotly_white",
			Height:   400,
		},
	}
}

// BuildStructureChart produces the stacked two-category balance sheet chart
// (자산 vs 부채+자본). Each side subdivides into current/non-current parts when
// those subtotals are present and positive, else collapses to a single total
// block. Bar heights are percentages of the larger side so both columns share
// one scale. The accounting identity is stated as an annotation; it is not
// checked or corrected.
func BuildStructureChart(m calc.MetricSet, year int) *Figure {
	totalAssets := toEok(m.TotalAssets)
	totalLiabilities := toEok(m.TotalLiabilities)
	totalEquity := toEok(m.TotalEquity)
	currentAssets := toEok(m.CurrentAssets)
	nonCurrentAssets := toEok(m.NonCurrentAssets)
	currentLiabilities := toEok(m.CurrentLiabilities)
	nonCurrentLiabilities := toEok(m.NonCurrentLiabilities)

	maxValue := totalAssets
	if s := totalLiabilities + totalEquity; s > maxValue {
		maxValue = s
	}
	if maxValue == 0 {
		maxValue = 1
	}
	pct := func(v float64) float64 { return v / maxValue * 100 }

	fig := &Figure{
		Layout: Layout{
			Title:   fmt.Sprintf("%d년 재무상태표 구조", year),
			BarMode: "stack",
			Height:  500,
			XAxis:   &Axis{},
			YAxis:   &Axis{Title: "금액 비율 (%)", Range: []float64{0, 105}},
			Annotations: []Annotation{{
				Text: fmt.Sprintf("<b>자산 %s억원 = 부채 %s억원 + 자본 %s억원</b>",
					formatEok(totalAssets), formatEok(totalLiabilities), formatEok(totalEquity)),
				X:    0.5,
				Y:    1.08,
				XRef: "paper",
				YRef: "paper",
			}},
		},
	}

	stackedBar := func(category, name, color string, value, base float64) Trace {
		return Trace{
			Type:          "bar",
			Name:          name,
			X:             []string{category},
			Y:             []float64{pct(value)},
			Base:          []float64{pct(base)},
			Marker:        &Marker{Color: color},
			Text:          []string{formatEok(value) + "억원"},
			TextPosition:  "inside",
			HoverTemplate: name + "<br>%{text}<extra></extra>",
		}
	}

	// Left column: assets, subdivided when subtotals exist.
	if currentAssets > 0 || nonCurrentAssets > 0 {
		base := 0.0
		if currentAssets > 0 {
			fig.Data = append(fig.Data, stackedBar("자산", "유동자산", "#87CEEB", currentAssets, 0))
			base = currentAssets
		}
		if nonCurrentAssets > 0 {
			fig.Data = append(fig.Data, stackedBar("자산", "비유동자산", "#4682B4", nonCurrentAssets, base))
		}
	} else if totalAssets > 0 {
		fig.Data = append(fig.Data, stackedBar("자산", "총자산", "#4682B4", totalAssets, 0))
	}

	// Right column: liabilities then equity on top.
	if totalLiabilities > 0 {
		if currentLiabilities > 0 || nonCurrentLiabilities > 0 {
			base := 0.0
			if currentLiabilities > 0 {
				fig.Data = append(fig.Data, stackedBar("부채 + 자본", "유동부채", "#FFB6C1", currentLiabilities, 0))
				base = currentLiabilities
			}
			if nonCurrentLiabilities > 0 {
				fig.Data = append(fig.Data, stackedBar("부채 + 자본", "비유동부채", "#DC143C", nonCurrentLiabilities, base))
			}
		} else {
			fig.Data = append(fig.Data, stackedBar("부채 + 자본", "총부채", "#DC143C", totalLiabilities, 0))
		}
	}
	if totalEquity > 0 {
		fig.Data = append(fig.Data, stackedBar("부채 + 자본", "자본", "#32CD32", totalEquity, totalLiabilities))
	}

	return fig
}

// toEok converts won to 억원 (hundred-million won), the domestic reporting unit.
func toEok(won int64) float64 {
	return float64(won) / 100000000
}

// formatEok renders an 억원 figure with thousands separators, no decimals.
func formatEok(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}
