// Package domain models the monthly global land-surface temperature dataset
// and the heatmap chart built from it.
//
// # Data Source
//
// The dataset is the freeCodeCamp reference document
// https://raw.githubusercontent.com/freeCodeCamp/ProjectReferenceData/master/global-temperature.json
// shaped as:
//
//	{
//	  "baseTemperature": 8.66,
//	  "monthlyVariance": [{"year": 1753, "month": 1, "variance": -1.366}, ...]
//	}
//
// Months are 1-based (1 = January). Variance is the deviation in °C from the
// base temperature, so the absolute temperature of an observation is
// baseTemperature + variance.
//
// # Chart Geometry
//
// [Build] turns a [Dataset] into a [Chart]: a backend-neutral scene of shape
// descriptors. Positions come from band scales, never from slice order:
//
//	plot width  = cellWidth  × len(observations) / 12
//	plot height = cellHeight × 12
//	x(year)     = index of year among distinct years × (plot width / distinct years)
//	y(month)    = (month - 1) × cellHeight
//
// Colors come from a sequential scale over [min(variance), max(variance)]
// using the Plasma ramp. Grid cells are colored with variance × 2 while legend
// swatches use the raw legend value.
//
// # Markup Contract
//
// Renderers must emit these identifiers unchanged; external graders key on them:
//
//	#title, #description, svg#heatmap, g#x-axis, g#y-axis, #x-label, #y-label,
//	rect.cell[data-month data-year data-temp], g#legend.legend,
//	rect.legend-swatch, g#c-axis, div#tooltip.tooltip
//
// data-month is zero-based (month - 1). data-temp uses the shortest decimal
// representation that round-trips the float64 sum, see [FormatNumber].
package domain
