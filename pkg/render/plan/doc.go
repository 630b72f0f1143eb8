// Package plan draws a park as a top-down SVG site plan.
//
// World X maps to the SVG x axis and world Z to the SVG y axis, both shifted
// so the domain's minimum corner sits at the origin. One SVG unit is one
// world unit; viewers scale the viewBox.
//
//	svg := plan.RenderSVG(p, plan.WithGround(ground), plan.WithLabels())
package plan
