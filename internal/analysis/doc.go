// Package analysis inspects recorded runs.
//
// The tools work on plain series extracted from frames, so they apply to
// any recorded quantity:
//
//   - [Apexes] and [RestitutionEstimate]: bounce heights of a dropped body
//     and the restitution they imply
//   - [DominantFrequency]: strongest oscillation in a series via [FFT]
//   - [NewPhasePortrait]: 2D phase space plots, for example height
//     against vertical velocity
//   - [Crossings]: times a series passes a level upwards
//
// # Bounce Analysis
//
// A ball dropped from rest loses a fixed share of its speed at every
// impact, so successive apex heights shrink by the square of the
// coefficient of restitution:
//
//	apexes := analysis.Apexes(heights, times, 0.05)
//	e, ok := analysis.RestitutionEstimate(apexes, radius)
package analysis
