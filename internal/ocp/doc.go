// Package ocp defines continuous-time optimal-control problems.
//
// A [Problem] bundles the pieces a transcription needs: named state,
// control, and parameter channels with bounds, a dynamics callback,
// and optional cost and constraint callbacks:
//
//   - [Bounds]: a closed interval per scalar, built with [Free],
//     [Fixed], or [Range]
//   - [StateInfo], [ControlInfo], [ParameterInfo]: channel metadata
//   - [Problem]: the full definition, validated with [Problem.Validate]
//
// All callbacks must be pure functions of their arguments: the
// transcription layer captures them once and may evaluate them many
// times per grid point during a solve.
package ocp
