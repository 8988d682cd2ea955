// Package transcribe converts continuous-time optimal-control
// problems into finite-dimensional nonlinear programs by direct
// collocation, and converts solver output back into time-indexed
// trajectories.
//
// The flow is two-phase: [New] runs a single irreversible assembly
// pass (grid, variable store, bound matrices, defect/kinematic/path/
// boundary constraints, objective) and returns an immutable
// [Transcription]; [Transcription.Solve] resamples a guess onto the
// active grid, flattens everything through the canonical codec, makes
// exactly one backend call, and expands the result into a [Solution].
//
// Changing the mesh density or scheme means building a new instance;
// there is no in-place re-transcription. Instances share no mutable
// state and may be solved concurrently on independent goroutines.
package transcribe
