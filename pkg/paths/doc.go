// Package paths builds the park's walkway network.
//
// A [NewCurve] call turns two boundary samples into a jittered polyline; the
// jitter is scaled by the curve's length so short and long paths look equally
// wavy. [Generate] picks endpoint pairs on two different edges of the domain
// and returns one [park.Path] per pair, each owning its own curve.
//
// All randomness comes from the *rand.Rand passed in, so a fixed seed yields a
// fixed network.
package paths
