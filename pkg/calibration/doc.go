// Package calibration defines the legal command orderings of the pipette
// calibration workflows. It contains:
//
//   - Command: the alphabet of commands a calibration session accepts
//   - State: the discrete steps of each workflow
//   - PipetteOffsetTransitions / PipetteOffsetWithTipLengthTransitions:
//     copies of the declarative transition tables
//   - StateMachine: the legality gate a session consults before applying
//     any command's side effects
//
// The tables themselves are fixed; callers get copies to enumerate.
package calibration
