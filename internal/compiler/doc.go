// Package compiler turns CUE preset files into composition requests.
//
// A preset directory holds .cue files declaring named presets:
//
//	preset: lullaby: {
//		seed:          "lullaby"
//		key:           "F"
//		scale:         "major"
//		progression:   "I-vi-IV-V"
//		steps:         32
//		steps_per_bar: 8
//	}
//
// CompilePreset parses one preset value and fails fast on the first
// malformed field. Validate reports every semantic problem of a compiled
// preset at once.
package compiler
