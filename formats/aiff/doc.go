// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes Audio Interchange File Format files.
//
// This package uses github.com/go-audio/aiff to parse the container. Only
// uncompressed integer PCM of 16, 24 or 32 bits is accepted. Samples are
// big-endian on disk; go-audio hands them over as integers and the decoder
// stores them little-endian in the requested sample format.
//
// # Decoding AIFF Files
//
//	dec, err := aiff.InitFile("audio.aiff", nil)
//	if err != nil {
//	    // Handle error
//	}
//	defer dec.Close()
//
// Seeking works the way it does for formats/wav: the source is rewound and
// decoded forward to the target frame.
package aiff
