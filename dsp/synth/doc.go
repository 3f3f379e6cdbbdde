// Package synth generates test and augmentation signals: sines and white
// noise, banks of time-varying sinusoidal oscillators, harmonic pitch
// extension and ADSR amplitude envelopes.
package synth
