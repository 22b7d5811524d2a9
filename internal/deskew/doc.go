// Package deskew estimates and corrects page rotation for scanned or
// photographed sequential-art pages.
//
// Two independent estimators are provided: a Hough line-voting estimator
// (panel borders and speech-bubble edges are predominantly horizontal or
// vertical, so the dominant line angle tracks page skew) and a
// projection-profile estimator (text rows and columns produce sharp peaks in
// the ink projection when the projection axis matches the text direction).
// When no method is forced, both run and the higher-confidence result wins.
//
// A text-orientation classifier runs first so the search can be biased
// toward the correct axis: horizontal text rows band the vertical projection,
// vertical (CJK) text bands the horizontal projection.
//
// # Angle Convention
//
// Skew angles are in degrees. A positive angle means page content descends to
// the right in image coordinates (y down); correction rotates by the negated
// angle. Estimates are clamped to ±Config.MaxAngle with confidence halved
// when clamping occurred.
//
// # Concurrency
//
// A Deskewer holds only configuration; every call allocates its own working
// buffers, so a single Deskewer may be shared across goroutines.
package deskew
