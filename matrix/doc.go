// SPDX-License-Identifier: MIT

// Package matrix provides a small row-major dense float64 matrix.
//
// What & Why:
//
//	The CTMC engine needs exactly two dense tables: the generator Q of the
//	forward equations (2^n × 2^n, printed by ctmc graph --generator) and
//	the sampled probability trajectory (points × 2^n). Dense keeps both in
//	one flat buffer with the explicit offset formula i*cols + j.
//
// Safety:
//
//	At/Set/Row/SetRow return sentinel errors instead of panicking. Set and
//	SetRow reject NaN/±Inf (ErrNaNInf) so a trajectory never silently stores
//	a non-finite probability.
//
// Complexity:
//
//	NewDense O(r*c); At/Set O(1); Row/Col/SetRow O(c) or O(r);
//	RowSums O(r*c); String O(r*c).
package matrix
