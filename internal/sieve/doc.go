// Package sieve generates every prime below an exclusive bound N.
//
// Three algorithms share one odd-only marking scheme and must agree exactly
// on their output:
//
//   - [Sieve], a plain Sieve of Eratosthenes using O(N/2) bytes, used for
//     small bounds and to produce base primes for the other two.
//   - [Segmented], which sweeps [0, N) in fixed-size segments with a single
//     reusable scratch buffer, using O(√N + segment) working memory.
//   - [Parallel], which distributes the same segments over a worker pool,
//     each worker owning one scratch buffer, and reassembles the per-segment
//     results by index so the output is identical to [Segmented] whatever the
//     completion order.
//
// [Choose] maps a bound and a parallel flag to one of them; [Generate] and
// [Generator] run the chosen algorithm.
package sieve
