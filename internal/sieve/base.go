package sieve

import "bytes"

// Sieve returns every prime below n in ascending order using a plain
// odd-only Sieve of Eratosthenes: index i of the byte array stands for the
// odd number 2i+3, and 2 is prepended. It uses about n/2 bytes.
//
// Sieve(n) is empty for n ≤ 2 and [2] for n = 3.
func Sieve(n uint64) []uint64 {
	if n <= 2 {
		return nil
	}
	if n <= 3 {
		return []uint64{2}
	}

	size := int((n - 2) / 2) // odd numbers in [3, n)
	marks := make([]byte, size)
	for i := range marks {
		marks[i] = 1
	}

	limit := isqrt(n)
	for p := uint64(3); p <= limit; p += 2 {
		if marks[(p-3)/2] == 0 {
			continue
		}
		for j := int((p*p - 3) / 2); j < size; j += int(p) {
			marks[j] = 0
		}
	}

	primes := make([]uint64, 0, EstimatePrimeCount(n))
	primes = append(primes, 2)
	return appendSurvivors(primes, marks, 3)
}

// appendSurvivors appends origin+2i for every i with marks[i] == 1.
func appendSurvivors(dst []uint64, marks []byte, origin uint64) []uint64 {
	idx := 0
	for idx < len(marks) {
		pos := bytes.IndexByte(marks[idx:], 1)
		if pos < 0 {
			break
		}
		idx += pos
		dst = append(dst, origin+2*uint64(idx))
		idx++
	}
	return dst
}

// BasePrimes returns the odd primes up to ⌊√n⌋, the seed set every segment
// of a bound-n sieve is marked with. The prime 2 is excluded because
// segments only index odd numbers.
func BasePrimes(n uint64) []uint64 {
	all := Sieve(isqrt(n) + 1)
	if len(all) == 0 {
		return nil
	}
	return all[1:]
}

// IsPrime reports whether v is prime by trial division. It is the
// independent oracle used to check sieve output.
func IsPrime(v uint64) bool {
	if v < 2 {
		return false
	}
	if v%2 == 0 {
		return v == 2
	}
	for d := uint64(3); d <= v/d; d += 2 {
		if v%d == 0 {
			return false
		}
	}
	return true
}
