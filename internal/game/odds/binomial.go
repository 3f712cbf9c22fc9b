// Package odds computes exact drop and roll probabilities for the odds
// commands.
package odds

import "math/big"

// precision is the mantissa size used for intermediate probability products.
const precision = 256

// Binomial returns the binomial coefficient C(n, k), computed iteratively
// with exact integer arithmetic.
//
// Postcondition: Returns 0 when k > n; C(n, 0) == C(n, n) == 1.
func Binomial(n, k uint64) *big.Int {
	if k > n {
		return big.NewInt(0)
	}
	if k > n-k {
		k = n - k
	}
	c := big.NewInt(1)
	var num, den big.Int
	for i := uint64(0); i < k; i++ {
		num.SetUint64(n - i)
		den.SetUint64(i + 1)
		c.Mul(c, &num)
		c.Quo(c, &den)
	}
	return c
}

// Bernoulli returns the probability of exactly k successes in n independent
// trials with success probability p: C(n,k) * p^k * (1-p)^(n-k).
//
// Precondition: 0 <= p <= 1.
func Bernoulli(n, k uint64, p float64) float64 {
	f, _ := bernoulli(n, k, p).Float64()
	return f
}

func bernoulli(n, k uint64, p float64) *big.Float {
	if k > n {
		return newFloat(0)
	}
	c := new(big.Float).SetPrec(precision).SetInt(Binomial(n, k))
	c.Mul(c, pow(p, k))
	c.Mul(c, pow(1-p, n-k))
	return c
}

func newFloat(x float64) *big.Float {
	return new(big.Float).SetPrec(precision).SetFloat64(x)
}

// pow raises x to the non-negative integer power e by squaring.
func pow(x float64, e uint64) *big.Float {
	result := newFloat(1)
	base := newFloat(x)
	for e > 0 {
		if e&1 == 1 {
			result.Mul(result, base)
		}
		base.Mul(base, base)
		e >>= 1
	}
	return result
}

// AtLeast returns the probability of k or more successes in n trials, along
// with the probability of exactly k.
//
// Precondition: 0 <= p < 1; k <= n.
func AtLeast(n, k uint64, p float64) (exact, atLeast float64) {
	term := bernoulli(n, k, p)
	exact, _ = term.Float64()

	sum := new(big.Float).SetPrec(precision).Set(term)
	odds := newFloat(p)
	odds.Quo(odds, newFloat(1-p))
	var step big.Float
	step.SetPrec(precision)
	for i := k; i < n; i++ {
		// P(i+1) = P(i) * (n-i)/(i+1) * p/(1-p)
		step.SetUint64(n - i)
		term.Mul(term, &step)
		step.SetUint64(i + 1)
		term.Quo(term, &step)
		term.Mul(term, odds)
		sum.Add(sum, term)
	}
	atLeast, _ = sum.Float64()
	return exact, min(atLeast, 1)
}
