package ratingdomain

import "math"

// gaussian is stored in natural parameters: precision pi = 1/sigma^2 and
// precision-adjusted mean tau = pi*mu. Products and quotients of Gaussians
// are then sums and differences.
type gaussian struct {
	pi  float64
	tau float64
}

func newGaussian(mu, sigma float64) gaussian {
	pi := 1 / (sigma * sigma)
	return gaussian{pi: pi, tau: pi * mu}
}

func (g gaussian) mu() float64 {
	if g.pi == 0 {
		return 0
	}
	return g.tau / g.pi
}

func (g gaussian) sigma() float64 {
	if g.pi == 0 {
		return math.Inf(1)
	}
	return math.Sqrt(1 / g.pi)
}

func (g gaussian) mul(o gaussian) gaussian {
	return gaussian{pi: g.pi + o.pi, tau: g.tau + o.tau}
}

func (g gaussian) div(o gaussian) gaussian {
	return gaussian{pi: g.pi - o.pi, tau: g.tau - o.tau}
}

func cdf(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

func pdf(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

func ppf(p float64) float64 {
	return -math.Sqrt2 * math.Erfcinv(2*p)
}

// wEpsilon keeps the truncation variance factor inside (0, 1) when one
// player's belief dwarfs the other's and the tails underflow.
const wEpsilon = 1e-9

func clampW(w float64) float64 {
	switch {
	case math.IsNaN(w), w <= 0:
		return wEpsilon
	case w >= 1:
		return 1 - wEpsilon
	default:
		return w
	}
}

func vWin(diff, drawMargin float64) float64 {
	x := diff - drawMargin
	denom := cdf(x)
	if denom == 0 {
		return -x
	}
	return pdf(x) / denom
}

func wWin(diff, drawMargin float64) float64 {
	x := diff - drawMargin
	v := vWin(diff, drawMargin)
	return clampW(v * (v + x))
}

func vDraw(diff, drawMargin float64) float64 {
	absDiff := math.Abs(diff)
	a, b := drawMargin-absDiff, -drawMargin-absDiff
	denom := cdf(a) - cdf(b)
	v := a
	if denom != 0 {
		v = (pdf(b) - pdf(a)) / denom
	}
	if diff < 0 {
		return -v
	}
	return v
}

func wDraw(diff, drawMargin float64) float64 {
	absDiff := math.Abs(diff)
	a, b := drawMargin-absDiff, -drawMargin-absDiff
	denom := cdf(a) - cdf(b)
	if denom == 0 {
		return 1 - wEpsilon
	}
	v := vDraw(absDiff, drawMargin)
	return clampW(v*v + (a*pdf(a)-b*pdf(b))/denom)
}
