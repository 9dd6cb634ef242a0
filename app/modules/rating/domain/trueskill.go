package ratingdomain

import (
	"cmp"
	"errors"
	"math"
	"slices"

	"github.com/smk-league/smk-rating/app/shared/tunables"
)

const (
	scheduleIterations = 10
	scheduleMinDelta   = 1e-4
)

// ErrInvalidRating is returned for a belief with a non-positive or non-finite sigma.
var ErrInvalidRating = errors.New("invalid rating")

// RatedParticipant is one player entering the belief update.
type RatedParticipant struct {
	Position int
	Rating   Rating
}

// UpdateRatings runs a free-for-all TrueSkill update in which every player is
// a one-member team ordered by Position. Equal positions are treated as
// draws. The result is aligned with the input slice. With fewer than two
// participants the beliefs are returned unchanged.
func UpdateRatings(cfg tunables.Configuration, participants []RatedParticipant) ([]Rating, error) {
	out := make([]Rating, len(participants))
	for i, p := range participants {
		if !(p.Rating.Sigma > 0) || math.IsInf(p.Rating.Sigma, 0) || math.IsNaN(p.Rating.Mu) {
			return nil, ErrInvalidRating
		}
		out[i] = p.Rating
	}
	if len(participants) < 2 {
		return out, nil
	}

	order := make([]int, len(participants))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(participants[a].Position, participants[b].Position)
	})

	sorted := make([]RatedParticipant, len(order))
	for i, idx := range order {
		sorted[i] = participants[idx]
	}

	updated := newRatingGraph(cfg, sorted).run()
	for i, idx := range order {
		out[idx] = updated[i]
	}
	return out, nil
}

// variable is a node of the factor graph. It keeps the last message received
// from each attached factor so that an update can divide the old one out.
type variable struct {
	value    gaussian
	messages map[int]gaussian
}

func newVariable() *variable {
	return &variable{messages: make(map[int]gaussian)}
}

func (v *variable) set(val gaussian) float64 {
	d := v.delta(val)
	v.value = val
	return d
}

func (v *variable) delta(o gaussian) float64 {
	piDelta := math.Abs(v.value.pi - o.pi)
	if math.IsInf(piDelta, 1) {
		return 0
	}
	return math.Max(math.Abs(v.value.tau-o.tau), math.Sqrt(piDelta))
}

func (v *variable) updateMessage(factor int, msg gaussian) float64 {
	old := v.messages[factor]
	v.messages[factor] = msg
	return v.set(v.value.div(old).mul(msg))
}

func (v *variable) updateValue(factor int, val gaussian) float64 {
	old := v.messages[factor]
	v.messages[factor] = val.mul(old).div(v.value)
	return v.set(val)
}

type priorFactor struct {
	id      int
	v       *variable
	rating  Rating
	dynamic float64
}

func (f *priorFactor) down() float64 {
	sigma := math.Sqrt(f.rating.Sigma*f.rating.Sigma + f.dynamic*f.dynamic)
	return f.v.updateValue(f.id, newGaussian(f.rating.Mu, sigma))
}

type likelihoodFactor struct {
	id       int
	mean     *variable
	value    *variable
	variance float64
}

func (f *likelihoodFactor) calcA(g gaussian) float64 {
	return 1 / (1 + f.variance*g.pi)
}

func (f *likelihoodFactor) down() float64 {
	msg := f.mean.value.div(f.mean.messages[f.id])
	a := f.calcA(msg)
	return f.value.updateMessage(f.id, gaussian{pi: a * msg.pi, tau: a * msg.tau})
}

func (f *likelihoodFactor) up() float64 {
	msg := f.value.value.div(f.value.messages[f.id])
	a := f.calcA(msg)
	return f.mean.updateMessage(f.id, gaussian{pi: a * msg.pi, tau: a * msg.tau})
}

// sumFactor links a difference variable to two performances:
// sum = coeffs[0]*terms[0] + coeffs[1]*terms[1].
type sumFactor struct {
	id     int
	sum    *variable
	terms  []*variable
	coeffs []float64
}

func (f *sumFactor) down() float64 {
	return f.update(f.sum, f.terms, f.coeffs)
}

func (f *sumFactor) up(index int) float64 {
	coeff := f.coeffs[index]
	coeffs := make([]float64, len(f.coeffs))
	for x, c := range f.coeffs {
		switch {
		case coeff == 0:
			coeffs[x] = 0
		case x == index:
			coeffs[x] = 1 / coeff
		default:
			coeffs[x] = -c / coeff
		}
	}
	vals := slices.Clone(f.terms)
	vals[index] = f.sum
	return f.update(f.terms[index], vals, coeffs)
}

func (f *sumFactor) update(target *variable, vals []*variable, coeffs []float64) float64 {
	var piInv, mu float64
	for i, v := range vals {
		div := v.value.div(v.messages[f.id])
		mu += coeffs[i] * div.mu()
		if math.IsInf(piInv, 1) {
			continue
		}
		if div.pi == 0 {
			piInv = math.Inf(1)
			continue
		}
		piInv += coeffs[i] * coeffs[i] / div.pi
	}
	pi := 1 / piInv
	return target.updateMessage(f.id, gaussian{pi: pi, tau: pi * mu})
}

type truncateFactor struct {
	id         int
	v          *variable
	vFunc      func(diff, drawMargin float64) float64
	wFunc      func(diff, drawMargin float64) float64
	drawMargin float64
}

func (f *truncateFactor) up() float64 {
	div := f.v.value.div(f.v.messages[f.id])
	sqrtPi := math.Sqrt(div.pi)
	diff, margin := div.tau/sqrtPi, f.drawMargin*sqrtPi
	v := f.vFunc(diff, margin)
	w := f.wFunc(diff, margin)
	denom := 1 - w
	return f.v.updateValue(f.id, gaussian{pi: div.pi / denom, tau: (div.tau + sqrtPi*v) / denom})
}

// ratingGraph holds the layers of the factor graph. With one-member teams a
// player's performance variable doubles as the team performance.
type ratingGraph struct {
	ratings     []*variable
	priors      []*priorFactor
	likelihoods []*likelihoodFactor
	diffs       []*sumFactor
	truncs      []*truncateFactor
	nextID      int
}

func (g *ratingGraph) attach(vars ...*variable) int {
	id := g.nextID
	g.nextID++
	for _, v := range vars {
		v.messages[id] = gaussian{}
	}
	return id
}

func newRatingGraph(cfg tunables.Configuration, sorted []RatedParticipant) *ratingGraph {
	g := &ratingGraph{}
	perfs := make([]*variable, len(sorted))

	for i, p := range sorted {
		rating := newVariable()
		perf := newVariable()
		g.ratings = append(g.ratings, rating)
		perfs[i] = perf

		g.priors = append(g.priors, &priorFactor{
			id: g.attach(rating), v: rating, rating: p.Rating, dynamic: cfg.Tau,
		})
		g.likelihoods = append(g.likelihoods, &likelihoodFactor{
			id: g.attach(rating, perf), mean: rating, value: perf, variance: cfg.Beta * cfg.Beta,
		})
	}

	// Two one-member teams per comparison.
	drawMargin := ppf((cfg.DrawProbability+1)/2) * math.Sqrt(2) * cfg.Beta

	for i := 0; i+1 < len(sorted); i++ {
		diff := newVariable()
		terms := []*variable{perfs[i], perfs[i+1]}
		g.diffs = append(g.diffs, &sumFactor{
			id: g.attach(append([]*variable{diff}, terms...)...), sum: diff, terms: terms, coeffs: []float64{1, -1},
		})

		trunc := &truncateFactor{id: g.attach(diff), v: diff, vFunc: vWin, wFunc: wWin, drawMargin: drawMargin}
		if sorted[i].Position == sorted[i+1].Position {
			trunc.vFunc, trunc.wFunc = vDraw, wDraw
		}
		g.truncs = append(g.truncs, trunc)
	}
	return g
}

func (g *ratingGraph) run() []Rating {
	for _, f := range g.priors {
		f.down()
	}
	for _, f := range g.likelihoods {
		f.down()
	}

	n := len(g.diffs)
	for iter := 0; iter < scheduleIterations; iter++ {
		var delta float64
		if n == 1 {
			g.diffs[0].down()
			delta = g.truncs[0].up()
		} else {
			for x := 0; x < n-1; x++ {
				g.diffs[x].down()
				delta = math.Max(delta, g.truncs[x].up())
				g.diffs[x].up(1)
			}
			for x := n - 1; x > 0; x-- {
				g.diffs[x].down()
				delta = math.Max(delta, g.truncs[x].up())
				g.diffs[x].up(0)
			}
		}
		if delta <= scheduleMinDelta {
			break
		}
	}

	g.diffs[0].up(0)
	g.diffs[n-1].up(1)
	for _, f := range g.likelihoods {
		f.up()
	}

	out := make([]Rating, len(g.ratings))
	for i, v := range g.ratings {
		out[i] = Rating{Mu: v.value.mu(), Sigma: v.value.sigma()}
	}
	return out
}
