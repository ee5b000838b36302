// Package distributions wraps gonum's stat/distuv distributions behind a
// small functional surface, each taking an explicit entropy source rather
// than drawing from a shared global generator. Callers are expected to pass
// a Sandbox's own RNG stream (Sandbox.RNG()), keeping every draw
// attributable to, and reproducible from, that sandbox's seed.
package distributions

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Exponential draws from an exponential distribution with the given rate
// (events per hour, for interarrival/service-time modeling).
func Exponential(rate float64, src rand.Source) float64 {
	return distuv.Exponential{Rate: rate, Src: src}.Rand()
}

// Normal draws from a normal distribution with mean mu and standard
// deviation sigma.
func Normal(mu, sigma float64, src rand.Source) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: src}.Rand()
}

// Poisson draws from a Poisson distribution with rate lambda.
func Poisson(lambda float64, src rand.Source) float64 {
	return distuv.Poisson{Lambda: lambda, Src: src}.Rand()
}

// Uniform draws from a uniform distribution over [min, max).
func Uniform(min, max float64, src rand.Source) float64 {
	return distuv.Uniform{Min: min, Max: max, Src: src}.Rand()
}

// Geometric draws the number of Bernoulli(p) trials until and including the
// first success. gonum's distuv package has no geometric distribution, so
// this one helper is built directly on math/rand rather than gonum.
func Geometric(p float64, src rand.Source) int {
	r := rand.New(src)
	trials := 1
	for r.Float64() >= p {
		trials++
	}
	return trials
}
