package experiments

import "math"

// twoProportionZTest returns the probability (0..1) that the first
// proportion genuinely exceeds the second, via a pooled two-proportion
// z-test. 0.5 means the data cannot tell the variants apart.
func twoProportionZTest(conv1, views1, conv2, views2 int64) float64 {
	if views1 == 0 || views2 == 0 {
		return 0.5
	}

	p1 := float64(conv1) / float64(views1)
	p2 := float64(conv2) / float64(views2)

	// Pooled proportion under the null hypothesis p1 == p2.
	pooled := float64(conv1+conv2) / float64(views1+views2)
	se := math.Sqrt(pooled * (1 - pooled) * (1/float64(views1) + 1/float64(views2)))

	if se == 0 {
		switch {
		case p1 > p2:
			return 1.0
		case p1 < p2:
			return 0.0
		default:
			return 0.5
		}
	}

	z := (p1 - p2) / se
	return normalCDF(z)
}

// normalCDF approximates the standard normal CDF using Abramowitz &
// Stegun formula 7.1.26.
func normalCDF(x float64) float64 {
	a1 := 0.254829592
	a2 := -0.284496736
	a3 := 1.421413741
	a4 := -1.453152027
	a5 := 1.061405429
	p := 0.3275911

	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	x = math.Abs(x) / math.Sqrt2

	t := 1.0 / (1.0 + p*x)
	y := 1.0 - (((((a5*t+a4)*t)+a3)*t+a2)*t+a1)*t*math.Exp(-x*x)

	return 0.5 * (1.0 + sign*y)
}
