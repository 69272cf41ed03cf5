package experiments

// Winner is the report's decision between the two arms.
type Winner string

const (
	WinnerA            Winner = "A"
	WinnerB            Winner = "B"
	WinnerTie          Winner = "TIE"
	WinnerInsufficient Winner = "INSUFFICIENT_DATA"
)

// upliftThreshold is the relative conversion-rate difference (percent)
// required before either arm is declared the winner. A design parameter,
// distinct from the statistical confidence figure.
const upliftThreshold = 10.0

// VariantReport is one arm's counters with derived rates.
type VariantReport struct {
	Metrics
	ConversionRate   float64 `json:"conversionRate"`
	ClickThroughRate float64 `json:"clickThroughRate"`
}

// Report is the comparison between both arms. It is a view over the current
// counters, recomputed per call and never persisted.
type Report struct {
	VariantA      VariantReport `json:"variantA"`
	VariantB      VariantReport `json:"variantB"`
	Uplift        float64       `json:"uplift"` // relative CR difference of B over A, percent
	Winner        Winner        `json:"winner"`
	Confidence    float64       `json:"confidence"` // percent, two-proportion z-test on the leading arm
	TotalVisitors int64         `json:"totalVisitors"`
}

// Report derives the comparison from the current counters. All divisions are
// guarded: zero views yields zero rates and, where the uplift denominator
// vanishes, the winner is INSUFFICIENT_DATA rather than a division error.
func (t *Tracker) Report() Report {
	a, b := t.Metrics()

	ra := variantReport(a)
	rb := variantReport(b)

	rep := Report{
		VariantA:      ra,
		VariantB:      rb,
		TotalVisitors: a.Views + b.Views,
	}

	switch {
	case a.Views == 0 || b.Views == 0:
		rep.Winner = WinnerInsufficient
		rep.Confidence = 50
	case ra.ConversionRate == 0 && rb.ConversionRate == 0:
		rep.Winner = WinnerTie
		rep.Confidence = 50
	case ra.ConversionRate == 0:
		// Uplift over a zero baseline is undefined; refuse to declare B
		// the winner on it.
		rep.Winner = WinnerInsufficient
		rep.Confidence = confidencePercent(a, b)
	default:
		rep.Uplift = (rb.ConversionRate - ra.ConversionRate) / ra.ConversionRate * 100
		switch {
		case rep.Uplift > upliftThreshold:
			rep.Winner = WinnerB
		case rep.Uplift < -upliftThreshold:
			rep.Winner = WinnerA
		default:
			rep.Winner = WinnerTie
		}
		rep.Confidence = confidencePercent(a, b)
	}

	return rep
}

func variantReport(m Metrics) VariantReport {
	r := VariantReport{Metrics: m}
	if m.Views > 0 {
		r.ConversionRate = float64(m.Reservations) / float64(m.Views)
		r.ClickThroughRate = float64(m.CTAClicks) / float64(m.Views)
	}
	return r
}

// confidencePercent runs the z-test with the leading arm first, so the
// figure always reads "how sure are we the leader actually leads".
func confidencePercent(a, b Metrics) float64 {
	crA := rate(a.Reservations, a.Views)
	crB := rate(b.Reservations, b.Views)

	var conf float64
	if crB >= crA {
		conf = twoProportionZTest(b.Reservations, b.Views, a.Reservations, a.Views)
	} else {
		conf = twoProportionZTest(a.Reservations, a.Views, b.Reservations, b.Views)
	}
	return conf * 100
}

func rate(num, den int64) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
