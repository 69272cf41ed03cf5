package experiments

import (
	"math"
	"testing"
)

func TestTwoProportionZTestClearWinner(t *testing.T) {
	// 10% vs 5% conversion over 1000 views each is decisive.
	conf := twoProportionZTest(100, 1000, 50, 1000)
	if conf < 0.95 {
		t.Errorf("expected confidence >= 0.95, got %f", conf)
	}
}

func TestTwoProportionZTestEqualRates(t *testing.T) {
	conf := twoProportionZTest(50, 1000, 50, 1000)
	if math.Abs(conf-0.5) > 0.01 {
		t.Errorf("expected ~0.5 for equal rates, got %f", conf)
	}
}

func TestTwoProportionZTestSmallSample(t *testing.T) {
	// Different rates but tiny samples must not read as significant.
	conf := twoProportionZTest(5, 20, 2, 20)
	if conf > 0.95 {
		t.Errorf("expected < 0.95 for a 20-view sample, got %f", conf)
	}
}

func TestTwoProportionZTestZeroViews(t *testing.T) {
	for _, c := range [][4]int64{
		{0, 0, 0, 0},
		{10, 100, 0, 0},
		{0, 0, 10, 100},
	} {
		if conf := twoProportionZTest(c[0], c[1], c[2], c[3]); conf != 0.5 {
			t.Errorf("twoProportionZTest(%v) = %f, want 0.5", c, conf)
		}
	}
}

func TestTwoProportionZTestDegenerateSE(t *testing.T) {
	// Both arms convert on every view: pooled variance collapses to zero.
	if conf := twoProportionZTest(100, 100, 50, 50); conf != 0.5 {
		t.Errorf("identical certain rates: got %f, want 0.5", conf)
	}
	// One arm fully converts, the other never does, with real volume.
	if conf := twoProportionZTest(100, 100, 0, 100); conf < 0.99 {
		t.Errorf("total separation: got %f, want ~1", conf)
	}
}

func TestNormalCDFAnchors(t *testing.T) {
	anchors := []struct {
		x    float64
		want float64
	}{
		{0, 0.5},
		{1.96, 0.975},
		{-1.96, 0.025},
		{2.576, 0.995},
	}
	for _, a := range anchors {
		if got := normalCDF(a.x); math.Abs(got-a.want) > 0.001 {
			t.Errorf("normalCDF(%f) = %f, want %f", a.x, got, a.want)
		}
	}
}
