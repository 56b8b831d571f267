package pricing

import "testing"

func TestExpectedMove(t *testing.T) {
	tests := []struct {
		name       string
		underlying float64
		vol        float64
		days       float64
		want       float64
	}{
		{"30 days", 100, 0.2, 30, 5.733822},
		{"zero days", 100, 0.2, 0, 0},
		{"negative days", 100, 0.2, -5, 0},
		{"full year", 100, 0.2, 365, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpectedMove(tt.underlying, tt.vol, tt.days)
			if !almostEqual(got, tt.want, tolerance) {
				t.Errorf("ExpectedMove = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestPriceProbability(t *testing.T) {
	tests := []struct {
		name   string
		strike float64
		want   float64
	}{
		{"at the money", 100, 0.517151},
		{"below the money", 90, 0.969982},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceProbability(100, tt.strike, 30, 0.2, 0.05)
			if !almostEqual(got, tt.want, tolerance) {
				t.Errorf("PriceProbability = %f, want %f", got, tt.want)
			}
		})
	}
}
