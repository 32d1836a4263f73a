package sentiment

// Token polarities in [-1.0, 1.0]. The exact word list is tuned for the
// customer-feedback feed; scoring stays correct for any lexicon as long as
// every polarity is within range.
var polarities = map[string]float64{
	"amazing":       0.9,
	"fantastic":     0.9,
	"excellent":     0.9,
	"love":          0.8,
	"loved":         0.8,
	"great":         0.7,
	"recommended":   0.6,
	"good":          0.5,
	"nice":          0.4,
	"satisfactory":  0.3,
	"fine":          0.2,
	"okay":          0.1,
	"returned":      -0.3,
	"bad":           -0.5,
	"broken":        -0.6,
	"poor":          -0.6,
	"disappointing": -0.7,
	"hate":          -0.8,
	"hated":         -0.8,
	"terrible":      -0.9,
	"awful":         -0.9,
	"best":          1.0,
	"worst":         -1.0,
}

// Product vocabulary for keyword mention extraction.
var vocabulary = []string{
	"coffee",
	"jacket",
	"laptop",
	"meal",
	"phone",
	"shoes",
	"smartwatch",
	"vacation",
}
