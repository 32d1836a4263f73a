package feedgen

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

var (
	adjectives = []string{"amazing", "terrible", "satisfactory", "disappointing", "fantastic"}
	actions    = []string{"bought", "used", "returned", "recommended", "tried"}
	products   = []string{
		"a phone", "a laptop", "a pair of shoes", "a jacket",
		"a meal", "a vacation package", "a coffee machine", "a smartwatch",
	}
	authors = []string{"gage", "ben", "lyman", "chris", "kyle", "alice"}

	productCategories = map[string]string{
		"phone":      "electronics",
		"laptop":     "electronics",
		"shoes":      "fashion",
		"jacket":     "fashion",
		"meal":       "food",
		"vacation":   "travel",
		"coffee":     "kitchen",
		"smartwatch": "electronics",
	}
)

// Generator produces synthetic customer-feedback lines in the pipeline's
// key=value wire format. Dev tooling only.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

func New(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

// Next returns one feed line, newline not included.
func (g *Generator) Next() string {
	adjective := g.pick(adjectives)
	action := g.pick(actions)
	product := g.pick(products)
	author := g.pick(authors)

	body := fmt.Sprintf("I just %s %s! It was %s.", action, product, adjective)
	category := categoryFor(product)

	return fmt.Sprintf("timestamp=%s|author=%s|category=%s|body=%s",
		g.now().Format("2006-01-02 15:04:05"),
		author,
		category,
		body,
	)
}

func (g *Generator) pick(options []string) string {
	return options[g.rng.Intn(len(options))]
}

func categoryFor(product string) string {
	for keyword, category := range productCategories {
		if strings.Contains(product, keyword) {
			return category
		}
	}
	return "other"
}
