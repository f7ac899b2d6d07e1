// Package quotes supplies the rotating motivational messages.
package quotes

import "math/rand"

var quotes = []string{
	"Just begin.",
	"Small steps every day lead to big results.",
	"Consistency beats intensity.",
	"Discipline improves when you practise it gently.",
	"Even small progress counts. Keep going.",
}

// Random picks one quote.
func Random(r *rand.Rand) string {
	return quotes[r.Intn(len(quotes))]
}
