// Package motivation serves the one-line encouragement shown above the agenda.
package motivation

import "math/rand/v2"

var messages = []string{
	"Every small step forward is progress. You've got this!",
	"Focus on one task at a time. Quality over quantity.",
	"Your future self will thank you for the work you do today.",
	"Consistency beats perfection. Keep showing up!",
	"Break time is productive time. Don't skip your breaks!",
	"Difficult tasks become easier when you break them down.",
	"You're building great habits. Stay committed!",
	"Peak performance comes from peak preparation.",
	"Challenge yourself, but remember to rest and recharge.",
	"Progress, not perfection. You're doing amazing!",
}

// Messages returns a copy of the message table.
func Messages() []string {
	return append([]string(nil), messages...)
}

// Picker draws messages from a seeded source. The same seed always yields
// the same sequence. A Picker is not safe for concurrent use.
type Picker struct {
	rng *rand.Rand
}

func New(seed uint64) *Picker {
	return &Picker{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *Picker) Next() string {
	return messages[p.rng.IntN(len(messages))]
}
