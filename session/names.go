package session

import (
	"math/rand"
	"strings"
)

// RandomNames are handed to players who leave their name blank.
var RandomNames = []string{
	"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot", "Golf", "Hotel",
	"India", "Juliet", "Kilo", "Lima", "Mike", "November", "Oscar", "Papa",
	"Quebec", "Romeo", "Sierra", "Tango", "Uniform", "Victor", "Whiskey",
	"Xray", "Yankee", "Zulu",
	"Ace", "Blaze", "Cipher", "Drake", "Ember", "Frost", "Ghost", "Hunter",
	"Iron", "Jade", "Knight", "Luna", "Maverick", "Nova", "Phoenix", "Raven",
	"Shadow", "Storm", "Tiger", "Viper", "Wolf", "Zen",
}

// PlayerNames trims both names and replaces blank ones with a random call-sign.
// The two players never end up with the same random name.
func PlayerNames(names [2]string, rng *rand.Rand) [2]string {
	var out [2]string
	for i, n := range names {
		out[i] = strings.TrimSpace(n)
	}
	for i := range out {
		for out[i] == "" || (i == 1 && out[1] == out[0] && strings.TrimSpace(names[1]) == "") {
			out[i] = RandomNames[rng.Intn(len(RandomNames))]
		}
	}
	return out
}
