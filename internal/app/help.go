package app

import (
	"math/rand"
	"sort"
)

// audienceDistribution produces vote percentages for all four letters. The
// percentages are random but always sum to 100 and the correct letter never
// polls below any other letter.
func audienceDistribution(rnd *rand.Rand, correct string) map[string]int {
	weights := make([]int, len(letters))
	sum := 0
	maxIdx := 0
	for i := range weights {
		weights[i] = 1 + rnd.Intn(100)
		sum += weights[i]
		if weights[i] > weights[maxIdx] {
			maxIdx = i
		}
	}

	// Hand the largest weight to the correct letter; scaling preserves order.
	correctIdx := letterIndex(correct)
	weights[correctIdx], weights[maxIdx] = weights[maxIdx], weights[correctIdx]

	votes := make(map[string]int, len(letters))
	assigned := 0
	for i, letter := range letters {
		share := weights[i] * 100 / sum
		votes[letter] = share
		assigned += share
	}
	// Rounding remainder goes to the correct letter, keeping it on top.
	votes[correct] += 100 - assigned
	return votes
}

// fiftyFiftyPair returns the correct letter plus one wrong letter chosen
// uniformly from the remaining three.
func fiftyFiftyPair(rnd *rand.Rand, correct string) []string {
	wrong := make([]string, 0, len(letters)-1)
	for _, letter := range letters {
		if letter != correct {
			wrong = append(wrong, letter)
		}
	}
	pair := []string{correct, wrong[rnd.Intn(len(wrong))]}
	sort.Strings(pair)
	return pair
}

func letterIndex(letter string) int {
	for i, l := range letters {
		if l == letter {
			return i
		}
	}
	return 0
}
