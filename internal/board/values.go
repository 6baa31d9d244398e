package board

import "math/rand"

var round1Values = []int{200, 400, 600, 800, 1000}
var round2Values = []int{400, 800, 1200, 1600, 2000}

func RoundValues(round int) []int {
	if round == 1 {
		return round1Values
	}
	return round2Values
}

// CellValue is the dollar value of the clue at valueIndex for the given round.
func CellValue(round, valueIndex int) int {
	return RoundValues(round)[valueIndex]
}

// MaxClueValue is the highest value on the board for the round: the ceiling
// for Daily Double wagers when the player's score is not above it.
func MaxClueValue(round int) int {
	values := RoundValues(round)
	return values[len(values)-1]
}

func DailyDoubleCount(round int) int {
	if round == 1 {
		return 1
	}
	return 2
}

// GenerateDailyDoubleLocations draws count distinct cell ids uniformly at
// random from the full grid by rejection sampling.
func GenerateDailyDoubleLocations(count int) map[string]bool {
	locations := make(map[string]bool, count)
	for len(locations) < count {
		cellID := CellID(rand.Intn(CategoriesPerRound), rand.Intn(ValuesPerCategory))
		locations[cellID] = true
	}
	return locations
}
