package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	CategoriesPerRound = 6
	ValuesPerCategory  = 5
	TotalCellsPerRound = CategoriesPerRound * ValuesPerCategory

	MinDailyDoubleWager = 5
)

var ErrBadCellID = errors.New("malformed cell id")

// CellID encodes a board position as "{categoryIndex}-{valueIndex}".
func CellID(categoryIndex, valueIndex int) string {
	return fmt.Sprintf("%d-%d", categoryIndex, valueIndex)
}

func ParseCellID(cellID string) (categoryIndex, valueIndex int, err error) {
	parts := strings.SplitN(cellID, "-", 2)
	if len(parts) != 2 {
		return 0, 0, ErrBadCellID
	}
	categoryIndex, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, ErrBadCellID
	}
	valueIndex, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, ErrBadCellID
	}
	if categoryIndex < 0 || categoryIndex >= CategoriesPerRound ||
		valueIndex < 0 || valueIndex >= ValuesPerCategory {
		return 0, 0, ErrBadCellID
	}
	return categoryIndex, valueIndex, nil
}

func ValidCellID(cellID string) bool {
	_, _, err := ParseCellID(cellID)
	return err == nil
}
