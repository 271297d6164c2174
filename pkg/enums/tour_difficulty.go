package enums

import "fmt"

// TourDifficulty grades how demanding a tour is.
type TourDifficulty string

const (
	TourDifficultyEasy      TourDifficulty = "easy"
	TourDifficultyMedium    TourDifficulty = "medium"
	TourDifficultyDifficult TourDifficulty = "difficult"
)

var validTourDifficulties = []TourDifficulty{
	TourDifficultyEasy,
	TourDifficultyMedium,
	TourDifficultyDifficult,
}

func (d TourDifficulty) String() string {
	return string(d)
}

func (d TourDifficulty) IsValid() bool {
	for _, candidate := range validTourDifficulties {
		if candidate == d {
			return true
		}
	}
	return false
}

func ParseTourDifficulty(value string) (TourDifficulty, error) {
	for _, candidate := range validTourDifficulties {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tour difficulty %q", value)
}
