package utils

import (
    "math"
    "strconv"
)

func Round(value float64) float64 {
    return math.Round(value*100) / 100
}

func FormatAmount(amount float64) string {
    return strconv.FormatFloat(Round(amount), 'f', 2, 64)
}
