package export

import (
	"strings"

	"github.com/shopspring/decimal"
)

// comma formats v with the given number of decimals and a comma as
// decimal separator.
func comma(v float64, places int32) string {
	return strings.Replace(decimal.NewFromFloat(v).StringFixed(places), ".", ",", 1)
}

// commaShort formats v with the fewest digits that represent it.
func commaShort(v float64) string {
	return strings.Replace(decimal.NewFromFloat(v).String(), ".", ",", 1)
}
