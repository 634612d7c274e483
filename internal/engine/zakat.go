package engine

import (
	"errors"

	"github.com/noorweb/noorweb/internal/config"
)

// ErrNegativeAmount rejects negative asset or debt values.
var ErrNegativeAmount = errors.New(config.ErrNegativeAmount)

// Assets are the zakatable holdings, in one local currency.
type Assets struct {
	Cash        float64 `json:"cash"`
	Gold        float64 `json:"gold"`
	Silver      float64 `json:"silver"`
	Investments float64 `json:"investments"`
}

// ZakatResult is the breakdown of a computation.
type ZakatResult struct {
	TotalAssets float64 `json:"totalAssets"`
	TotalDebts  float64 `json:"totalDebts"`
	NetWealth   float64 `json:"netWealth"`
	Payable     float64 `json:"payable"`
	Due         bool    `json:"due"`
}

// Zakat computes the payable amount. Nothing is due when net wealth is not
// positive or falls below nisab; a zero nisab disables the threshold.
func Zakat(a Assets, debts, nisab float64) (ZakatResult, error) {
	if a.Cash < 0 || a.Gold < 0 || a.Silver < 0 || a.Investments < 0 || debts < 0 || nisab < 0 {
		return ZakatResult{}, ErrNegativeAmount
	}
	r := ZakatResult{
		TotalAssets: a.Cash + a.Gold + a.Silver + a.Investments,
		TotalDebts:  debts,
	}
	r.NetWealth = r.TotalAssets - r.TotalDebts
	if r.NetWealth > 0 && r.NetWealth >= nisab {
		r.Due = true
		r.Payable = r.NetWealth * config.ZakatRate
	}
	return r, nil
}
