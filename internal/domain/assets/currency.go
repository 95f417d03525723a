package assets

import "github.com/shopspring/decimal"

// BaseCurrency is the currency all cross-currency aggregates normalize
// into. The rate table is static by design; live quotes are out of scope.
const BaseCurrency = "CNY"

var exchangeRates = map[string]decimal.Decimal{
	"CNY": decimal.NewFromInt(1),
	"HKD": decimal.RequireFromString("0.92"),
	"USD": decimal.RequireFromString("7.25"),
	"GBP": decimal.RequireFromString("9.15"),
	"EUR": decimal.RequireFromString("7.85"),
	"JPY": decimal.RequireFromString("0.048"),
}

func KnownCurrency(code string) bool {
	_, ok := exchangeRates[code]
	return ok
}

// toBase converts an amount into the base currency via the static table:
// amount * rate[currency] / rate[base].
func toBase(amount decimal.Decimal, currency string) decimal.Decimal {
	if currency == BaseCurrency {
		return amount
	}
	rate, ok := exchangeRates[currency]
	if !ok {
		return amount
	}
	return amount.Mul(rate).Div(exchangeRates[BaseCurrency])
}
