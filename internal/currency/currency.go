package currency

import "errors"

var ErrUnsupported = errors.New("unsupported currency")

// Currency is a display currency the storefront can price carts in.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

var supported = []Currency{
	{Code: "USD", Symbol: "$", Name: "US Dollar"},
	{Code: "NGN", Symbol: "₦", Name: "Nigerian Naira"},
	{Code: "EUR", Symbol: "€", Name: "Euro"},
	{Code: "GBP", Symbol: "£", Name: "British Pound"},
}

func List() []Currency {
	out := make([]Currency, len(supported))
	copy(out, supported)
	return out
}

func Get(code string) (Currency, error) {
	for _, c := range supported {
		if c.Code == code {
			return c, nil
		}
	}
	return Currency{}, ErrUnsupported
}

func Supported(code string) bool {
	_, err := Get(code)
	return err == nil
}
