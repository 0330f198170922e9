package models

type LocaleConfig struct {
	Country        string `json:"country"`
	CountryCode    string `json:"countryCode"`
	Market         string `json:"market"`
	CurrencyTitle  string `json:"currencyTitle"`
	Currency       string `json:"currency"`
	CurrencySymbol string `json:"currencySymbol"`
	Site           string `json:"site"`
}

func (c LocaleConfig) Settings() LocaleSettings {
	return LocaleSettings{
		CountryCode: c.CountryCode,
		Market:      c.Market,
		Currency:    c.Currency,
	}
}
